package research

import "strings"

// NormalizeWebsite ensures the website carries an explicit scheme and derives
// the bare domain used for site-restricted searches and guessed paths.
// Idempotent: feeding the returned website back in yields the same result.
func NormalizeWebsite(raw string) (website, domain string) {
	website = strings.TrimSpace(raw)
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}

	domain = strings.TrimPrefix(website, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.Index(domain, "/"); i >= 0 {
		domain = domain[:i]
	}

	return website, domain
}
