package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/company-brief/pkg/serp"
)

// fallbackPaths are the guessed informational pages tried when search yields
// nothing usable. Ordered roughly by how often advisory firms carry them.
var fallbackPaths = []string{
	"/about",
	"/about-us",
	"/company",
	"/mission",
	"/our-story",
	"/team",
	"/our-team",
	"/leadership",
	"/people",
	"/advisors",
	"/services",
	"/fees",
	"/investment-strategy",
	"/contact",
}

// Locator finds candidate informational URLs for a company.
type Locator struct {
	serp       serp.Client
	maxResults int
}

// NewLocator creates a Locator over the given search client.
func NewLocator(client serp.Client, maxResults int) *Locator {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Locator{serp: client, maxResults: maxResults}
}

// Locate returns candidate URLs in ranking order. A search restricted to the
// company's domain runs first; when it errors or comes back empty, the guessed
// fallback paths on the domain are used instead. Locate never fails: the
// fallback list is always available.
func (l *Locator) Locate(ctx context.Context, companyName, domain string) []string {
	query := fmt.Sprintf("%s site:%s (about OR mission OR leadership OR team OR vision)", companyName, domain)

	resp, err := l.serp.Search(ctx, query, l.maxResults)
	if err != nil {
		zap.L().Warn("locate: search failed, using fallback paths",
			zap.String("domain", domain),
			zap.Error(err),
		)
		return FallbackURLs(domain)
	}

	urls := make([]string, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		if r.Link != "" {
			urls = append(urls, r.Link)
		}
	}
	if len(urls) == 0 {
		zap.L().Info("locate: no organic results, using fallback paths",
			zap.String("domain", domain),
		)
		return FallbackURLs(domain)
	}

	zap.L().Debug("locate: search results",
		zap.String("domain", domain),
		zap.Int("count", len(urls)),
	)
	return urls
}

// FallbackURLs expands the guessed paths against a domain.
func FallbackURLs(domain string) []string {
	urls := make([]string, 0, len(fallbackPaths))
	for _, p := range fallbackPaths {
		urls = append(urls, "https://"+domain+p)
	}
	return urls
}
