package research

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/company-brief/internal/config"
	"github.com/sells-group/company-brief/internal/model"
	"github.com/sells-group/company-brief/internal/store"
)

// maxBodyBytes caps how much of a page body is read before parsing.
const maxBodyBytes = 1 << 20 // 1 MiB

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// Scraper fetches pages and extracts their visible text, memoizing results
// per URL through the store-backed cache.
type Scraper struct {
	http  *http.Client
	store store.Store
	cfg   config.ScrapeConfig
}

// NewScraper creates a Scraper using the given cache store and settings.
func NewScraper(st store.Store, cfg config.ScrapeConfig) *Scraper {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		http:  &http.Client{Timeout: timeout},
		store: st,
		cfg:   cfg,
	}
}

// Scrape returns the extracted text of a URL. Fetch and parse failures are
// logged and yield an empty string; a single bad page never fails a run.
// Results, including empty ones, are cached so repeat requests for the same
// URL skip the outbound fetch until the entry expires.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) string {
	if cached, err := s.store.GetCachedPage(ctx, pageURL); err != nil {
		zap.L().Warn("scrape: cache lookup failed", zap.String("url", pageURL), zap.Error(err))
	} else if cached != nil {
		zap.L().Debug("scrape: cache hit", zap.String("url", pageURL))
		return cached.Text
	}

	text := s.fetch(ctx, pageURL)

	ttl := time.Duration(s.cfg.CacheTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := s.store.SetCachedPage(ctx, pageURL, text, ttl); err != nil {
		zap.L().Warn("scrape: cache write failed", zap.String("url", pageURL), zap.Error(err))
	}
	if _, err := s.store.PrunePages(ctx, s.cfg.CacheMaxEntries); err != nil {
		zap.L().Warn("scrape: cache prune failed", zap.Error(err))
	}

	return text
}

// ScrapeAll scrapes every URL, preserving input order in the result. URLs are
// fetched sequentially unless max_concurrent allows parallelism.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []model.ScrapedPage {
	pages := make([]model.ScrapedPage, len(urls))

	if s.cfg.MaxConcurrent <= 1 {
		for i, u := range urls {
			pages[i] = model.ScrapedPage{URL: u, Text: s.Scrape(ctx, u)}
		}
		return pages
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)
	for i, u := range urls {
		g.Go(func() error {
			pages[i] = model.ScrapedPage{URL: u, Text: s.Scrape(gctx, u)}
			return nil
		})
	}
	_ = g.Wait() // Scrape never returns an error

	return pages
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		zap.L().Warn("scrape: create request failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		zap.L().Warn("scrape: fetch failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("scrape: non-200 response",
			zap.String("url", pageURL),
			zap.Int("status", resp.StatusCode),
		)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		zap.L().Warn("scrape: read body failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}

	text, err := extractText(body, s.cfg.MaxChars)
	if err != nil {
		zap.L().Warn("scrape: parse failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}

	zap.L().Debug("scrape: fetched",
		zap.String("url", pageURL),
		zap.Int("chars", len(text)),
	)
	return text
}

// extractText pulls readable fragments out of an HTML document: paragraphs,
// headings, list items, table rows (cells pipe-joined), plus any email
// addresses found in the raw markup. Fragments join with newlines and the
// result truncates at maxChars.
func extractText(body []byte, maxChars int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var frags []string

	doc.Find("p, h1, h2, h3, h4, h5, h6, li").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			frags = append(frags, t)
		}
	})

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			if t := strings.TrimSpace(cell.Text()); t != "" {
				cells = append(cells, t)
			}
		})
		if len(cells) > 0 {
			frags = append(frags, strings.Join(cells, " | "))
		}
	})

	// Emails often live in mailto: links or footers that the selectors above
	// miss, so scan the raw markup too.
	seen := make(map[string]bool)
	for _, email := range emailRe.FindAllString(string(body), -1) {
		if !seen[email] {
			seen[email] = true
			frags = append(frags, email)
		}
	}

	text := strings.Join(frags, "\n")
	if maxChars > 0 && len(text) > maxChars {
		// Back up to a rune boundary so the cut never produces invalid UTF-8.
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}
