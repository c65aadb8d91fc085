// Package research implements the company-brief pipeline: validate the
// request, locate informational pages, scrape their text, summarize with the
// model, and parse the reply into structured fields.
package research

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/company-brief/internal/config"
	"github.com/sells-group/company-brief/internal/model"
	"github.com/sells-group/company-brief/internal/store"
	"github.com/sells-group/company-brief/pkg/anthropic"
	"github.com/sells-group/company-brief/pkg/serp"
)

// Pipeline wires the stages of a research run together.
type Pipeline struct {
	cfg        *config.Config
	store      store.Store
	locator    *Locator
	scraper    *Scraper
	summarizer *Summarizer
}

// New assembles a Pipeline from configuration and provider clients.
func New(cfg *config.Config, st store.Store, serpClient serp.Client, aiClient anthropic.Client) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		locator:    NewLocator(serpClient, cfg.Serp.MaxResults),
		scraper:    NewScraper(st, cfg.Scrape),
		summarizer: NewSummarizer(aiClient, cfg.Anthropic, cfg.Summary.Format),
	}
}

// Run executes a full research run. It returns an error only for invalid
// requests; provider failures downstream degrade the brief rather than
// failing the run.
func (p *Pipeline) Run(ctx context.Context, req model.ResearchRequest) (*model.Brief, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	website, domain := NormalizeWebsite(req.Website)

	zap.L().Info("research: run started",
		zap.String("company", req.CompanyName),
		zap.String("domain", domain),
	)

	// Run history is best-effort: a store hiccup should not block the brief.
	run, err := p.store.CreateRun(ctx, req)
	if err != nil {
		zap.L().Warn("research: create run record failed", zap.Error(err))
		run = nil
	}

	urls := p.locator.Locate(ctx, req.CompanyName, domain)
	pages := p.scraper.ScrapeAll(ctx, urls)
	combined, used := combinePages(pages)

	if combined == "" {
		zap.L().Info("research: no page text retrieved, summarizing placeholder",
			zap.String("company", req.CompanyName),
		)
	}

	raw, degraded := p.summarizer.Summarize(ctx, req.CompanyName, req.FirmCRD, combined)
	fields := ParseSummary(p.cfg.Summary.Format, raw)

	brief := &model.Brief{
		CompanyName: req.CompanyName,
		Website:     website,
		URLsUsed:    used,
		Goals:       fields.Goals,
		Outlook:     fields.Outlook,
		Titles:      fields.Titles,
		Summary:     fields.Summary,
		RawSummary:  raw,
		Degraded:    degraded,
	}

	if run != nil {
		status := model.RunStatusComplete
		if degraded {
			status = model.RunStatusFailed
		}
		if err := p.store.CompleteRun(ctx, run.ID, status, brief); err != nil {
			zap.L().Warn("research: complete run record failed", zap.Error(err))
		}
	}

	zap.L().Info("research: run finished",
		zap.String("company", req.CompanyName),
		zap.Int("urls_used", len(used)),
		zap.Bool("degraded", degraded),
	)

	return brief, nil
}

// combinePages joins the text of every page that yielded content and returns
// the contributing URLs in scrape order.
func combinePages(pages []model.ScrapedPage) (combined string, used []string) {
	var parts []string
	for _, p := range pages {
		if p.Text != "" {
			parts = append(parts, p.Text)
			used = append(used, p.URL)
		}
	}
	return strings.Join(parts, "\n"), used
}
