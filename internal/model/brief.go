package model

import "time"

// NotFound is the sentinel value returned for any summary field that could
// not be extracted from the LLM reply.
const NotFound = "Not Found"

// ResearchRequest is the inbound request for a company brief.
type ResearchRequest struct {
	CompanyName string `json:"companyName" validate:"required,max=200"`
	Website     string `json:"website" validate:"required"`
	FirmCRD     string `json:"firmCRD,omitempty"`
}

// ScrapedPage holds the extracted text of a single fetched URL.
type ScrapedPage struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Brief is the structured research result for one company.
type Brief struct {
	CompanyName string   `json:"companyName"`
	Website     string   `json:"website"`
	URLsUsed    []string `json:"urlsUsed"`
	Goals       string   `json:"goals"`
	Outlook     string   `json:"outlook"`
	Titles      string   `json:"titles"`
	Summary     string   `json:"summary,omitempty"`
	RawSummary  string   `json:"raw_summary"`
	// Degraded marks briefs whose summarization call failed; RawSummary then
	// carries the error text instead of an LLM reply.
	Degraded bool `json:"degraded"`
}

// RunStatus tracks the lifecycle of a research run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one research run for history listing.
type Run struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Website     string    `json:"website"`
	Status      RunStatus `json:"status"`
	Brief       *Brief    `json:"brief,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CachedPage is a scrape cache entry.
type CachedPage struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
