package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/company-brief/internal/config"
	"github.com/sells-group/company-brief/pkg/anthropic"
)

// summaryErrorPrefix marks a raw summary that carries an error message
// instead of an LLM reply.
const summaryErrorPrefix = "summary unavailable: "

// placeholderText is sent to the model when no page yielded any content, so
// the reply still follows the output contract.
const placeholderText = "No page content could be retrieved for this company. State that no information was found."

const jsonSystem = `You are a research analyst preparing a company brief for a sales team.
Reply with exactly one fenced code block:

` + "```json" + `
{"goals": "...", "outlook": "...", "titles": "..."}
` + "```" + `

"goals" captures the company's stated goals and mission, "outlook" its market
outlook and strategy, and "titles" the names and titles of leadership
mentioned in the text. Use the string "Not Found" for any field the text does
not support. Output nothing outside the code block.`

const delimitedSystem = `You are a research analyst preparing a company brief for a sales team.
Reply in plain text with exactly three labeled sections:

Goals: <the company's stated goals and mission>
Outlook: <its market outlook and strategy>
Summary: <a short overall summary>

Write "Not Found" after any label the text does not support.`

const narrativeSystem = `You are a research analyst preparing a company brief for a sales team.
Write a concise narrative summary of the company's goals, market outlook, and
leadership based only on the provided text. If the text supports none of
these, say so plainly.`

// Summarizer turns scraped page text into a raw LLM summary.
type Summarizer struct {
	ai     anthropic.Client
	cfg    config.AnthropicConfig
	format string
}

// NewSummarizer creates a Summarizer for the configured reply format.
func NewSummarizer(client anthropic.Client, cfg config.AnthropicConfig, format string) *Summarizer {
	return &Summarizer{ai: client, cfg: cfg, format: format}
}

// Summarize sends the combined page text to the model and returns the raw
// reply. An API failure does not abort the run: the returned string carries
// the error message behind summaryErrorPrefix and degraded is true.
func (s *Summarizer) Summarize(ctx context.Context, companyName, firmCRD, combinedText string) (raw string, degraded bool) {
	if strings.TrimSpace(combinedText) == "" {
		combinedText = placeholderText
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s\n", companyName)
	if firmCRD != "" {
		fmt.Fprintf(&sb, "Firm CRD: %s\n", firmCRD)
	}
	sb.WriteString("\nTEXT TO ANALYZE:\n")
	sb.WriteString(combinedText)

	temp := s.cfg.Temperature
	resp, err := s.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       s.cfg.Model,
		MaxTokens:   int64(s.cfg.MaxTokens),
		System:      s.systemPrompt(),
		Messages:    []anthropic.Message{{Role: "user", Content: sb.String()}},
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Error("summarize: model call failed",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return summaryErrorPrefix + err.Error(), true
	}

	resp.Usage.LogCost(s.cfg.Model, "summarize")

	return resp.FirstText(), false
}

func (s *Summarizer) systemPrompt() string {
	switch s.format {
	case "delimited":
		return delimitedSystem
	case "narrative":
		return narrativeSystem
	default:
		return jsonSystem
	}
}

// IsDegradedSummary reports whether a raw summary string carries an error
// message rather than a model reply.
func IsDegradedSummary(raw string) bool {
	return strings.HasPrefix(raw, summaryErrorPrefix)
}
