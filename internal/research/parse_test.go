package research

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/company-brief/internal/model"
)

func TestParseFencedJSON_Canonical(t *testing.T) {
	raw := "Here is the brief:\n```json\n{\"goals\": \"Grow AUM\", \"outlook\": \"Bullish\", \"titles\": \"Jane Doe, CEO\"}\n```\nLet me know if you need more."

	f := ParseFencedJSON(raw)
	assert.Equal(t, "Grow AUM", f.Goals)
	assert.Equal(t, "Bullish", f.Outlook)
	assert.Equal(t, "Jane Doe, CEO", f.Titles)
}

func TestParseFencedJSON_BareObject(t *testing.T) {
	f := ParseFencedJSON(`{"goals": "Grow", "outlook": "Steady", "titles": "Bob, CFO"}`)
	assert.Equal(t, "Grow", f.Goals)
	assert.Equal(t, "Steady", f.Outlook)
}

func TestParseFencedJSON_MissingKeys(t *testing.T) {
	f := ParseFencedJSON("```json\n{\"goals\": \"Grow\"}\n```")
	assert.Equal(t, "Grow", f.Goals)
	assert.Equal(t, model.NotFound, f.Outlook)
	assert.Equal(t, model.NotFound, f.Titles)
}

func TestParseFencedJSON_Unparseable(t *testing.T) {
	f := ParseFencedJSON("I could not produce JSON, sorry.")
	assert.Equal(t, model.NotFound, f.Goals)
	assert.Equal(t, model.NotFound, f.Outlook)
	assert.Equal(t, model.NotFound, f.Titles)
}

func TestParseFencedJSON_EmptyValues(t *testing.T) {
	f := ParseFencedJSON(`{"goals": "", "outlook": "  ", "titles": "X"}`)
	assert.Equal(t, model.NotFound, f.Goals)
	assert.Equal(t, model.NotFound, f.Outlook)
	assert.Equal(t, "X", f.Titles)
}

func TestParseDelimited_AllSections(t *testing.T) {
	raw := "Goals: Grow assets under management\nOutlook: Cautiously optimistic\nSummary: A boutique advisory firm."

	f := ParseDelimited(raw)
	assert.Equal(t, "Grow assets under management", f.Goals)
	assert.Equal(t, "Cautiously optimistic", f.Outlook)
	assert.Equal(t, "A boutique advisory firm.", f.Summary)
	assert.Equal(t, model.NotFound, f.Titles)
}

func TestParseDelimited_MissingOutlook(t *testing.T) {
	f := ParseDelimited("Goals: Grow\nSummary: A firm.")
	assert.Equal(t, "Grow", f.Goals)
	assert.Equal(t, model.NotFound, f.Outlook)
}

func TestParseDelimited_CaseInsensitiveMultiline(t *testing.T) {
	raw := "GOALS: first line\nstill the goals\noutlook: steady growth"

	f := ParseDelimited(raw)
	assert.Equal(t, "first line\nstill the goals", f.Goals)
	assert.Equal(t, "steady growth", f.Outlook)
}

func TestParseDelimited_LabelNeedsWordBoundary(t *testing.T) {
	f := ParseDelimited("Our subgoals: irrelevant\nOutlook: steady")
	assert.Equal(t, model.NotFound, f.Goals)
	assert.Equal(t, "steady", f.Outlook)

	f = ParseDelimited("subgoals: noise\nGoals: the real ones")
	assert.Equal(t, "the real ones", f.Goals)
}

func TestParseDelimited_EmptySection(t *testing.T) {
	f := ParseDelimited("Goals:\nOutlook: fine")
	assert.Equal(t, model.NotFound, f.Goals)
	assert.Equal(t, "fine", f.Outlook)
}

func TestParsePassthrough(t *testing.T) {
	f := ParsePassthrough("  A narrative about the company.  ")
	assert.Equal(t, "A narrative about the company.", f.Summary)
	assert.Equal(t, model.NotFound, f.Goals)
	assert.Equal(t, model.NotFound, f.Outlook)
	assert.Equal(t, model.NotFound, f.Titles)
}

func TestParseSummary_Dispatch(t *testing.T) {
	raw := "```json\n{\"goals\": \"G\", \"outlook\": \"O\", \"titles\": \"T\"}\n```"

	f := ParseSummary("json", raw)
	assert.Equal(t, "G", f.Goals)

	f = ParseSummary("narrative", "free text")
	assert.Equal(t, "free text", f.Summary)

	f = ParseSummary("delimited", "Goals: G\nOutlook: O")
	assert.Equal(t, "G", f.Goals)
	assert.Equal(t, "O", f.Outlook)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"prose around object", `Sure! {"a": 1} hope that helps`, `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
