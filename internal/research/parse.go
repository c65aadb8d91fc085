package research

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/company-brief/internal/model"
)

// Fields holds the structured values parsed out of a raw LLM reply. Any
// field the reply does not support carries model.NotFound; Summary may be
// empty when the format has no summary section.
type Fields struct {
	Goals   string
	Outlook string
	Titles  string
	Summary string
}

// ParseSummary extracts structured fields from a raw reply using the
// strategy matching the configured format. Parsing never fails: a reply the
// strategy cannot read degrades to sentinel values with the raw text kept
// alongside by the caller.
func ParseSummary(format, raw string) Fields {
	switch format {
	case "delimited":
		return ParseDelimited(raw)
	case "narrative":
		return ParsePassthrough(raw)
	default:
		return ParseFencedJSON(raw)
	}
}

// ParseFencedJSON reads the canonical contract: a fenced ```json block
// holding an object with goals, outlook, and titles keys.
func ParseFencedJSON(raw string) Fields {
	f := Fields{
		Goals:   model.NotFound,
		Outlook: model.NotFound,
		Titles:  model.NotFound,
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &obj); err != nil {
		return f
	}

	f.Goals = stringField(obj, "goals")
	f.Outlook = stringField(obj, "outlook")
	f.Titles = stringField(obj, "titles")
	f.Summary = stringField(obj, "summary")
	if f.Summary == model.NotFound {
		f.Summary = ""
	}
	return f
}

// delimitedRes matches "Label: value" sections case-insensitively, with the
// value running non-greedily until the next label line or end of text.
var delimitedRes = map[string]*regexp.Regexp{}

func init() {
	for _, label := range []string{"goals", "outlook", "titles", "summary"} {
		delimitedRes[label] = regexp.MustCompile(
			// \b keeps a label like "subgoals:" from matching as "goals:".
			// [ \t]* after the colon keeps the whitespace skip on the label
			// line; crossing the newline would swallow the next section.
			fmt.Sprintf(`(?is)\b%s[ \t]*:[ \t]*(.*?)(?:\n\s*(?:goals|outlook|titles|summary)[ \t]*:|\z)`, label),
		)
	}
}

// ParseDelimited reads plain-text replies with Goals:/Outlook:/Summary:
// labels. A missing or empty section yields model.NotFound.
func ParseDelimited(raw string) Fields {
	section := func(label string) string {
		m := delimitedRes[label].FindStringSubmatch(raw)
		if m == nil {
			return model.NotFound
		}
		v := strings.TrimSpace(m[1])
		if v == "" {
			return model.NotFound
		}
		return v
	}

	f := Fields{
		Goals:   section("goals"),
		Outlook: section("outlook"),
		Titles:  section("titles"),
		Summary: section("summary"),
	}
	if f.Summary == model.NotFound {
		f.Summary = ""
	}
	return f
}

// ParsePassthrough treats the whole reply as the summary.
func ParsePassthrough(raw string) Fields {
	return Fields{
		Goals:   model.NotFound,
		Outlook: model.NotFound,
		Titles:  model.NotFound,
		Summary: strings.TrimSpace(raw),
	}
}

func stringField(obj map[string]any, key string) string {
	v, ok := obj[key].(string)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return model.NotFound
	}
	return v
}

// cleanJSON strips markdown code fences and surrounding prose from a model
// reply so the remaining text can be passed to json.Unmarshal.
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}

	s = strings.TrimSpace(s)

	// Models sometimes wrap the object in prose even inside the fence.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}

	return s
}
