package research

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-brief/internal/config"
	"github.com/sells-group/company-brief/pkg/anthropic"
)

func testAnthropicConfig() config.AnthropicConfig {
	return config.AnthropicConfig{
		Model:       "claude-haiku-4-5-20251001",
		MaxTokens:   1024,
		Temperature: 0.25,
	}
}

func TestSummarizer_SendsCompanyContext(t *testing.T) {
	aiMock := &mockAI{}
	var captured anthropic.MessageRequest
	aiMock.On("CreateMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(anthropic.MessageRequest)
		}).
		Return(textReply("the reply"), nil)

	s := NewSummarizer(aiMock, testAnthropicConfig(), "json")
	raw, degraded := s.Summarize(context.Background(), "Acme Advisors", "123456", "Some page text")

	require.False(t, degraded)
	assert.Equal(t, "the reply", raw)

	require.Len(t, captured.Messages, 1)
	assert.Contains(t, captured.Messages[0].Content, "Company: Acme Advisors")
	assert.Contains(t, captured.Messages[0].Content, "Firm CRD: 123456")
	assert.Contains(t, captured.Messages[0].Content, "Some page text")
	assert.Contains(t, captured.System, "```json")
	require.NotNil(t, captured.Temperature)
	assert.InDelta(t, 0.25, *captured.Temperature, 1e-9)
	assert.Equal(t, "claude-haiku-4-5-20251001", captured.Model)
}

func TestSummarizer_OmitsCRDWhenEmpty(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return !strings.Contains(req.Messages[0].Content, "Firm CRD")
	})).Return(textReply("ok"), nil)

	s := NewSummarizer(aiMock, testAnthropicConfig(), "json")
	s.Summarize(context.Background(), "Acme", "", "text")

	aiMock.AssertExpectations(t)
}

func TestSummarizer_EmptyTextUsesPlaceholder(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.Contains(req.Messages[0].Content, placeholderText)
	})).Return(textReply("ok"), nil)

	s := NewSummarizer(aiMock, testAnthropicConfig(), "json")
	s.Summarize(context.Background(), "Acme", "", "   ")

	aiMock.AssertExpectations(t)
}

func TestSummarizer_APIFailureDegrades(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	s := NewSummarizer(aiMock, testAnthropicConfig(), "json")
	raw, degraded := s.Summarize(context.Background(), "Acme", "", "text")

	assert.True(t, degraded)
	assert.True(t, IsDegradedSummary(raw))
	assert.Contains(t, raw, assert.AnError.Error())
}

func TestSummarizer_FormatSelectsSystemPrompt(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", "fenced code block"},
		{"delimited", "Goals:"},
		{"narrative", "narrative summary"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s := NewSummarizer(nil, testAnthropicConfig(), tt.format)
			assert.Contains(t, s.systemPrompt(), tt.want)
		})
	}
}
