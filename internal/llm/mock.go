package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RichardoC/venue-assistant/internal/tools"
	"github.com/dlclark/regexp2"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
)

// Lookarounds keep digits of longer numbers out of the match.
var isoDate = regexp2.MustCompile(`(?<!\d)\d{4}-\d{2}-\d{2}(?!\d)`, regexp2.None)

// MockModel stands in for the hosted model in local runs. It asks for the
// date check whenever the latest user message carries a YYYY-MM-DD date and
// otherwise echoes the message back.
type MockModel struct{}

func NewMockModel() *MockModel {
	return &MockModel{}
}

var _ llms.Model = (*MockModel)(nil)

func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(messages) == 0 {
		return textResponse("[MOCK] This is a mock response."), nil
	}

	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	last := messages[len(messages)-1]
	for _, part := range last.Parts {
		if res, ok := part.(llms.ToolCallResponse); ok {
			return textResponse(fmt.Sprintf("[MOCK] %s returned %s", res.Name, res.Content)), nil
		}
	}

	text := textOf(last)
	if date := findDate(text); date != "" && offersTool(opts, tools.CheckDateAvailabilityName) {
		args, err := json.Marshal(map[string]string{"date": date})
		if err != nil {
			return nil, err
		}
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
			StopReason: "tool_calls",
			ToolCalls: []llms.ToolCall{{
				ID:   "call_" + uuid.NewString()[:8],
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      tools.CheckDateAvailabilityName,
					Arguments: string(args),
				},
			}},
		}}}, nil
	}

	return textResponse(fmt.Sprintf("[MOCK] Received your message: %q.", truncate(text, 100))), nil
}

func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func findDate(text string) string {
	m, err := isoDate.FindStringMatch(text)
	if err != nil || m == nil {
		return ""
	}
	return m.String()
}

func textResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text, StopReason: "stop"}}}
}

func textOf(msg llms.MessageContent) string {
	var sb strings.Builder
	for _, part := range msg.Parts {
		if text, ok := part.(llms.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}

func offersTool(opts llms.CallOptions, name string) bool {
	for _, tool := range opts.Tools {
		if tool.Function != nil && tool.Function.Name == name {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
