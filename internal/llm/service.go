package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/RichardoC/venue-assistant/internal/tools"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// SystemPrompt is the only thing deciding when the model reaches for a tool.
const SystemPrompt = `You are a helpful wedding venue assistant. Your primary goal is to answer user questions about wedding bookings.
- Your personality should be friendly and professional.
- **Crucially, only use the 'check_date_availability' tool if the user explicitly asks to check a specific date.** A specific date will look like a calendar date (e.g., "2025-10-28", "October 28th 2025") or a relative date (e.g., "next Friday", "Christmas Day").
- **Do not use any tools for simple greetings like "hi", "hello", or "how are you?".** For these, just respond with a friendly greeting.
- Only use the 'calculate_booking_cost' tool if the user provides both a guest count and a wedding type.
- For any other questions or general conversation, provide a helpful response without using tools.`

var ErrEmptyResponse = errors.New("model returned no choices")

// HistoryStore loads and saves the turns of a session.
type HistoryStore interface {
	GetSessionHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	SaveTurn(ctx context.Context, user, assistant *models.ChatMessage) error
}

type Service struct {
	llm     llms.Model
	store   HistoryStore
	tools   *tools.Registry
	logger  *zap.Logger
	timeout time.Duration
}

type Option func(*Service)

// WithTimeout bounds each model call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func New(model llms.Model, store HistoryStore, registry *tools.Registry, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		llm:    model,
		store:  store,
		tools:  registry,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Converse runs one turn: the model is called once, and if it asks for a
// tool, the first requested tool runs and the model is called a second time
// with the result. The user and assistant turns are saved before returning.
func (s *Service) Converse(ctx context.Context, session models.Session, userText string) (string, error) {
	history, err := s.store.GetSessionHistory(ctx, session.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get conversation history: %w", err)
	}

	messages := BuildConversation(history, userText)

	choice, err := s.complete(ctx, messages)
	if err != nil {
		return "", err
	}
	reply := choice.Content

	if len(choice.ToolCalls) > 0 {
		if len(choice.ToolCalls) > 1 {
			s.logger.Warn("Dropping extra tool calls",
				zap.String("session_id", session.ID),
				zap.Int("requested", len(choice.ToolCalls)))
		}

		call := choice.ToolCalls[0]
		result := s.runTool(ctx, session, call)

		if call.Type == "" {
			call.Type = "function"
		}
		messages = append(messages,
			llms.MessageContent{
				Role:  llms.ChatMessageTypeAI,
				Parts: []llms.ContentPart{call},
			},
			llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: call.ID,
					Name:       result.Name,
					Content:    result.Content,
				}},
			},
		)

		final, err := s.complete(ctx, messages)
		if err != nil {
			return "", err
		}
		reply = final.Content
	}

	user := &models.ChatMessage{SessionID: session.ID, Role: models.RoleUser, Content: userText}
	assistant := &models.ChatMessage{SessionID: session.ID, Role: models.RoleAssistant, Content: reply}
	if err := s.store.SaveTurn(ctx, user, assistant); err != nil {
		return "", fmt.Errorf("failed to save turn: %w", err)
	}

	return reply, nil
}

func (s *Service) runTool(ctx context.Context, session models.Session, call llms.ToolCall) tools.Result {
	var name, args string
	if call.FunctionCall != nil {
		name = call.FunctionCall.Name
		args = call.FunctionCall.Arguments
	}

	start := time.Now()
	result := s.tools.Dispatch(ctx, name, args)

	fields := []zap.Field{
		zap.String("session_id", session.ID),
		zap.String("tool", name),
		zap.String("tool_call_id", call.ID),
		zap.Duration("elapsed", time.Since(start)),
	}
	if result.OK {
		s.logger.Info("Tool call completed", fields...)
	} else {
		s.logger.Warn("Tool call failed", append(fields, zap.String("result", result.Content))...)
	}
	return result
}

func (s *Service) complete(ctx context.Context, messages []llms.MessageContent) (*llms.ContentChoice, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.llm.GenerateContent(ctx, messages,
		llms.WithTools(s.tools.Definitions()),
		llms.WithToolChoice("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, ErrEmptyResponse
	}
	return resp.Choices[0], nil
}

// BuildConversation lays out the system instruction, the stored history and
// the new user message in the order the model expects.
func BuildConversation(history []models.ChatMessage, userText string) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt))
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	return append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userText))
}
