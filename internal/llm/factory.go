package llm

import (
	"github.com/RichardoC/venue-assistant/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// NewModel builds the chat model described by cfg: any OpenAI-compatible
// endpoint (Groq by default), or MockModel when cfg.Mock is set.
func NewModel(cfg config.LLMConfig, logger *zap.Logger) (llms.Model, error) {
	if cfg.Mock {
		logger.Warn("llm.mock is set, using the mock model")
		return NewMockModel(), nil
	}

	return openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	)
}
