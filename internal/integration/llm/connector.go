package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/databot-backend/internal/config"
	"github.com/futig/databot-backend/internal/entity"
	"github.com/futig/databot-backend/internal/integration/common"
	pkghttp "github.com/futig/databot-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// CreateChatCompletion sends the conversation transcript to the hosted model
// and returns the assistant's answer text.
func (c *Connector) CreateChatCompletion(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "requesting chat completion",
		zap.String("model", c.config.Model),
		zap.Int("messages", len(messages)),
	)

	req := &entity.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	var resp entity.ChatCompletionResponse
	err := c.config.Retry.Do(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatCompletionsEndpoint, req, &resp)
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("invalid chat completion response: no choices")
	}

	answer := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "chat completion received", zap.Int("answer_length", len(answer)))

	return answer, nil
}
