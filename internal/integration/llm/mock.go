package llm

import (
	"context"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a canned stand-in for the hosted model, used when
// ENABLE_MOCKS is set. The answer deliberately carries a fenced SQL block so
// the whole extract/analyze/record pipeline is exercised end to end.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

const mockAnswer = "Según la documentación, puedes obtener el total de registros del funnel con la siguiente consulta:\n\n" +
	"```sql\nSELECT id, fecha FROM registros WHERE fecha >= '2024-01-01';\n```\n\n" +
	"Esta consulta devuelve los registros creados desde enero. [Fuente: Documentación]"

func (m *MockConnector) CreateChatCompletion(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating chat completion", zap.Int("messages", len(messages)))
	return mockAnswer, nil
}
