package ask

import (
	"context"

	"github.com/futig/databot-backend/internal/entity"
)

type LLMConnector interface {
	CreateChatCompletion(ctx context.Context, messages []entity.ChatMessage) (string, error)
}

type CorpusProvider interface {
	Snapshot(ctx context.Context) (*entity.Corpus, error)
}

type SessionStore interface {
	GetOrCreate(sessionID string, reset bool, systemTurns []entity.ChatMessage) *entity.Session
	AppendTurn(sessionID string, role entity.ChatRole, content string) error
	RecordQuery(sessionID string, desc *entity.QueryDescriptor) error
	TrimmedTranscript(sessionID string) ([]entity.ChatMessage, error)
	QueryHistory(sessionID string) []*entity.QueryDescriptor
}

type DocumentSelector interface {
	Select(ctx context.Context, question string, corpus *entity.Corpus) (string, *entity.DocumentRecord, error)
}
