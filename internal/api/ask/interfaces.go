package ask

import (
	"context"

	"github.com/futig/databot-backend/internal/entity"
)

type AskUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error)
	ListDocuments(ctx context.Context) (*entity.DocumentListResponse, error)
	ExportTranscript(ctx context.Context, sessionID string, format entity.ExportFormat) (data []byte, contentType string, fileExtension string, err error)
}
