package ask

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/futig/databot-backend/internal/pkg/formatter"
	"github.com/futig/databot-backend/internal/pkg/sqlquery"
	"github.com/futig/databot-backend/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const summaryLimit = 200

// AskUsecase answers documentation questions: it picks the most relevant
// document, carries the conversation through the model, and accumulates the
// SQL queries the model produces so later questions can build on them.
type AskUsecase struct {
	corpus    CorpusProvider
	sessions  SessionStore
	selector  DocumentSelector
	llm       LLMConnector
	validator *validator.Validator
	formats   *formatter.Factory
	logger    *zap.Logger
}

func NewUsecase(
	corpus CorpusProvider,
	sessions SessionStore,
	selector DocumentSelector,
	llm LLMConnector,
	validator *validator.Validator,
	formats *formatter.Factory,
	logger *zap.Logger,
) *AskUsecase {
	return &AskUsecase{
		corpus:    corpus,
		sessions:  sessions,
		selector:  selector,
		llm:       llm,
		validator: validator,
		formats:   formats,
		logger:    logger,
	}
}

// Ask answers one question. The session is created on first use; reset wipes
// its transcript and query history before the question is processed.
func (uc *AskUsecase) Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error) {
	if err := uc.validator.ValidateAskRequest(req); err != nil {
		return nil, err
	}

	corpus, err := uc.corpus.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	docID, doc, err := uc.selector.Select(ctx, req.Question, corpus)
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "session_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	}

	uc.sessions.GetOrCreate(sessionID, req.Reset, systemTurns(doc))

	suggestion := sqlquery.Suggest(uc.sessions.QueryHistory(sessionID), req.Question)
	if suggestion != nil {
		ctxzap.Info(ctx, "query rewrite suggested",
			zap.String("session_id", sessionID),
			zap.String("original_query", suggestion.OriginalQuery),
		)
	}

	if err := uc.sessions.AppendTurn(sessionID, entity.RoleUser, enhanceQuestion(req.Question, suggestion)); err != nil {
		return nil, fmt.Errorf("append user turn: %w", err)
	}

	transcript, err := uc.sessions.TrimmedTranscript(sessionID)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	answer, err := uc.llm.CreateChatCompletion(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if err := uc.sessions.AppendTurn(sessionID, entity.RoleAssistant, answer); err != nil {
		return nil, fmt.Errorf("append assistant turn: %w", err)
	}

	for _, query := range sqlquery.Extract(answer) {
		if err := uc.sessions.RecordQuery(sessionID, sqlquery.Analyze(query)); err != nil {
			return nil, fmt.Errorf("record query: %w", err)
		}
	}

	ctxzap.Info(ctx, "question answered",
		zap.String("session_id", sessionID),
		zap.String("document_id", docID),
		zap.Int("answer_len", len(answer)),
	)

	return &entity.AskResponse{
		Response:     answer,
		SessionID:    sessionID,
		DocumentUsed: docID,
	}, nil
}

// ListDocuments reports the loaded corpus: per-document character counts and
// a short leading sample of the raw text.
func (uc *AskUsecase) ListDocuments(ctx context.Context) (*entity.DocumentListResponse, error) {
	corpus, err := uc.corpus.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	infos := make([]entity.DocumentInfoDTO, 0, corpus.Len())
	for _, id := range corpus.IDs() {
		doc, _ := corpus.Get(id)
		infos = append(infos, entity.DocumentInfoDTO{
			Name:    id,
			Size:    fmt.Sprintf("%d caracteres", len([]rune(doc.RawText))),
			Summary: summarize(doc.RawText),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return &entity.DocumentListResponse{
		Documents: infos,
		Total:     len(infos),
	}, nil
}

// ExportTranscript renders the session's user and assistant turns in the
// requested format. System turns hold the document dump and are skipped.
func (uc *AskUsecase) ExportTranscript(ctx context.Context, sessionID string, format entity.ExportFormat) ([]byte, string, string, error) {
	if err := uc.validator.ValidateExportFormat(format); err != nil {
		return nil, "", "", err
	}

	transcript, err := uc.sessions.TrimmedTranscript(sessionID)
	if err != nil {
		return nil, "", "", fmt.Errorf("read transcript: %w", err)
	}

	entries := make([]formatter.Entry, 0, len(transcript))
	for _, msg := range transcript {
		switch msg.Role {
		case entity.RoleUser:
			entries = append(entries, formatter.Entry{Speaker: "Usuario", Text: msg.Content})
		case entity.RoleAssistant:
			entries = append(entries, formatter.Entry{Speaker: "Asistente", Text: msg.Content})
		}
	}

	f, err := uc.formats.Create(format)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}

	data, err := f.Format(entries)
	if err != nil {
		return nil, "", "", fmt.Errorf("format transcript: %w", err)
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("session_id", sessionID),
		zap.String("format", string(format)),
	)
	return data, f.ContentType(), f.FileExtension(), nil
}

func summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryLimit {
		return text
	}
	return string(runes[:summaryLimit]) + "..."
}
