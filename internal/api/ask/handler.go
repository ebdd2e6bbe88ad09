package ask

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/futig/databot-backend/internal/pkg/logger"
	"github.com/futig/databot-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase AskUsecase
}

func NewHandler(usecase AskUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Ask handles POST /ask - answer a documentation question
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "answering question",
		zap.String("session_id", req.SessionID),
		zap.Bool("reset", req.Reset),
		zap.Int("question_len", len(req.Question)),
	)

	resp, err := h.usecase.Ask(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// ListDocuments handles GET /documents - inventory of loaded documentation
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	ctxzap.Debug(ctx, "listing documents")

	resp, err := h.usecase.ListDocuments(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "documents listed", zap.Int("total", resp.Total))
	response.JSON(w, http.StatusOK, resp)
}

// ExportTranscript handles GET /sessions/{id}/export - download the conversation
func (h *Handler) ExportTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "ExportTranscript"),
	)

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = "markdown"
	}

	ctx = logger.AddFields(ctx, zap.String("format", formatParam))
	ctxzap.Debug(ctx, "exporting transcript")

	data, contentType, ext, err := h.usecase.ExportTranscript(ctx, sessionID, entity.ExportFormat(formatParam))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transcript-%s%s\"", sessionID, ext))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Helper methods
func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrDocumentNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	} else if errors.Is(err, entity.ErrEmptyQuestion) || errors.Is(err, entity.ErrMissingField) ||
		errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrUnsupportedFormat) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	} else if errors.Is(err, entity.ErrNoDocuments) {
		h.respondError(ctx, w, http.StatusServiceUnavailable, "no documents loaded", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
