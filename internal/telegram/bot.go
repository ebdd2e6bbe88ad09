package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/databot-backend/internal/config"
	"github.com/futig/databot-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	startMessage = "Hola, soy el asistente de documentación de datos. " +
		"Pregúntame sobre métricas, KPIs o consultas SQL y responderé usando la documentación cargada. " +
		"Usa /reset para empezar una conversación nueva."
	resetMessage = "Conversación reiniciada. ¿En qué puedo ayudarte?"
	errGeneric   = "Lo siento, ocurrió un error procesando tu pregunta. Inténtalo de nuevo."
)

// AskUsecase is the part of the question answering flow the bot needs.
type AskUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResponse, error)
}

// Bot bridges Telegram chats to the question answering flow. Each chat maps
// to one conversation session keyed by the chat id.
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	usecase     AskUsecase
	logger      *zap.Logger
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewBot creates and authorizes the Telegram bot.
func NewBot(cfg *config.TelegramConfig, usecase AskUsecase, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return &Bot{
		api:      api,
		cfg:      cfg,
		usecase:  usecase,
		logger:   logger,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins long polling for updates.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout.
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update := <-b.updatesChan:
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						b.logger.Error("panic in update handler", zap.Any("panic", r))
					}
				}()
				b.handleUpdate(u)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	ctx := ctxzap.ToContext(context.Background(), b.logger)
	message := update.Message

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	b.handleQuestion(ctx, message, false)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.send(ctx, message.Chat.ID, startMessage)
	case "reset":
		// Wipe the chat's conversation by asking the next question with
		// reset; here we just confirm, the flag is set on first use below.
		b.resetSession(ctx, message)
	default:
		b.send(ctx, message.Chat.ID, "Comando no reconocido. Usa /start o /reset.")
	}
}

func (b *Bot) resetSession(ctx context.Context, message *tgbotapi.Message) {
	// A reset with an empty question is not a valid request, so replay a
	// minimal greeting question to rebuild the session from scratch.
	_, err := b.usecase.Ask(ctx, &entity.AskRequest{
		Question:  "Hola",
		SessionID: chatSessionID(message.Chat.ID),
		Reset:     true,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to reset session",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID),
		)
		b.send(ctx, message.Chat.ID, errGeneric)
		return
	}
	b.send(ctx, message.Chat.ID, resetMessage)
}

func (b *Bot) handleQuestion(ctx context.Context, message *tgbotapi.Message, reset bool) {
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.Int64("chat_id", message.Chat.ID),
	))

	resp, err := b.usecase.Ask(ctx, &entity.AskRequest{
		Question:  message.Text,
		SessionID: chatSessionID(message.Chat.ID),
		Reset:     reset,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to answer question", zap.Error(err))
		b.send(ctx, message.Chat.ID, errGeneric)
		return
	}

	ctxzap.Info(ctx, "question answered",
		zap.String("document_used", resp.DocumentUsed),
	)
	b.send(ctx, message.Chat.ID, resp.Response)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func chatSessionID(chatID int64) string {
	return fmt.Sprintf("tg_%d", chatID)
}
