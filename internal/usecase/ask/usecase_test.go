package ask

import (
	"context"
	"strings"
	"testing"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/futig/databot-backend/internal/pkg/formatter"
	"github.com/futig/databot-backend/internal/pkg/relevance"
	"github.com/futig/databot-backend/internal/pkg/validator"
	"github.com/futig/databot-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCorpus struct {
	corpus *entity.Corpus
	err    error
}

func (s *stubCorpus) Snapshot(ctx context.Context) (*entity.Corpus, error) {
	return s.corpus, s.err
}

type stubLLM struct {
	answer   string
	err      error
	calls    int
	lastSeen []entity.ChatMessage
}

func (s *stubLLM) CreateChatCompletion(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	s.calls++
	s.lastSeen = append([]entity.ChatMessage(nil), messages...)
	return s.answer, s.err
}

func testCorpus(t *testing.T) *entity.Corpus {
	t.Helper()
	corpus := entity.NewCorpus()
	require.NoError(t, corpus.Add(&entity.DocumentRecord{
		ID:    "ventas_mx",
		Title: "Funnel de Ventas MX",
		Sections: []entity.Section{
			{Title: "KPIs", Content: "oportunidades, handoff y conversión"},
		},
		RawText: "métricas del funnel de ventas, oportunidades y handoff",
	}))
	require.NoError(t, corpus.Add(&entity.DocumentRecord{
		ID:      "compras_mx",
		Title:   "Funnel de Compras MX",
		RawText: "métricas del funnel de compras, inspecciones y ofertas",
	}))
	return corpus
}

func newTestUsecase(t *testing.T, llm *stubLLM) (*AskUsecase, *repository.SessionMemory) {
	t.Helper()
	logger := zap.NewNop()
	sessions := repository.NewSessionMemory(logger)
	uc := NewUsecase(
		&stubCorpus{corpus: testCorpus(t)},
		sessions,
		relevance.NewSelector(logger),
		llm,
		validator.NewValidator(),
		formatter.NewFactory(),
		logger,
	)
	return uc, sessions
}

func TestAskEmptyQuestion(t *testing.T) {
	uc, _ := newTestUsecase(t, &stubLLM{answer: "ok"})

	_, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "   "})
	assert.ErrorIs(t, err, entity.ErrEmptyQuestion)
}

func TestAskGeneratesSessionID(t *testing.T) {
	uc, _ := newTestUsecase(t, &stubLLM{answer: "respuesta"})

	resp, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "¿qué es el handoff?"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.SessionID, "session_"), "got %q", resp.SessionID)
	assert.Equal(t, "respuesta", resp.Response)
}

func TestAskSelectsVentasDocument(t *testing.T) {
	uc, _ := newTestUsecase(t, &stubLLM{answer: "respuesta"})

	resp, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:  "¿Cuántas oportunidades de venta tuvimos?",
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ventas_mx", resp.DocumentUsed)
}

func TestAskSeedsSystemTurnsWithDocumentDump(t *testing.T) {
	llm := &stubLLM{answer: "respuesta"}
	uc, _ := newTestUsecase(t, llm)

	_, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:  "¿qué KPIs hay en ventas?",
		SessionID: "s1",
	})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(llm.lastSeen), 3)
	assert.Equal(t, entity.RoleSystem, llm.lastSeen[0].Role)
	assert.Contains(t, llm.lastSeen[0].Content, "Funnel de Ventas MX")
	assert.Equal(t, entity.RoleSystem, llm.lastSeen[1].Role)
	assert.Contains(t, llm.lastSeen[1].Content, "## Secciones del Documento:")
	assert.Contains(t, llm.lastSeen[1].Content, "oportunidades, handoff y conversión")
	assert.Equal(t, entity.RoleUser, llm.lastSeen[len(llm.lastSeen)-1].Role)
}

func TestAskRecordsExtractedQueries(t *testing.T) {
	llm := &stubLLM{answer: "Usa esta consulta:\n```sql\nSELECT id, fecha FROM registros WHERE fecha >= '2024-01-01'\n```"}
	uc, sessions := newTestUsecase(t, llm)

	_, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:  "dame la consulta de registros de ventas",
		SessionID: "s1",
	})
	require.NoError(t, err)

	history := sessions.QueryHistory("s1")
	require.Len(t, history, 1)
	assert.Equal(t, []string{"registros"}, history[0].Tables)
	assert.Equal(t, []string{"id", "fecha"}, history[0].Columns)
}

func TestAskSecondQuestionCarriesSuggestion(t *testing.T) {
	llm := &stubLLM{answer: "Consulta:\n```sql\nSELECT id, fecha FROM registros WHERE fecha >= '2024-01-01'\n```"}
	uc, _ := newTestUsecase(t, llm)

	_, err := uc.Ask(context.Background(), &entity.AskRequest{
		Question:  "dame los registros",
		SessionID: "s1",
	})
	require.NoError(t, err)

	llm.answer = "Claro."
	_, err = uc.Ask(context.Background(), &entity.AskRequest{
		Question:  "ahora relaciónalo con las ventas",
		SessionID: "s1",
	})
	require.NoError(t, err)

	lastUser := llm.lastSeen[len(llm.lastSeen)-1]
	assert.Contains(t, lastUser.Content, "te sugiero modificar la consulta SQL")
	assert.Contains(t, lastUser.Content, "JOIN ventas ON registros.id = ventas.registro_id")
	assert.Contains(t, lastUser.Content, "Tu pregunta original: ahora relaciónalo con las ventas")
}

func TestAskResetClearsHistory(t *testing.T) {
	llm := &stubLLM{answer: "```sql\nSELECT id FROM registros;\n```"}
	uc, sessions := newTestUsecase(t, llm)

	_, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "registros de ventas", SessionID: "s1"})
	require.NoError(t, err)
	require.NotEmpty(t, sessions.QueryHistory("s1"))

	llm.answer = "Sin consultas esta vez."
	_, err = uc.Ask(context.Background(), &entity.AskRequest{Question: "empecemos de nuevo", SessionID: "s1", Reset: true})
	require.NoError(t, err)

	assert.Empty(t, sessions.QueryHistory("s1"))
	// The reset transcript has the two system turns plus one exchange.
	transcript, err := sessions.TrimmedTranscript("s1")
	require.NoError(t, err)
	assert.Len(t, transcript, 4)
}

func TestAskCorpusLoadError(t *testing.T) {
	logger := zap.NewNop()
	uc := NewUsecase(
		&stubCorpus{err: entity.ErrNoDocuments},
		repository.NewSessionMemory(logger),
		relevance.NewSelector(logger),
		&stubLLM{},
		validator.NewValidator(),
		formatter.NewFactory(),
		logger,
	)

	_, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "hola"})
	assert.ErrorIs(t, err, entity.ErrNoDocuments)
}

func TestListDocuments(t *testing.T) {
	uc, _ := newTestUsecase(t, &stubLLM{answer: "ok"})

	resp, err := uc.ListDocuments(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, resp.Total)
	// Sorted by name.
	assert.Equal(t, "compras_mx", resp.Documents[0].Name)
	assert.Equal(t, "ventas_mx", resp.Documents[1].Name)
	assert.Contains(t, resp.Documents[0].Size, "caracteres")
	assert.NotEmpty(t, resp.Documents[0].Summary)
}

func TestListDocumentsSummaryTruncated(t *testing.T) {
	logger := zap.NewNop()
	corpus := entity.NewCorpus()
	require.NoError(t, corpus.Add(&entity.DocumentRecord{
		ID:      "grande",
		RawText: strings.Repeat("a", 500),
	}))
	uc := NewUsecase(
		&stubCorpus{corpus: corpus},
		repository.NewSessionMemory(logger),
		relevance.NewSelector(logger),
		&stubLLM{},
		validator.NewValidator(),
		formatter.NewFactory(),
		logger,
	)

	resp, err := uc.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 200)+"...", resp.Documents[0].Summary)
}

func TestExportTranscriptMarkdown(t *testing.T) {
	llm := &stubLLM{answer: "la respuesta exportable"}
	uc, _ := newTestUsecase(t, llm)

	_, err := uc.Ask(context.Background(), &entity.AskRequest{Question: "pregunta exportable", SessionID: "s1"})
	require.NoError(t, err)

	data, contentType, ext, err := uc.ExportTranscript(context.Background(), "s1", entity.FormatMarkdown)
	require.NoError(t, err)

	assert.Equal(t, ".md", ext)
	assert.Contains(t, contentType, "text/markdown")
	text := string(data)
	assert.Contains(t, text, "## Usuario\n\npregunta exportable")
	assert.Contains(t, text, "## Asistente\n\nla respuesta exportable")
	// System turns carry the document dump and stay out of the export.
	assert.NotContains(t, text, "DOCUMENTACIÓN")
}

func TestExportTranscriptInvalidFormat(t *testing.T) {
	uc, _ := newTestUsecase(t, &stubLLM{answer: "ok"})

	_, _, _, err := uc.ExportTranscript(context.Background(), "s1", entity.ExportFormat("xml"))
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestExportTranscriptUnknownSession(t *testing.T) {
	uc, _ := newTestUsecase(t, &stubLLM{answer: "ok"})

	_, _, _, err := uc.ExportTranscript(context.Background(), "missing", entity.FormatMarkdown)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}
