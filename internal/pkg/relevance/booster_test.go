package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPrepareSynonymRewriting(t *testing.T) {
	b := NewBooster(zap.NewNop())

	tests := []struct {
		name              string
		question          string
		expectedCanonical string
		expectedContext   ContextFamily
	}{
		{
			name:              "sales maps to ventas",
			question:          "¿Cómo va el funnel de sales?",
			expectedCanonical: "¿cómo va el funnel de ventas?",
			expectedContext:   ContextVentas,
		},
		{
			name:              "supply maps to compras",
			question:          "métricas de supply",
			expectedCanonical: "métricas de compras",
			expectedContext:   ContextCompras,
		},
		{
			name:              "phrase fires before component words",
			question:          "oportunidades de venta del mes",
			expectedCanonical: "ventas del mes",
			expectedContext:   ContextVentas,
		},
		{
			name:              "no domain terms",
			question:          "hola, ¿qué documentos hay?",
			expectedCanonical: "hola, ¿qué documentos hay?",
			expectedContext:   ContextNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qctx := b.Prepare(tt.question)
			assert.Equal(t, tt.expectedCanonical, qctx.Canonical)
			assert.Equal(t, tt.expectedContext, qctx.Explicit)
		})
	}
}

func TestPrepareIsIdempotent(t *testing.T) {
	b := NewBooster(zap.NewNop())

	once := b.Prepare("reporte de ventas y compras")
	twice := b.Prepare(once.Canonical)

	assert.Equal(t, once.Canonical, twice.Canonical)
}

func TestPreparePhraseOverrideWins(t *testing.T) {
	b := NewBooster(zap.NewNop())

	// The override names ventas even though the last synonym hit in the
	// question is a compras term.
	qctx := b.Prepare("penetración en oportunidades de compras")
	assert.Equal(t, ContextVentas, qctx.Explicit)
}

func TestBoostPrimaryBeatsSecondary(t *testing.T) {
	b := NewBooster(zap.NewNop())
	qctx := b.Prepare("¿cuántas ventas cerramos?")

	primary := b.Boost(qctx, "ventas_mx", 0.1)
	secondary := b.Boost(qctx, "performance_sales", 0.1)

	assert.Greater(t, primary, secondary)
}

func TestBoostMultipliersCompose(t *testing.T) {
	b := NewBooster(zap.NewNop())

	// "oportunidades de venta" canonicalizes to "ventas": topic priority
	// (x1.5), primary context (x3.5) and the "handoff" key term (x2.0) all
	// hit the primary ventas document.
	qctx := b.Prepare("¿cuántas oportunidades de venta con handoff?")
	got := b.Boost(qctx, "ventas_mx", 0.1)

	assert.InDelta(t, 0.1*priorityMultiplier*primaryMultiplier*keyTermMultiplier, got, 1e-9)
}

func TestBoostTopicMatchesSubstringForms(t *testing.T) {
	b := NewBooster(zap.NewNop())

	// Word-boundary rewriting leaves derived forms alone, so the English
	// topic entries must still match them as substrings.
	tests := []struct {
		name     string
		question string
		survivor string
		docID    string
	}{
		{"sales inside presales", "reporte de presales", "presales", "performance_general"},
		{"supply inside supplying", "cadena de supplying", "supplying", "compras_general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qctx := b.Prepare(tt.question)
			assert.Contains(t, qctx.Canonical, tt.survivor)

			got := b.Boost(qctx, tt.docID, 0.1)
			assert.InDelta(t, 0.1*priorityMultiplier, got, 1e-9)
		})
	}
}

func TestBoostNoContextKeepsRawScore(t *testing.T) {
	b := NewBooster(zap.NewNop())
	qctx := b.Prepare("hola")

	assert.Equal(t, 0.42, b.Boost(qctx, "ventas_mx", 0.42))
}

func TestBoostNormalizesDocID(t *testing.T) {
	b := NewBooster(zap.NewNop())
	qctx := b.Prepare("reporte de ventas")

	// Underscored and spaced ids must boost identically.
	underscored := b.Boost(qctx, "Ventas_MX", 0.2)
	spaced := b.Boost(qctx, "ventas mx", 0.2)

	assert.Equal(t, spaced, underscored)
}
