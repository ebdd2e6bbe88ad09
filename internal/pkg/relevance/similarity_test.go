package relevance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "¿Cuántas VENTAS hubo?",
			expected: "cuántas ventas hubo",
		},
		{
			name:     "collapses whitespace runs",
			input:    "ventas \t  por   mes",
			expected: "ventas por mes",
		},
		{
			name:     "keeps underscores and digits",
			input:    "tabla ventas_mx 2024",
			expected: "tabla ventas_mx 2024",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestScoreRange(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		candidate string
	}{
		{"identical", "ventas por mes", "ventas por mes"},
		{"disjoint", "ventas por mes", "zzz qqq xxx"},
		{"partial overlap", "funnel de ventas", "el funnel tiene etapas"},
		{"empty candidate", "ventas", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.question, tt.candidate)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScoreIdenticalTexts(t *testing.T) {
	got := Score("reporte de ventas mensual", "reporte de ventas mensual")
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestScoreDeterministic(t *testing.T) {
	question := "cuántas oportunidades de venta hubo"
	candidate := "las oportunidades de venta se registran en el funnel"

	first := Score(question, candidate)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(question, candidate))
	}
}

func TestScorePrefersSharedVocabulary(t *testing.T) {
	question := "metricas del funnel de ventas"

	relevant := "el funnel de ventas tiene cinco etapas con metricas por etapa"
	irrelevant := "calendario de vacaciones del equipo de soporte"

	assert.Greater(t, Score(question, relevant), Score(question, irrelevant))
}

func TestFocusCandidateWindowsLongText(t *testing.T) {
	// A long candidate with the matching token buried in the middle. The
	// focused pass must still find it and score clearly above zero.
	filler := strings.Repeat("x ", 800)
	candidate := filler + "oportunidades registradas" + " " + filler

	got := Score("oportunidades", candidate)
	assert.Greater(t, got, overlapWeight-0.01)
}

func TestFocusCandidateFallsBackWhenNoTokenMatches(t *testing.T) {
	question := NormalizeText("resumen general")
	candidate := NormalizeText(strings.Repeat("dato ", 600))

	focused := focusCandidate(question, candidate)
	assert.Equal(t, candidate, focused)
}

func TestFocusCandidateSkipsShortTokens(t *testing.T) {
	// Tokens under the anchor length must not produce windows.
	candidate := strings.Repeat("a ", 600) + "de mes"

	focused := focusCandidate("de mes", candidate)
	// "de" is too short to anchor; "mes" too. Candidate comes back whole.
	assert.Equal(t, candidate, focused)
}
