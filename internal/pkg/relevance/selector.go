package relevance

import (
	"context"
	"strings"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	sectionSampleLen = 200
	rawSampleLen     = 1000
)

// ScoreFunc computes the raw similarity between a question and a candidate
// comparison text.
type ScoreFunc func(question, candidate string) float64

// Selector picks the single most relevant document for a question.
type Selector struct {
	booster *Booster
	score   ScoreFunc
	logger  *zap.Logger
}

type SelectorOption func(*Selector)

// WithScoreFunc replaces the similarity scorer, used by tests to observe
// scoring calls.
func WithScoreFunc(fn ScoreFunc) SelectorOption {
	return func(s *Selector) { s.score = fn }
}

func NewSelector(logger *zap.Logger, opts ...SelectorOption) *Selector {
	s := &Selector{
		booster: NewBooster(logger),
		score:   Score,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select scores every corpus entry against the question and returns the best
// match. A corpus with exactly one entry is returned without scoring. Ties
// keep the first-inserted document; for a fixed corpus snapshot the result is
// deterministic. Returns entity.ErrNoDocuments on an empty corpus.
func (s *Selector) Select(ctx context.Context, question string, corpus *entity.Corpus) (string, *entity.DocumentRecord, error) {
	if corpus == nil || corpus.Len() == 0 {
		return "", nil, entity.ErrNoDocuments
	}

	if corpus.Len() == 1 {
		id := corpus.IDs()[0]
		doc, _ := corpus.Get(id)
		ctxzap.Debug(ctx, "single-document corpus, skipping scoring", zap.String("doc_id", id))
		return id, doc, nil
	}

	qctx := s.booster.Prepare(question)

	var (
		bestID    string
		bestScore float64
		first     = true
	)
	for _, id := range corpus.IDs() {
		doc, _ := corpus.Get(id)

		raw := s.score(qctx.Canonical, comparisonText(doc))
		boosted := s.booster.Boost(qctx, id, raw)

		ctxzap.Debug(ctx, "document scored",
			zap.String("doc_id", id),
			zap.Float64("raw_score", raw),
			zap.Float64("boosted_score", boosted),
		)

		if first || boosted > bestScore {
			bestID, bestScore, first = id, boosted, false
		}
	}

	ctxzap.Info(ctx, "most relevant document selected",
		zap.String("doc_id", bestID),
		zap.Float64("score", bestScore),
		zap.String("explicit_context", string(qctx.Explicit)),
	)

	best, _ := corpus.Get(bestID)
	return bestID, best, nil
}

// comparisonText assembles the scored representation of a document: title,
// a sample of every section, and the head of the raw text.
func comparisonText(doc *entity.DocumentRecord) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString(" ")
	for _, sec := range doc.Sections {
		b.WriteString(sec.Title)
		b.WriteString(" ")
		b.WriteString(truncateRunes(sec.Content, sectionSampleLen))
		b.WriteString(" ")
	}
	b.WriteString(truncateRunes(doc.RawText, rawSampleLen))
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
