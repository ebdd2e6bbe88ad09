package relevance

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ContextFamily is a canonical topic family detected in a question.
type ContextFamily string

const (
	ContextNone    ContextFamily = ""
	ContextVentas  ContextFamily = "ventas"
	ContextCompras ContextFamily = "compras"
)

const (
	priorityMultiplier  = 1.5
	primaryMultiplier   = 3.5
	secondaryMultiplier = 2.5
	keyTermMultiplier   = 2.0
)

// synonymRule rewrites one domain term to its canonical family form.
// Word-boundary anchored so rewriting an already-canonical question is a
// no-op. Order matters: phrases must fire before their component words.
type synonymRule struct {
	pattern   *regexp.Regexp
	canonical string
	family    ContextFamily
}

func newSynonymRule(term string, family ContextFamily) synonymRule {
	return synonymRule{
		pattern:   regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`),
		canonical: string(family),
		family:    family,
	}
}

var synonymRules = []synonymRule{
	newSynonymRule("oportunidades de venta", ContextVentas),
	newSynonymRule("funnel de ventas", ContextVentas),
	newSynonymRule("funnel de compras", ContextCompras),
	newSynonymRule("sales", ContextVentas),
	newSynonymRule("ventas", ContextVentas),
	newSynonymRule("supply", ContextCompras),
	newSynonymRule("compras", ContextCompras),
	newSynonymRule("oportunidades", ContextVentas),
	newSynonymRule("oportunidad", ContextVentas),
	newSynonymRule("originación", ContextVentas),
	newSynonymRule("originacion", ContextVentas),
	newSynonymRule("venta", ContextVentas),
	newSynonymRule("leads", ContextVentas),
}

// phraseOverrides force the canonical context regardless of any other
// signal. Checked before synonym rewriting and never overwritten by it.
var phraseOverrides = []struct {
	phrase string
	family ContextFamily
}{
	{"penetracion en oportunidades", ContextVentas},
	{"penetración en oportunidades", ContextVentas},
}

// topicPriorities maps a canonical topic word to the document-id substrings
// expected in documents relevant to it.
var topicPriorities = []struct {
	topic    string
	keywords []string
}{
	{"originación", []string{"tablero", "originación", "sales mex"}},
	{"ventas", []string{"performance", "ventas", "sales"}},
	// Synonym rewriting folds the bare words "sales" and "supply" into
	// "ventas"/"compras" before topic matching, but both entries still catch
	// substring forms the rewrite leaves alone ("presales", "supplying").
	{"sales", []string{"performance", "ventas", "sales"}},
	{"compras", []string{"compras", "mx", "supply"}},
	{"supply", []string{"compras", "mx", "supply"}},
	{"metrics", []string{"metrics", "supply", "input"}},
	{"reservas", []string{"atribución", "reservas"}},
}

// contextBoosts describes per-family primary/secondary id substrings.
// Primary is checked first; at most one of the two multipliers applies to a
// given document.
var contextBoosts = map[ContextFamily]struct {
	primary   []string
	secondary []string
}{
	ContextVentas:  {primary: []string{"ventas mx"}, secondary: []string{"ventas", "sales", "performance"}},
	ContextCompras: {secondary: []string{"compras", "supply", "metrics"}},
}

// ventasKeyTerms double the score of the primary ventas document when
// present anywhere in the question.
var ventasKeyTerms = []string{"oportunidades", "handoff", "lead", "performance", "penetración"}

// QuestionContext is the per-question analysis shared by all boost rules.
type QuestionContext struct {
	// Canonical is the question after synonym normalization.
	Canonical string
	// Explicit is the detected context family, if any.
	Explicit ContextFamily
}

// boostRule is one named, ordered scoring adjustment.
type boostRule struct {
	name  string
	apply func(q *QuestionContext, docID string, score float64) float64
}

// Booster adjusts raw similarity scores with domain keyword rules. The
// resulting value is a relative ranking signal and may exceed 1.0.
type Booster struct {
	rules  []boostRule
	logger *zap.Logger
}

func NewBooster(logger *zap.Logger) *Booster {
	return &Booster{
		logger: logger,
		rules: []boostRule{
			{name: "topic_priority", apply: applyTopicPriority},
			{name: "explicit_context", apply: applyExplicitContext},
			{name: "key_terms", apply: applyKeyTerms},
		},
	}
}

// Prepare analyzes a question once: phrase overrides, then ordered synonym
// rewriting. The returned context feeds both the scorer (which compares the
// canonical question) and the per-document boost rules.
func (b *Booster) Prepare(question string) *QuestionContext {
	normalized := strings.ToLower(question)

	qctx := &QuestionContext{}
	overridden := false
	for _, ov := range phraseOverrides {
		if strings.Contains(normalized, ov.phrase) {
			qctx.Explicit = ov.family
			overridden = true
			b.logger.Info("explicit context forced by phrase override",
				zap.String("phrase", ov.phrase),
				zap.String("context", string(ov.family)),
			)
			break
		}
	}

	for _, rule := range synonymRules {
		if !rule.pattern.MatchString(normalized) {
			continue
		}
		normalized = rule.pattern.ReplaceAllString(normalized, rule.canonical)
		if !overridden {
			qctx.Explicit = rule.family
		}
	}

	qctx.Canonical = normalized
	return qctx
}

// Boost applies the ordered rule pipeline to one candidate's raw score.
// Multipliers compose when several rules fire for the same document.
func (b *Booster) Boost(qctx *QuestionContext, docID string, rawScore float64) float64 {
	id := normalizeDocID(docID)

	score := rawScore
	for _, rule := range b.rules {
		score = rule.apply(qctx, id, score)
	}

	if score != rawScore {
		b.logger.Debug("score boosted",
			zap.String("doc_id", docID),
			zap.Float64("raw", rawScore),
			zap.Float64("boosted", score),
		)
	}
	return score
}

func applyTopicPriority(q *QuestionContext, docID string, score float64) float64 {
	for _, tp := range topicPriorities {
		if !strings.Contains(q.Canonical, tp.topic) {
			continue
		}
		for _, kw := range tp.keywords {
			if strings.Contains(docID, kw) {
				return score * priorityMultiplier
			}
		}
	}
	return score
}

func applyExplicitContext(q *QuestionContext, docID string, score float64) float64 {
	boosts, ok := contextBoosts[q.Explicit]
	if !ok {
		return score
	}
	for _, kw := range boosts.primary {
		if strings.Contains(docID, kw) {
			return score * primaryMultiplier
		}
	}
	for _, kw := range boosts.secondary {
		if strings.Contains(docID, kw) {
			return score * secondaryMultiplier
		}
	}
	return score
}

func applyKeyTerms(q *QuestionContext, docID string, score float64) float64 {
	if !isPrimaryFor(ContextVentas, docID) {
		return score
	}
	for _, term := range ventasKeyTerms {
		if strings.Contains(q.Canonical, term) {
			return score * keyTermMultiplier
		}
	}
	return score
}

func isPrimaryFor(family ContextFamily, docID string) bool {
	for _, kw := range contextBoosts[family].primary {
		if strings.Contains(docID, kw) {
			return true
		}
	}
	return false
}

// normalizeDocID lowercases an id and treats underscores as spaces so that
// file-name derived ids ("ventas_mx") match the keyword tables.
func normalizeDocID(id string) string {
	return strings.ReplaceAll(strings.ToLower(id), "_", " ")
}
