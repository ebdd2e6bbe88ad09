package sqlquery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/futig/databot-backend/internal/entity"
)

// Representative query shapes synthesized for the current question. These
// stand in for the query the question would likely produce, so the
// classifier can judge whether the previous real query is worth rewriting.
const (
	ventasRepresentativeQuery  = "SELECT id, fecha, monto FROM ventas WHERE status = 'completada'"
	genericRepresentativeQuery = "SELECT * FROM tabla WHERE condicion = 'valor'"

	suggestionExplanation = "He modificado la consulta original para responder a tu pregunta sobre ventas."
)

var (
	joinKeywordPattern  = regexp.MustCompile(`(?i)\bJOIN\b`)
	whereKeywordPattern = regexp.MustCompile(`(?i)\bWHERE\b`)
	groupByStartPattern = regexp.MustCompile(`(?i)\bGROUP\s+BY\b`)
	countPattern        = regexp.MustCompile(`(?i)\bCOUNT\b`)
	selectSplitPattern  = regexp.MustCompile(`(?is)^\s*SELECT\s+(.*?)\s+(FROM\b.*)$`)
)

// Suggest offers a mechanical rewrite of the session's most recent query
// when it relates to the current question. The rewrite is template-based, a
// proof of concept rather than a query planner; nil is returned when the log
// is empty, the queries are unrelated, or the rewrite changes nothing.
func Suggest(queryLog []*entity.QueryDescriptor, currentQuestion string) *entity.QuerySuggestion {
	if len(queryLog) == 0 {
		return nil
	}
	last := queryLog[len(queryLog)-1]

	intent := strings.ToLower(currentQuestion)

	representative := genericRepresentativeQuery
	if strings.Contains(intent, "venta") {
		representative = ventasRepresentativeQuery
	}

	relation := Classify(last, Analyze(representative))
	if !relation.Related {
		return nil
	}

	modified := rewriteQuery(last, intent)
	if modified == last.RawQuery {
		return nil
	}

	return &entity.QuerySuggestion{
		OriginalQuery: last.RawQuery,
		ModifiedQuery: modified,
		Explanation:   suggestionExplanation,
	}
}

// rewriteQuery applies the canned sales-analysis rewrites to the previous
// query: a JOIN to the ventas table with a completed-status filter when the
// intent mentions the sales family, and a count projection when the intent
// asks how many.
func rewriteQuery(last *entity.QueryDescriptor, intent string) string {
	query := last.RawQuery

	if strings.Contains(intent, "venta") && !joinKeywordPattern.MatchString(query) && len(last.Tables) > 0 {
		base := last.Tables[0]
		fromPattern := regexp.MustCompile(`(?i)\bFROM\s+` + regexp.QuoteMeta(base) + `\b`)
		if fromPattern.MatchString(query) {
			join := fmt.Sprintf("FROM %s JOIN ventas ON %s.id = ventas.%s_id", base, base, singularize(base))
			query = fromPattern.ReplaceAllString(query, join)
			query = injectStatusFilter(query)
		}
	}

	if countingIntent(intent) && !countPattern.MatchString(query) {
		if m := selectSplitPattern.FindStringSubmatch(query); m != nil {
			query = "SELECT " + m[1] + ", COUNT(ventas.id) AS total_ventas " + m[2]
		}
	}

	return query
}

// injectStatusFilter places the completed-sales condition before any
// existing WHERE, else before GROUP BY, else appends it, in that preference
// order.
func injectStatusFilter(query string) string {
	if loc := whereKeywordPattern.FindStringIndex(query); loc != nil {
		return query[:loc[0]] + "WHERE ventas.status = 'completada' AND " + query[loc[1]:]
	}
	if loc := groupByStartPattern.FindStringIndex(query); loc != nil {
		return query[:loc[0]] + "WHERE ventas.status = 'completada' " + query[loc[0]:]
	}
	if trimmed, ok := strings.CutSuffix(query, ";"); ok {
		return trimmed + " WHERE ventas.status = 'completada';"
	}
	return query + " WHERE ventas.status = 'completada'"
}

func countingIntent(intent string) bool {
	return strings.Contains(intent, "count") ||
		strings.Contains(intent, "cuant") ||
		strings.Contains(intent, "cuánt")
}

// singularize derives the foreign-key base from a table name, following the
// registros -> registro_id naming convention.
func singularize(table string) string {
	return strings.TrimSuffix(table, "s")
}
