// Package sqlquery provides best-effort lexical analysis of SQL statements
// found in model answers. The clause handling is deliberately pattern-based,
// not a real SQL grammar: the relationship classifier and the suggestion
// generator depend on the same loose structural model, so it must not be
// silently upgraded to a full parser.
package sqlquery

import (
	"regexp"
	"strings"
)

// The four pattern families, applied in order: fenced sql blocks, fenced
// generic blocks with a SELECT...; statement, inline backtick statements,
// and bare SELECT...; statements.
var extractPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?is)```sql\\s*(.*?)\\s*```"),
	regexp.MustCompile("(?is)```\\s*(SELECT[\\s\\S]*?;)\\s*```"),
	regexp.MustCompile("(?is)`(SELECT[\\s\\S]*?;)`"),
	regexp.MustCompile(`(?is)(SELECT\s+[\w\*]+\s+FROM\s+[\w\.]+(?:\s+WHERE\s+.*?)?(?:\s+GROUP\s+BY\s+.*?)?(?:\s+HAVING\s+.*?)?(?:\s+ORDER\s+BY\s+.*?)?(?:\s+LIMIT\s+\d+)?;)`),
}

// Extract returns every SQL statement found in the text, in pattern-family
// order. A statement matched by more than one family appears once per match;
// consumers must tolerate repeats.
func Extract(text string) []string {
	var queries []string
	for _, pattern := range extractPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			queries = append(queries, strings.TrimSpace(m[1]))
		}
	}
	return queries
}
