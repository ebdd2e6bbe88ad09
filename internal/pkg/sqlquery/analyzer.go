package sqlquery

import (
	"regexp"
	"strings"

	"github.com/futig/databot-backend/internal/entity"
)

var (
	fromPattern    = regexp.MustCompile(`(?is)\bFROM\s+([\w.,\s]+?)(?:WHERE|GROUP\s+BY|ORDER\s+BY|LIMIT|;|$)`)
	selectPattern  = regexp.MustCompile(`(?is)\bSELECT\s+(.*?)\s+FROM\b`)
	wherePattern   = regexp.MustCompile(`(?is)\bWHERE\s+(.*?)(?:GROUP\s+BY|ORDER\s+BY|LIMIT|;|$)`)
	groupByPattern = regexp.MustCompile(`(?is)\bGROUP\s+BY\s+(.*?)(?:HAVING|ORDER\s+BY|LIMIT|;|$)`)
	orderByPattern = regexp.MustCompile(`(?is)\bORDER\s+BY\s+(.*?)(?:LIMIT|;|$)`)

	// Aggregations over a single bare identifier, collected verbatim.
	aggPattern = regexp.MustCompile(`(?i)\b(?:COUNT|SUM|AVG|MIN|MAX)\(\s*\w+\s*\)`)

	// Filters split on AND without parenthesis awareness: a documented
	// limitation of the structural model.
	andSplitPattern = regexp.MustCompile(`(?i)\s+AND\s+`)
	asSplitPattern  = regexp.MustCompile(`(?i)\s+AS\s+`)
)

// Analyze decomposes one SQL statement into its structural descriptor.
// Every clause is extracted independently; a clause that cannot be matched
// yields an empty collection, never an error, so malformed SQL degrades to a
// partially empty descriptor.
func Analyze(query string) *entity.QueryDescriptor {
	desc := &entity.QueryDescriptor{RawQuery: query}

	if m := fromPattern.FindStringSubmatch(query); m != nil {
		desc.Tables = splitAndTrim(m[1], ",")
	}

	if m := selectPattern.FindStringSubmatch(query); m != nil {
		cols := strings.TrimSpace(m[1])
		if cols == "*" {
			desc.Columns = []string{"*"}
		} else {
			for _, col := range strings.Split(cols, ",") {
				col = strings.TrimSpace(col)
				if col == "" {
					continue
				}
				// Keep only the pre-alias expression.
				col = strings.TrimSpace(asSplitPattern.Split(col, 2)[0])
				desc.Columns = append(desc.Columns, col)
			}
		}
	}

	if m := wherePattern.FindStringSubmatch(query); m != nil {
		for _, f := range andSplitPattern.Split(strings.TrimSpace(m[1]), -1) {
			if f = strings.TrimSpace(f); f != "" {
				desc.Filters = append(desc.Filters, f)
			}
		}
	}

	if m := groupByPattern.FindStringSubmatch(query); m != nil {
		desc.GroupBy = splitAndTrim(m[1], ",")
	}

	if m := orderByPattern.FindStringSubmatch(query); m != nil {
		desc.OrderBy = splitAndTrim(m[1], ",")
	}

	desc.Aggregations = aggPattern.FindAllString(query, -1)

	return desc
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
