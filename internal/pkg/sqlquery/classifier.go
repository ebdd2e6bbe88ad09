package sqlquery

import "github.com/futig/databot-backend/internal/entity"

// Advisory strings attached per relationship kind.
const (
	suggestionMergeColumns = "Se puede modificar la consulta para incluir las columnas de ambas consultas."
	suggestionJoinTables   = "Se puede hacer un JOIN entre las tablas para obtener resultados relacionados."
	suggestionCombineAggs  = "Se pueden combinar las agregaciones para obtener un análisis más completo."
)

// Classify determines whether and how two query descriptors relate. Related
// means any table or column is shared. The kind checks run in priority
// order, first match wins; two queries sharing only columns across
// differing, non-subset table sets stay RelationshipNone while still
// related.
func Classify(a, b *entity.QueryDescriptor) *entity.RelationshipInfo {
	info := &entity.RelationshipInfo{
		Kind:          entity.RelationshipNone,
		CommonTables:  intersect(a.Tables, b.Tables),
		CommonColumns: intersect(a.Columns, b.Columns),
	}

	info.Related = len(info.CommonTables) > 0 || len(info.CommonColumns) > 0

	switch {
	case setEqual(a.Tables, b.Tables) && !setEqual(a.Columns, b.Columns):
		info.Kind = entity.RelationshipSameTableDiffCols
		info.Suggestions = append(info.Suggestions, suggestionMergeColumns)
	case isSubset(a.Tables, b.Tables) || isSubset(b.Tables, a.Tables):
		info.Kind = entity.RelationshipSubsetTables
		info.Suggestions = append(info.Suggestions, suggestionJoinTables)
	case len(info.CommonTables) > 0 && (len(a.Aggregations) > 0 || len(b.Aggregations) > 0):
		info.Kind = entity.RelationshipRelatedAggregations
		info.Suggestions = append(info.Suggestions, suggestionCombineAggs)
	}

	return info
}

// intersect keeps a's order.
func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, v := range items {
		set[v] = struct{}{}
	}
	return set
}

func setEqual(a, b []string) bool {
	as, bs := toSet(a), toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}

// isSubset reports whether every element of a occurs in b (non-strict).
func isSubset(a, b []string) bool {
	bs := toSet(b)
	for _, v := range a {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}
