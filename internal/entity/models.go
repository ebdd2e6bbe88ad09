package entity

import "fmt"

// ChatRole identifies the author of a transcript entry.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is a single conversation turn.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// TableBlock is one table extracted from a source document. Rows are not
// guaranteed to have len == len(Headers); ragged rows must be tolerated.
type TableBlock struct {
	Index   int        `json:"table_id"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// DocumentRecord is the structured form of one ingested document. Immutable
// once produced by the ingester.
type DocumentRecord struct {
	ID       string
	Title    string
	Sections []Section
	Tables   []TableBlock
	RawText  string
}

// Section is one heading-delimited part of a document, in document order.
type Section struct {
	Title   string
	Content string
}

// Corpus is an insertion-ordered, read-only set of document records keyed by
// id. Iteration order is the order documents were added, which also defines
// the selector's tie-break.
type Corpus struct {
	ids  []string
	docs map[string]*DocumentRecord
}

func NewCorpus() *Corpus {
	return &Corpus{docs: make(map[string]*DocumentRecord)}
}

// Add registers a document. Adding a duplicate id is an error: ids must be
// unique across the corpus.
func (c *Corpus) Add(doc *DocumentRecord) error {
	if _, ok := c.docs[doc.ID]; ok {
		return fmt.Errorf("duplicate document id %q", doc.ID)
	}
	c.ids = append(c.ids, doc.ID)
	c.docs[doc.ID] = doc
	return nil
}

func (c *Corpus) Get(id string) (*DocumentRecord, bool) {
	doc, ok := c.docs[id]
	return doc, ok
}

// IDs returns document ids in insertion order.
func (c *Corpus) IDs() []string {
	return c.ids
}

func (c *Corpus) Len() int {
	return len(c.ids)
}

// SimilarityResult is the per-candidate outcome of one selection pass.
// Ephemeral, produced per question.
type SimilarityResult struct {
	DocID        string
	RawScore     float64
	BoostedScore float64
}

// QueryDescriptor is the best-effort structural decomposition of one SQL
// statement. Immutable after creation; owned by the session that recorded it.
type QueryDescriptor struct {
	RawQuery     string
	Tables       []string
	Columns      []string
	Filters      []string
	GroupBy      []string
	OrderBy      []string
	Aggregations []string
}

// RelationshipKind classifies how two query descriptors relate.
type RelationshipKind string

const (
	RelationshipNone                RelationshipKind = "NONE"
	RelationshipSameTableDiffCols   RelationshipKind = "SAME_TABLE_DIFF_COLUMNS"
	RelationshipSubsetTables        RelationshipKind = "SUBSET_TABLES"
	RelationshipRelatedAggregations RelationshipKind = "RELATED_AGGREGATIONS"
)

// RelationshipInfo describes the relation between two query descriptors.
// Related may be true with Kind == RelationshipNone: two queries sharing only
// columns across unrelated table sets carry no kind and no suggestions.
type RelationshipInfo struct {
	Related       bool
	CommonTables  []string
	CommonColumns []string
	Kind          RelationshipKind
	Suggestions   []string
}

// QuerySuggestion offers a mechanical rewrite of a previously produced query.
type QuerySuggestion struct {
	OriginalQuery string `json:"original_query"`
	ModifiedQuery string `json:"modified_query"`
	Explanation   string `json:"explanation"`
}

// Session owns one conversation's transcript and accumulated query history.
// It is created lazily on first question and cleared only by reset or process
// restart.
type Session struct {
	ID         string
	Transcript []ChatMessage
	QueryKeys  []string
	QueryLog   map[string]*QueryDescriptor
}
