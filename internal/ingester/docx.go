// Package ingester turns Word documents into structured corpus records.
package ingester

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
	"go.uber.org/zap"
)

const docxExtension = ".docx"

// DocxLoader ingests every .docx file in a directory. Load order is sorted
// by file name, which fixes the corpus insertion order and therefore the
// selector's tie-break.
type DocxLoader struct {
	docsDir string
	logger  *zap.Logger
}

func NewDocxLoader(docsDir string, logger *zap.Logger) *DocxLoader {
	return &DocxLoader{docsDir: docsDir, logger: logger}
}

// Load parses all documents in the configured directory. A document that
// fails to parse is logged and skipped; an empty directory is an error
// because the service cannot answer anything without a corpus.
func (l *DocxLoader) Load(ctx context.Context) (*entity.Corpus, error) {
	pattern := filepath.Join(l.docsDir, "*"+docxExtension)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scan documents dir: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", entity.ErrNoDocuments, docxExtension, l.docsDir)
	}
	sort.Strings(paths)

	corpus := entity.NewCorpus()
	for _, path := range paths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		record, err := l.parseFile(path)
		if err != nil {
			l.logger.Error("skipping unreadable document",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}

		if err := corpus.Add(record); err != nil {
			return nil, err
		}
		l.logger.Info("document ingested",
			zap.String("doc_id", record.ID),
			zap.Int("sections", len(record.Sections)),
			zap.Int("tables", len(record.Tables)),
		)
	}

	if corpus.Len() == 0 {
		return nil, fmt.Errorf("%w: all documents failed to parse", entity.ErrNoDocuments)
	}
	return corpus, nil
}

func (l *DocxLoader) parseFile(path string) (*entity.DocumentRecord, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	id := strings.TrimSuffix(filepath.Base(path), docxExtension)
	record := buildRecord(doc, id)
	return record, nil
}

// buildRecord extracts title, heading-delimited sections, tables and raw
// text from a parsed document.
func buildRecord(doc *document.Document, id string) *entity.DocumentRecord {
	record := &entity.DocumentRecord{ID: id, Title: id}

	paragraphs := doc.Paragraphs()
	if len(paragraphs) > 0 {
		if title := paragraphText(paragraphs[0]); title != "" {
			record.Title = title
		}
	}

	var rawLines []string
	var current *entity.Section
	for _, para := range paragraphs {
		text := paragraphText(para)
		if text != "" {
			rawLines = append(rawLines, text)
		}

		if strings.HasPrefix(para.Style(), "Heading") {
			if current != nil && current.Content != "" {
				record.Sections = append(record.Sections, *current)
			}
			current = &entity.Section{Title: text}
			continue
		}
		if current != nil && text != "" {
			if current.Content != "" {
				current.Content += "\n"
			}
			current.Content += text
		}
	}
	if current != nil && current.Content != "" {
		record.Sections = append(record.Sections, *current)
	}

	for i, tbl := range doc.Tables() {
		block := entity.TableBlock{Index: i}

		rows := tbl.Rows()
		if len(rows) > 0 {
			block.Headers = rowCells(rows[0])
			for _, row := range rows[1:] {
				cells := rowCells(row)
				if allEmpty(cells) {
					continue
				}
				block.Rows = append(block.Rows, cells)
			}
		}
		record.Tables = append(record.Tables, block)

		for _, row := range rows {
			var filled []string
			for _, cell := range rowCells(row) {
				if cell != "" {
					filled = append(filled, cell)
				}
			}
			if len(filled) > 0 {
				rawLines = append(rawLines, strings.Join(filled, " | "))
			}
		}
	}

	record.RawText = strings.Join(rawLines, "\n")
	return record
}

func paragraphText(para document.Paragraph) string {
	var b strings.Builder
	for _, run := range para.Runs() {
		b.WriteString(run.Text())
	}
	return strings.TrimSpace(b.String())
}

func rowCells(row document.Row) []string {
	var cells []string
	for _, cell := range row.Cells() {
		var b strings.Builder
		for _, para := range cell.Paragraphs() {
			if text := paragraphText(para); text != "" {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(text)
			}
		}
		cells = append(cells, b.String())
	}
	return cells
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
