package formatter

import (
	"fmt"

	"github.com/futig/databot-backend/internal/entity"
)

const baseTitle = "Transcripción de la Conversación"

// Entry is one turn of the exported transcript: who spoke and what they said.
type Entry struct {
	Speaker string
	Text    string
}

type Formatter interface {
	Format(entries []Entry) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
