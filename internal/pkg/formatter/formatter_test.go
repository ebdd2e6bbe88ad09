package formatter

import (
	"os"
	"testing"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		format      entity.ExportFormat
		contentType string
		extension   string
	}{
		{entity.FormatMarkdown, "text/markdown; charset=utf-8", ".md"},
		{entity.FormatDOCX, docxContentType, ".docx"},
		{entity.FormatPDF, "application/pdf", ".pdf"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := factory.Create(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, f.ContentType())
			assert.Equal(t, tt.extension, f.FileExtension())
		})
	}
}

func TestFactoryCreateUnsupported(t *testing.T) {
	factory := NewFactory()

	_, err := factory.Create(entity.ExportFormat("html"))
	assert.Error(t, err)
}

func TestMarkdownFormat(t *testing.T) {
	data, err := NewMarkdownFormatter().Format([]Entry{
		{Speaker: "Usuario", Text: "hola"},
		{Speaker: "Asistente", Text: "buenas"},
	})
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "# "+baseTitle)
	assert.Contains(t, text, "## Usuario\n\nhola\n")
	assert.Contains(t, text, "## Asistente\n\nbuenas\n")
}

func TestPDFFormatProducesDocument(t *testing.T) {
	data, err := NewPDFFormatter().Format([]Entry{
		{Speaker: "Usuario", Text: "contenido de prueba"},
	})
	require.NoError(t, err)

	// PDF files start with the %PDF magic.
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestDOCXFormatProducesDocument(t *testing.T) {
	requireUnidocLicense(t)

	data, err := NewDOCXFormatter().Format([]Entry{
		{Speaker: "Usuario", Text: "contenido de prueba\nsegunda línea"},
	})
	require.NoError(t, err)

	// DOCX files are zip archives: PK magic.
	require.Greater(t, len(data), 2)
	assert.Equal(t, "PK", string(data[:2]))
}

// Saving a document needs a UniDoc license key; without one the library
// refuses to serialize, so the docx cases only run where the key is set.
func requireUnidocLicense(t *testing.T) {
	t.Helper()
	if os.Getenv("UNIDOC_LICENSE_API_KEY") == "" {
		t.Skip("UNIDOC_LICENSE_API_KEY is not set")
	}
}
