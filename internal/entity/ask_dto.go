package entity

// AskRequest is the payload of POST /ask.
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
	Reset     bool   `json:"reset,omitempty"`
}

// AskResponse is the answer to one question.
type AskResponse struct {
	Response     string `json:"response"`
	SessionID    string `json:"session_id"`
	DocumentUsed string `json:"document_used"`
}

// DocumentInfoDTO describes one loaded document for the inventory endpoint.
type DocumentInfoDTO struct {
	Name    string `json:"name"`
	Size    string `json:"size"`
	Summary string `json:"summary"`
}

// DocumentListResponse is the payload of GET /documents.
type DocumentListResponse struct {
	Documents []DocumentInfoDTO `json:"documents"`
	Total     int               `json:"total"`
}

// ExportFormat selects the rendering of a transcript export.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatDOCX     ExportFormat = "docx"
	FormatPDF      ExportFormat = "pdf"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// ErrorResponse represents an API error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
