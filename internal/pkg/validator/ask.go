package validator

import (
	"fmt"
	"strings"

	"github.com/futig/databot-backend/internal/entity"
)

// Validator validates incoming API requests.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAskRequest checks the question payload. A question consisting only
// of whitespace counts as empty.
func (v *Validator) ValidateAskRequest(req *entity.AskRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question", entity.ErrEmptyQuestion)
	}
	return nil
}

// ValidateExportFormat checks a transcript export format.
func (v *Validator) ValidateExportFormat(format entity.ExportFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: %s (allowed: markdown, docx, pdf)", entity.ErrUnsupportedFormat, format)
	}
	return nil
}
