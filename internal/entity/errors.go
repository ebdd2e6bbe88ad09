package entity

import "errors"

// Domain errors
var (
	// Corpus errors
	ErrNoDocuments      = errors.New("no documents available")
	ErrDocumentNotFound = errors.New("document not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Validation errors
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrMissingField      = errors.New("required field is missing")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
