package engine

import "errors"

var (
	// ErrDatabaseNotFound is returned when no file backs the named database.
	ErrDatabaseNotFound = errors.New("database not found")
	// ErrDocumentNotFound is returned when the id has no stored document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrCorruptDocument is returned when stored bytes cannot be decoded.
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrInvalidName is returned for database names that cannot map to a file.
	ErrInvalidName = errors.New("invalid database name")
	// ErrInvalidDocumentID is returned for empty document ids.
	ErrInvalidDocumentID = errors.New("invalid document id")
	// ErrReadOnly is returned by mutations on a handle opened with OpenDatabase.
	ErrReadOnly = errors.New("database opened read-only")
)
