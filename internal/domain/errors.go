package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the core packages.
// Use errors.Is to check: errors.Is(err, domain.ErrNotFound)
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("card not found")
	ErrImportParse  = errors.New("import parse failed")
	ErrStorageWrite = errors.New("storage write failed")
)

// RowError describes one record of an import that could not be turned into a card.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ImportError collects the rows rejected during a single import attempt.
// Rows that parsed successfully are returned separately by the importer.
type ImportError struct {
	Rows []RowError
}

func (e *ImportError) Error() string {
	parts := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		parts[i] = r.Error()
	}
	return fmt.Sprintf("%s: %d rejected row(s): %s", ErrImportParse, len(e.Rows), strings.Join(parts, "; "))
}

func (e *ImportError) Unwrap() error {
	return ErrImportParse
}

// Add records a rejected row.
func (e *ImportError) Add(line int, err error) {
	e.Rows = append(e.Rows, RowError{Line: line, Err: err})
}

// OrNil returns nil when no row was rejected, so the result can be
// returned directly as an error.
func (e *ImportError) OrNil() error {
	if e == nil || len(e.Rows) == 0 {
		return nil
	}
	return e
}
