package csvimport

import (
	"fmt"
	"strings"

	"github.com/shopcraft/storefront/internal/domain/shared"
)

// File level errors
var (
	ErrEmptyFile       = shared.ErrInvalidInput.WithMessage("CSV file is empty")
	ErrInvalidEncoding = shared.ErrInvalidInput.WithMessage("CSV file is not valid UTF-8")
	ErrMissingHeader   = shared.ErrInvalidInput.WithMessage("CSV file has no header row")
)

// RowError is a problem with one row, or one field of it.
type RowError struct {
	Line    int
	Column  string
	Value   string
	Message string
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	if e.Value == "" {
		return fmt.Sprintf("line %d, column %s: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d, column %s: %s (got %q)", e.Line, e.Column, e.Message, e.Value)
}

// Errors collects every row error of one file.
type Errors []*RowError

func (e Errors) Error() string {
	const shown = 5
	msgs := make([]string, 0, shown)
	for i, re := range e {
		if i == shown {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(e)-shown))
			break
		}
		msgs = append(msgs, re.Error())
	}
	return fmt.Sprintf("%d invalid rows: %s", len(e), strings.Join(msgs, "; "))
}

// Is makes every import failure match shared.ErrInvalidInput.
func (e Errors) Is(target error) bool {
	return shared.ErrInvalidInput.Is(target)
}
