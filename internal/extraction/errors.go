package extraction

import (
	"fmt"

	"github.com/jonathan/specsense/internal/types"
)

// PatternError represents a pattern definition that could not be compiled
type PatternError struct {
	Index   int
	Field   types.FieldKey
	Message string
	Cause   error
}

func (e *PatternError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pattern %d (%s): %s: %v", e.Index, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("pattern %d (%s): %s", e.Index, e.Field, e.Message)
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}
