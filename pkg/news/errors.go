package news

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrItemNotFound indicates no item matched the id (or it is not visible on the read path)
	ErrItemNotFound = errors.New("news item not found")

	// ErrInvalidItem indicates a request failed validation
	ErrInvalidItem = errors.New("invalid news item")
)

// ItemError represents an error related to a news item operation
type ItemError struct {
	ItemID uuid.UUID
	Op     string
	Err    error
}

func (e *ItemError) Error() string {
	if e.ItemID == uuid.Nil {
		return fmt.Sprintf("news operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("news operation %s failed for item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ValidationError lists request fields that failed validation, keyed by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalidItem) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidItem
}
