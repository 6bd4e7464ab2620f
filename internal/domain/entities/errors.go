package entities

import (
	"errors"
	"fmt"
)

// Error taxonomy. Services wrap these; handlers classify with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

// Store-level conditions raised by repository adapters
var (
	ErrStoreMissing = errors.New("store does not exist")
	ErrStoreCorrupt = errors.New("store contents could not be parsed")
)

// Lookup-specific not-found conditions
var (
	ErrRecipeNotFound   = fmt.Errorf("recipe %w", ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)
	ErrFavoriteNotFound = fmt.Errorf("favorite %w", ErrNotFound)
	ErrFavoriteExists   = fmt.Errorf("favorite already exists: %w", ErrConflict)
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ErrNoFavorites is the empty-result condition of a favorites listing
var ErrNoFavorites = fmt.Errorf("no favorites: %w", ErrNotFound)
