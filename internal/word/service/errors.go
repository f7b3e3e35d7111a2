package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the store matches exactly one of these with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("store unavailable")
)

// kindError is a client-facing message classified under one of the kinds above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

var (
	ErrWordRequired         = &kindError{ErrInvalidInput, "Word is required"}
	ErrCollaboratorRequired = &kindError{ErrInvalidInput, "Word ID and name are required"}
	ErrNoWordsGiven         = &kindError{ErrInvalidInput, "At least one word is required"}
	ErrWordExists           = &kindError{ErrConflict, "Word already exists"}
	ErrCollaboratorExists   = &kindError{ErrConflict, "Collaborator already exists"}
	ErrWordNotFound         = &kindError{ErrNotFound, "Word not found"}
)

// unavailable classifies an unexpected store failure, keeping the cause for logs.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
