package errors

import "errors"

// Sentinel errors for the application. Services return these (usually
// wrapped with context via fmt.Errorf and %w) and the API layer maps them
// to HTTP status codes with errors.Is, so business logic stays free of
// transport concerns.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that client input failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrNoDocument signifies a pdf-mode send without a ready document.
	// This is a local precondition failure; no external call is attempted.
	ErrNoDocument = errors.New("no ready document")

	// ErrBusy signifies that a message round-trip is already in flight.
	ErrBusy = errors.New("a message is already in flight")

	// ErrGateway signifies that the LLM gateway failed or returned a
	// response shape that could not be normalized.
	ErrGateway = errors.New("llm gateway error")

	// ErrInternal signifies an unexpected server-side error.
	ErrInternal = errors.New("internal server error")
)
