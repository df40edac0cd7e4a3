package apperrors

import "errors"

// Failure kinds shared by every pipeline stage. External-call failures are
// wrapped with one of these sentinels so the orchestrator can match them with
// errors.Is instead of relying on catch-all recovery.
var (
	// ErrUnavailable marks a transport failure or exhausted retry budget
	// against an external provider (search, render, model, market data).
	ErrUnavailable = errors.New("provider unavailable")

	// ErrParseFailure marks model output that could not be recovered as JSON.
	ErrParseFailure = errors.New("unrecoverable model output")

	// ErrValidationFailure marks a model-selected instrument that is not part
	// of the known universe.
	ErrValidationFailure = errors.New("instrument not in universe")

	// ErrDuplicateSkip is not an error condition: it signals that a write was
	// suppressed because an identical record exists inside the dedup window.
	ErrDuplicateSkip = errors.New("duplicate within dedup window")
)
