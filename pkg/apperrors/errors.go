package apperrors

import "errors"

var (
	// ErrNotFound is returned when a referenced entity, observation, relation
	// or scope does not exist. Callers treat it as guidance, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a create would duplicate an existing
	// row. Facades and tools treat it as success-with-no-op.
	ErrAlreadyExists = errors.New("already exists")

	// ErrStoreUnavailable indicates the persistence layer cannot be reached.
	// It is fatal for the current call.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrEmbedderUnavailable indicates the embedding backend failed or timed
	// out. It degrades search precision but never fails a write or a search.
	ErrEmbedderUnavailable = errors.New("embedder unavailable")

	// ErrConfirmationRequired is returned by destructive operations invoked
	// without an explicit confirmation flag.
	ErrConfirmationRequired = errors.New("confirmation required")
)
