package model

import "errors"

// Error taxonomy surfaced at the request boundary. Services wrap these so
// handlers can map them to status codes with errors.Is.
var (
	// ErrUnauthorized covers every token failure: missing, malformed,
	// unknown key, bad signature or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument marks rejected request input, such as an empty
	// filename.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means no record exists for the given owner and file ID.
	ErrNotFound = errors.New("file not found")

	// ErrStorage marks a failed object-store or metadata-store call that
	// left both stores unchanged relative to each other.
	ErrStorage = errors.New("storage operation failed")

	// ErrInconsistentState marks a multi-step operation that succeeded
	// partway: the object store was updated but the metadata store was
	// not, or vice versa. Requires manual reconciliation, retrying does
	// not help.
	ErrInconsistentState = errors.New("object store and metadata diverged")
)
