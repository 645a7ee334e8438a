package corrset

import "errors"

// Error policy mirrors the rest of the module: package-level sentinels only,
// context attached at the failure site with %w, callers branch via errors.Is.

var (
	// ErrBadDocument indicates the input is not a structurally valid
	// correction-set document (missing fields, wrong JSON shapes, bad edge
	// literals, malformed flow values).
	// Usage: if errors.Is(err, ErrBadDocument) { /* reject the file */ }.
	ErrBadDocument = errors.New("corrset: malformed correction document")

	// ErrUnknownNodeType indicates a content node whose "nodetype"
	// discriminator is outside the closed recognized set.
	// Usage: if errors.Is(err, ErrUnknownNodeType) { /* report nodetype */ }.
	ErrUnknownNodeType = errors.New("corrset: unknown content node type")
)
