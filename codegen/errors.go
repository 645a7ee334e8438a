package codegen

import "errors"

// Error policy (explicit and strict):
//   - Only package-level sentinels are exposed; callers branch with errors.Is.
//   - Every failure is fatal for its unit: no partially generated text is
//     ever returned alongside an error.
//   - Context (correction, variable, node) is attached with %w at the
//     detection site, which is always before emission starts.

var (
	// ErrUnrecognizedKind indicates a declared variable kind or content-node
	// kind outside the closed recognized set.
	// Usage: if errors.Is(err, ErrUnrecognizedKind) { /* fix the schema */ }.
	ErrUnrecognizedKind = errors.New("codegen: unrecognized kind")

	// ErrUnimplemented indicates a recognized content-node kind that code
	// generation deliberately refuses (multibinning, formula, formularef,
	// transform, hashprng). Refusing beats silently emitting a wrong function.
	// Usage: if errors.Is(err, ErrUnimplemented) { /* skip this correction */ }.
	ErrUnimplemented = errors.New("codegen: unimplemented content kind")

	// ErrMalformedTree indicates a structural precondition violation:
	// edge/child count mismatch, non-ascending edges, duplicate variables or
	// category keys, identifiers that cannot appear in emitted C (malformed
	// or reserved words), string variables without permitted values, or a
	// unit with no variables or no content.
	// Usage: if errors.Is(err, ErrMalformedTree) { /* reject the input */ }.
	ErrMalformedTree = errors.New("codegen: malformed correction tree")

	// ErrUnknownTarget indicates a backend target outside the closed
	// enumeration (C, CUDA).
	// Usage: if errors.Is(err, ErrUnknownTarget) { /* fix --target */ }.
	ErrUnknownTarget = errors.New("codegen: unknown backend target")
)
