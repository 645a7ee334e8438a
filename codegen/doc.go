// Package codegen compiles one correction's typed content tree into a single
// standalone C (or CUDA) function that evaluates the correction at runtime
// with no interpreter or schema library present.
//
// 🚀 What does it emit?
//
//	For every correction: required includes, one enum type per string-valued
//	input (scoped to the correction to avoid cross-correction collisions), a
//	documentary description comment, and one float-returning function that
//	validates its inputs, walks a nested-conditional decision tree, and traps
//	if control ever falls through.
//
// ✨ Key properties:
//   - interval binnings compile to balanced nested conditionals: at most
//     ⌈log2(N)⌉ comparisons for N bins, never a linear scan
//   - three out-of-range policies: clamp to the boundary bin, raise the
//     backend failure primitive, or evaluate an explicit fallback subtree
//   - every structural defect (edge/child count mismatch, non-ascending
//     edges, empty unit) is rejected before any text is produced
//   - unsupported node kinds (multibinning, formula, formularef, transform,
//     hashprng) refuse loudly with ErrUnimplemented — never wrong code
//
// ⚙️ Usage:
//
//	unit, err := codegen.FromCorrection(corr, codegen.TargetC)
//	if err != nil { ... }
//	text, err := unit.Compile()
//	if err != nil { ... }
//	// persist text as <name>.h
//
// Compilation is pure and deterministic: identical inputs yield identical
// text, units share no state, and batches may compile units concurrently.
package codegen
