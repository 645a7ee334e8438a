// Package corrset models a correctionlib v2 correction set as typed Go
// values: a set of named corrections, each declaring ordered inputs and a
// tree of content nodes (constant leaves, interval binnings, categorical
// dispatch, and several node kinds that downstream code generation refuses).
//
// The package owns everything up to — but not including — code generation:
//
//   - Decoding the (optionally gzip-compressed) JSON document into the typed
//     model, including the tagged content union keyed by "nodetype".
//   - Resolving per-input numeric bounds and categorical value sets by
//     walking the content tree (Correction.Summary).
//
// Content is a sealed interface: the closed set of node kinds lives in this
// package, so a type switch over Content with a default arm is exhaustive by
// construction. Consumers never mutate decoded nodes.
//
// Usage:
//
//	set, err := corrset.OpenAuto("jet_jerc.json.gz")
//	if err != nil { ... }
//	for _, c := range set.Corrections {
//		stats := c.Summary()
//		...
//	}
package corrset
