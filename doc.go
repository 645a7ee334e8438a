// Package corrgen turns declarative experimental-physics corrections into
// standalone C or CUDA source code — decision trees in, branching functions
// out, no interpreter or schema library left at runtime.
//
// 🚀 What is corrgen?
//
//	A compiler for correctionlib v2 correction sets:
//		• corrset/ — typed model of the JSON document: corrections, inputs,
//		  and the sealed content-node union (leaves, binnings, categories)
//		• codegen/ — the compiler core: variable normalization, content
//		  dispatch, the logarithmic binary-search decision-tree generator,
//		  and the function assembler (enums, validation, unreachable trap)
//		• cmd/corrgen — the CLI: load a (gzipped) set, compile a selection,
//		  write one header per correction, clang-format when available
//
// ✨ Why corrgen?
//
//   - Balanced dispatch – N-bin binnings compile to ⌈log2(N)⌉ comparisons
//   - Refuses loudly – unsupported node kinds stop compilation instead of
//     silently emitting a wrong calibration
//   - Deterministic & pure – identical inputs produce identical text; units
//     compile independently and in parallel
//
// Quick start:
//
//	set, _ := corrset.OpenAuto("jet_jerc.json.gz")
//	corr, _ := set.Lookup("Summer23_JRV1_MC_ScaleFactor")
//	unit, _ := codegen.FromCorrection(corr, codegen.TargetC)
//	text, _ := unit.Compile()
//
// See each subpackage's doc.go for details.
package corrgen
