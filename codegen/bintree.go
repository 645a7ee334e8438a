package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/calibkit/corrgen/corrset"
)

// compileBinning emits the dispatch fragment for one ordered interval
// binning: documentary edge/bin arrays, the out-of-range prologue, then a
// balanced nested-conditional search tree over the interior intervals.
//
// Structure of the emitted fragment (query variable q, N edges):
//
//	const float q_edges[N] = { ... };   // documentary, not read at runtime
//	const int   q_bin[N-1] = { ... };
//	<out-of-range prologue per flow policy>
//	<nested conditionals, ⌈log2(N-1)⌉ comparisons deep>
//
// The query identifier is threaded through generation as a parameter instead
// of a placeholder find/replace pass, so no emitted text is ever rewritten.
//
// Preconditions (checked before any text is produced, all ErrMalformedTree):
//   - the query variable is a bare identifier
//   - at least one interval: len(Edges) >= 2 and len(Edges) == len(Content)+1
//   - edges strictly ascending after infinities are clamped into the finite
//     float domain (comparisons are emitted in that same finite domain)
func compileBinning(e *emitter, corr string, tgt Target, b *corrset.Binning) error {
	q := b.Input
	if !isCName(q) {
		return fmt.Errorf("correction %q: binning input %q is not a usable identifier: %w", corr, q, ErrMalformedTree)
	}
	if len(b.Edges) < 2 {
		return fmt.Errorf("correction %q: binning on %q has no intervals: %w", corr, q, ErrMalformedTree)
	}
	if len(b.Edges) != len(b.Content)+1 {
		return fmt.Errorf("correction %q: binning on %q: %d edges for %d bins: %w",
			corr, q, len(b.Edges), len(b.Content), ErrMalformedTree)
	}

	if _, ok := b.Flow.Fallback(); !ok && !b.Flow.Clamp() && !b.Flow.Error() {
		return fmt.Errorf("correction %q: binning on %q has no flow policy: %w", corr, q, ErrMalformedTree)
	}

	edges := make([]float64, len(b.Edges))
	for i, v := range b.Edges {
		edges[i] = clampEdge(v)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i-1] >= edges[i] {
			return fmt.Errorf("correction %q: binning on %q: edges not strictly ascending at index %d: %w",
				corr, q, i, ErrMalformedTree)
		}
	}

	emitBinArrays(e, q, edges)
	if err := emitFlowPrologue(e, corr, tgt, q, edges, b); err != nil {
		return err
	}

	return emitSearchTree(e, corr, tgt, q, edges, b.Content, 0, len(b.Content))
}

// emitBinArrays embeds the edge list and bin indices as local declarations, a
// debugging aid only; the dispatch below never reads them.
func emitBinArrays(e *emitter, q string, edges []float64) {
	lits := make([]string, len(edges))
	for i, v := range edges {
		lits[i] = edgeLit(v)
	}
	bins := make([]string, len(edges)-1)
	for i := range bins {
		bins[i] = strconv.Itoa(i)
	}

	e.linef("/* binning over %s: %d bins */", q, len(edges)-1)
	e.linef("const float %s_edges[%d] = {%s};", q, len(edges), strings.Join(lits, ", "))
	e.linef("const int %s_bin[%d] = {%s};", q, len(bins), strings.Join(bins, ", "))
}

// emitFlowPrologue handles queries outside [edges[0], edges[len-1]) ahead of
// the search tree.
//
// Note the deliberate asymmetry of the "error" policy: only a query below the
// lowest edge trips the failure primitive; a query at or above the highest
// edge still evaluates the last bin. Downstream calibration results depend on
// this behavior, so it is preserved exactly and pinned by tests.
func emitFlowPrologue(e *emitter, corr string, tgt Target, q string, edges []float64, b *corrset.Binning) error {
	first, last := edgeLit(edges[0]), edgeLit(edges[len(edges)-1])
	lastBin := b.Content[len(b.Content)-1]

	switch {
	case b.Flow.Clamp():
		e.openf("if (%s < %s) {", q, first)
		if err := compileContent(e, corr, tgt, b.Content[0]); err != nil {
			return err
		}
		e.close("}")
		e.openf("if (%s >= %s) {", q, last)
		if err := compileContent(e, corr, tgt, lastBin); err != nil {
			return err
		}
		e.close("}")
	case b.Flow.Error():
		e.openf("if (%s < %s) {", q, first)
		e.linef(`printf("%s: %s below lowest edge\n");`, corr, q)
		e.linef("%s;", tgt.failStmt())
		e.close("}")
		e.openf("if (%s >= %s) {", q, last)
		if err := compileContent(e, corr, tgt, lastBin); err != nil {
			return err
		}
		e.close("}")
	default:
		fallback, ok := b.Flow.Fallback()
		if !ok {
			return fmt.Errorf("correction %q: binning on %q has no flow policy: %w", corr, q, ErrMalformedTree)
		}
		e.openf("if (%s < %s || %s >= %s) {", q, first, q, last)
		if err := compileContent(e, corr, tgt, fallback); err != nil {
			return err
		}
		e.close("}")
	}

	return nil
}

// emitSearchTree bisects the half-open interval range [start, end) into a
// balanced nested-conditional tree: a single interval becomes a direct leaf,
// two intervals a single two-way branch, anything larger a guarded split at
// the middle edge. Branch depth is ⌈log2(end-start)⌉ regardless of which
// interval a query lands in.
func emitSearchTree(e *emitter, corr string, tgt Target, q string, edges []float64, children []corrset.Content, start, end int) error {
	switch end - start {
	case 1:
		e.linef("/* bin %d: [%s, %s) */", start, edgeLit(edges[start]), edgeLit(edges[start+1]))

		return compileContent(e, corr, tgt, children[start])
	case 2:
		// small-case optimization: one two-way branch, no third level
		e.openf("if (%s < %s) {", q, edgeLit(edges[start+1]))
		if err := emitSearchTree(e, corr, tgt, q, edges, children, start, start+1); err != nil {
			return err
		}
		e.elseBranch()
		if err := emitSearchTree(e, corr, tgt, q, edges, children, start+1, end); err != nil {
			return err
		}
		e.close("}")

		return nil
	default:
		mid := start + (end-start)/2
		e.openf("if (%s < %s) {", q, edgeLit(edges[mid]))
		if err := emitSearchTree(e, corr, tgt, q, edges, children, start, mid); err != nil {
			return err
		}
		e.elseBranch()
		if err := emitSearchTree(e, corr, tgt, q, edges, children, mid, end); err != nil {
			return err
		}
		e.close("}")

		return nil
	}
}

// clampEdge pulls infinite (or float-overflowing) edges into the finite
// float domain, keeping the ascending check and the emitted comparisons in
// the same domain.
func clampEdge(v float64) float64 {
	if v > math.MaxFloat32 {
		return math.MaxFloat32
	}
	if v < -math.MaxFloat32 {
		return -math.MaxFloat32
	}

	return v
}
