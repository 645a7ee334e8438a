package codegen_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calibkit/corrgen/codegen"
	"github.com/calibkit/corrgen/corrset"
)

// leafBinning builds a binning over "pt" whose children are constant leaves.
func leafBinning(edges []float64, leaves []float64, flow corrset.Flow) *corrset.Binning {
	children := make([]corrset.Content, len(leaves))
	for i, v := range leaves {
		children[i] = corrset.Value(v)
	}

	return &corrset.Binning{Input: "pt", Edges: edges, Content: children, Flow: flow}
}

// compileBinning wraps the binning in a one-variable unit and compiles it.
func compileBinning(t *testing.T, b *corrset.Binning, tgt codegen.Target) string {
	t.Helper()
	unit, err := codegen.NewCorrectionUnit("corr", "", tgt,
		[]codegen.VarSpec{{Name: "pt", Type: "real", Min: math.Inf(-1), Max: math.Inf(1)}}, b)
	require.NoError(t, err)
	text, err := unit.Compile()
	require.NoError(t, err)

	return text
}

// maxBraceDepth returns the deepest brace nesting in the emitted text; since
// each decision-tree branch opens one block, it measures branch depth.
func maxBraceDepth(text string) int {
	depth, max := 0, 0
	for _, r := range text {
		switch r {
		case '{':
			depth++
			if depth > max {
				max = depth
			}
		case '}':
			depth--
		}
	}

	return max
}

// evenEdges returns n+1 edges 0..n enclosing n unit-width bins, with leaf
// value 100+i for bin i.
func evenEdges(n int) (edges, leaves []float64) {
	edges = make([]float64, n+1)
	for i := range edges {
		edges[i] = float64(i)
	}
	leaves = make([]float64, n)
	for i := range leaves {
		leaves[i] = float64(100 + i)
	}

	return edges, leaves
}

// TestBinning_LogarithmicDepth is the central structural property: for N bins
// the nested-conditional tree is at most ⌈log2(N)⌉ branches deep, never
// linear in N. The emitted function contributes exactly one extra brace level.
func TestBinning_LogarithmicDepth(t *testing.T) {
	for _, n := range []int{2, 3, 4, 7, 16, 100, 257} {
		t.Run(fmt.Sprintf("bins=%d", n), func(t *testing.T) {
			edges, leaves := evenEdges(n)
			text := compileBinning(t, leafBinning(edges, leaves, corrset.ClampFlow()), codegen.TargetC)

			bound := int(math.Ceil(math.Log2(float64(n))))
			depth := maxBraceDepth(text) - 1 // discount the function body itself
			assert.LessOrEqual(t, depth, bound+1,
				"decision tree for %d bins must stay logarithmic, got depth %d", n, depth)
			assert.Less(t, depth, n, "depth must never degrade to linear")
		})
	}
}

// TestBinning_EveryLeafEmitted checks exhaustiveness at the text level: each
// bin's leaf value is emitted exactly once by the interior tree (plus clamp
// duplicates for the two boundary bins).
func TestBinning_EveryLeafEmitted(t *testing.T) {
	edges, leaves := evenEdges(9)
	text := compileBinning(t, leafBinning(edges, leaves, corrset.ClampFlow()), codegen.TargetC)

	for i, v := range leaves {
		want := 1
		if i == 0 || i == len(leaves)-1 {
			want = 2 // boundary bins also appear in the clamp prologue
		}
		assert.Equal(t, want, strings.Count(text, fmt.Sprintf("return %g;", v)),
			"leaf %d must be reachable", i)
	}
}

// TestBinning_ClampPolicy pins the concrete clamp semantics for edges
// [0,1,2,3]: below-range evaluates the first bin, at/above-range the last.
func TestBinning_ClampPolicy(t *testing.T) {
	text := compileBinning(t,
		leafBinning([]float64{0, 1, 2, 3}, []float64{10, 20, 30}, corrset.ClampFlow()),
		codegen.TargetC)

	low := strings.Index(text, "if (pt < 0) {")
	require.GreaterOrEqual(t, low, 0, "lower clamp guard expected")
	assert.Contains(t, text[low:], "return 10;", "query below 0 must evaluate bin A")

	high := strings.Index(text, "if (pt >= 3) {")
	require.GreaterOrEqual(t, high, 0, "upper clamp guard expected")
	assert.Contains(t, text[high:], "return 30;", "query at/above 3 must evaluate bin C")

	assert.Contains(t, text, "return 20;", "interior bin B must be reachable")
	assert.NotContains(t, text, "below lowest edge", "clamp must not emit error diagnostics")
}

// TestBinning_ErrorPolicyAsymmetry pins the error policy exactly as designed:
// a query below the lowest edge trips the failure primitive, while a query
// at/above the highest edge silently evaluates the last bin. The upper bound
// is deliberately NOT error-checked.
func TestBinning_ErrorPolicyAsymmetry(t *testing.T) {
	text := compileBinning(t,
		leafBinning([]float64{0, 1, 2, 3}, []float64{10, 20, 30}, corrset.ErrorFlow()),
		codegen.TargetC)

	low := strings.Index(text, "if (pt < 0) {")
	require.GreaterOrEqual(t, low, 0)
	lowBlock := text[low:strings.Index(text[low:], "}")+low]
	assert.Contains(t, lowBlock, "pt below lowest edge", "lower violation must carry a diagnostic")
	assert.Contains(t, lowBlock, "exit(-1);", "lower violation must invoke the failure primitive")
	assert.NotContains(t, lowBlock, "return", "no value is returned on a lower-bound error")

	high := strings.Index(text, "if (pt >= 3) {")
	require.GreaterOrEqual(t, high, 0)
	highBlock := text[high:strings.Index(text[high:], "}")+high]
	assert.Contains(t, highBlock, "return 30;", "query at/above 3 still evaluates the last bin")
	assert.NotContains(t, highBlock, "exit", "upper bound must not be error-checked")
	assert.NotContains(t, text, "above highest edge")
}

// TestBinning_FallbackPolicy compiles the explicit fallback subtree for both
// out-of-range sides.
func TestBinning_FallbackPolicy(t *testing.T) {
	text := compileBinning(t,
		leafBinning([]float64{0, 1, 2, 3}, []float64{10, 20, 30},
			corrset.ContentFlow(corrset.Value(99))),
		codegen.TargetC)

	guard := strings.Index(text, "if (pt < 0 || pt >= 3) {")
	require.GreaterOrEqual(t, guard, 0, "combined out-of-range guard expected")
	assert.Contains(t, text[guard:], "return 99;", "fallback subtree must be evaluated")
}

// TestBinning_SingleInterval degenerates to a direct leaf with no branches
// beyond the prologue.
func TestBinning_SingleInterval(t *testing.T) {
	text := compileBinning(t,
		leafBinning([]float64{0, 5}, []float64{7}, corrset.ClampFlow()),
		codegen.TargetC)

	assert.Contains(t, text, "/* bin 0: [0, 5) */")
	assert.NotContains(t, text, "if (pt < 5)", "one interval needs no interior branch")
}

// TestBinning_InfiniteEdgesRewritten maps infinite outer edges onto the
// float type's finite extremes, so no emitted comparison mentions infinity.
func TestBinning_InfiniteEdgesRewritten(t *testing.T) {
	text := compileBinning(t,
		leafBinning([]float64{math.Inf(-1), 0, math.Inf(1)}, []float64{1, 2}, corrset.ClampFlow()),
		codegen.TargetC)

	assert.Contains(t, text, "if (pt < -FLT_MAX) {")
	assert.Contains(t, text, "if (pt >= FLT_MAX) {")
	assert.NotContains(t, strings.ToLower(text), "inf)", "no infinite literal may survive")
}

// TestBinning_MalformedTrees rejects every structural defect before emitting
// anything.
func TestBinning_MalformedTrees(t *testing.T) {
	cases := []struct {
		name string
		b    *corrset.Binning
	}{
		{"zero intervals", leafBinning([]float64{0}, nil, corrset.ClampFlow())},
		{"count mismatch", leafBinning([]float64{0, 1, 2}, []float64{5}, corrset.ClampFlow())},
		{"descending edges", leafBinning([]float64{0, 2, 1}, []float64{5, 6}, corrset.ClampFlow())},
		{"duplicate edges", leafBinning([]float64{0, 1, 1, 2}, []float64{5, 6, 7}, corrset.ClampFlow())},
		{"non-identifier query", &corrset.Binning{
			Input: "p t", Edges: []float64{0, 1}, Content: []corrset.Content{corrset.Value(1)},
			Flow: corrset.ClampFlow(),
		}},
		{"missing flow", &corrset.Binning{
			Input: "pt", Edges: []float64{0, 1}, Content: []corrset.Content{corrset.Value(1)},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unit, err := codegen.NewCorrectionUnit("corr", "", codegen.TargetC,
				[]codegen.VarSpec{{Name: "pt", Type: "real"}}, tc.b)
			require.NoError(t, err, "defect must surface at compile, not construction")
			text, err := unit.Compile()
			assert.ErrorIs(t, err, codegen.ErrMalformedTree)
			assert.Empty(t, text, "no partial text on failure")
		})
	}
}

// TestBinning_DuplicateInfinityEdges verifies the ascending check runs in the
// finite domain: two +Inf edges collapse onto FLT_MAX and must be rejected as
// duplicates.
func TestBinning_DuplicateInfinityEdges(t *testing.T) {
	unit, err := codegen.NewCorrectionUnit("corr", "", codegen.TargetC,
		[]codegen.VarSpec{{Name: "pt", Type: "real"}},
		leafBinning([]float64{0, math.Inf(1), math.Inf(1)}, []float64{1, 2}, corrset.ClampFlow()))
	require.NoError(t, err)
	_, err = unit.Compile()
	assert.ErrorIs(t, err, codegen.ErrMalformedTree)
}

// TestBinning_DocumentaryArrays pins the debugging arrays: edges and dummy
// bin indices embedded as local declarations.
func TestBinning_DocumentaryArrays(t *testing.T) {
	text := compileBinning(t,
		leafBinning([]float64{0, 1, 2, 3}, []float64{10, 20, 30}, corrset.ClampFlow()),
		codegen.TargetC)

	assert.Contains(t, text, "const float pt_edges[4] = {0, 1, 2, 3};")
	assert.Contains(t, text, "const int pt_bin[3] = {0, 1, 2};")
}

// TestBinning_NestedBinning compiles a binning whose child is another binning
// on a second variable.
func TestBinning_NestedBinning(t *testing.T) {
	inner := &corrset.Binning{
		Input:   "eta",
		Edges:   []float64{-2.4, 0, 2.4},
		Content: []corrset.Content{corrset.Value(0.9), corrset.Value(1.1)},
		Flow:    corrset.ErrorFlow(),
	}
	outer := &corrset.Binning{
		Input:   "pt",
		Edges:   []float64{0, 50, 100},
		Content: []corrset.Content{inner, corrset.Value(1)},
		Flow:    corrset.ClampFlow(),
	}

	unit, err := codegen.NewCorrectionUnit("corr", "", codegen.TargetC, []codegen.VarSpec{
		{Name: "pt", Type: "real", Min: 0, Max: 100},
		{Name: "eta", Type: "real", Min: -2.4, Max: 2.4},
	}, outer)
	require.NoError(t, err)
	text, err := unit.Compile()
	require.NoError(t, err)

	assert.Contains(t, text, "const float eta_edges[3]")
	assert.Contains(t, text, "eta below lowest edge", "inner error policy survives nesting")
	assert.Contains(t, text, "return 0.9;")
	assert.Contains(t, text, "return 1.1;")
}
