package corrset

import (
	"math"
	"sort"
)

// InputStats holds the resolved constraints one input accumulates across the
// whole content tree: the numeric range binnings query it over, and the set
// of categorical keys dispatched on it. Inputs the tree never constrains keep
// the unbounded range (-Inf, +Inf).
type InputStats struct {
	Min    float64
	Max    float64
	Values []string
}

// Summary walks the content tree and resolves, per declared input, the
// numeric bounds and categorical value set the tree actually uses. Every
// declared input appears in the result, constrained or not.
func (c *Correction) Summary() map[string]InputStats {
	acc := make(map[string]*statsAcc, len(c.Inputs))
	for _, in := range c.Inputs {
		acc[in.Name] = &statsAcc{min: math.Inf(1), max: math.Inf(-1), values: map[string]struct{}{}}
	}
	if c.Data != nil {
		summarize(c.Data, acc)
	}

	out := make(map[string]InputStats, len(acc))
	for name, a := range acc {
		stats := InputStats{Min: a.min, Max: a.max}
		if math.IsInf(stats.Min, 1) {
			stats.Min = math.Inf(-1)
		}
		if math.IsInf(stats.Max, -1) {
			stats.Max = math.Inf(1)
		}
		if len(a.values) > 0 {
			stats.Values = make([]string, 0, len(a.values))
			for v := range a.values {
				stats.Values = append(stats.Values, v)
			}
			sort.Strings(stats.Values)
		}
		out[name] = stats
	}

	return out
}

type statsAcc struct {
	min    float64
	max    float64
	values map[string]struct{}
}

func summarize(node Content, acc map[string]*statsAcc) {
	switch n := node.(type) {
	case Value:
		// leaves constrain nothing
	case *Binning:
		if a, ok := acc[n.Input]; ok && len(n.Edges) > 0 {
			a.min = math.Min(a.min, n.Edges[0])
			a.max = math.Max(a.max, n.Edges[len(n.Edges)-1])
		}
		for _, child := range n.Content {
			summarize(child, acc)
		}
		if fb, ok := n.Flow.Fallback(); ok {
			summarize(fb, acc)
		}
	case *Category:
		if a, ok := acc[n.Input]; ok {
			for _, it := range n.Items {
				a.values[it.Key] = struct{}{}
			}
		}
		for _, it := range n.Items {
			summarize(it.Value, acc)
		}
		if n.Default != nil {
			summarize(n.Default, acc)
		}
	case *Transform:
		summarize(n.Rule, acc)
		summarize(n.Content, acc)
	case *MultiBinning, *Formula, *FormulaRef, *HashPRNG:
		// opaque to the summary; code generation rejects them anyway
	}
}
