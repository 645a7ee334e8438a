package codegen

import (
	"fmt"
	"strings"

	"github.com/calibkit/corrgen/corrset"
)

// compileContent emits the code fragment that, when reached, returns the
// correction value for node. Dispatch over the sealed content union is
// exhaustive: recognized-but-unsupported kinds refuse with ErrUnimplemented
// before any text for them is emitted, and the default arm catches any
// variant this switch does not know about.
func compileContent(e *emitter, corr string, tgt Target, node corrset.Content) error {
	switch n := node.(type) {
	case corrset.Value:
		e.linef("return %s;", floatLit(float64(n)))

		return nil
	case *corrset.Binning:
		return compileBinning(e, corr, tgt, n)
	case *corrset.Category:
		return compileCategory(e, n)
	case *corrset.MultiBinning, *corrset.Formula, *corrset.FormulaRef, *corrset.Transform, *corrset.HashPRNG:
		return fmt.Errorf("correction %q: %s content: %w", corr, node.Kind(), ErrUnimplemented)
	default:
		return fmt.Errorf("correction %q: content kind %s: %w", corr, node.Kind(), ErrUnrecognizedKind)
	}
}

// compileCategory validates and collects the category's keys but emits only a
// documented placeholder: per-key branch dispatch is a known incompleteness,
// kept as an explicit extension point rather than guessed at.
func compileCategory(e *emitter, node *corrset.Category) error {
	seen := make(map[string]struct{}, len(node.Items))
	keys := make([]string, 0, len(node.Items))
	for _, it := range node.Items {
		if _, dup := seen[it.Key]; dup {
			return fmt.Errorf("category on %q: duplicate key %q: %w", node.Input, it.Key, ErrMalformedTree)
		}
		seen[it.Key] = struct{}{}
		keys = append(keys, it.Key)
	}

	e.linef("/* category dispatch on %s (keys: %s) is not implemented; placeholder value */",
		node.Input, strings.Join(keys, ", "))
	e.line("return 1.;")

	return nil
}
