package corrset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Kind identifies one content-node variant of the closed union.
type Kind int

const (
	// KindValue is a constant numeric leaf.
	KindValue Kind = iota
	// KindBinning is a one-dimensional ordered interval binning.
	KindBinning
	// KindMultiBinning is a multi-dimensional binning (recognized, never compiled).
	KindMultiBinning
	// KindCategory dispatches on a categorical (string or integer) input.
	KindCategory
	// KindFormula is an algebraic expression (recognized, never compiled).
	KindFormula
	// KindFormulaRef references a shared formula by index (recognized, never compiled).
	KindFormulaRef
	// KindTransform rewrites an input before evaluating a subtree (recognized, never compiled).
	KindTransform
	// KindHashPRNG is a hash-seeded pseudo-random generator (recognized, never compiled).
	KindHashPRNG
)

// String returns the schema's nodetype spelling for k.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindBinning:
		return "binning"
	case KindMultiBinning:
		return "multibinning"
	case KindCategory:
		return "category"
	case KindFormula:
		return "formula"
	case KindFormulaRef:
		return "formularef"
	case KindTransform:
		return "transform"
	case KindHashPRNG:
		return "hashprng"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Content is one node of a correction's decision tree. The implementing set
// is sealed to this package; a type switch over Content covers every variant
// the schema can produce.
type Content interface {
	Kind() Kind
	isContent()
}

// Value is a constant numeric leaf.
type Value float64

// Binning dispatches a runtime query on Input across ordered intervals.
// Edges has exactly len(Content)+1 entries; Content[i] covers
// [Edges[i], Edges[i+1]). Flow governs queries outside the outer edges.
type Binning struct {
	Input   string
	Edges   []float64
	Content []Content
	Flow    Flow
}

// MultiBinning is a multi-dimensional binning. It is decoded so rejection
// can name it precisely, but carries no payload beyond its inputs.
type MultiBinning struct {
	Inputs []string
}

// CategoryItem binds one categorical key to a child subtree.
type CategoryItem struct {
	Key   string
	Value Content
}

// Category dispatches on a categorical input. Default, when non-nil, handles
// keys absent from Items.
type Category struct {
	Input   string
	Items   []CategoryItem
	Default Content
}

// Formula is an algebraic expression node.
type Formula struct {
	Expression string
	Parser     string
	Variables  []string
}

// FormulaRef references a shared formula with bound parameters.
type FormulaRef struct {
	Index      int
	Parameters []float64
}

// Transform rewrites one input via a rule subtree before evaluating Content.
type Transform struct {
	Input   string
	Rule    Content
	Content Content
}

// HashPRNG deterministically hashes inputs into a pseudo-random deviate.
type HashPRNG struct {
	Inputs       []string
	Distribution string
}

func (Value) Kind() Kind         { return KindValue }
func (*Binning) Kind() Kind      { return KindBinning }
func (*MultiBinning) Kind() Kind { return KindMultiBinning }
func (*Category) Kind() Kind     { return KindCategory }
func (*Formula) Kind() Kind      { return KindFormula }
func (*FormulaRef) Kind() Kind   { return KindFormulaRef }
func (*Transform) Kind() Kind    { return KindTransform }
func (*HashPRNG) Kind() Kind     { return KindHashPRNG }

func (Value) isContent()         {}
func (*Binning) isContent()      {}
func (*MultiBinning) isContent() {}
func (*Category) isContent()     {}
func (*Formula) isContent()      {}
func (*FormulaRef) isContent()   {}
func (*Transform) isContent()    {}
func (*HashPRNG) isContent()     {}

// Flow is a binning's out-of-range policy: clamp to the boundary interval,
// raise a runtime error, or evaluate an explicit fallback subtree.
type Flow struct {
	policy   string // "clamp", "error", or "" when fallback is set
	fallback Content
}

// ClampFlow clamps out-of-range queries to the nearest boundary interval.
func ClampFlow() Flow { return Flow{policy: "clamp"} }

// ErrorFlow raises a runtime error for out-of-range queries.
func ErrorFlow() Flow { return Flow{policy: "error"} }

// ContentFlow evaluates c for out-of-range queries.
func ContentFlow(c Content) Flow { return Flow{fallback: c} }

// Clamp reports whether the policy is clamp.
func (f Flow) Clamp() bool { return f.policy == "clamp" }

// Error reports whether the policy is raise-error.
func (f Flow) Error() bool { return f.policy == "error" }

// Fallback returns the explicit fallback subtree, if any.
func (f Flow) Fallback() (Content, bool) { return f.fallback, f.fallback != nil }

// decodeContent decodes one node of the tagged content union. A bare JSON
// number is a Value leaf; anything else must be an object whose "nodetype"
// field selects the variant.
func decodeContent(raw json.RawMessage) (Content, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty content node: %w", ErrBadDocument)
	}
	if trimmed[0] != '{' {
		var v float64
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, fmt.Errorf("content leaf %q: %w", string(trimmed), ErrBadDocument)
		}

		return Value(v), nil
	}

	var tag struct {
		NodeType string `json:"nodetype"`
	}
	if err := json.Unmarshal(trimmed, &tag); err != nil {
		return nil, fmt.Errorf("content node: %v: %w", err, ErrBadDocument)
	}

	switch tag.NodeType {
	case "binning":
		return decodeBinning(trimmed)
	case "multibinning":
		var node struct {
			Inputs []string `json:"inputs"`
		}
		if err := json.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("multibinning node: %v: %w", err, ErrBadDocument)
		}

		return &MultiBinning{Inputs: node.Inputs}, nil
	case "category":
		return decodeCategory(trimmed)
	case "formula":
		var node struct {
			Expression string   `json:"expression"`
			Parser     string   `json:"parser"`
			Variables  []string `json:"variables"`
		}
		if err := json.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("formula node: %v: %w", err, ErrBadDocument)
		}

		return &Formula{Expression: node.Expression, Parser: node.Parser, Variables: node.Variables}, nil
	case "formularef":
		var node struct {
			Index      int       `json:"index"`
			Parameters []float64 `json:"parameters"`
		}
		if err := json.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("formularef node: %v: %w", err, ErrBadDocument)
		}

		return &FormulaRef{Index: node.Index, Parameters: node.Parameters}, nil
	case "transform":
		return decodeTransform(trimmed)
	case "hashprng":
		var node struct {
			Inputs       []string `json:"inputs"`
			Distribution string   `json:"distribution"`
		}
		if err := json.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("hashprng node: %v: %w", err, ErrBadDocument)
		}

		return &HashPRNG{Inputs: node.Inputs, Distribution: node.Distribution}, nil
	default:
		return nil, fmt.Errorf("nodetype %q: %w", tag.NodeType, ErrUnknownNodeType)
	}
}

func decodeBinning(raw []byte) (*Binning, error) {
	var node struct {
		Input   string            `json:"input"`
		Edges   []json.RawMessage `json:"edges"`
		Content []json.RawMessage `json:"content"`
		Flow    json.RawMessage   `json:"flow"`
	}
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("binning node: %v: %w", err, ErrBadDocument)
	}

	edges := make([]float64, len(node.Edges))
	for i, e := range node.Edges {
		v, err := decodeEdge(e)
		if err != nil {
			return nil, fmt.Errorf("binning on %q, edge %d: %w", node.Input, i, err)
		}
		edges[i] = v
	}

	children := make([]Content, len(node.Content))
	for i, c := range node.Content {
		child, err := decodeContent(c)
		if err != nil {
			return nil, fmt.Errorf("binning on %q, bin %d: %w", node.Input, i, err)
		}
		children[i] = child
	}

	flow, err := decodeFlow(node.Flow)
	if err != nil {
		return nil, fmt.Errorf("binning on %q: %w", node.Input, err)
	}

	return &Binning{Input: node.Input, Edges: edges, Content: children, Flow: flow}, nil
}

func decodeCategory(raw []byte) (*Category, error) {
	var node struct {
		Input   string `json:"input"`
		Content []struct {
			Key   json.RawMessage `json:"key"`
			Value json.RawMessage `json:"value"`
		} `json:"content"`
		Default json.RawMessage `json:"default"`
	}
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("category node: %v: %w", err, ErrBadDocument)
	}

	items := make([]CategoryItem, len(node.Content))
	for i, it := range node.Content {
		key, err := decodeCategoryKey(it.Key)
		if err != nil {
			return nil, fmt.Errorf("category on %q, item %d: %w", node.Input, i, err)
		}
		child, err := decodeContent(it.Value)
		if err != nil {
			return nil, fmt.Errorf("category on %q, key %q: %w", node.Input, key, err)
		}
		items[i] = CategoryItem{Key: key, Value: child}
	}

	var def Content
	if len(node.Default) > 0 && !bytes.Equal(bytes.TrimSpace(node.Default), []byte("null")) {
		var err error
		if def, err = decodeContent(node.Default); err != nil {
			return nil, fmt.Errorf("category on %q, default: %w", node.Input, err)
		}
	}

	return &Category{Input: node.Input, Items: items, Default: def}, nil
}

func decodeTransform(raw []byte) (*Transform, error) {
	var node struct {
		Input   string          `json:"input"`
		Rule    json.RawMessage `json:"rule"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("transform node: %v: %w", err, ErrBadDocument)
	}
	rule, err := decodeContent(node.Rule)
	if err != nil {
		return nil, fmt.Errorf("transform on %q, rule: %w", node.Input, err)
	}
	child, err := decodeContent(node.Content)
	if err != nil {
		return nil, fmt.Errorf("transform on %q, content: %w", node.Input, err)
	}

	return &Transform{Input: node.Input, Rule: rule, Content: child}, nil
}

// decodeEdge accepts a numeric edge or the textual infinity sentinels some
// producers emit ("inf", "+inf", "-inf", case-insensitive).
func decodeEdge(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, fmt.Errorf("edge %q: %w", string(trimmed), ErrBadDocument)
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "inf", "+inf":
			return math.Inf(1), nil
		case "-inf":
			return math.Inf(-1), nil
		default:
			return 0, fmt.Errorf("edge %q is not numeric: %w", s, ErrBadDocument)
		}
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0, fmt.Errorf("edge %q: %w", string(trimmed), ErrBadDocument)
	}

	return v, nil
}

// decodeCategoryKey accepts string or integer keys; integer keys are kept in
// their decimal spelling.
func decodeCategoryKey(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("missing category key: %w", ErrBadDocument)
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("category key %q: %w", string(trimmed), ErrBadDocument)
		}

		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", fmt.Errorf("category key %q: %w", string(trimmed), ErrBadDocument)
	}

	return n.String(), nil
}

// decodeFlow decodes a binning flow: the strings "clamp"/"error" or any
// content node acting as an explicit fallback.
func decodeFlow(raw json.RawMessage) (Flow, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Flow{}, fmt.Errorf("missing flow: %w", ErrBadDocument)
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Flow{}, fmt.Errorf("flow %q: %w", string(trimmed), ErrBadDocument)
		}
		switch s {
		case "clamp":
			return ClampFlow(), nil
		case "error":
			return ErrorFlow(), nil
		default:
			return Flow{}, fmt.Errorf("flow %q: %w", s, ErrBadDocument)
		}
	}

	fallback, err := decodeContent(trimmed)
	if err != nil {
		return Flow{}, fmt.Errorf("flow fallback: %w", err)
	}

	return ContentFlow(fallback), nil
}
