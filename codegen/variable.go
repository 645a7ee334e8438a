package codegen

import (
	"fmt"
	"math"
)

// Declared variable kinds recognized by the schema.
const (
	kindReal   = "real"
	kindInt    = "int"
	kindString = "string"
)

// VarSpec is one declared input as handed over by the schema collaborator:
// declared kind, resolved numeric bounds (±Inf when unbounded) and, for
// string inputs, the closed set of permitted values.
type VarSpec struct {
	Name   string
	Type   string
	Min    float64
	Max    float64
	Values []string
}

// Variable is the generation-ready form of one input: emitted C type, bound
// literals in the finite domain of the target's float type, and the
// synthesized enum type for string inputs.
type Variable struct {
	Name   string
	CType  string
	Values []string // permitted values, string kind only

	isEnum bool
	isInt  bool
	minLit string
	maxLit string
}

// newVariable normalizes one declared input for correction. The enum type
// name is derived from both the variable and the correction so two
// corrections sharing a value name never collide.
//
// Everything that ends up in emitted text must be a usable C identifier:
// the variable name, and for string variables every permitted value (each
// becomes an enum member). A string variable with no permitted values has no
// legal enum body (C requires at least one enumerator), so it is rejected up
// front rather than allowed to produce ill-formed text.
func newVariable(correction string, spec VarSpec) (Variable, error) {
	if !isCName(spec.Name) {
		return Variable{}, fmt.Errorf("variable %q is not a usable identifier: %w", spec.Name, ErrMalformedTree)
	}

	switch spec.Type {
	case kindReal:
		return Variable{
			Name:   spec.Name,
			CType:  "float",
			minLit: realBoundLit(spec.Min),
			maxLit: realBoundLit(spec.Max),
		}, nil
	case kindInt:
		// Bound validation for int inputs is a known, deliberate gap; the
		// owning unit surfaces a warning instead of inventing checks.
		return Variable{Name: spec.Name, CType: "int", isInt: true}, nil
	case kindString:
		if len(spec.Values) == 0 {
			return Variable{}, fmt.Errorf("string variable %q has no permitted values: %w", spec.Name, ErrMalformedTree)
		}
		for _, val := range spec.Values {
			if !isCName(val) {
				return Variable{}, fmt.Errorf("variable %q: value %q is not a usable identifier: %w",
					spec.Name, val, ErrMalformedTree)
			}
		}

		return Variable{
			Name:   spec.Name,
			CType:  fmt.Sprintf("%s_%s", spec.Name, correction),
			Values: append([]string(nil), spec.Values...),
			isEnum: true,
		}, nil
	default:
		return Variable{}, fmt.Errorf("variable %q: type %q: %w", spec.Name, spec.Type, ErrUnrecognizedKind)
	}
}

// realBoundLit maps an unbounded declared bound onto the float type's finite
// extreme, so generated comparisons never mention an infinite literal.
func realBoundLit(v float64) string {
	if math.IsInf(v, -1) {
		return "-FLT_MAX"
	}
	if math.IsInf(v, 1) {
		return "FLT_MAX"
	}

	return floatLit(v)
}

// validated reports whether the assembler emits a bounds check for this
// variable. String inputs are validated by their enum typing; int inputs are
// the documented gap.
func (v Variable) validated() bool { return !v.isEnum && !v.isInt }
