package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// emitter accumulates generated source text line by line with block-scoped
// indentation. Grounded on the usual strings.Builder emitter shape; two
// spaces per level, clang-format normalizes the rest downstream.
type emitter struct {
	b      strings.Builder
	indent int
}

func (e *emitter) line(s string) {
	if s != "" {
		for i := 0; i < e.indent; i++ {
			e.b.WriteString("  ")
		}
		e.b.WriteString(s)
	}
	e.b.WriteByte('\n')
}

func (e *emitter) linef(format string, args ...any) {
	e.line(fmt.Sprintf(format, args...))
}

// open emits a line ending in "{" and indents the block that follows.
func (e *emitter) open(s string) {
	e.line(s)
	e.indent++
}

// openf is open with formatting.
func (e *emitter) openf(format string, args ...any) {
	e.open(fmt.Sprintf(format, args...))
}

// close dedents and emits the closing brace line.
func (e *emitter) close(s string) {
	e.indent--
	e.line(s)
}

// elseBranch stitches "} else {" between two open branches at the current
// block's level.
func (e *emitter) elseBranch() {
	e.indent--
	e.line("} else {")
	e.indent++
}

func (e *emitter) String() string { return e.b.String() }

// floatLit renders a finite float64 as a C double literal.
func floatLit(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// edgeLit renders a binning edge, spelling the clamped extremes as the
// float.h macros so emitted comparisons never contain an infinite literal.
func edgeLit(v float64) string {
	switch {
	case v >= math.MaxFloat32:
		return "FLT_MAX"
	case v <= -math.MaxFloat32:
		return "-FLT_MAX"
	default:
		return floatLit(v)
	}
}

// cReserved lists the C keywords that must never name an emitted function,
// parameter, type or enum member.
var cReserved = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extern": {}, "float": {}, "for": {}, "goto": {},
	"if": {}, "inline": {}, "int": {}, "long": {}, "register": {},
	"restrict": {}, "return": {}, "short": {}, "signed": {}, "sizeof": {},
	"static": {}, "struct": {}, "switch": {}, "typedef": {}, "union": {},
	"unsigned": {}, "void": {}, "volatile": {}, "while": {},
}

// isCName reports whether s may appear as an emitted identifier: a bare C
// identifier that is not a keyword.
func isCName(s string) bool {
	if !isIdent(s) {
		return false
	}
	_, reserved := cReserved[s]

	return !reserved
}

// isIdent reports whether s is a legal bare C identifier, the only shape a
// query variable may take inside emitted conditions.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !letter && (i == 0 || !digit) {
			return false
		}
	}

	return true
}
