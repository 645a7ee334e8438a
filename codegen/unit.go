package codegen

import (
	"fmt"
	"strings"

	"github.com/calibkit/corrgen/corrset"
)

// CorrectionUnit is one named correction prepared for code generation: the
// ordered, normalized input variables, the backend target, and the content
// tree. Units share no state; a batch may compile them concurrently.
type CorrectionUnit struct {
	name        string
	description string
	target      Target
	vars        []Variable
	content     corrset.Content
	warnings    []string
}

// NewCorrectionUnit builds a unit from the full variable list and content
// tree in one call. Structural defects (no variables, no content, duplicate
// names, unknown kinds or target) are rejected here, before any generation.
func NewCorrectionUnit(name, description string, tgt Target, specs []VarSpec, content corrset.Content) (*CorrectionUnit, error) {
	if !tgt.valid() {
		return nil, fmt.Errorf("correction %q: target %d: %w", name, int(tgt), ErrUnknownTarget)
	}
	if !isCName(name) {
		return nil, fmt.Errorf("correction name %q is not a usable identifier: %w", name, ErrMalformedTree)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("correction %q has no variables: %w", name, ErrMalformedTree)
	}
	if content == nil {
		return nil, fmt.Errorf("correction %q has no content: %w", name, ErrMalformedTree)
	}

	unit := &CorrectionUnit{name: name, description: description, target: tgt, content: content}
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("correction %q: duplicate variable %q: %w", name, spec.Name, ErrMalformedTree)
		}
		seen[spec.Name] = struct{}{}

		v, err := newVariable(name, spec)
		if err != nil {
			return nil, fmt.Errorf("correction %q: %w", name, err)
		}
		if v.isInt {
			unit.warnings = append(unit.warnings,
				fmt.Sprintf("correction %q: validation of int variable %q is not implemented", name, spec.Name))
		}
		unit.vars = append(unit.vars, v)
	}

	return unit, nil
}

// FromCorrection builds a unit straight from a decoded correction, resolving
// each input's bounds and value set from the content tree.
func FromCorrection(c *corrset.Correction, tgt Target) (*CorrectionUnit, error) {
	stats := c.Summary()
	specs := make([]VarSpec, 0, len(c.Inputs))
	for _, in := range c.Inputs {
		s := stats[in.Name]
		specs = append(specs, VarSpec{Name: in.Name, Type: in.Type, Min: s.Min, Max: s.Max, Values: s.Values})
	}

	return NewCorrectionUnit(c.Name, c.Description, tgt, specs, c.Data)
}

// Name returns the correction name, used verbatim for the emitted function
// and file name.
func (u *CorrectionUnit) Name() string { return u.name }

// Warnings returns the non-fatal findings collected while normalizing the
// unit (currently: the int-validation gap). The core never logs; callers do.
func (u *CorrectionUnit) Warnings() []string { return append([]string(nil), u.warnings...) }

// Compile serializes the unit into one self-contained source text: includes,
// enum declarations, description comment, and the correction function with
// its validation prologue, compiled content body, and unreachable trap.
//
// On any error nothing is returned: a failed unit emits no partial text.
func (u *CorrectionUnit) Compile() (string, error) {
	if len(u.vars) == 0 || u.content == nil {
		return "", fmt.Errorf("correction %q is not ready to compile: %w", u.name, ErrMalformedTree)
	}

	var e emitter
	u.emitIncludes(&e)
	u.emitEnums(&e)
	if u.description != "" {
		e.linef("/* %s */", u.description)
	}
	e.openf("float %s(%s) {", u.name, u.paramList())
	u.emitValidation(&e)
	if err := compileContent(&e, u.name, u.target, u.content); err != nil {
		return "", err
	}
	// unreachable for every legally-constructed tree: each leaf and each
	// out-of-range branch above returns
	e.linef(`printf("%s: fell through correction tree\n");`, u.name)
	e.linef("%s;", u.target.failStmt())
	e.close("}")

	return e.String(), nil
}

func (u *CorrectionUnit) emitIncludes(e *emitter) {
	e.line("#include <stdio.h>")
	e.line("#include <float.h>")
	if u.target == TargetCUDA {
		e.line("#include <assert.h>")
	} else {
		e.line("#include <stdlib.h>")
	}
	e.line("")
}

// emitEnums declares one enum type per string variable. Members are spelled
// {UPPER(value)}_{correction} and the type {variable}_{correction}, so value
// names shared across corrections never collide.
func (u *CorrectionUnit) emitEnums(e *emitter) {
	for _, v := range u.vars {
		if !v.isEnum {
			continue
		}
		e.open("typedef enum {")
		for i, val := range v.Values {
			sep := ","
			if i == len(v.Values)-1 {
				sep = ""
			}
			e.linef("%s_%s%s", strings.ToUpper(val), u.name, sep)
		}
		e.close(fmt.Sprintf("} %s;", v.CType))
		e.line("")
	}
}

func (u *CorrectionUnit) paramList() string {
	params := make([]string, len(u.vars))
	for i, v := range u.vars {
		params[i] = fmt.Sprintf("%s %s", v.CType, v.Name)
	}

	return strings.Join(params, ", ")
}

// emitValidation guards every validated variable with a range check that
// trips the backend failure primitive. Enum-typed variables are exempt (the
// type is the validation); int variables are the documented gap.
func (u *CorrectionUnit) emitValidation(e *emitter) {
	for _, v := range u.vars {
		if !v.validated() {
			continue
		}
		e.openf("if (%s < %s || %s > %s) {", v.Name, v.minLit, v.Name, v.maxLit)
		e.linef(`printf("%s: %s out of range\n");`, u.name, v.Name)
		e.linef("%s;", u.target.failStmt())
		e.close("}")
	}
}
