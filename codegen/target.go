package codegen

import (
	"fmt"
	"strings"
)

// Target selects the non-recoverable-failure primitive generated code invokes
// wherever a runtime precondition is violated.
//
//   - TargetC    — host code; failure is an unconditional process abort.
//   - TargetCUDA — device code; failure is an assertion suitable for
//     massively-parallel kernels, where exit() is unavailable.
type Target int

const (
	// TargetC emits exit(-1) on non-recoverable failure.
	TargetC Target = iota
	// TargetCUDA emits assert(0) on non-recoverable failure.
	TargetCUDA
)

// ParseTarget maps a user-facing target name ("C" or "CUDA", case-insensitive)
// onto the closed Target enumeration.
func ParseTarget(name string) (Target, error) {
	switch strings.ToUpper(name) {
	case "C":
		return TargetC, nil
	case "CUDA":
		return TargetCUDA, nil
	default:
		return 0, fmt.Errorf("target %q: %w", name, ErrUnknownTarget)
	}
}

// String returns the canonical target name.
func (t Target) String() string {
	switch t {
	case TargetC:
		return "C"
	case TargetCUDA:
		return "CUDA"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

func (t Target) valid() bool { return t == TargetC || t == TargetCUDA }

// failStmt returns the failure primitive as a C statement, without the
// trailing semicolon.
func (t Target) failStmt() string {
	if t == TargetCUDA {
		return "assert(0)"
	}

	return "exit(-1)"
}
