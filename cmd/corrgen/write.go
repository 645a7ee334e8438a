package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// writer persists compiled corrections as header files, optionally piping
// them through clang-format first.
type writer struct {
	dir    string
	format bool
}

func newWriter(dir string, format bool) *writer {
	return &writer{dir: dir, format: format}
}

// write stores text as <dir>/<name>.h and reports whether it went through
// clang-format. A missing formatter is not an error: the raw text is written
// and the caller decides whether to warn.
func (w *writer) write(name, text string) (path string, formatted bool, err error) {
	if err = os.MkdirAll(w.dir, 0o755); err != nil {
		return "", false, fmt.Errorf("output dir %s: %w", w.dir, err)
	}
	path = filepath.Join(w.dir, name+".h")

	if w.format {
		if out, ok := clangFormat(text); ok {
			text, formatted = out, true
		}
	}

	if err = os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", false, fmt.Errorf("write %s: %w", path, err)
	}

	return path, formatted, nil
}

// clangFormat runs the text through clang-format when the binary is on PATH.
func clangFormat(text string) (string, bool) {
	bin, err := exec.LookPath("clang-format")
	if err != nil {
		return "", false
	}

	cmd := exec.Command(bin)
	cmd.Stdin = strings.NewReader(text)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", false
	}

	return out.String(), true
}
