// Command corrgen compiles corrections from a correctionlib JSON document
// into standalone C or CUDA headers, one file per correction.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calibkit/corrgen/codegen"
	"github.com/calibkit/corrgen/corrset"
)

var (
	inputPath  string
	outputDir  string
	targetName string
	only       []string
	noFormat   bool
	verbose    bool

	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "corrgen",
	Short: "Compile correctionlib corrections to standalone C/CUDA headers",
	Long: `corrgen reads a correctionlib v2 JSON document (optionally gzipped),
compiles each correction's decision tree into one self-contained C or CUDA
function, and writes <output-dir>/<name>.h per correction.

Corrections that use unsupported content kinds are reported and skipped;
the rest of the batch still compiles.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "correction-set document (.json or .json.gz)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "corrections", "directory for emitted headers")
	rootCmd.Flags().StringVarP(&targetName, "target", "t", "C", "backend target: C or CUDA")
	rootCmd.Flags().StringArrayVar(&only, "only", nil, "compile only the named corrections (repeatable)")
	rootCmd.Flags().BoolVar(&noFormat, "no-format", false, "skip the clang-format pass")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = rootCmd.MarkFlagRequired("input")
}

func run(cmd *cobra.Command, args []string) error {
	base, err := buildLogger(verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer base.Sync() //nolint:errcheck
	logger = base.Sugar()

	target, err := codegen.ParseTarget(targetName)
	if err != nil {
		return err
	}

	set, err := corrset.OpenAuto(inputPath)
	if err != nil {
		return err
	}
	logger.Infow("loaded correction set",
		"path", inputPath, "corrections", len(set.Corrections), "target", target.String())

	selected, err := selectCorrections(set, only)
	if err != nil {
		return err
	}

	writer := newWriter(outputDir, !noFormat)
	failed := 0
	for _, corr := range selected {
		if err := compileOne(corr, target, writer); err != nil {
			// batch policy: report and keep going
			logger.Errorw("compilation failed", "correction", corr.Name, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d corrections failed", failed, len(selected))
	}
	logger.Infow("done", "compiled", len(selected), "output_dir", outputDir)

	return nil
}

// selectCorrections applies the allow-list; an empty list means everything.
func selectCorrections(set *corrset.CorrectionSet, names []string) ([]*corrset.Correction, error) {
	if len(names) == 0 {
		return set.Corrections, nil
	}

	out := make([]*corrset.Correction, 0, len(names))
	for _, name := range names {
		corr, ok := set.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("correction %q not found in %s", name, inputPath)
		}
		out = append(out, corr)
	}

	return out, nil
}

func compileOne(corr *corrset.Correction, target codegen.Target, w *writer) error {
	unit, err := codegen.FromCorrection(corr, target)
	if err != nil {
		return err
	}
	for _, warning := range unit.Warnings() {
		logger.Warn(warning)
	}

	text, err := unit.Compile()
	if err != nil {
		return err
	}

	path, formatted, err := w.write(unit.Name(), text)
	if err != nil {
		return err
	}
	if !formatted && !noFormat {
		logger.Warnw("clang-format not found, wrote unformatted output", "path", path)
	}
	logger.Debugw("wrote correction", "path", path, "bytes", len(text))

	return nil
}

func buildLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "corrgen:", err)
		os.Exit(1)
	}
}
