package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/orizon-derive/internal/config"
	"github.com/orizon-lang/orizon-derive/internal/derive"
	"github.com/orizon-lang/orizon-derive/internal/deriving"
	"github.com/orizon-lang/orizon-derive/internal/diagnostics"
	"github.com/orizon-lang/orizon-derive/internal/emit"
	"github.com/orizon-lang/orizon-derive/internal/lexer"
	"github.com/orizon-lang/orizon-derive/internal/logger"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
	"github.com/orizon-lang/orizon-derive/internal/watch"
)

// ExpandCmd represents the expand command
var ExpandCmd = &cobra.Command{
	Use:   "expand [files...]",
	Short: "Expand derive attributes in Orizon source files",
	Long: `Expand the #[derive(...)] attributes in the given source files and emit
the synthesized impl blocks.

By default the impls are printed to stdout. With --output they are written
to <dir>/<name>.derived.oriz per input file; with --in-place they are
appended to the source files below a generated-code marker, and the section
below the marker is regenerated on every run.

Examples:
  orizon-derive expand point.oriz
  orizon-derive expand --trait Clone --trait Hash point.oriz
  orizon-derive expand -o gen src/geometry.oriz
  orizon-derive expand --watch point.oriz`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

var (
	expandOutputDir string
	expandInPlace   bool
	expandTraits    []string
	expandWatch     bool
)

func init() {
	ExpandCmd.Flags().StringVarP(&expandOutputDir, "output", "o", "", "Write impls to <dir>/<name>.derived.oriz instead of stdout")
	ExpandCmd.Flags().BoolVar(&expandInPlace, "in-place", false, "Append impls to the source files themselves")
	ExpandCmd.Flags().StringSliceVar(&expandTraits, "trait", nil, "Expand only the named trait (repeatable)")
	ExpandCmd.Flags().BoolVarP(&expandWatch, "watch", "w", false, "Stay running and re-expand when a source file changes")
	ExpandCmd.MarkFlagsMutuallyExclusive("output", "in-place")
	ExpandCmd.MarkFlagsMutuallyExclusive("watch", "in-place")
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	langVersion, err := cfg.Version()
	if err != nil {
		return err
	}

	opts := []deriving.ExpanderOption{
		deriving.WithLanguageVersion(langVersion),
		deriving.WithUnstableTraits(cfg.UnstableTraits),
	}
	if len(expandTraits) > 0 {
		opts = append(opts, deriving.WithTraitFilter(expandTraits...))
	}

	ex := &expander{
		cfg:      cfg,
		opts:     opts,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		multiple: len(args) > 1,
	}

	if expandWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return ex.watch(ctx, args)
	}
	return ex.expandAll(args)
}

// expander runs expansion passes over source files with fixed options.
type expander struct {
	cfg      *config.Config
	opts     []deriving.ExpanderOption
	out      io.Writer
	errOut   io.Writer
	multiple bool
}

// expandAll expands every file, reporting per-file failures to errOut and
// returning a single error when any file failed.
func (ex *expander) expandAll(files []string) error {
	failed := 0
	for _, path := range files {
		if err := ex.expandFile(path); err != nil {
			fmt.Fprintf(ex.errOut, "%s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return oerrors.Newf("expansion failed for %d of %d files", failed, len(files))
	}
	return nil
}

// expandFile parses one source file, expands its derive requests, and
// writes the synthesized impls to the configured destination.
func (ex *expander) expandFile(path string) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	l := lexer.NewWithFilename(source, path)
	p := parser.NewParser(l, path)
	program, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		for _, perr := range parseErrs {
			fmt.Fprintln(ex.errOut, perr)
		}
		return oerrors.Newf("%d parse errors", len(parseErrs))
	}

	dm := diagnostics.NewDiagnosticManager()
	sm := position.NewSourceMap()
	sm.AddFile(path, source)
	dm.SetSourceMap(sm)

	exp := deriving.NewExpander(deriving.Builtin(), derive.NewContext(dm, logger.Logger), ex.opts...)
	impls := exp.ExpandProgram(program)

	if len(dm.GetDiagnostics()) > 0 {
		dm.SortDiagnostics()
		fmt.Fprint(ex.errOut, dm.FormatAll(ex.colorize()))
	}
	if dm.HasErrors() {
		return oerrors.Newf("%d errors", dm.GetErrorCount())
	}

	em := emit.NewEmitter(emit.Options{IndentWidth: ex.cfg.IndentWidth, TrailingNewline: true})
	return ex.write(path, source, em.EmitImpls(impls))
}

// write delivers the emitted impls for one source file. text is empty when
// the file carries no derive attributes.
func (ex *expander) write(path, source, text string) error {
	switch {
	case expandInPlace:
		return rewriteInPlace(path, source, text)

	case expandOutputDir != "":
		if text == "" {
			logger.Debugw("no derive attributes", "file", path)
			return nil
		}
		if err := os.MkdirAll(expandOutputDir, 0o755); err != nil {
			return oerrors.Wrapf(err, "create %s", expandOutputDir)
		}
		dest := filepath.Join(expandOutputDir, derivedName(path))
		if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
			return oerrors.Wrap(err, "write impls")
		}
		logger.Infow("wrote impls", "source", path, "dest", dest)
		return nil

	default:
		if text == "" {
			logger.Debugw("no derive attributes", "file", path)
			return nil
		}
		if ex.multiple {
			fmt.Fprintf(ex.out, "// %s\n", path)
		}
		fmt.Fprint(ex.out, text)
		return nil
	}
}

// watch expands all files once, then re-expands changed files until ctx is
// canceled. Failures are reported but do not stop the watch.
func (ex *expander) watch(ctx context.Context, files []string) error {
	if err := ex.expandAll(files); err != nil {
		fmt.Fprintln(ex.errOut, err)
	}

	w, err := watch.New(files, ex.cfg.WatchDebounce(), logger.Logger, func(changed []string) {
		logger.Infow("source changed", "files", changed)
		if err := ex.expandAll(changed); err != nil {
			fmt.Fprintln(ex.errOut, err)
		}
	})
	if err != nil {
		return err
	}
	logger.Infof("watching %d file(s), press Ctrl-C to stop", len(files))
	return w.Run(ctx)
}

// colorize reports whether diagnostics for this run should carry ANSI
// colors, honoring the configured color mode.
func (ex *expander) colorize() bool {
	switch ex.cfg.ColorMode {
	case "always":
		return true
	case "never":
		return false
	}
	// JSON log mode means stderr is machine-read; keep diagnostics plain.
	if logger.JSONOutput {
		return false
	}
	f, ok := ex.errOut.(*os.File)
	if !ok {
		return false
	}
	return diagnostics.ShouldColorize(f)
}

// inPlaceMarker separates hand-written source from appended impls. Content
// below the marker is regenerated on every run and never parsed as input.
const inPlaceMarker = "// ---- derived impls (generated by orizon-derive) ----"

// readSource reads a source file, dropping any previously generated
// in-place section. The returned source always ends with a newline unless
// the file is empty.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", oerrors.Wrap(err, "read source")
	}
	source := string(data)
	if idx := strings.Index(source, inPlaceMarker); idx >= 0 {
		source = strings.TrimRight(source[:idx], "\n") + "\n"
	}
	return source, nil
}

// rewriteInPlace writes the file back as the hand-written source followed
// by the marker and the freshly emitted impls. An empty text drops any
// stale generated section.
func rewriteInPlace(path, source, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return oerrors.Wrap(err, "stat source")
	}

	var b strings.Builder
	b.WriteString(source)
	if text != "" {
		if source != "" && !strings.HasSuffix(source, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(inPlaceMarker)
		b.WriteString("\n\n")
		b.WriteString(text)
	}
	if err := os.WriteFile(path, []byte(b.String()), info.Mode().Perm()); err != nil {
		return oerrors.Wrap(err, "write source")
	}
	logger.Infow("appended impls", "file", path)
	return nil
}

// derivedName maps point.oriz to point.derived.oriz.
func derivedName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".derived" + ext
}
