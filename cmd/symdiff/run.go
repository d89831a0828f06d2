package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/symdiff/pkg/symdiff"
	"github.com/randalmurphal/symdiff/pkg/symdiff/config"
	"github.com/randalmurphal/symdiff/pkg/symdiff/observability"
	"github.com/randalmurphal/symdiff/pkg/symdiff/render"
	"github.com/randalmurphal/symdiff/pkg/symdiff/sexpr"
	"github.com/randalmurphal/symdiff/pkg/symdiff/store"
	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
	"github.com/randalmurphal/symdiff/pkg/symdiff/workspace"
)

// flags holds the command line. Only flags that were set override settings.
type flags struct {
	config    string
	in        string
	variable  string
	order     int
	format    string
	dot       string
	store     string
	list      bool
	logLevel  string
	logFormat string
	maxNodes  int
	telemetry bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, []string, *flag.FlagSet, error) {
	f := &flags{}
	fs := flag.NewFlagSet("symdiff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "YAML or JSON settings file")
	fs.StringVar(&f.in, "in", "", "input expression file (- for stdin)")
	fs.StringVar(&f.variable, "var", "", "variable to differentiate with respect to")
	fs.IntVar(&f.order, "order", 1, "number of successive derivatives")
	fs.StringVar(&f.format, "format", config.OutputSexpr, "output format: sexpr or latex")
	fs.StringVar(&f.dot, "dot", "", "directory to write Graphviz files into")
	fs.StringVar(&f.store, "store", "", "SQLite file for derivation records")
	fs.BoolVar(&f.list, "list", false, "list stored records and exit")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", config.LogFormatText, "log format: text or json")
	fs.IntVar(&f.maxNodes, "max-nodes", 0, "live node cap per tree")
	fs.BoolVar(&f.telemetry, "telemetry", false, "log spans and a metrics summary")
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	return f, fs.Args(), fs, nil
}

// loadSettings layers defaults, the config file and explicitly set flags.
func loadSettings(f *flags, fs *flag.FlagSet) (config.Settings, error) {
	s := config.Default()
	if f.config != "" {
		loaded, err := config.FromFile(f.config)
		if err != nil {
			return config.Settings{}, err
		}
		s = loaded
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "var":
			s.Variable = f.variable
		case "order":
			s.Order = f.order
		case "format":
			s.Output = f.format
		case "store":
			s.StorePath = f.store
		case "log-level":
			s.LogLevel = f.logLevel
		case "log-format":
			s.LogFormat = f.logFormat
		case "max-nodes":
			s.MaxNodes = f.maxNodes
		}
	})
	return s, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, paths, fs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	settings, err := loadSettings(f, fs)
	if err != nil {
		return err
	}
	logger := settings.Logger(stderr)

	if f.list {
		if settings.StorePath == "" {
			return errors.New("-list requires -store or store_path")
		}
		return listRecords(settings.StorePath, stdout)
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	opts := []symdiff.Option{
		symdiff.WithLogger(logger),
		symdiff.WithTolerance(settings.Tolerance),
		symdiff.WithMaxPasses(settings.MaxPasses),
		symdiff.WithMaxNodes(settings.MaxNodes),
		symdiff.WithCacheSize(settings.CacheSize),
	}
	if f.telemetry {
		shutdown := setupTelemetry(logger)
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()
		opts = append(opts, symdiff.WithMetrics(true), symdiff.WithTracing(true))
	}
	if settings.StorePath != "" {
		records, err := store.NewSQLiteStore(settings.StorePath)
		if err != nil {
			return err
		}
		defer records.Close()
		opts = append(opts, symdiff.WithStore(records))
	}
	engine := symdiff.New(opts...)

	if f.in != "" {
		paths = append([]string{f.in}, paths...)
	}
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	if slices.Index(paths, "-") != slices.LastIndex(paths, "-") {
		return errors.New("stdin (-) given more than once")
	}
	inputs := nameInputs(paths)

	done := observability.TimedOperation()
	ws := workspace.New()
	sources := workspace.New()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, in := range inputs {
		g.Go(func() error {
			return deriveInput(gctx, engine, ws, sources, settings, in, stdin, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Debug("all inputs derived",
		slog.Int("inputs", len(inputs)),
		slog.Float64("duration_ms", done()),
	)

	for _, in := range inputs {
		if err := printInput(ws, settings, in, f.dot, stdout); err != nil {
			return err
		}
	}
	return nil
}

// input is one expression source and its workspace name.
type input struct {
	path string
	name string
}

// nameInputs names each input after its file stem, "f" for stdin. A repeated
// stem gets the smallest numeric suffix that no other input uses.
func nameInputs(paths []string) []input {
	stems := make([]string, len(paths))
	taken := make(map[string]bool, len(paths))
	for i, p := range paths {
		stems[i] = "f"
		if p != "-" {
			stems[i] = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		taken[stems[i]] = true
	}

	assigned := make(map[string]bool, len(paths))
	inputs := make([]input, 0, len(paths))
	for i, p := range paths {
		name := stems[i]
		if assigned[name] {
			n := 2
			for taken[fmt.Sprintf("%s%d", name, n)] {
				n++
			}
			name = fmt.Sprintf("%s%d", name, n)
			taken[name] = true
		}
		assigned[name] = true
		inputs = append(inputs, input{path: p, name: name})
	}
	return inputs
}

// derivedName is the workspace name of the order-th derivative of name.
func derivedName(name string, order int) string {
	return name + strings.Repeat("'", order)
}

// deriveInput derives one input and defines it and its derivatives in ws.
// sources holds parsed inputs by path, so a file named twice is read once.
func deriveInput(ctx context.Context, engine *symdiff.Engine, ws, sources *workspace.Workspace, settings config.Settings, in input, stdin io.Reader, logger *slog.Logger) error {
	src, err := sources.GetOrCreate(in.path, func() (*tree.Tree, error) {
		return readTree(in.path, stdin, settings.MaxNodes)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", in.path, err)
	}

	if !src.FreeVariables(src.Root()).Contains(settings.Variable) {
		logger.Warn("variable does not occur in expression",
			slog.String("input", in.path),
			slog.String("variable", settings.Variable),
		)
	}

	results, err := engine.DeriveN(ctx, src, settings.Variable, settings.Order)
	if err != nil {
		logger.Error("derivation failed",
			slog.String("input", in.path),
			slog.String("category", symdiff.Categorize(err).String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s: %w", in.path, err)
	}

	if err := ws.Define(in.name, src); err != nil {
		return err
	}
	for i, d := range results {
		if err := ws.Define(derivedName(in.name, i+1), d); err != nil {
			return err
		}
	}
	return nil
}

func readTree(path string, stdin io.Reader, maxNodes int) (*tree.Tree, error) {
	opts := []tree.Option{tree.WithMaxNodes(maxNodes)}
	if path == "-" {
		return sexpr.Read(stdin, opts...)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return sexpr.Read(file, opts...)
}

func printInput(ws *workspace.Workspace, settings config.Settings, in input, dotDir string, stdout io.Writer) error {
	for order := 0; order <= settings.Order; order++ {
		name := derivedName(in.name, order)
		t, err := ws.Get(name)
		if err != nil {
			return err
		}

		var text string
		switch settings.Output {
		case config.OutputLaTeX:
			text, err = render.LaTeX(t, t.Root())
		default:
			text, err = sexpr.FormatTree(t)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(stdout, "%s = %s\n", name, text)

		if dotDir != "" {
			if err := writeDOT(filepath.Join(dotDir, dotFileName(in.name, order)), t); err != nil {
				return err
			}
		}
	}
	return nil
}

func dotFileName(name string, order int) string {
	if order == 0 {
		return name + ".dot"
	}
	return fmt.Sprintf("%s.d%d.dot", name, order)
}

func writeDOT(path string, t *tree.Tree) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WriteDOT(file, t); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

func listRecords(path string, stdout io.Writer) error {
	records, err := store.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer records.Close()

	infos, err := records.List()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tVARIABLE\tORDER\tBYTES")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			info.ID, info.CreatedAt.Format(time.RFC3339), info.Variable, info.Order, info.Size)
	}
	return tw.Flush()
}
