// Package main provides the RoutineShell CLI entry point.
// RoutineShell is a terminal product picker with a chat assistant that
// builds routines from the selected products.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"routineshell/internal/config"
	"routineshell/internal/controller"
	"routineshell/internal/logger"
	"routineshell/internal/render"
	"routineshell/internal/selection"
	"routineshell/internal/shell"
	"routineshell/internal/storage"
	"routineshell/internal/tui"
	"routineshell/internal/version"
	"routineshell/pkg/routinetypes"
)

var (
	logLevel   string
	logFile    string
	configFile string
	selectIDs  []string
	shortVer   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "routine",
	Short: "RoutineShell - product picker and routine assistant",
	Long: `RoutineShell lets you browse a product catalog by category, build a selection,
and ask an assistant to turn the selected products into a routine.`,
	SilenceUsage: true,
	RunE:         runShell, // Default behavior is to run the interactive shell
}

// shellCmd represents the shell command (explicit version of default behavior)
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	RunE:  runShell,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the full-screen interface",
	RunE:  runTUI,
}

var productsCmd = &cobra.Command{
	Use:   "products [category]",
	Short: "List categories, or the products in a category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProducts,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a routine once and exit",
	Long: `Generate a routine from --select, or from the stored selection when
--select is not given, print the reply and exit.`,
	RunE: runGenerate,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if shortVer {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetVersion())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	flags.StringVar(&configFile, "config", "", "Read configuration from this file instead of routine.yaml")
	flags.String("endpoint", "", "Chat endpoint for the http provider")
	flags.String("provider", "", "Assistant provider (http|openai|anthropic|gemini)")
	flags.String("model", "", "Model name for direct providers")
	flags.String("catalog", "", "Catalog source: URL, file path, s3://bucket/key or embedded:")
	flags.String("storage", "", "Selection storage driver (memory|file|sqlite|redis|postgres)")
	flags.String("theme", "", fmt.Sprintf("Color theme (%s)", strings.Join(render.AvailableThemes(), "|")))
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	flags.Bool("debug-http", false, "Log HTTP request and response bodies at debug level")

	// Bind flags to viper
	bindings := map[string]string{
		"endpoint":       "endpoint",
		"provider":       "provider",
		"model":          "model",
		"catalog.source": "catalog",
		"storage.driver": "storage",
		"theme":          "theme",
		"metrics_addr":   "metrics-addr",
		"debug_http":     "debug-http",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	generateCmd.Flags().StringSliceVar(&selectIDs, "select", nil, "Product ids to use, e.g. --select 1,3")
	versionCmd.Flags().BoolVar(&shortVer, "short", false, "Print only the version number")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)

	// Configure logger before any command execution
	cobra.OnInitialize(initLogger)
}

func initLogger() {
	if err := logger.Configure(logLevel, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	return config.Load(viper.GetViper(), opts...)
}

// setup loads configuration and builds the app under a context cancelled by Ctrl-C.
func setup() (context.Context, context.CancelFunc, *app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	a, err := newApp(ctx, cfg)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, cancel, a, nil
}

func runShell(_ *cobra.Command, _ []string) error {
	ctx, cancel, a, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	logger.Debug("Starting RoutineShell", "version", version.GetVersion(), "provider", a.cfg.Provider)

	formatter := a.formatter(100)
	view := shell.NewConsoleView(a.printer, formatter)
	ctrl, err := a.newController(view)
	if err != nil {
		return err
	}

	return a.run(ctx, func(ctx context.Context) error {
		session := shell.NewSession(ctx, ctrl, view, a.printer, formatter)
		sh, err := shell.New(session, shell.Options{HistoryFile: a.cfg.HistoryFile})
		if err != nil {
			return err
		}
		session.Start()
		sh.Run()
		sh.Close()
		return nil
	})
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Log lines would corrupt the alternate screen.
	if logFile == "" {
		logger.SetOutput(io.Discard)
	}

	ctx, cancel, a, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	screen := tui.NewScreen()
	ctrl, err := a.newController(screen)
	if err != nil {
		return err
	}
	return a.run(ctx, func(ctx context.Context) error {
		return tui.Run(tui.New(ctx, ctrl, screen, a.formatter(80)))
	})
}

func runProducts(cmd *cobra.Command, args []string) error {
	ctx, cancel, a, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	if a.catalogErr != nil {
		return a.catalogErr
	}
	if err := a.store.LoadFromStorage(ctx); err != nil {
		logger.Debug("Ignoring stored selection", "error", err)
	}

	a.printer.SetWriter(cmd.OutOrStdout())
	formatter := a.formatter(100)
	if len(args) == 0 {
		a.printer.Block(formatter.Categories(a.catalog.Categories(), ""))
		return nil
	}

	grid := render.RenderGrid(args[0], a.catalog.FilterByCategory(args[0]), a.store)
	a.printer.Block(formatter.Grid(grid, func(routinetypes.ProductID) bool { return true }))
	return nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, cancel, a, err := setup()
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	a.printer.SetWriter(cmd.OutOrStdout())
	if len(selectIDs) > 0 {
		// An explicit selection must not overwrite the stored one.
		a.store = selection.New(storage.NewMemorySlot())
		for _, id := range selectIDs {
			a.store.Toggle(strings.TrimPrefix(strings.TrimSpace(id), "#"))
		}
	}

	var failed bool
	view := shell.NewConsoleView(a.printer, a.formatter(100))
	ctrl, err := a.newController(controller.ViewFunc(func(instructions []controller.Instruction) {
		for _, in := range instructions {
			switch {
			case in.Op == controller.OpWarn:
				failed = true
			case in.Entry.Kind == render.EntryFailure:
				failed = true
			}
		}
		// Only the transcript and warnings matter for a one-shot run.
		var shown []controller.Instruction
		for _, in := range instructions {
			if in.Op == controller.OpAppendTranscript || in.Op == controller.OpReplaceTranscript || in.Op == controller.OpWarn {
				shown = append(shown, in)
			}
		}
		view.Apply(shown)
	}))
	if err != nil {
		return err
	}

	if len(selectIDs) == 0 {
		ctrl.Dispatch(ctx, controller.Init())
	}
	ctrl.Run(ctx, controller.GenerateRoutine())

	if failed {
		return fmt.Errorf("routine generation failed")
	}
	return nil
}
