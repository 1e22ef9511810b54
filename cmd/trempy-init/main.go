// File: trempy/initfile/cmd/trempy-init/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trempy/initfile"
)

var (
	// Global flags
	verbose    bool
	initPath   string
	boundsPath string
	questions  []int

	// dump flags
	dumpFormat string

	// Logger
	logger *zap.Logger
)

// envSettings are flag defaults read from TREMPY_* environment variables.
// TREMPY_INIT is resolved by init file discovery.
type envSettings struct {
	Bounds    string `envconfig:"BOUNDS"`
	Verbose   bool   `envconfig:"VERBOSE" default:"false"`
	Questions []int  `envconfig:"QUESTIONS"`
}

// applyEnv fills flags the user did not set from the environment
func applyEnv(cmd *cobra.Command) error {
	var env envSettings
	if err := envconfig.Process("TREMPY", &env); err != nil {
		return fmt.Errorf("failed to read TREMPY_* environment: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("bounds") && env.Bounds != "" {
		boundsPath = env.Bounds
	}
	if !flags.Changed("verbose") && env.Verbose {
		verbose = true
	}
	if !flags.Changed("questions") && len(env.Questions) > 0 {
		questions = env.Questions
	}
	return nil
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "trempy-init",
	Short: "Inspect, normalize and watch trempy init files",
	Long: `trempy-init reads the grouped key/value init files that configure a model
run. Without a file argument the init file is discovered from --init, the
TREMPY_INIT environment variable or model.trempy.ini in the current directory.
TREMPY_BOUNDS, TREMPY_VERBOSE and TREMPY_QUESTIONS set defaults for the
matching flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyEnv(cmd); err != nil {
			return err
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// checkCmd validates a file and builds its model
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Parse an init file and check model integrity",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

// dumpCmd prints the parsed content
var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Print the parsed init file as ini, toml, yaml or json",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDump,
}

// writeCmd rewrites a file in canonical form
var writeCmd = &cobra.Command{
	Use:   "write [src] [dst]",
	Short: "Rewrite an init file in canonical form",
	Long: `Reads src, fills every default and writes the result to dst atomically.
Explicit bounds are written for every coefficient and open cutoffs as None.`,
	Args: cobra.ExactArgs(2),
	RunE: runWrite,
}

// watchCmd reports reloads until interrupted
var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Watch an init file and report every reload",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&initPath, "init", "", "Init file path (or set TREMPY_INIT env)")
	rootCmd.PersistentFlags().StringVar(&boundsPath, "bounds", "", "TOML file overriding default bounds")
	rootCmd.PersistentFlags().IntSliceVar(&questions, "questions", nil, "Question universe for the cutoff table (default 1..15)")

	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", initfile.FormatInit, "Output format: ini, toml, yaml or json")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newBuilder prepares a builder from the global flags and an optional file argument
func newBuilder(args []string) *initfile.Builder {
	b := initfile.NewBuilder().WithLogger(logger)
	if boundsPath != "" {
		b = b.WithBoundsFile(boundsPath)
	}
	if len(questions) > 0 {
		b = b.WithQuestions(questions...)
	}

	switch {
	case len(args) > 0:
		return b.WithFile(args[0])
	case initPath != "":
		return b.WithFile(initPath)
	default:
		return b.WithArgs(nil).WithDiscovery(initfile.DefaultDiscoveryOptions())
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	b := newBuilder(args)
	model, err := b.BuildModel()
	if err != nil {
		return err
	}

	free, err := model.Paras.Values(initfile.PerspectiveEcon, initfile.SelectFree)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: ok\n", b.Path())
	fmt.Fprintf(out, "  version:    %s\n", model.Variant)
	fmt.Fprintf(out, "  parameters: %d (%d economic, %d free)\n",
		len(model.Paras.Labels()), model.Paras.NumEcon(), len(free))
	fmt.Fprintf(out, "  questions:  %v\n", model.Questions)
	return model.Events.Flush(out)
}

func runDump(cmd *cobra.Command, args []string) error {
	d, err := newBuilder(args).Build()
	if err != nil {
		return err
	}
	return initfile.Export(cmd.OutOrStdout(), d, dumpFormat)
}

func runWrite(cmd *cobra.Command, args []string) error {
	d, err := newBuilder(args[:1]).Build()
	if err != nil {
		return err
	}
	if err := initfile.SaveInit(args[1], d); err != nil {
		return err
	}
	logger.Info("init file written", zap.String("src", args[0]), zap.String("dst", args[1]))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	b := newBuilder(args)
	// Build once so discovery and validation errors surface before polling
	if _, err := b.Build(); err != nil {
		return err
	}

	opts := initfile.DefaultOptions()
	opts.Logger = logger
	if len(questions) > 0 {
		opts.Questions = questions
	}
	if boundsPath != "" {
		if err := opts.Bounds.LoadBoundsFile(boundsPath); err != nil {
			return err
		}
	}

	w, err := initfile.Watch(b.Path(), opts, initfile.DefaultWatchOptions())
	if err != nil {
		return err
	}
	defer w.Stop()

	updates := w.Subscribe()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s (version %s)\n", w.Path(), w.Current().Variant)

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			switch {
			case u.Err != nil:
				fmt.Fprintf(out, "%s: %v\n", u.Event, u.Err)
			case u.Dict != nil:
				fmt.Fprintf(out, "%s: version %s, %d questions\n", u.Event, u.Dict.Variant, len(u.Dict.Questions))
			default:
				fmt.Fprintln(out, u.Event)
			}
		}
	}
}
