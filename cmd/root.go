package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ziadkadry99/gpt-bridge/internal/bridge"
	"github.com/ziadkadry99/gpt-bridge/internal/progress"
)

var (
	cfgFile     string
	envFile     string
	noFacts     bool
	printConfig bool
	verbose     bool

	logger *zap.Logger

	// helpErr carries the help outcome out of the help func, which cannot
	// return an error itself.
	helpErr error
)

// errHelpRequested is reported on stdout when -h/--help is given; the
// usage text goes to stderr.
var errHelpRequested = errors.New("help requested: usage printed on stderr; flags must come before the message")

var rootCmd = &cobra.Command{
	Use:   "gptbridge [flags] [message...]",
	Short: "Send a message to a chat model and print a strict JSON reply",
	Long: `gptbridge joins its arguments into one message, optionally enriches it
with a fact from the knowledge base, sends it to the chat completion API and
prints exactly one JSON object on stdout:

  {"role":"assistant","content":"...","refusal":null,"annotations":[]}

Failures print the same shape with "refusal":"API_ERROR" and exit 1.
Every invocation is appended to logs/gpt_bridge_log_<YYYY-MM-DD>.json.

Diagnostics go to stderr. Flags must come before the message.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
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
	RunE: runBridge,
}

// Execute runs the root command. The context is cancelled on SIGINT or
// SIGTERM, which aborts any in-flight network call.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx)
}

// execute runs the root command and surfaces a help request as a failure,
// since cobra reports it as success.
func execute(ctx context.Context) error {
	helpErr = nil
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return err
	}
	return helpErr
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", ".gptbridge.yml", "optional YAML config file")
	flags.StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment is read")
	flags.BoolVar(&noFacts, "no-facts", false, "skip knowledge base enrichment")
	flags.BoolVar(&printConfig, "print-config", false, "print the effective settings (secrets redacted) and exit")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics on stderr")
	// Everything after the first word belongs to the message.
	flags.SetInterspersed(false)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return failEarly(cmd, "", err)
	})
	// Help must not take over stdout, which carries exactly one payload.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n\n%s", cmd.Long, cmd.UsageString())
		helpErr = failEarly(cmd, bridge.JoinArgs(args), errHelpRequested)
	})
}

// failEarly reports err through the error payload before PersistentPreRunE
// has run.
func failEarly(cmd *cobra.Command, input string, err error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Best effort: a load error here still yields the default log location.
	settings, _ := loadSettings()
	b := bridge.New(bridge.Options{Settings: settings, Out: cmd.OutOrStdout(), Logger: logger})
	return b.Fail(input, err)
}

func runBridge(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()

	if printConfig && err == nil {
		return printSettings(cmd.OutOrStdout(), settings)
	}

	b := bridge.New(bridge.Options{
		Settings:     settings,
		NewCompleter: newCompleter,
		NewFacts:     newFactSource,
		Out:          cmd.OutOrStdout(),
		Logger:       logger,
		// Verbose diagnostics share stderr with the spinner.
		Progress: progress.NewReporter(cmd.ErrOrStderr(), !verbose && progress.Interactive(os.Stderr)),
	})

	input := bridge.JoinArgs(args)
	if err != nil {
		return b.Fail(input, err)
	}
	return b.Run(cmd.Context(), input)
}

// newLogger builds the stderr diagnostics logger. Warnings and errors are
// always shown; --verbose adds info and debug records.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("run_id", uuid.NewString())), nil
}
