package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"airlockmc/checking"
	"airlockmc/config"
	"airlockmc/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit status of the command
const (
	ExitPass         = 0
	ExitFail         = 1
	ExitMalformed    = 2
	ExitInconclusive = 3
	ExitUsage        = 4
)

var (
	modelFile string
	envFile   string
	verbose   bool

	defaults config.Defaults
	logger   = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "airlockmc",
	Short: "airlockmc verifies the biohazard airlock controller",
	Long: `airlockmc explores every reachable configuration of the airlock controller and
its environment, checks safety invariants and liveness properties under fairness and
prints a counterexample for every violated property.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if envFile != "" {
			defaults, err = config.LoadDefaults(envFile)
		} else {
			defaults, err = config.LoadDefaults()
		}
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("model") {
			modelFile = defaults.Model
		}
		logger, err = newLogger(verbose)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFile, "model", "m", "", "model file, the built-in airlock model if empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file with default settings, .env if empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log the progress of the exploration")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// An error carrying the exit status of the command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Exit status for the overall verdict of a verification run
func verdictCode(v checking.Verdict) int {
	switch v {
	case checking.Fail:
		return ExitFail
	case checking.Inconclusive:
		return ExitInconclusive
	default:
		return ExitPass
	}
}

// Exit status for an error returned by a command
func exitCode(err error) int {
	if err == nil {
		return ExitPass
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	var malformed *model.MalformedModelError
	if errors.As(err, &malformed) {
		return ExitMalformed
	}
	return ExitUsage
}

func loadModel() (*model.Model, error) {
	if modelFile == "" {
		return model.Airlock()
	}
	return model.LoadFile(modelFile)
}

// Execute adds all child commands to the root command and runs it.
// Returns the exit status of the command.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, os.Args[1:])
}

func execute(ctx context.Context, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	var exit *exitError
	if err != nil && !(errors.As(err, &exit) && exit.err == nil) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return exitCode(err)
}
