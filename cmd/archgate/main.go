package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/viant/archgate/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitPassed = 0
	exitFailed = 1
	exitError  = 2
)

// exitCodeError carries a process exit code through cobra
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// cli holds global flags and shared state of one invocation
type cli struct {
	configFile string
	verbose    bool
	config     *config.Config
	logger     *zap.Logger
	stdout     io.Writer
	stderr     io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitPassed
	}
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	fmt.Fprintf(stderr, "archgate: %v\n", err)
	return exitError
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr, logger: zap.NewNop()}
	rootCmd := &cobra.Command{
		Use:   "archgate",
		Short: "Architectural conformance gate for layered Python source trees",
		Long: `archgate checks every static import of a Python source tree against
concentric layer rules (domain, usecases, adapters, infrastructure, app)
and usecases slice rules (same slice, shared, or the slice's api).

Exit codes: 0 passed, 1 violations or parse errors, 2 discovery or configuration error.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(c.configFile)
			if err != nil {
				return err
			}
			c.config = cfg
			level, err := zapcore.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if c.verbose {
				level = zapcore.DebugLevel
			}
			encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
			c.logger = zap.New(zapcore.NewCore(encoder, zapcore.AddSync(c.stderr), level))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (defaults to $ARCHGATE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging, overrides log.level")
	rootCmd.AddCommand(newCheckCmd(c), newWatchCmd(c), newPolicyCmd(c))
	return rootCmd
}
