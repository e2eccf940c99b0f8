// Command tdg generates TASTE project documents from Word templates.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/n7space/taste-document-generator/pkg/config"
	"github.com/n7space/taste-document-generator/pkg/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	logLevel   string
	verbose    bool

	settings config.Settings
	log      *zap.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "tdg",
		Short: "TASTE Document Generator",
		Long: `tdg assembles Word documents from templates containing hooks such as

  <TDG: template interfaces.tmplt/>
  <TDG: document appendix.docx/>

Template hooks are rendered by the template processor, document hooks are
merged in as they are.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "settings file (default $"+config.SettingsPathEnv+" or ./"+config.DefaultSettingsFile+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newGenerateCmd(a),
		newHooksCmd(a),
		newMergeCmd(a),
		newTargetCmd(a),
		newTextCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	s, err := config.Load(config.SettingsPath(a.configPath))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		s.LogLevel = a.logLevel
	}
	if a.verbose {
		s.LogLevel = logging.LevelDebug
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	a.settings = s
	a.log = logging.New(s.LogLevel, a.stderr)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
