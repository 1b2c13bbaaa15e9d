package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	mcpserver "github.com/gnana997/carbonmcp/pkg/mcp"
	"github.com/gnana997/carbonmcp/pkg/util"
)

// app carries the state shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp() *app {
	return &app{
		v:      viper.New(),
		logger: zap.NewNop(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func main() {
	if err := newRootCommand(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "carbonmcp",
		Short:        "Carbon Design System catalog served over MCP",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			a.logger = util.NewLogger(util.LoggerConfig{
				Level:  util.LogLevel(a.v.GetString(keyLogLevel)),
				Format: util.LogFormat(a.v.GetString(keyLogFormat)),
				Output: a.stderr,
			})
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default "+defaultConfigFile+")")
	flags.String("data-dir", "", "directory holding the catalog snapshot files")
	flags.String("components", "", "components snapshot path")
	flags.String("tokens", "", "design tokens snapshot path")
	flags.String("icons", "", "icons snapshot path")
	flags.String("pictograms", "", "pictograms snapshot path")
	flags.String("log-level", string(util.LevelInfo), "log level (debug, info, warn, error)")
	flags.String("log-format", string(util.FormatJSON), "log format (json, console)")

	mustBindFlag(a.v, keyConfig, "CARBON_CONFIG", flags.Lookup("config"))
	mustBindFlag(a.v, keyDataDir, "CARBON_DATA_DIR", flags.Lookup("data-dir"))
	mustBindFlag(a.v, keyComponents, "CARBON_DB", flags.Lookup("components"))
	mustBindFlag(a.v, keyTokens, "CARBON_TOKENS", flags.Lookup("tokens"))
	mustBindFlag(a.v, keyIcons, "CARBON_ICONS", flags.Lookup("icons"))
	mustBindFlag(a.v, keyPictograms, "CARBON_PICTOS", flags.Lookup("pictograms"))
	mustBindFlag(a.v, keyLogLevel, "CARBON_LOG_LEVEL", flags.Lookup("log-level"))
	mustBindFlag(a.v, keyLogFormat, "CARBON_LOG_FORMAT", flags.Lookup("log-format"))

	root.AddCommand(
		newServeCommand(a),
		newInspectCommand(a),
		newInitCommand(a),
		newScanAssetsCommand(a),
		newGenComponentsCommand(a),
		newSetupCommand(a),
		newVersionCommand(a),
	)
	return root
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "carbonmcp %s\n", mcpserver.Version)
		},
	}
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
