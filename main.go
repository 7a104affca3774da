// ABOUTME: Entry point for the netradio player
// ABOUTME: Parses CLI flags and config, then starts the player application
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/netradio-go/netradio/internal/app"
	"github.com/netradio-go/netradio/internal/config"
	"github.com/netradio-go/netradio/internal/logging"
	"github.com/netradio-go/netradio/internal/version"
)

type flags struct {
	configFile string
	noTUI      bool
	logFile    string
	logLevel   string
	logJSON    bool
	monitor    string
	bufferMs   int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           version.Product + " [url]",
		Short:         "Play an MP3 internet radio stream",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f, args)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configFile, "config", "c", "", "YAML config file")
	fl.BoolVar(&f.noTUI, "no-tui", false, "Disable TUI, use streaming logs instead")
	fl.StringVar(&f.logFile, "log-file", "", "Log file path")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fl.BoolVar(&f.logJSON, "log-json", false, "Log as JSON")
	fl.StringVar(&f.monitor, "monitor", "", "Monitor listen address, e.g. 127.0.0.1:9090")
	fl.IntVar(&f.bufferMs, "buffer-ms", 0, "Audio device buffer in milliseconds")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Print())
		},
	}
}

// loadConfig reads the config file, if any, and applies flags set on the
// command line over it
func loadConfig(cmd *cobra.Command, f flags, args []string) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if len(args) == 1 {
		cfg.Stream.URL = args[0]
	}
	if changed("no-tui") {
		cfg.UI.Enabled = !f.noTUI
	}
	if changed("log-file") {
		cfg.Logging.File = f.logFile
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-json") {
		cfg.Logging.JSON = f.logJSON
	}
	if changed("monitor") {
		cfg.Monitor.Listen = f.monitor
	}
	if changed("buffer-ms") {
		cfg.Output.BufferMs = f.bufferMs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	logger := log.StandardLogger()
	closer, err := logging.Setup(logger, cfg.Logging, cfg.UI.Enabled)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	logger.WithField("version", version.Version).Infof("Starting %s", version.Product)

	player, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return errors.Wrap(player.Run(ctx), "player failed")
}
