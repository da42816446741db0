// Command perch is a tiling window manager for X11 with tagged workspaces,
// composable hooks and a YAML configuration file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/perchwm/perch/internal/config"
	"github.com/perchwm/perch/internal/wm"
	"github.com/perchwm/perch/internal/x11"
)

var version = "0.1.0"

func main() {
	var configPath string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:          "perch",
		Short:        "Perch - a tiling X11 window manager",
		Long:         "Perch is a tiling window manager for X11 with tagged workspaces,\ncomposable hooks and a YAML configuration file.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return run(configPath, logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the config file (default ~/.config/perch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn or error")

	rootCmd.AddCommand(&cobra.Command{
		Use:          "run",
		Short:        "Start the window manager (same as running perch with no arguments)",
		SilenceUsage: true,
		RunE:         rootCmd.RunE,
	})
	rootCmd.AddCommand(createCheckConfigCmd(&configPath))
	rootCmd.AddCommand(createVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run connects to the display, loads the configuration and hands control to
// the window manager until it shuts down.
func run(configPath string, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	wmCfg, err := cfg.WMConfig()
	if err != nil {
		return err
	}
	wmCfg.Logger = logger

	conn, err := x11.NewConn()
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	keys, err := defaultKeyBindings(conn, cfg.Tags)
	if err != nil {
		return err
	}

	manager, err := wm.New(wmCfg, keys, nil, conn)
	if err != nil {
		return err
	}

	logger.Info("starting perch", "version", version, "tags", cfg.Tags)
	return manager.Run()
}

func createCheckConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configPath
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			cfg, err := config.LoadFromPath(path)
			if err != nil {
				return err
			}
			if _, err := cfg.WMConfig(); err != nil {
				return err
			}
			fmt.Printf("%s: configuration OK\n", path)
			return nil
		},
	}
}

func createVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("perch v%s\n", version)
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
