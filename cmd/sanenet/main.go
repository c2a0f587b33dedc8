package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "dev"

func main() {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "sanenet",
		Short: "Talk to saned network scanners",
		Long: `sanenet is a client for the SANE network daemon (saned).

It discovers scan servers on the local network, enumerates their
devices, and reads or writes device options such as resolution and
color mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(logLevel)})
			slog.SetDefault(slog.New(handler))
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level",
		envStr("SANENET_LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		discoverCmd(),
		devicesCmd(),
		optionsCmd(),
		getCmd(),
		setCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
