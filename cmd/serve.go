package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/datalens-ai/datalens/internal/web"
)

var flagPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagPort > 0 {
			cfg.ServerPort = flagPort
		}
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		srv := web.New(cfg, logger)
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
