package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/datalens-ai/datalens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("provider: %s\n", cfg.Provider)
		fmt.Printf("model: %s\n", cfg.Model)
		fmt.Printf("api_key: %s\n", mask(cfg.APIKey))
		fmt.Printf("server_port: %d\n", cfg.ServerPort)
		fmt.Printf("session_idle_min: %d\n", cfg.SessionIdleMin)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("answer_delay_ms: %d\n", cfg.AnswerDelayMs)
		fmt.Printf("preview_rows: %d\n", cfg.PreviewRows)
		fmt.Printf("preview_chars: %d\n", cfg.PreviewChars)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "provider":
			cfg.Provider = val
		case "model":
			cfg.Model = val
		case "api_key":
			cfg.APIKey = val
		case "server_port":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("server_port must be an integer: %w", err)
			}
			cfg.ServerPort = n
		case "session_idle_min":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("session_idle_min must be an integer: %w", err)
			}
			cfg.SessionIdleMin = n
		case "http_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("http_timeout_sec must be an integer: %w", err)
			}
			cfg.HTTPTimeoutSec = n
		case "answer_delay_ms":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("answer_delay_ms must be an integer: %w", err)
			}
			cfg.AnswerDelayMs = n
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Saved")
		return nil
	},
}

func mask(s string) string {
	if len(s) <= 6 {
		if s == "" {
			return "(unset)"
		}
		return "****"
	}
	return s[:3] + "****" + s[len(s)-3:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
