package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driima/chat/internal/config"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get or set configuration",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			jsonMode, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				entries := make(map[string]string, len(config.Keys))
				for _, key := range config.Keys {
					entries[key], _ = cfg.Get(key)
				}
				if jsonMode {
					return json.NewEncoder(out).Encode(entries)
				}
				fmt.Fprintf(out, "Configuration (%s):\n", cfg.Source)
				for _, key := range config.Keys {
					fmt.Fprintf(out, "  %s: %s\n", key, entries[key])
				}
				return nil
			}

			key := normalizeConfigKey(args[0])
			if len(args) == 1 {
				value, err := cfg.Get(key)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				if jsonMode {
					return json.NewEncoder(out).Encode(map[string]string{key: value})
				}
				fmt.Fprintf(out, "%s: %s\n", key, value)
				return nil
			}

			// Overrides from flags are not persisted: start again from the file.
			stored, err := config.Load(cfg.Source)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if err := stored.Set(key, args[1]); err != nil {
				return writeCommandError(cmd, err)
			}
			if err := config.Save(stored.Source, stored); err != nil {
				return writeCommandError(cmd, err)
			}
			value, _ := stored.Get(key)
			if jsonMode {
				return json.NewEncoder(out).Encode(map[string]string{key: value})
			}
			fmt.Fprintf(out, "Set %s = %s\n", key, value)
			return nil
		},
	}

	return cmd
}

func normalizeConfigKey(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), "-", "_")
}
