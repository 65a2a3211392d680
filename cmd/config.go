package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/mdplay/internal/config"
	"github.com/oakwood-commons/mdplay/internal/ui"
)

var configOutput string

// configCmd prints the merged configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the merged mdplay configuration",
	Long: "Print the embedded defaults merged with the user config file\n" +
		"(--config-file, else $XDG_CONFIG_HOME/mdplay/config.yaml or ~/.config/mdplay/config.yaml).",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadAppConfig(configFile, "")
		if err != nil {
			return err
		}
		return writeConfig(cmd.OutOrStdout(), cfg.Sanitized(), configOutput)
	},
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadAppConfig(configFile, "")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Available themes (default: %s):\n", cfg.UI.Theme.Default)
		for _, name := range ui.ThemeNames() {
			fmt.Fprintf(out, " - %s\n", name)
		}
		return nil
	},
}

var configDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in default config, a starting point for a user file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
		return err
	},
}

func writeConfig(w io.Writer, cfg config.File, format string) error {
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("invalid output for config: %s (use yaml|json)", format)
	}
}

func init() { //nolint:gochecknoinits
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json")
	configCmd.AddCommand(configThemesCmd, configDefaultCmd)
}
