package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/orizon-derive/internal/config"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage tool configuration",
	Long: `Inspect and manage orizon-derive configuration.

Configuration sources (in order of precedence):
1. Environment variables (ORIZON_DERIVE_* prefix)
2. Project config (orizon-derive.toml, searched upward from the working directory)
3. Default values

Examples:
  orizon-derive config show                 # Effective configuration as TOML
  orizon-derive config show --format json
  orizon-derive config init                 # Write orizon-derive.toml with defaults
  orizon-derive config validate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Display the effective configuration after merging defaults, the project file, and environment variables",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long:  "Write a configuration file with the built-in defaults, to orizon-derive.toml in the working directory or to the given path",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

// loadConfig loads the tool configuration honoring the root --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	switch configFormat {
	case "toml":
		data, err := config.Encode(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))

	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return oerrors.Wrap(err, "marshal config")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))

	default:
		return oerrors.Newf("unsupported format %q (supported: toml, json)", configFormat)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFileName
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
	return nil
}
