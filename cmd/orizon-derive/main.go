// Command orizon-derive expands the #[derive(...)] attributes in Orizon
// source files into explicit trait implementations.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/orizon-lang/orizon-derive/cmd/orizon-derive/commands"
	"github.com/orizon-lang/orizon-derive/internal/config"
	"github.com/orizon-lang/orizon-derive/internal/logger"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
)

var rootCmd = &cobra.Command{
	Use:   "orizon-derive",
	Short: "Derive expander for the Orizon language",
	Long: `orizon-derive - Trait implementation synthesizer for Orizon.

Reads Orizon source files, expands the #[derive(...)] attributes on struct,
enum, and union declarations, and emits the synthesized impl blocks as
source text.

Available commands:
  expand  - Expand derive attributes in source files
  traits  - List the derivable traits
  config  - Inspect and manage tool configuration
  version - Show version information

Examples:
  orizon-derive expand point.oriz             # Print impls to stdout
  orizon-derive expand -o gen src/point.oriz  # Write impls under gen/
  orizon-derive expand --watch point.oriz     # Re-expand on change
  orizon-derive traits --json                 # Trait catalog as JSON`,
	SilenceUsage:      true,
	PersistentPreRunE: initialize,
}

// initialize loads the configuration and sets up the global logger before
// any command runs. version and config init must work even when no valid
// configuration can be loaded, so they skip the load and log at the
// default level.
func initialize(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbosity, _ := cmd.Flags().GetCount("verbose")
	logJSON, _ := cmd.Flags().GetBool("log-json")

	level := config.DefaultLogLevel
	if cmd.Name() != "version" && cmd.Name() != "init" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		level = cfg.LogLevel
	}
	if verbosity > 0 {
		level = "debug"
	}
	if err := logger.Initialize(logJSON, level); err != nil {
		return oerrors.Wrap(err, "initialize logger")
	}
	return nil
}

func init() {
	// Flag names use dashes; accept underscore spellings too so they match
	// the config file's key style.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().String("config", "", "Path to orizon-derive.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (forces debug level)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON instead of console output")

	rootCmd.AddCommand(commands.ExpandCmd)
	rootCmd.AddCommand(commands.TraitsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Cleanup()
		os.Exit(1)
	}
}
