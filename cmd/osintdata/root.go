package main

import (
	"fmt"
	"os"

	"github.com/nao1215/osintdata/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for osintdata.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "osintdata",
		Short: "Load and query OSINT reference datasets",
		Long: `osintdata loads the OSINT reference datasets used for enrichment:
sensitive file names, disposable, free and breached email domains,
admin panel paths and cloud provider fingerprints.

The dataset directory is taken from, lowest to highest precedence:
the built-in default (` + config.DefaultDatasetDir + `), the .osintdata
configuration file, a .env file, the ` + config.EnvDatasetDir + ` environment
variable and the --dataset-dir flag.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("dataset-dir", "D", "",
		"Directory holding the OSINT dataset files (overrides "+config.EnvDatasetDir+")")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in current or home directory)")
	cmd.PersistentFlags().String("env-file", "",
		"dotenv file to load (default: "+config.DefaultEnvFile+" in current directory, if present)")
	cmd.PersistentFlags().String("log-level", "",
		"Log level: debug, info, warn or error (default \""+config.DefaultLogLevel+"\")")
	cmd.PersistentFlags().String("log-format", "",
		"Log format: text or json (default \""+config.DefaultLogFormat+"\")")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewLookupCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
