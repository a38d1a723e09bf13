package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd builds the apina command tree.
func NewRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "apina",
		Short: "apina is a schema-driven JSON resource store",
		Long: `apina stores JSON objects under typed paths such as /gallery/summer.
Types are registered at runtime with PUT /resource/<type> and every write is
checked against the type's attribute definitions.

Configuration can be provided via a file (--config), APINA_* environment
variables, or flags.`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	cmd.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "Path to a YAML or JSON configuration file")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&f.logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(
		newServeCmd(&f),
		newCallCmd(&f),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
