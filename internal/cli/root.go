// Package cli implements the brewmind command line: ask a brewing
// question against a configured agent roster, or inspect that roster.
package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "brewmind",
	Short: "Brewmind - AI deck-brewing assistant",
	Long: `Brewmind orchestrates specialist AI agents to answer Magic: The
Gathering deck-building questions: mana base analysis, card evaluation,
metagame positioning, and validated card recommendations.`,
	Version: version,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.brewmind/brewmind.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}
