package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/marlowe/brewmind/internal/config"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the configured agent roster",
	RunE:  runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}

	if len(cfg.Agents) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No agents configured.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROVIDER\tMODEL\tENABLED")
	for _, agent := range cfg.Agents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", agent.Name, agent.Provider, agent.Model, agent.Enabled)
	}
	return w.Flush()
}
