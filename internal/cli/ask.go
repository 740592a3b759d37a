package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marlowe/brewmind/internal/config"
	"github.com/marlowe/brewmind/internal/logger"
	"github.com/marlowe/brewmind/pkg/agent"
	"github.com/marlowe/brewmind/pkg/cards"
	"github.com/marlowe/brewmind/pkg/experts"
	"github.com/marlowe/brewmind/pkg/orchestrator"
	"github.com/marlowe/brewmind/pkg/recommend"
	"github.com/marlowe/brewmind/pkg/usage"
)

var (
	askCardDB    string
	askBrewName  string
	askFormat    string
	askArchetype string
	askColors    []string
	askDeck      []string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the orchestrator a deck-brewing question",
	Long: `Ask a deck-brewing question. The orchestrator consults the configured
specialist agents as needed and validates any card recommendations
against the card database before reporting them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askCardDB, "card-db", "", "card database file (default is $HOME/.brewmind/cards.json)")
	askCmd.Flags().StringVar(&askBrewName, "brew", "", "brew name")
	askCmd.Flags().StringVar(&askFormat, "format", "", "constructed format (standard, modern, ...)")
	askCmd.Flags().StringVar(&askArchetype, "archetype", "", "deck archetype (aggro, control, ...)")
	askCmd.Flags().StringSliceVar(&askColors, "colors", nil, "deck colors (W,U,B,R,G,C)")
	askCmd.Flags().StringSliceVar(&askDeck, "card", nil, "card currently in the deck (repeatable)")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}

	logCfg := logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	}
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	lg, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	defer lg.Close()

	store, err := cards.NewFileStore(cardDBPath(), lg.Zerolog())
	if err != nil {
		return fmt.Errorf("card database unavailable: %w", err)
	}

	client, err := agent.NewClient(agent.ClientConfig{
		Factory:    agent.NewProviderFactory(cfg.Providers),
		Recorder:   usage.NewLogRecorder(lg.Zerolog()),
		Logger:     lg.Zerolog(),
		MaxTurns:   cfg.Orchestration.MaxTurns,
		MaxRetries: cfg.Orchestration.MaxRetries,
	})
	if err != nil {
		return err
	}

	registry := cfg.Registry()

	consultant, err := experts.NewConsultant(experts.Config{
		Client:   client,
		Registry: registry,
		Store:    store,
		Logger:   lg.Zerolog(),
	})
	if err != nil {
		return err
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Client:     client,
		Registry:   registry,
		Consultant: consultant,
		Validator:  recommend.NewValidator(store, lg.Zerolog()),
		Logger:     lg.Zerolog(),
	})
	if err != nil {
		return err
	}

	response, err := orch.Ask(cmd.Context(), orchestrator.BrewContext{
		BrewName:  askBrewName,
		Format:    askFormat,
		Archetype: askArchetype,
		Colors:    askColors,
		DeckCards: askDeck,
		Question:  strings.Join(args, " "),
	}, orchestrator.Options{})
	if err != nil {
		return err
	}

	printResponse(cmd, response)
	return nil
}

func printResponse(cmd *cobra.Command, response *orchestrator.Response) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, response.Content)

	if len(response.ExpertsConsulted) > 0 {
		fmt.Fprintf(out, "\nExperts consulted: %s\n", strings.Join(response.ExpertsConsulted, ", "))
	}

	for _, board := range []recommend.Board{recommend.BoardMainboard, recommend.BoardSideboard, recommend.BoardStaging} {
		added := response.Recommended[board]
		if len(added) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s additions:\n", strings.ToUpper(string(board)[:1])+string(board)[1:])
		for _, card := range added {
			line := fmt.Sprintf("  %dx %s", card.Quantity, card.Name)
			if card.Reason != "" {
				line += " (" + card.Reason + ")"
			}
			fmt.Fprintln(out, line)
		}
	}

	if len(response.Rejected) > 0 {
		fmt.Fprintln(out, "\nRejected:")
		for _, rejection := range response.Rejected {
			fmt.Fprintf(out, "  %s: %s\n", rejection.Name, rejection.Reason)
		}
	}
}

func cardDBPath() string {
	if askCardDB != "" {
		return askCardDB
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "cards.json"
	}
	return filepath.Join(home, ".brewmind", "cards.json")
}
