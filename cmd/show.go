package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teinac2012/attack-metrics-suite/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a stored analysis by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := db.GetAnalysisByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query analysis: %w", err)
	}
	if a == nil {
		fmt.Fprintf(os.Stderr, "No analysis found with id prefix %q\n", prefix)
		return nil
	}

	teams, err := db.GetTeamStats(a.ID)
	if err != nil {
		return fmt.Errorf("get team stats: %w", err)
	}
	actors, err := db.GetActorStats(a.ID)
	if err != nil {
		return fmt.Errorf("get actor stats: %w", err)
	}

	report.PrintAnalysisSummary(os.Stdout, *a)
	report.PrintTeamStatsTable(os.Stdout, teams)
	report.PrintActorStatsTable(os.Stdout, actors)
	return nil
}
