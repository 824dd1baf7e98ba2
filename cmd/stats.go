package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
	"github.com/teinac2012/attack-metrics-suite/internal/parser"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
)

var statsTeam string

var statsCmd = &cobra.Command{
	Use:   "stats <match.json>",
	Short: "Print match statistics as tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsTeam, "team", "", "only this team: HOME or AWAY")
}

func runStats(cmd *cobra.Command, args []string) error {
	teams := model.Teams
	if statsTeam != "" {
		t := model.ParseTeam(strings.ToUpper(statsTeam))
		if t == model.TeamUnknown {
			return fmt.Errorf("unknown team %q (want HOME or AWAY)", statsTeam)
		}
		teams = []model.Team{t}
	}

	match, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}
	rc, err := cfg.ReportConfig()
	if err != nil {
		return err
	}
	r, err := report.NewComposer(rc, report.WithLogger(log.Named("report"))).ComposeStatistics(cmd.Context(), match)
	if err != nil {
		return err
	}

	report.PrintMatchHeader(os.Stdout, r)
	for _, t := range teams {
		p := report.StatisticsFor(r, t)
		if p == nil {
			fmt.Fprintf(os.Stdout, "No events for %s.\n\n", match.TeamName(t))
			continue
		}
		report.PrintStatistics(os.Stdout, p)
		fmt.Fprintln(os.Stdout)
	}
	printWarnings(r)
	return nil
}
