package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum rows (0 for all)")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := db.ListAnalyses(listLimit)
	if err != nil {
		return fmt.Errorf("list analyses: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "No analyses stored yet. Run 'attackmetrics report <match.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-16s  %-10s  %6s  %5s  %s\n",
		"ID", "RECORDED", "DATE", "EVENTS", "PAGES", "MATCH")
	fmt.Fprintf(os.Stdout, "%-8s  %-16s  %-10s  %6s  %5s  %s\n",
		"────────", "────────────────", "──────────", "──────", "─────", "─────")
	for _, a := range list {
		pages := fmt.Sprintf("%d", a.Pages)
		if a.DegradedPages > 0 {
			pages = fmt.Sprintf("%d!", a.Pages)
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-16s  %-10s  %6d  %5s  %s vs %s\n",
			a.ID[:min(8, len(a.ID))], a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.MatchDate, a.Events, pages, a.HomeTeam, a.AwayTeam)
	}
	return nil
}
