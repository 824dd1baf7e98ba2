package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes one analysis or the whole history database.
var dropCmd = &cobra.Command{
	Use:   "drop [id-prefix]",
	Short: "Delete one analysis or the whole history database",
	Long: `With an id prefix, delete that analysis and its team and actor rows.
Without arguments, permanently delete the SQLite history database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropAnalysis(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files
	_ = os.Remove(dbPath + "-wal")
	_ = os.Remove(dbPath + "-shm")
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropAnalysis(prefix string) error {
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
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete analysis %s (%s vs %s, %s).\n", a.ID, a.HomeTeam, a.AwayTeam, a.MatchDate)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeleteAnalysis(a.ID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted analysis %s\n", a.ID)
	return nil
}
