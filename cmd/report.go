package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/teinac2012/attack-metrics-suite/internal/parser"
	"github.com/teinac2012/attack-metrics-suite/internal/render"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
)

var (
	reportOut     string
	reportFormat  string
	reportNoStore bool

	cWarn = color.New(color.FgYellow)
	cOK   = color.New(color.FgGreen, color.Bold)
)

var reportCmd = &cobra.Command{
	Use:   "report <match.json>",
	Short: "Build the full match report",
	Long: `Parse a match record, compose the per-team pages (statistics, team density,
actor density grid, recovery zones) and write them as PDF or JSON.

Pages that cannot be built are replaced by placeholders and reported as warnings.
The analysis is recorded in the history database unless --no-store is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file, - for stdout (default <input>_informe.<format>)")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "pdf", "output format: pdf or json")
	reportCmd.Flags().BoolVar(&reportNoStore, "no-store", false, "do not record the analysis")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportFormat != "pdf" && reportFormat != "json" {
		return fmt.Errorf("unknown format %q (want pdf or json)", reportFormat)
	}

	match, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}
	rc, err := cfg.ReportConfig()
	if err != nil {
		return err
	}
	r, err := report.NewComposer(rc, report.WithLogger(log.Named("report"))).Compose(cmd.Context(), match)
	if err != nil {
		return err
	}

	out := reportOut
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		out = filepath.Join(filepath.Dir(args[0]), base+"_informe."+reportFormat)
	}
	if err := writeReport(out, r); err != nil {
		return err
	}

	if !reportNoStore {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		exists, err := db.AnalysisExists(r.InputHash)
		if err != nil {
			return fmt.Errorf("check history: %w", err)
		}
		saved, err := db.SaveReport(r)
		if err != nil {
			return err
		}
		verb := "Recorded"
		if exists {
			verb = "Replaced"
		}
		fmt.Fprintf(os.Stderr, "%s analysis %s\n", verb, saved.ID[:8])
	}

	printWarnings(r)
	if out != "-" {
		report.PrintPageList(os.Stdout, r)
		cOK.Fprintf(os.Stderr, "Wrote %s", out)
		fmt.Fprintf(os.Stderr, " (%d pages, %d degraded)\n", len(r.Pages), r.Degraded())
	}
	return nil
}

func writeReport(out string, r *report.Report) error {
	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	var err error
	if reportFormat == "json" {
		err = render.JSON(w, r)
	} else {
		err = render.PDF(w, r)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", reportFormat, err)
	}
	return nil
}

// printWarnings prints one line per placeholder page or actor cell.
func printWarnings(r *report.Report) {
	for _, p := range r.Pages {
		h := p.Header()
		switch pg := p.(type) {
		case *report.PlaceholderPage:
			cWarn.Fprintf(os.Stderr, "warning: %s %s replaced by placeholder: %s\n",
				h.Team, pg.Replaces, pg.Reason)
		case *report.ActorDensityGridPage:
			for _, c := range pg.Cells {
				if c.Placeholder {
					cWarn.Fprintf(os.Stderr, "warning: %s actor %q cell replaced by placeholder: %s\n",
						h.Team, c.Actor, c.Reason)
				}
			}
		}
	}
}
