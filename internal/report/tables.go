package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintMatchHeader prints a one-line summary header for the report.
func PrintMatchHeader(w io.Writer, r *Report) {
	hash := r.InputHash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	fmt.Fprintf(w, "\n%s vs %s  |  Date: %s  |  Events: %d  |  Pages: %d  |  Hash: %s\n\n",
		r.HomeTeam, r.AwayTeam, r.Date, r.Events, len(r.Pages), hash)
}

// PrintStatistics prints every statistics table of one page.
func PrintStatistics(w io.Writer, p *StatisticsPage) {
	fmt.Fprintf(w, "%s  |  Total: %d  |  Actors: %d", p.Title, p.Total, p.Actors)
	if p.XGEvents > 0 {
		fmt.Fprintf(w, "  |  xG: %.2f", p.XG)
	}
	if p.XTEvents > 0 {
		fmt.Fprintf(w, "  |  xT: %.2f", p.XT)
	}
	fmt.Fprintln(w)

	PrintTypeTable(w, p)
	PrintActorTable(w, p)
	PrintPeriodZoneTable(w, p)
}

// PrintTypeTable prints the most frequent event types with their share.
func PrintTypeTable(w io.Writer, p *StatisticsPage) {
	table := newTable(w)
	table.Header("TYPE", "COUNT", "SHARE")
	for _, c := range p.TopTypes {
		table.Append(c.Key, strconv.Itoa(c.Count), pct(c.Count, p.Total))
	}
	table.Render()
}

// PrintActorTable prints the most active actors with position and expected values.
func PrintActorTable(w io.Writer, p *StatisticsPage) {
	table := newTable(w)
	table.Header("ACTOR", "EVENTS", "AVG_X", "AVG_Y", "XG", "XT")
	for _, a := range p.Profiles {
		xg, xt := "—", "—"
		if a.XGEvents > 0 {
			xg = fmt.Sprintf("%.2f", a.XG)
		}
		if a.XTEvents > 0 {
			xt = fmt.Sprintf("%.3f", a.XT)
		}
		table.Append(
			a.Actor,
			strconv.Itoa(a.Events),
			fmt.Sprintf("%.1f", a.AvgX),
			fmt.Sprintf("%.1f", a.AvgY),
			xg,
			xt,
		)
	}
	table.Render()
}

// PrintPeriodZoneTable prints the period and zone distributions.
func PrintPeriodZoneTable(w io.Writer, p *StatisticsPage) {
	if len(p.Periods) > 0 {
		table := newTable(w)
		table.Header("PERIOD", "COUNT")
		for _, c := range p.Periods {
			table.Append(c.Key, strconv.Itoa(c.Count))
		}
		table.Render()
	}

	table := newTable(w)
	table.Header("ZONE", "COUNT", "SHARE")
	for _, z := range p.Zones {
		table.Append(z.Zone.Label(), strconv.Itoa(z.Count), pct(z.Count, p.Total))
	}
	table.Render()
}

// PrintPageList prints one row per page with its density status.
func PrintPageList(w io.Writer, r *Report) {
	table := newTable(w)
	table.Header("#", "TEAM", "PAGE", "TITLE", "DENSITY")
	for i, p := range r.Pages {
		h := p.Header()
		table.Append(strconv.Itoa(i+1), h.Team.String(), p.Kind().String(), h.Title, pageStatus(p))
	}
	table.Render()
}

func pageStatus(p Page) string {
	switch pg := p.(type) {
	case *TeamDensityPage:
		return pg.Density.Status.String()
	case *ZoneActivityPage:
		return pg.Density.Status.String()
	case *ActorDensityGridPage:
		defined, cells := 0, 0
		for _, c := range pg.Cells {
			if c.Blank {
				continue
			}
			cells++
			if c.Density.Usable() {
				defined++
			}
		}
		return fmt.Sprintf("%d/%d defined", defined, cells)
	case *PlaceholderPage:
		return "placeholder"
	default:
		return "—"
	}
}

// StatisticsFor returns the statistics page of team t, or nil.
func StatisticsFor(r *Report, t model.Team) *StatisticsPage {
	for _, p := range r.TeamPages(t) {
		if sp, ok := p.(*StatisticsPage); ok {
			return sp
		}
	}
	return nil
}

func pct(n, total int) string {
	if total == 0 {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(total)*100)
}

// PrintAnalysisSummary prints the header of a stored analysis.
func PrintAnalysisSummary(w io.Writer, a model.AnalysisSummary) {
	fmt.Fprintf(w, "\n%s vs %s  |  Date: %s  |  Events: %d  |  Pages: %d (%d degraded)\n",
		a.HomeTeam, a.AwayTeam, a.MatchDate, a.Events, a.Pages, a.DegradedPages)
	fmt.Fprintf(w, "ID: %s  |  Input: %s  |  Recorded: %s\n\n",
		a.ID, a.InputHash, a.CreatedAt.Local().Format("2006-01-02 15:04"))
}

// PrintTeamStatsTable prints the stored per-team rows.
func PrintTeamStatsTable(w io.Writer, rows []model.TeamStatsRow) {
	table := newTable(w)
	table.Header("TEAM", "EVENTS", "ACTORS", "TOP TYPE", "COUNT")
	for _, r := range rows {
		table.Append(r.Team.String(), strconv.Itoa(r.Total), strconv.Itoa(r.Actors), r.TopType, strconv.Itoa(r.TopCount))
	}
	table.Render()
}

// PrintActorStatsTable prints the stored per-actor rows.
func PrintActorStatsTable(w io.Writer, rows []model.ActorStatsRow) {
	table := newTable(w)
	table.Header("TEAM", "ACTOR", "EVENTS", "AVG_X", "AVG_Y", "XG", "XT")
	for _, r := range rows {
		table.Append(
			r.Team.String(),
			r.Actor,
			strconv.Itoa(r.Events),
			fmt.Sprintf("%.1f", r.AvgX),
			fmt.Sprintf("%.1f", r.AvgY),
			fmt.Sprintf("%.2f", r.XG),
			fmt.Sprintf("%.3f", r.XT),
		)
	}
	table.Render()
}
