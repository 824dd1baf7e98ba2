package report

import (
	"time"

	"github.com/teinac2012/attack-metrics-suite/internal/aggregator"
	"github.com/teinac2012/attack-metrics-suite/internal/density"
	"github.com/teinac2012/attack-metrics-suite/internal/model"
)

// PageKind identifies a section of a team block.
type PageKind int

const (
	KindStatistics PageKind = iota
	KindTeamDensity
	KindActorGrid
	KindZoneActivity
	KindPlaceholder
)

func (k PageKind) String() string {
	switch k {
	case KindStatistics:
		return "statistics"
	case KindTeamDensity:
		return "team_density"
	case KindActorGrid:
		return "actor_grid"
	case KindZoneActivity:
		return "zone_activity"
	default:
		return "placeholder"
	}
}

// Page is one section of the report, bound to a single team.
type Page interface {
	Kind() PageKind
	Header() PageHeader
}

// PageHeader is shared by every page.
type PageHeader struct {
	Team     model.Team
	TeamName string
	Title    string
}

func (h PageHeader) Header() PageHeader { return h }

// StatisticsPage is the overview of one team's events.
type StatisticsPage struct {
	PageHeader
	HomeTeam string
	AwayTeam string
	Date     string

	Total     int
	Actors    int
	TopTypes  []aggregator.Count
	TopActors []aggregator.Count
	Periods   []aggregator.Count
	Zones     []aggregator.ZoneCount
	Profiles  []aggregator.ActorProfile // top actors only

	XG, XT             float64
	XGEvents, XTEvents int
}

func (*StatisticsPage) Kind() PageKind { return KindStatistics }

// TeamDensityPage is the density map over the full team subset.
type TeamDensityPage struct {
	PageHeader
	Events  int
	Density density.Result
}

func (*TeamDensityPage) Kind() PageKind { return KindTeamDensity }

// ActorCell is one slot of the actor grid. Blank cells pad the last row;
// Placeholder cells replace an actor whose cell could not be built.
type ActorCell struct {
	Actor       string
	Events      int
	Density     density.Result
	Blank       bool
	Placeholder bool
	Reason      string
}

// ActorDensityGridPage lays out one density-or-scatter cell per top actor.
// len(Cells) is always a multiple of Columns.
type ActorDensityGridPage struct {
	PageHeader
	Columns int
	Cells   []ActorCell
}

func (*ActorDensityGridPage) Kind() PageKind { return KindActorGrid }

// Rows returns the number of grid rows.
func (p *ActorDensityGridPage) Rows() int {
	if p.Columns == 0 {
		return 0
	}
	return len(p.Cells) / p.Columns
}

// Marker is one typed event position.
type Marker struct {
	Type string
	Pos  model.Point
}

// ZoneActivityPage shows recovery-type events with per-zone counts.
type ZoneActivityPage struct {
	PageHeader
	Types   []string // recovery types present, most frequent first
	Events  int
	Markers []Marker
	Depth   [3]int // per depth third, empty thirds included
	Zones   []aggregator.ZoneCount
	Density density.Result
}

func (*ZoneActivityPage) Kind() PageKind { return KindZoneActivity }

// PlaceholderPage stands in for a page whose composition failed.
type PlaceholderPage struct {
	PageHeader
	Replaces PageKind
	Reason   string
}

func (*PlaceholderPage) Kind() PageKind { return KindPlaceholder }

// TeamSummary carries the full statistics of one team block for history
// records.
type TeamSummary struct {
	Team    model.Team
	Name    string
	Summary aggregator.Summary
}

// Report is the ordered document for one match.
type Report struct {
	Title     string
	Author    string
	Subject   string
	Keywords  string
	CreatedAt time.Time

	InputHash string
	HomeTeam  string
	AwayTeam  string
	Date      string
	Events    int

	Theme Theme
	Pages []Page
	Teams []TeamSummary
}

// Degraded counts placeholder pages.
func (r *Report) Degraded() int {
	n := 0
	for _, p := range r.Pages {
		if p.Kind() == KindPlaceholder {
			n++
		}
	}
	return n
}

// TeamPages returns the pages of one team block in order.
func (r *Report) TeamPages(t model.Team) []Page {
	var out []Page
	for _, p := range r.Pages {
		if p.Header().Team == t {
			out = append(out, p)
		}
	}
	return out
}
