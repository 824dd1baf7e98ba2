package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/teinac2012/attack-metrics-suite/internal/aggregator"
	"github.com/teinac2012/attack-metrics-suite/internal/density"
	"github.com/teinac2012/attack-metrics-suite/internal/pitch"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
)

// DocumentView is the stable JSON shape of a report.
type DocumentView struct {
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Subject   string     `json:"subject"`
	Keywords  string     `json:"keywords"`
	CreatedAt time.Time  `json:"createdAt"`
	HomeTeam  string     `json:"homeTeam"`
	AwayTeam  string     `json:"awayTeam"`
	Date      string     `json:"date"`
	Events    int        `json:"events"`
	Theme     string     `json:"theme"`
	Degraded  int        `json:"degradedPages"`
	Pages     []PageView `json:"pages"`
}

// PageView is one page. Only the fields of its kind are set.
type PageView struct {
	Kind     string `json:"kind"`
	Team     string `json:"team"`
	TeamName string `json:"teamName"`
	Title    string `json:"title"`

	Stats   *StatsView   `json:"stats,omitempty"`
	Events  int          `json:"events,omitempty"`
	Density *DensityView `json:"density,omitempty"`
	Columns int          `json:"columns,omitempty"`
	Cells   []CellView   `json:"cells,omitempty"`
	Types   []string     `json:"types,omitempty"`
	Thirds  []CountView  `json:"thirds,omitempty"`
	Zones   []CountView  `json:"zones,omitempty"`

	Replaces string `json:"replaces,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// StatsView is the statistics page payload.
type StatsView struct {
	Total     int         `json:"total"`
	Actors    int         `json:"actors"`
	TopTypes  []CountView `json:"topTypes"`
	TopActors []CountView `json:"topActors"`
	Periods   []CountView `json:"periods"`
	Zones     []CountView `json:"zones"`
	Profiles  []ActorView `json:"profiles"`
	XG        *float64    `json:"xG,omitempty"`
	XT        *float64    `json:"xT,omitempty"`
}

// CountView is one labelled count.
type CountView struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ActorView is one actor profile.
type ActorView struct {
	Actor  string   `json:"actor"`
	Events int      `json:"events"`
	AvgX   float64  `json:"avgX"`
	AvgY   float64  `json:"avgY"`
	XG     *float64 `json:"xG,omitempty"`
	XT     *float64 `json:"xT,omitempty"`
}

// DensityView summarises an estimate without the raw grid.
type DensityView struct {
	Status string    `json:"status"`
	Reason string    `json:"reason,omitempty"`
	Points int       `json:"points"`
	Grid   int       `json:"grid,omitempty"`
	Levels []float64 `json:"levels,omitempty"`
}

// CellView is one actor grid slot.
type CellView struct {
	Actor       string       `json:"actor,omitempty"`
	Events      int          `json:"events,omitempty"`
	Blank       bool         `json:"blank,omitempty"`
	Placeholder bool         `json:"placeholder,omitempty"`
	Density     *DensityView `json:"density,omitempty"`
}

// JSON writes the stable view of r.
func JSON(w io.Writer, r *report.Report) error {
	if r == nil {
		return fmt.Errorf("render json: nil report")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(View(r)); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// View converts r to its JSON shape.
func View(r *report.Report) DocumentView {
	doc := DocumentView{
		Title:     r.Title,
		Author:    r.Author,
		Subject:   r.Subject,
		Keywords:  r.Keywords,
		CreatedAt: r.CreatedAt,
		HomeTeam:  r.HomeTeam,
		AwayTeam:  r.AwayTeam,
		Date:      r.Date,
		Events:    r.Events,
		Theme:     r.Theme.Name,
		Degraded:  r.Degraded(),
		Pages:     make([]PageView, 0, len(r.Pages)),
	}
	for _, p := range r.Pages {
		doc.Pages = append(doc.Pages, pageView(p))
	}
	return doc
}

func pageView(p report.Page) PageView {
	h := p.Header()
	v := PageView{Kind: p.Kind().String(), Team: h.Team.String(), TeamName: h.TeamName, Title: h.Title}

	switch pg := p.(type) {
	case *report.StatisticsPage:
		s := &StatsView{
			Total:     pg.Total,
			Actors:    pg.Actors,
			TopTypes:  countViews(pg.TopTypes),
			TopActors: countViews(pg.TopActors),
			Periods:   countViews(pg.Periods),
			Zones:     zoneViews(pg.Zones),
		}
		if pg.XGEvents > 0 {
			s.XG = &pg.XG
		}
		if pg.XTEvents > 0 {
			s.XT = &pg.XT
		}
		for _, a := range pg.Profiles {
			av := ActorView{Actor: a.Actor, Events: a.Events, AvgX: a.AvgX, AvgY: a.AvgY}
			if a.XGEvents > 0 {
				xg := a.XG
				av.XG = &xg
			}
			if a.XTEvents > 0 {
				xt := a.XT
				av.XT = &xt
			}
			s.Profiles = append(s.Profiles, av)
		}
		v.Stats = s
	case *report.TeamDensityPage:
		v.Events = pg.Events
		v.Density = densityView(pg.Density)
	case *report.ActorDensityGridPage:
		v.Columns = pg.Columns
		for _, c := range pg.Cells {
			cv := CellView{Actor: c.Actor, Events: c.Events, Blank: c.Blank, Placeholder: c.Placeholder}
			if !c.Blank && !c.Placeholder {
				cv.Density = densityView(c.Density)
			}
			v.Cells = append(v.Cells, cv)
		}
	case *report.ZoneActivityPage:
		v.Events = pg.Events
		v.Types = pg.Types
		v.Density = densityView(pg.Density)
		v.Zones = zoneViews(pg.Zones)
		for _, d := range []pitch.Depth{pitch.Defensive, pitch.Middle, pitch.Attacking} {
			v.Thirds = append(v.Thirds, CountView{Key: d.String(), Count: pg.Depth[d]})
		}
	case *report.PlaceholderPage:
		v.Replaces = pg.Replaces.String()
		v.Reason = pg.Reason
	}
	return v
}

func densityView(res density.Result) *DensityView {
	dv := &DensityView{Status: res.Status.String(), Reason: res.Reason, Points: len(res.Points)}
	if res.Usable() {
		dv.Grid = res.Field.Cols
		dv.Levels = res.Field.Levels
	}
	return dv
}

func countViews(cs []aggregator.Count) []CountView {
	out := make([]CountView, len(cs))
	for i, c := range cs {
		out[i] = CountView{Key: c.Key, Count: c.Count}
	}
	return out
}

func zoneViews(zs []aggregator.ZoneCount) []CountView {
	out := make([]CountView, len(zs))
	for i, z := range zs {
		out[i] = CountView{Key: z.Zone.Label(), Count: z.Count}
	}
	return out
}
