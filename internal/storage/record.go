package storage

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
)

var newID = uuid.NewString

// FromReport flattens a composed report into history rows under a fresh id.
func FromReport(r *report.Report) (model.AnalysisSummary, []model.TeamStatsRow, []model.ActorStatsRow) {
	a := model.AnalysisSummary{
		ID:            newID(),
		InputHash:     r.InputHash,
		HomeTeam:      r.HomeTeam,
		AwayTeam:      r.AwayTeam,
		MatchDate:     r.Date,
		Events:        r.Events,
		Pages:         len(r.Pages),
		DegradedPages: r.Degraded(),
		CreatedAt:     r.CreatedAt,
	}

	var teams []model.TeamStatsRow
	var actors []model.ActorStatsRow
	for _, ts := range r.Teams {
		row := model.TeamStatsRow{
			AnalysisID: a.ID,
			Team:       ts.Team,
			Total:      ts.Summary.Total,
			Actors:     ts.Summary.Actors,
		}
		if len(ts.Summary.ByType) > 0 {
			row.TopType = ts.Summary.ByType[0].Key
			row.TopCount = ts.Summary.ByType[0].Count
		}
		teams = append(teams, row)

		for _, p := range ts.Summary.Profiles {
			actors = append(actors, model.ActorStatsRow{
				AnalysisID: a.ID,
				Team:       ts.Team,
				Actor:      p.Actor,
				Events:     p.Events,
				AvgX:       p.AvgX,
				AvgY:       p.AvgY,
				XG:         p.XG,
				XT:         p.XT,
			})
		}
	}
	return a, teams, actors
}

// SaveReport records r in the history and returns the stored summary.
func (db *DB) SaveReport(r *report.Report) (*model.AnalysisSummary, error) {
	a, teams, actors := FromReport(r)
	if err := db.InsertAnalysis(a, teams, actors); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return &a, nil
}
