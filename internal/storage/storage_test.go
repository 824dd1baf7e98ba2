package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/teinac2012/attack-metrics-suite/internal/aggregator"
	"github.com/teinac2012/attack-metrics-suite/internal/model"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fixedIDs makes FromReport ids deterministic for the duration of a test.
func fixedIDs(t *testing.T, ids ...string) {
	t.Helper()
	orig := newID
	i := 0
	newID = func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
	t.Cleanup(func() { newID = orig })
}

func analysis(id, hash string, created time.Time) model.AnalysisSummary {
	return model.AnalysisSummary{
		ID:        id,
		InputHash: hash,
		HomeTeam:  "Local FC",
		AwayTeam:  "Visita FC",
		MatchDate: "2026-01-09",
		Events:    20,
		Pages:     4,
		CreatedAt: created,
	}
}

func TestAnalysisInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	a := analysis("id-1", "hash-1", time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC))
	if err := db.InsertAnalysis(a, nil, nil); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	exists, err := db.AnalysisExists("hash-1")
	if err != nil {
		t.Fatalf("AnalysisExists: %v", err)
	}
	if !exists {
		t.Error("expected analysis to exist after insert")
	}

	exists, err = db.AnalysisExists("missing")
	if err != nil {
		t.Fatalf("AnalysisExists: %v", err)
	}
	if exists {
		t.Error("expected missing hash to not exist")
	}
}

func TestInsertAnalysisReplacesSameInput(t *testing.T) {
	db := openMemDB(t)
	base := time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)

	teams := []model.TeamStatsRow{{AnalysisID: "old", Team: model.TeamHome, Total: 20, Actors: 5}}
	if err := db.InsertAnalysis(analysis("old", "same", base), teams, nil); err != nil {
		t.Fatalf("InsertAnalysis old: %v", err)
	}
	if err := db.InsertAnalysis(analysis("new", "same", base.Add(time.Hour)), nil, nil); err != nil {
		t.Fatalf("InsertAnalysis new: %v", err)
	}

	list, err := db.ListAnalyses(0)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(list) != 1 || list[0].ID != "new" {
		t.Fatalf("expected only the replacement analysis, got %+v", list)
	}
	rows, err := db.GetTeamStats("old")
	if err != nil {
		t.Fatalf("GetTeamStats: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("old team rows should be gone, got %d", len(rows))
	}
}

func TestListAnalysesNewestFirst(t *testing.T) {
	db := openMemDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		a := analysis(fmt.Sprintf("id-%d", i), fmt.Sprintf("hash-%d", i), base.Add(time.Duration(i)*time.Hour))
		if err := db.InsertAnalysis(a, nil, nil); err != nil {
			t.Fatalf("InsertAnalysis %d: %v", i, err)
		}
	}

	all, err := db.ListAnalyses(0)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(all) != 3 || all[0].ID != "id-2" || all[2].ID != "id-0" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if !all[0].CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("CreatedAt round trip: got %v", all[0].CreatedAt)
	}

	two, err := db.ListAnalyses(2)
	if err != nil {
		t.Fatalf("ListAnalyses(2): %v", err)
	}
	if len(two) != 2 {
		t.Errorf("limit 2: got %d rows", len(two))
	}
}

func TestGetAnalysisByPrefix(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertAnalysis(analysis("abcdef", "h", time.Now()), nil, nil); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	got, err := db.GetAnalysisByPrefix("abc")
	if err != nil {
		t.Fatalf("GetAnalysisByPrefix: %v", err)
	}
	if got == nil || got.ID != "abcdef" || got.HomeTeam != "Local FC" {
		t.Errorf("unexpected analysis: %+v", got)
	}

	got, err = db.GetAnalysisByPrefix("zzz")
	if err != nil {
		t.Fatalf("GetAnalysisByPrefix: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", got)
	}
}

func TestDeleteAnalysis(t *testing.T) {
	db := openMemDB(t)
	actors := []model.ActorStatsRow{{AnalysisID: "x", Team: model.TeamHome, Actor: "Ana", Events: 3}}
	if err := db.InsertAnalysis(analysis("x", "h", time.Now()), nil, actors); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	ok, err := db.DeleteAnalysis("x")
	if err != nil || !ok {
		t.Fatalf("DeleteAnalysis: ok=%v err=%v", ok, err)
	}
	rows, _ := db.GetActorStats("x")
	if len(rows) != 0 {
		t.Errorf("actor rows should be gone, got %d", len(rows))
	}
	ok, err = db.DeleteAnalysis("x")
	if err != nil || ok {
		t.Errorf("second delete: ok=%v err=%v", ok, err)
	}
}

func TestSaveReport(t *testing.T) {
	db := openMemDB(t)
	fixedIDs(t, "rep-1")

	r := &report.Report{
		InputHash: "in-1",
		HomeTeam:  "A",
		AwayTeam:  "B",
		Date:      "2026-01-09",
		Events:    7,
		CreatedAt: time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC),
		Pages: []report.Page{
			&report.StatisticsPage{PageHeader: report.PageHeader{Team: model.TeamHome}},
			&report.PlaceholderPage{PageHeader: report.PageHeader{Team: model.TeamHome}, Replaces: report.KindTeamDensity},
		},
		Teams: []report.TeamSummary{
			{Team: model.TeamAway, Name: "B", Summary: aggregator.Summary{
				Total: 2, Actors: 1,
				ByType:   []aggregator.Count{{Key: "Pase", Count: 2}},
				Profiles: []aggregator.ActorProfile{{Actor: "Zoe", Events: 2, AvgX: 40, AvgY: 60}},
			}},
			{Team: model.TeamHome, Name: "A", Summary: aggregator.Summary{
				Total: 5, Actors: 2,
				ByType: []aggregator.Count{{Key: "Recup", Count: 3}, {Key: "Pase", Count: 2}},
				Profiles: []aggregator.ActorProfile{
					{Actor: "Ana", Events: 2, AvgX: 10, AvgY: 20, XG: 0.2},
					{Actor: "Bea", Events: 3, AvgX: 30, AvgY: 40},
				},
			}},
		},
	}

	a, err := db.SaveReport(r)
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if a.ID != "rep-1" || a.Pages != 2 || a.DegradedPages != 1 {
		t.Errorf("unexpected summary: %+v", a)
	}

	teams, err := db.GetTeamStats("rep-1")
	if err != nil {
		t.Fatalf("GetTeamStats: %v", err)
	}
	if len(teams) != 2 || teams[0].Team != model.TeamHome {
		t.Fatalf("expected HOME first, got %+v", teams)
	}
	if teams[0].TopType != "Recup" || teams[0].TopCount != 3 {
		t.Errorf("HOME top type: %+v", teams[0])
	}

	actors, err := db.GetActorStats("rep-1")
	if err != nil {
		t.Fatalf("GetActorStats: %v", err)
	}
	if len(actors) != 3 {
		t.Fatalf("expected 3 actor rows, got %d", len(actors))
	}
	if actors[0].Actor != "Bea" || actors[1].Actor != "Ana" || actors[2].Team != model.TeamAway {
		t.Errorf("unexpected actor order: %+v", actors)
	}
	if actors[1].XG != 0.2 {
		t.Errorf("Ana xG: got %v", actors[1].XG)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertAnalysis(analysis("q", "h", time.Now()), nil, nil); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT id, events, NULL AS n FROM analyses")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[1] != "events" {
		t.Errorf("cols: %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "q" || rows[0][1] != "20" || rows[0][2] != "NULL" {
		t.Errorf("rows: %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestDSNPragmas(t *testing.T) {
	got := dsn("/tmp/a.db")
	want := "file:/tmp/a.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if got != want {
		t.Errorf("dsn: want %q, got %q", want, got)
	}
}

func TestOpenStampsAndKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v, err := db.Version(); err != nil || v != schemaVersion {
		t.Fatalf("Version: want %d, got %d (%v)", schemaVersion, v, err)
	}
	if err := db.InsertAnalysis(analysis("keep", "h", time.Now()), nil, nil); err != nil {
		t.Fatalf("InsertAnalysis: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	ok, err := db.AnalysisExists("h")
	if err != nil || !ok {
		t.Errorf("analysis lost on reopen: ok=%v err=%v", ok, err)
	}
}

func TestOpenRefusesNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.conn.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set version: %v", err)
	}
	db.Close()

	if _, err := Open(path); err == nil {
		t.Error("expected error for newer schema version")
	}
}
