package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// AnalysisExists returns true if an analysis of the given input hash is already stored.
func (db *DB) AnalysisExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM analyses WHERE input_hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertAnalysis stores an analysis with its team and actor rows in one
// transaction. A previous analysis of the same input is replaced.
func (db *DB) InsertAnalysis(a model.AnalysisSummary, teams []model.TeamStatsRow, actors []model.ActorStatsRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteByHash(tx, a.InputHash); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO analyses(id, input_hash, home_team, away_team, match_date, events, pages, degraded_pages, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.InputHash, a.HomeTeam, a.AwayTeam, a.MatchDate,
		a.Events, a.Pages, a.DegradedPages, a.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert analysis %s: %w", a.ID, err)
	}

	teamStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_stats(analysis_id, team, total, actors, top_type, top_count)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer teamStmt.Close()
	for _, t := range teams {
		if _, err := teamStmt.Exec(a.ID, t.Team.String(), t.Total, t.Actors, t.TopType, t.TopCount); err != nil {
			return fmt.Errorf("insert team_stats for %s: %w", t.Team, err)
		}
	}

	actorStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO actor_stats(analysis_id, team, actor, events, avg_x, avg_y, xg, xt)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer actorStmt.Close()
	for _, s := range actors {
		if _, err := actorStmt.Exec(a.ID, s.Team.String(), s.Actor, s.Events, s.AvgX, s.AvgY, s.XG, s.XT); err != nil {
			return fmt.Errorf("insert actor_stats for %q: %w", s.Actor, err)
		}
	}
	return tx.Commit()
}

func deleteByHash(tx *sql.Tx, hash string) error {
	var id string
	err := tx.QueryRow("SELECT id FROM analyses WHERE input_hash = ?", hash).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	return deleteByID(tx, id)
}

func deleteByID(tx *sql.Tx, id string) error {
	for _, q := range []string{
		"DELETE FROM actor_stats WHERE analysis_id = ?",
		"DELETE FROM team_stats WHERE analysis_id = ?",
		"DELETE FROM analyses WHERE id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete analysis %s: %w", id, err)
		}
	}
	return nil
}

// DeleteAnalysis removes one analysis and its rows. It reports whether a row
// was removed.
func (db *DB) DeleteAnalysis(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow("SELECT COUNT(1) FROM analyses WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if err := deleteByID(tx, id); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// ListAnalyses returns stored analyses, newest first. limit <= 0 returns all.
func (db *DB) ListAnalyses(limit int) ([]model.AnalysisSummary, error) {
	q := `SELECT id, input_hash, home_team, away_team, match_date, events, pages, degraded_pages, created_at
		FROM analyses ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AnalysisSummary
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAnalysisByPrefix finds the newest analysis whose id starts with the given prefix.
func (db *DB) GetAnalysisByPrefix(prefix string) (*model.AnalysisSummary, error) {
	row := db.conn.QueryRow(`
		SELECT id, input_hash, home_team, away_team, match_date, events, pages, degraded_pages, created_at
		FROM analyses WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%")
	a, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (model.AnalysisSummary, error) {
	var a model.AnalysisSummary
	var created string
	if err := s.Scan(&a.ID, &a.InputHash, &a.HomeTeam, &a.AwayTeam, &a.MatchDate,
		&a.Events, &a.Pages, &a.DegradedPages, &created); err != nil {
		return a, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return a, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	a.CreatedAt = t
	return a, nil
}

// GetTeamStats returns the team rows of an analysis, HOME first.
func (db *DB) GetTeamStats(analysisID string) ([]model.TeamStatsRow, error) {
	rows, err := db.conn.Query(`
		SELECT analysis_id, team, total, actors, top_type, top_count
		FROM team_stats WHERE analysis_id = ?
		ORDER BY CASE team WHEN 'HOME' THEN 0 ELSE 1 END`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamStatsRow
	for rows.Next() {
		var s model.TeamStatsRow
		var team string
		if err := rows.Scan(&s.AnalysisID, &team, &s.Total, &s.Actors, &s.TopType, &s.TopCount); err != nil {
			return nil, err
		}
		s.Team = model.ParseTeam(team)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetActorStats returns the actor rows of an analysis, HOME first and busiest
// actors first within a team.
func (db *DB) GetActorStats(analysisID string) ([]model.ActorStatsRow, error) {
	rows, err := db.conn.Query(`
		SELECT analysis_id, team, actor, events, avg_x, avg_y, xg, xt
		FROM actor_stats WHERE analysis_id = ?
		ORDER BY CASE team WHEN 'HOME' THEN 0 ELSE 1 END, events DESC, actor`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ActorStatsRow
	for rows.Next() {
		var s model.ActorStatsRow
		var team string
		if err := rows.Scan(&s.AnalysisID, &team, &s.Actor, &s.Events, &s.AvgX, &s.AvgY, &s.XG, &s.XT); err != nil {
			return nil, err
		}
		s.Team = model.ParseTeam(team)
		out = append(out, s)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns its columns and rows as text.
// NULL values are rendered as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
