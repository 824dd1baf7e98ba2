package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
)

const validMatch = `{
  "config": {"homeTeam": "A", "awayTeam": "B", "date": "2026-01-09"},
  "actions": [
    {"id": 1, "timestamp": "00:12", "period": 1, "team": "HOME", "player": "Ana", "type": "Pase", "outcome": "ok", "x": 40, "y": 20, "endX": 55, "endY": 30, "xT": 0.04},
    {"id": "b2", "period": "2", "team": "AWAY", "actor": "Cris", "type": "Disparo", "x": 88.5, "y": 47, "xG": 0.31},
    {"team": "HOME", "player": "Bea", "type": "Recup", "x": 0, "y": 100}
  ]
}`

func TestParse_Valid(t *testing.T) {
	m, err := Parse(strings.NewReader(validMatch))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Config.HomeTeam != "A" || m.Config.AwayTeam != "B" || m.Config.Date != "2026-01-09" {
		t.Errorf("config: got %+v", m.Config)
	}
	if len(m.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(m.Events))
	}

	e0 := m.Events[0]
	if e0.ID != "1" || e0.Period != "1" || e0.Team != model.TeamHome || e0.Actor != "Ana" {
		t.Errorf("event 0: got %+v", e0)
	}
	if e0.EndX == nil || *e0.EndX != 55 || e0.ExpectedThreat == nil || *e0.ExpectedThreat != 0.04 {
		t.Errorf("event 0 optionals not decoded: %+v", e0)
	}
	if e0.ExpectedGoals != nil {
		t.Error("event 0 should have no xG")
	}

	e1 := m.Events[1]
	if e1.Actor != "Cris" || e1.Period != "2" || e1.ID != "b2" {
		t.Errorf("event 1: actor alias or period string not honoured: %+v", e1)
	}

	// Missing id falls back to the 1-based position.
	if m.Events[2].ID != "3" {
		t.Errorf("event 2 id: want \"3\", got %q", m.Events[2].ID)
	}
	// Raw orientation is kept; no flip at load time.
	if m.Events[2].Y != 100 {
		t.Errorf("event 2 y: want raw 100, got %v", m.Events[2].Y)
	}
	if len(m.InputHash) != 64 {
		t.Errorf("input hash: want 64 hex chars, got %q", m.InputHash)
	}
}

func TestParse_HashIsStable(t *testing.T) {
	a, err := Parse(strings.NewReader(validMatch))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(strings.NewReader(validMatch))
	if err != nil {
		t.Fatal(err)
	}
	if a.InputHash != b.InputHash {
		t.Errorf("same bytes hashed differently: %s vs %s", a.InputHash, b.InputHash)
	}
}

func TestParse_Defaults(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }
	defer func() { now = orig }()

	m, err := Parse(strings.NewReader(`{"actions":[{"team":"HOME","player":"x","type":"Pase","x":1,"y":2}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Config.HomeTeam != DefaultHomeName || m.Config.AwayTeam != DefaultAwayName {
		t.Errorf("default names: got %+v", m.Config)
	}
	if m.Config.Date != "2026-03-04" {
		t.Errorf("default date: got %q", m.Config.Date)
	}
}

func TestParse_LegacyNames(t *testing.T) {
	m, err := Parse(strings.NewReader(`{"config":{"homeName":"Rojo","awayName":"Azul"},"actions":[{"team":"AWAY","player":"x","type":"Pase","x":1,"y":2}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Config.HomeTeam != "Rojo" || m.Config.AwayTeam != "Azul" {
		t.Errorf("legacy names: got %+v", m.Config)
	}
}

func TestParse_NoActions(t *testing.T) {
	for _, body := range []string{`{"config":{}}`, `{"actions":[]}`} {
		_, err := Parse(strings.NewReader(body))
		if !errors.Is(err, ErrNoActions) {
			t.Errorf("%s: want ErrNoActions, got %v", body, err)
		}
		var ie *InputError
		if !errors.As(err, &ie) {
			t.Errorf("%s: want *InputError, got %T", body, err)
		}
	}
}

func TestParse_InvalidActions(t *testing.T) {
	cases := []struct {
		name   string
		action string
		field  string
	}{
		{"bad team", `{"team":"NEUTRAL","player":"a","type":"Pase","x":1,"y":1}`, "team"},
		{"missing player", `{"team":"HOME","type":"Pase","x":1,"y":1}`, "player"},
		{"missing type", `{"team":"HOME","player":"a","x":1,"y":1}`, "type"},
		{"missing x", `{"team":"HOME","player":"a","type":"Pase","y":1}`, "x"},
		{"y out of range", `{"team":"HOME","player":"a","type":"Pase","x":1,"y":100.5}`, "y"},
		{"negative x", `{"team":"HOME","player":"a","type":"Pase","x":-0.1,"y":1}`, "x"},
		{"period object", `{"team":"HOME","player":"a","type":"Pase","x":1,"y":1,"period":{}}`, "period"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := `{"actions":[{"team":"HOME","player":"ok","type":"Pase","x":5,"y":5},` + c.action + `]}`
			_, err := Parse(strings.NewReader(body))
			var ie *InputError
			if !errors.As(err, &ie) {
				t.Fatalf("want *InputError, got %v", err)
			}
			if ie.Index != 1 || ie.Field != c.field {
				t.Errorf("want index 1 field %q, got index %d field %q (%v)", c.field, ie.Index, ie.Field, ie)
			}
		})
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"actions": [`))
	var ie *InputError
	if !errors.As(err, &ie) || ie.Index != -1 {
		t.Fatalf("want record-level InputError, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.json")
	if err := os.WriteFile(path, []byte(validMatch), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(m.Events) != 3 {
		t.Errorf("expected 3 events, got %d", len(m.Events))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
