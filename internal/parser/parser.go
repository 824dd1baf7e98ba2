package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
)

// Display names used when the match record leaves them out.
const (
	DefaultHomeName = "LOCAL"
	DefaultAwayName = "VISITANTE"
)

// ErrNoActions is returned when the record has no actions array or it is empty.
var ErrNoActions = errors.New("match has no actions")

// InputError reports a malformed action. Index is the 0-based position in the
// actions array, or -1 for problems with the record itself.
type InputError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		if e.Field == "" {
			return "invalid match: " + e.Reason
		}
		return fmt.Sprintf("invalid match: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid action %d: %s: %s", e.Index, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }

// wire types mirror the JSON match record.
type wireMatch struct {
	Config  wireConfig   `json:"config"`
	Actions []wireAction `json:"actions"`
}

type wireConfig struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	HomeName string `json:"homeName"`
	AwayName string `json:"awayName"`
	Date     string `json:"date"`
}

type wireAction struct {
	ID        json.RawMessage `json:"id"`
	Timestamp string          `json:"timestamp"`
	Period    json.RawMessage `json:"period"`
	Team      string          `json:"team"`
	Player    *string         `json:"player"`
	Actor     *string         `json:"actor"`
	Type      *string         `json:"type"`
	Outcome   string          `json:"outcome"`
	X         *float64        `json:"x"`
	Y         *float64        `json:"y"`
	EndX      *float64        `json:"endX"`
	EndY      *float64        `json:"endY"`
	XG        *float64        `json:"xG"`
	XT        *float64        `json:"xT"`
}

// now is replaced in tests.
var now = time.Now

// ParseFile reads and parses the match record at path.
func ParseFile(path string) (*model.Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open match: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a match record. Any validation failure is an
// *InputError; no partial match is returned.
func Parse(r io.Reader) (*model.Match, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read match: %w", err)
	}

	// Hash raw bytes for the idempotency key.
	sum := sha256.Sum256(data)

	var w wireMatch
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&w); err != nil {
		return nil, &InputError{Index: -1, Reason: "malformed JSON", Err: err}
	}
	if len(w.Actions) == 0 {
		return nil, &InputError{Index: -1, Field: "actions", Reason: "absent or empty", Err: ErrNoActions}
	}

	m := &model.Match{
		InputHash: fmt.Sprintf("%x", sum[:]),
		Config:    buildConfig(w.Config),
		Events:    make([]model.Event, 0, len(w.Actions)),
	}
	for i, a := range w.Actions {
		ev, err := buildEvent(i, a)
		if err != nil {
			return nil, err
		}
		m.Events = append(m.Events, ev)
	}
	return m, nil
}

func buildConfig(c wireConfig) model.MatchConfig {
	cfg := model.MatchConfig{
		HomeTeam: firstNonEmpty(c.HomeTeam, c.HomeName, DefaultHomeName),
		AwayTeam: firstNonEmpty(c.AwayTeam, c.AwayName, DefaultAwayName),
		Date:     c.Date,
	}
	if cfg.Date == "" {
		cfg.Date = now().Format("2006-01-02")
	}
	return cfg
}

func buildEvent(i int, a wireAction) (model.Event, error) {
	bad := func(field, reason string) error {
		return &InputError{Index: i, Field: field, Reason: reason}
	}

	team := model.ParseTeam(a.Team)
	if team == model.TeamUnknown {
		return model.Event{}, bad("team", fmt.Sprintf("must be HOME or AWAY, got %q", a.Team))
	}

	actor := a.Player
	if actor == nil {
		actor = a.Actor
	}
	if actor == nil {
		return model.Event{}, bad("player", "required")
	}
	if a.Type == nil {
		return model.Event{}, bad("type", "required")
	}

	if a.X == nil {
		return model.Event{}, bad("x", "required")
	}
	if a.Y == nil {
		return model.Event{}, bad("y", "required")
	}
	if !inField(*a.X) {
		return model.Event{}, bad("x", fmt.Sprintf("%v outside [0,100]", *a.X))
	}
	if !inField(*a.Y) {
		return model.Event{}, bad("y", fmt.Sprintf("%v outside [0,100]", *a.Y))
	}

	period, err := scalarString(a.Period)
	if err != nil {
		return model.Event{}, bad("period", err.Error())
	}
	id, err := scalarString(a.ID)
	if err != nil {
		return model.Event{}, bad("id", err.Error())
	}
	if id == "" {
		id = strconv.Itoa(i + 1)
	}

	return model.Event{
		ID:             id,
		Timestamp:      a.Timestamp,
		Period:         model.Period(period),
		Team:           team,
		Actor:          *actor,
		Type:           *a.Type,
		Outcome:        a.Outcome,
		X:              *a.X,
		Y:              *a.Y,
		EndX:           a.EndX,
		EndY:           a.EndY,
		ExpectedGoals:  a.XG,
		ExpectedThreat: a.XT,
	}, nil
}

func inField(v float64) bool { return v >= 0 && v <= 100 }

// scalarString accepts a JSON string or number and returns its text form.
// A missing or null value yields "".
func scalarString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("must be a string or number")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
