package model

import (
	"strconv"
	"time"
)

// Team identifies which side an action belongs to. Names are display labels only.
type Team int

const (
	TeamUnknown Team = 0
	TeamHome    Team = 1
	TeamAway    Team = 2
)

// Teams lists the sides in report order.
var Teams = []Team{TeamHome, TeamAway}

func (t Team) String() string {
	switch t {
	case TeamHome:
		return "HOME"
	case TeamAway:
		return "AWAY"
	default:
		return "?"
	}
}

// ParseTeam maps the wire label to a Team. Unknown labels return TeamUnknown.
func ParseTeam(s string) Team {
	switch s {
	case "HOME":
		return TeamHome
	case "AWAY":
		return TeamAway
	default:
		return TeamUnknown
	}
}

// Period is a match segment key as it arrived on the wire ("1", "2", "ET1", ...).
type Period string

// Less orders periods by their natural key: numerically when both keys are
// integers, lexically otherwise. Numeric keys sort before non-numeric ones.
func (p Period) Less(o Period) bool {
	a, aErr := strconv.Atoi(string(p))
	b, bErr := strconv.Atoi(string(o))
	switch {
	case aErr == nil && bErr == nil:
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return p < o
	}
}

// Point is a 2-D field position in normalized [0,100] units.
type Point struct{ X, Y float64 }

// Event is one recorded on-field action. Coordinates are in [0,100].
// Optional fields are nil when absent from the input.
type Event struct {
	ID        string
	Timestamp string
	Period    Period
	Team      Team
	Actor     string
	Type      string
	Outcome   string

	X, Y       float64
	EndX, EndY *float64

	ExpectedGoals  *float64 // xG
	ExpectedThreat *float64 // xT
}

// Pos returns the event start position.
func (e Event) Pos() Point { return Point{X: e.X, Y: e.Y} }

// MatchConfig holds the match metadata shown on statistics pages.
type MatchConfig struct {
	HomeTeam string
	AwayTeam string
	Date     string
}

// Match is the validated event store for one match. Events keep input order
// and raw orientation; orientation is applied when subsets are created.
type Match struct {
	InputHash string
	Config    MatchConfig
	Events    []Event
}

// TeamName returns the display label for t.
func (m *Match) TeamName(t Team) string {
	switch t {
	case TeamHome:
		return m.Config.HomeTeam
	case TeamAway:
		return m.Config.AwayTeam
	default:
		return t.String()
	}
}

// EventSubset is an owned, filtered copy of match events for one team or one
// actor. Oriented reports whether the display Y flip has been applied.
type EventSubset struct {
	Team     Team
	Actor    string // empty for team subsets
	Oriented bool
	Events   []Event
}

// Len returns the number of events in the subset.
func (s EventSubset) Len() int { return len(s.Events) }

// Points returns the start positions of all events.
func (s EventSubset) Points() []Point {
	pts := make([]Point, len(s.Events))
	for i, e := range s.Events {
		pts[i] = e.Pos()
	}
	return pts
}

// Filter returns a new subset holding the events for which keep returns true.
// The receiver's events are never modified.
func (s EventSubset) Filter(keep func(Event) bool) EventSubset {
	out := EventSubset{Team: s.Team, Actor: s.Actor, Oriented: s.Oriented}
	for _, e := range s.Events {
		if keep(e) {
			out.Events = append(out.Events, e)
		}
	}
	return out
}

// ForActor narrows the subset to a single actor.
func (s EventSubset) ForActor(actor string) EventSubset {
	out := s.Filter(func(e Event) bool { return e.Actor == actor })
	out.Actor = actor
	return out
}

// OfTypes narrows the subset to events whose type is in types.
func (s EventSubset) OfTypes(types []string) EventSubset {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return s.Filter(func(e Event) bool {
		_, ok := set[e.Type]
		return ok
	})
}

// TeamEvents copies the events of one team out of the match, in input order.
// The result is not oriented.
func (m *Match) TeamEvents(t Team) EventSubset {
	out := EventSubset{Team: t}
	for _, e := range m.Events {
		if e.Team == t {
			out.Events = append(out.Events, e)
		}
	}
	return out
}

// ---- Stored history rows ----

// AnalysisSummary is a lightweight record for list/show commands.
type AnalysisSummary struct {
	ID            string
	InputHash     string
	HomeTeam      string
	AwayTeam      string
	MatchDate     string
	Events        int
	Pages         int
	DegradedPages int
	CreatedAt     time.Time
}

// TeamStatsRow is the per-team line stored with an analysis.
type TeamStatsRow struct {
	AnalysisID string
	Team       Team
	Total      int
	Actors     int
	TopType    string
	TopCount   int
}

// ActorStatsRow is the per-actor line stored with an analysis.
type ActorStatsRow struct {
	AnalysisID string
	Team       Team
	Actor      string
	Events     int
	AvgX, AvgY float64
	XG, XT     float64
}
