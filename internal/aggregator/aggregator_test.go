package aggregator

import (
	"math"
	"testing"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
	"github.com/teinac2012/attack-metrics-suite/internal/pitch"
)

func fp(v float64) *float64 { return &v }

// ev builds a HOME event at (x, y).
func ev(actor, typ, period string, x, y float64) model.Event {
	return model.Event{Team: model.TeamHome, Actor: actor, Type: typ, Period: model.Period(period), X: x, Y: y}
}

// makeSubset wraps events in an already-oriented HOME subset.
func makeSubset(events ...model.Event) model.EventSubset {
	return model.EventSubset{Team: model.TeamHome, Oriented: true, Events: events}
}

// scenarioEvents is the 20-event HOME match: 5 actors,
// types Pase:10, Disparo:2, Recup:3, Intercep:2, Centro:3.
func scenarioEvents() []model.Event {
	types := []string{
		"Pase", "Pase", "Recup", "Pase", "Centro",
		"Pase", "Disparo", "Pase", "Intercep", "Pase",
		"Recup", "Centro", "Pase", "Pase", "Disparo",
		"Recup", "Intercep", "Pase", "Centro", "Pase",
	}
	actors := []string{"Ana", "Bea", "Cris", "Dani", "Eva"}
	var out []model.Event
	for i, typ := range types {
		period := "1"
		if i >= 10 {
			period = "2"
		}
		out = append(out, ev(actors[i%5], typ, period, float64(5*i)+2, float64((7*i)%100)))
	}
	return out
}

// ---- Scenario ----

func TestSummarize_Scenario(t *testing.T) {
	sum := Summarize(makeSubset(scenarioEvents()...), true)

	if sum.Total != 20 {
		t.Errorf("Total: want 20, got %d", sum.Total)
	}
	if sum.Actors != 5 {
		t.Errorf("Actors: want 5, got %d", sum.Actors)
	}
	if sum.ByType[0] != (Count{Key: "Pase", Count: 10}) {
		t.Errorf("top type: want Pase:10, got %+v", sum.ByType[0])
	}

	// Recup (3) was seen before Centro (3), so it stays ahead.
	if sum.ByType[1].Key != "Recup" || sum.ByType[2].Key != "Centro" {
		t.Errorf("tie order: got %+v", sum.ByType)
	}

	typeTotal := 0
	for _, c := range sum.ByType {
		typeTotal += c.Count
	}
	if typeTotal != sum.Total {
		t.Errorf("sum of type counts %d != total %d", typeTotal, sum.Total)
	}

	zoneTotal := 0
	for _, z := range sum.ByZone {
		zoneTotal += z.Count
	}
	if zoneTotal != sum.Total {
		t.Errorf("sum of zone counts %d != total %d", zoneTotal, sum.Total)
	}

	if len(sum.ByPeriod) != 2 || sum.ByPeriod[0].Count != 10 || sum.ByPeriod[1].Count != 10 {
		t.Errorf("ByPeriod: got %+v", sum.ByPeriod)
	}
}

// ---- Ordering ----

func TestCountBy_StableTies(t *testing.T) {
	s := makeSubset(
		ev("Zoe", "A", "", 1, 1),
		ev("Yan", "B", "", 1, 1),
		ev("Xia", "C", "", 1, 1),
		ev("Yan", "B", "", 1, 1),
	)
	sum := Summarize(s, false)
	want := []string{"Yan", "Zoe", "Xia"}
	for i, w := range want {
		if sum.ByActor[i].Key != w {
			t.Fatalf("ByActor: want %v, got %+v", want, sum.ByActor)
		}
	}
	if len(sum.ByPeriod) != 0 {
		t.Errorf("events without period should not be grouped, got %+v", sum.ByPeriod)
	}
}

func TestPeriodNaturalOrder(t *testing.T) {
	s := makeSubset(
		ev("a", "P", "10", 1, 1),
		ev("a", "P", "ET1", 1, 1),
		ev("a", "P", "2", 1, 1),
		ev("a", "P", "2", 1, 1),
		ev("a", "P", "1", 1, 1),
	)
	got := Summarize(s, false).ByPeriod
	want := []string{"1", "2", "10", "ET1"}
	if len(got) != len(want) {
		t.Fatalf("want %d periods, got %+v", len(want), got)
	}
	for i, w := range want {
		if got[i].Key != w {
			t.Errorf("period %d: want %s, got %s", i, w, got[i].Key)
		}
	}
}

func TestTop(t *testing.T) {
	counts := []Count{{"a", 3}, {"b", 2}, {"c", 1}}
	if got := Top(counts, 2); len(got) != 2 || got[1].Key != "b" {
		t.Errorf("Top 2: got %+v", got)
	}
	if got := Top(counts, 10); len(got) != 3 {
		t.Errorf("Top 10 of 3: got %+v", got)
	}
	if got := Top(counts, 0); len(got) != 3 {
		t.Errorf("Top 0 means no limit: got %+v", got)
	}
}

func TestTopActors(t *testing.T) {
	got := TopActors(makeSubset(scenarioEvents()...), 3)
	if len(got) != 3 || got[0] != "Ana" {
		t.Errorf("TopActors: got %v", got)
	}
}

// ---- Zones ----

func TestZoneCounts_CanonicalOrderOmitsEmpty(t *testing.T) {
	s := makeSubset(
		ev("a", "P", "", 90, 90), // Attacking - Right
		ev("a", "P", "", 10, 10), // Defensive - Left
		ev("a", "P", "", 90, 95),
		ev("a", "P", "", 50, 50), // Middle - Center
	)
	got := ZoneCounts(s, true)
	if len(got) != 3 {
		t.Fatalf("want 3 non-empty zones, got %+v", got)
	}
	if got[0].Zone.Label() != "Defensive - Left" || got[1].Zone.Label() != "Middle - Center" || got[2].Zone.Label() != "Attacking - Right" {
		t.Errorf("order: got %+v", got)
	}
	if got[2].Count != 2 {
		t.Errorf("Attacking - Right: want 2, got %d", got[2].Count)
	}
}

func TestDepthCounts_IncludesEmpty(t *testing.T) {
	s := makeSubset(ev("a", "Recup", "", 10, 10), ev("a", "Recup", "", 100.0/3, 10))
	got := DepthCounts(s)
	if got != [3]int{1, 1, 0} {
		t.Errorf("DepthCounts: got %v", got)
	}
	if got[pitch.Attacking] != 0 {
		t.Error("attacking third should be empty")
	}
}

// ---- Profiles ----

func TestActorProfiles(t *testing.T) {
	a1 := ev("Ana", "Disparo", "1", 80, 40)
	a1.ExpectedGoals = fp(0.25)
	a2 := ev("Ana", "Pase", "1", 60, 60)
	a2.ExpectedThreat = fp(0.1)
	b1 := ev("Bea", "Disparo", "2", 90, 50)
	b1.ExpectedGoals = fp(0.5)

	sum := Summarize(makeSubset(a1, a2, b1), true)
	if len(sum.Profiles) != 2 {
		t.Fatalf("want 2 profiles, got %d", len(sum.Profiles))
	}
	ana := sum.Profiles[0]
	if ana.Actor != "Ana" || ana.Events != 2 {
		t.Fatalf("first profile: got %+v", ana)
	}
	if ana.AvgX != 70 || ana.AvgY != 50 {
		t.Errorf("Ana avg: want (70,50), got (%v,%v)", ana.AvgX, ana.AvgY)
	}
	if ana.XG != 0.25 || ana.XGEvents != 1 || ana.XTEvents != 1 {
		t.Errorf("Ana xG/xT: got %+v", ana)
	}
	if math.Abs(sum.XG-0.75) > 1e-9 || sum.XGEvents != 2 {
		t.Errorf("team xG: want 0.75 over 2 events, got %v over %d", sum.XG, sum.XGEvents)
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(makeSubset(), true)
	if sum.Total != 0 || sum.Actors != 0 || len(sum.ByType) != 0 || len(sum.Profiles) != 0 {
		t.Errorf("empty subset: got %+v", sum)
	}
}
