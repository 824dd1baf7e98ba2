package aggregator

import (
	"sort"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
	"github.com/teinac2012/attack-metrics-suite/internal/pitch"
)

// Count is one group-by bucket.
type Count struct {
	Key   string
	Count int
}

// ZoneCount is one zone bucket with its event count.
type ZoneCount struct {
	Zone  pitch.Zone
	Count int
}

// ActorProfile summarises one actor's events. Averages are in the subset's
// coordinate orientation.
type ActorProfile struct {
	Actor      string
	Events     int
	AvgX, AvgY float64
	XG, XT     float64
	XGEvents   int // events carrying an xG value
	XTEvents   int
}

// Summary is the full statistics result for one subset. Group-by slices are
// complete; callers truncate with Top.
type Summary struct {
	Total  int
	Actors int

	ByType   []Count // count desc, first-seen on ties
	ByActor  []Count // count desc, first-seen on ties
	ByPeriod []Count // natural period order
	ByZone   []ZoneCount

	Profiles []ActorProfile // same order as ByActor

	XG, XT             float64
	XGEvents, XTEvents int
}

// Summarize computes every group-by over s. Zone buckets use the 3x3 grid
// when withSide is set, depth thirds otherwise. s should already be oriented
// for zone and position figures to match the displayed maps.
func Summarize(s model.EventSubset, withSide bool) Summary {
	sum := Summary{
		Total:    s.Len(),
		ByType:   countBy(s.Events, func(e model.Event) string { return e.Type }),
		ByActor:  countBy(s.Events, func(e model.Event) string { return e.Actor }),
		ByPeriod: periodCounts(s.Events),
		ByZone:   ZoneCounts(s, withSide),
	}
	sum.Actors = len(sum.ByActor)

	// ---- Actor profiles and expected-value totals. ----

	type acc struct {
		sx, sy   float64
		xg, xt   float64
		nxg, nxt int
	}
	accs := make(map[string]*acc, sum.Actors)
	for _, e := range s.Events {
		a := accs[e.Actor]
		if a == nil {
			a = &acc{}
			accs[e.Actor] = a
		}
		a.sx += e.X
		a.sy += e.Y
		if e.ExpectedGoals != nil {
			a.xg += *e.ExpectedGoals
			a.nxg++
		}
		if e.ExpectedThreat != nil {
			a.xt += *e.ExpectedThreat
			a.nxt++
		}
	}
	for _, c := range sum.ByActor {
		a := accs[c.Key]
		n := float64(c.Count)
		sum.Profiles = append(sum.Profiles, ActorProfile{
			Actor:    c.Key,
			Events:   c.Count,
			AvgX:     a.sx / n,
			AvgY:     a.sy / n,
			XG:       a.xg,
			XT:       a.xt,
			XGEvents: a.nxg,
			XTEvents: a.nxt,
		})
		sum.XG += a.xg
		sum.XT += a.xt
		sum.XGEvents += a.nxg
		sum.XTEvents += a.nxt
	}
	return sum
}

// Top returns at most n leading buckets. n <= 0 means no limit.
func Top(counts []Count, n int) []Count {
	if n <= 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

// TopActors returns the names of the n most active actors.
func TopActors(s model.EventSubset, n int) []string {
	top := Top(countBy(s.Events, func(e model.Event) string { return e.Actor }), n)
	out := make([]string, len(top))
	for i, c := range top {
		out[i] = c.Key
	}
	return out
}

// ZoneCounts classifies every event and returns the non-empty buckets in
// canonical zone order.
func ZoneCounts(s model.EventSubset, withSide bool) []ZoneCount {
	counts := make(map[pitch.Zone]int)
	for _, e := range s.Events {
		counts[pitch.Classify(e.X, e.Y, withSide)]++
	}
	var out []ZoneCount
	for _, z := range pitch.Zones(withSide) {
		if n := counts[z]; n > 0 {
			out = append(out, ZoneCount{Zone: z, Count: n})
		}
	}
	return out
}

// DepthCounts returns event counts for each depth third, including empty ones.
func DepthCounts(s model.EventSubset) [3]int {
	var out [3]int
	for _, e := range s.Events {
		out[pitch.DepthOf(e.X)]++
	}
	return out
}

// countBy groups events by key, ordered by count descending. Equal counts keep
// first-seen order.
func countBy(events []model.Event, key func(model.Event) string) []Count {
	idx := make(map[string]int)
	var out []Count
	for _, e := range events {
		k := key(e)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Count{Key: k})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// periodCounts groups by period in natural key order. Events without a
// period are not counted.
func periodCounts(events []model.Event) []Count {
	counts := make(map[model.Period]int)
	var keys []model.Period
	for _, e := range events {
		if e.Period == "" {
			continue
		}
		if _, ok := counts[e.Period]; !ok {
			keys = append(keys, e.Period)
		}
		counts[e.Period]++
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	out := make([]Count, len(keys))
	for i, k := range keys {
		out[i] = Count{Key: string(k), Count: counts[k]}
	}
	return out
}
