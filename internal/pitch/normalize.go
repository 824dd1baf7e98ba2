// Package pitch holds field geometry: the display orientation transform, the
// spatial zone taxonomy, and the line markings drawn under every map.
package pitch

import "github.com/teinac2012/attack-metrics-suite/internal/model"

// FieldSize is the length of both field axes in normalized units.
const FieldSize = 100.0

// FlipY returns a copy of events with y' = 100 - y applied to start and end
// positions. x is untouched. FlipY(FlipY(e)) == e.
func FlipY(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	for i, e := range events {
		e.Y = FieldSize - e.Y
		if e.EndY != nil {
			y := FieldSize - *e.EndY
			e.EndY = &y
		}
		out[i] = e
	}
	return out
}

// Orient returns the subset in display orientation. A subset that is already
// oriented is returned as-is, so the flip happens exactly once.
func Orient(s model.EventSubset) model.EventSubset {
	if s.Oriented {
		return s
	}
	return model.EventSubset{
		Team:     s.Team,
		Actor:    s.Actor,
		Oriented: true,
		Events:   FlipY(s.Events),
	}
}

// TeamSubset copies one team's events out of the match and orients them.
// This is the only place report code obtains team coordinates.
func TeamSubset(m *model.Match, t model.Team) model.EventSubset {
	return Orient(m.TeamEvents(t))
}
