package pitch

import (
	"math"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
)

// Segment is a straight line in field coordinates.
type Segment struct{ X1, Y1, X2, Y2 float64 }

// Markings is the fixed decorative overlay drawn under density maps.
// Curves are pre-sampled into segments so renderers only draw lines and dots.
type Markings struct {
	Outline []Segment // touchline, goal lines and halfway line
	Lines   []Segment // areas, circle and arcs
	Spots   []model.Point
}

const (
	penaltyDepth   = 16.5
	penaltyLow     = 21.1
	penaltyHigh    = 78.9
	goalAreaDepth  = 5.5
	goalAreaLow    = 36.8
	goalAreaHigh   = 63.2
	circleRadius   = 9.15
	penaltySpot    = 11.0
	arcHalfAngle   = 0.93 // radians either side of the axis
	circleSegments = 64
	arcSegments    = 24
)

// FieldMarkings builds the standard pitch overlay.
func FieldMarkings() Markings {
	var m Markings

	m.Outline = []Segment{
		{0, 0, 0, 100}, {0, 100, 100, 100}, {100, 100, 100, 0}, {100, 0, 0, 0},
		{50, 0, 50, 100},
	}

	for _, goal := range []struct{ line, dir float64 }{{0, 1}, {100, -1}} {
		pa := goal.line + goal.dir*penaltyDepth
		ga := goal.line + goal.dir*goalAreaDepth
		m.Lines = append(m.Lines,
			Segment{pa, penaltyLow, pa, penaltyHigh},
			Segment{goal.line, penaltyLow, pa, penaltyLow},
			Segment{goal.line, penaltyHigh, pa, penaltyHigh},
			Segment{ga, goalAreaLow, ga, goalAreaHigh},
			Segment{goal.line, goalAreaLow, ga, goalAreaLow},
			Segment{goal.line, goalAreaHigh, ga, goalAreaHigh},
		)
	}

	m.Lines = append(m.Lines, arc(50, 50, circleRadius, 0, 2*math.Pi, circleSegments)...)
	m.Lines = append(m.Lines, arc(penaltySpot, 50, circleRadius, -arcHalfAngle, arcHalfAngle, arcSegments)...)
	m.Lines = append(m.Lines, arc(100-penaltySpot, 50, circleRadius, math.Pi-arcHalfAngle, math.Pi+arcHalfAngle, arcSegments)...)

	m.Spots = []model.Point{{X: 50, Y: 50}, {X: penaltySpot, Y: 50}, {X: 100 - penaltySpot, Y: 50}}
	return m
}

// arc samples a circular arc from start to end radians into n segments.
func arc(cx, cy, r, start, end float64, n int) []Segment {
	out := make([]Segment, 0, n)
	step := (end - start) / float64(n)
	px, py := cx+r*math.Cos(start), cy+r*math.Sin(start)
	for i := 1; i <= n; i++ {
		t := start + step*float64(i)
		x, y := cx+r*math.Cos(t), cy+r*math.Sin(t)
		out = append(out, Segment{px, py, x, y})
		px, py = x, y
	}
	return out
}
