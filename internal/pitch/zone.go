package pitch

// Depth is the length-wise third of the field.
type Depth int

const (
	Defensive Depth = iota
	Middle
	Attacking
)

func (d Depth) String() string {
	switch d {
	case Defensive:
		return "Defensive"
	case Middle:
		return "Middle"
	default:
		return "Attacking"
	}
}

// Side is the width-wise third of the field.
type Side int

const (
	Left Side = iota
	Center
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "Left"
	case Center:
		return "Center"
	default:
		return "Right"
	}
}

// Depth thresholds split the length into exact thirds; width thresholds use
// the rounded marks drawn on the statistics page.
const (
	depthLow  = 100.0 / 3
	depthHigh = 200.0 / 3
	sideLow   = 33.3
	sideHigh  = 66.6
)

// Zone is a discrete spatial bucket. WithSide is false for depth-only zones.
type Zone struct {
	Depth    Depth
	Side     Side
	WithSide bool
}

// Label is "<depth>" or "<depth> - <side>".
func (z Zone) Label() string {
	if !z.WithSide {
		return z.Depth.String()
	}
	return z.Depth.String() + " - " + z.Side.String()
}

// Rank is the position of z in the canonical order: Defensive before Middle
// before Attacking, each crossed with Left, Center, Right.
func (z Zone) Rank() int {
	if !z.WithSide {
		return int(z.Depth)
	}
	return int(z.Depth)*3 + int(z.Side)
}

// DepthOf classifies x. Comparisons are strict, so a boundary value falls
// into the higher bucket; out-of-range values land in the end buckets.
func DepthOf(x float64) Depth {
	switch {
	case x < depthLow:
		return Defensive
	case x < depthHigh:
		return Middle
	default:
		return Attacking
	}
}

// SideOf classifies y with the same boundary policy as DepthOf.
func SideOf(y float64) Side {
	switch {
	case y < sideLow:
		return Left
	case y < sideHigh:
		return Center
	default:
		return Right
	}
}

// Classify maps a display-oriented coordinate to its zone. withSide selects
// the 3x3 grid instead of depth thirds.
func Classify(x, y float64, withSide bool) Zone {
	z := Zone{Depth: DepthOf(x)}
	if withSide {
		z.Side = SideOf(y)
		z.WithSide = true
	}
	return z
}

// Zones returns every zone of the taxonomy in canonical order.
func Zones(withSide bool) []Zone {
	var out []Zone
	for _, d := range []Depth{Defensive, Middle, Attacking} {
		if !withSide {
			out = append(out, Zone{Depth: d})
			continue
		}
		for _, s := range []Side{Left, Center, Right} {
			out = append(out, Zone{Depth: d, Side: s, WithSide: true})
		}
	}
	return out
}

// ThirdLines are the x positions of the depth boundaries as drawn on maps.
var ThirdLines = [2]float64{33.3, 66.6}
