// Package density estimates continuous event-density surfaces over the field.
//
// Estimation is a 2-D Gaussian KDE with Scott's bandwidth, evaluated on a
// regular grid. The outcome is a tagged Result so callers choose between the
// density map and the raw-point scatter before drawing anything.
package density

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
)

// Status tags the outcome of an estimate.
type Status int

const (
	Defined Status = iota
	Insufficient
	Fault
)

func (s Status) String() string {
	switch s {
	case Defined:
		return "defined"
	case Insufficient:
		return "insufficient"
	default:
		return "fault"
	}
}

// Bounds is the square evaluation extent, identical on both axes.
type Bounds struct{ Min, Max float64 }

// DefaultBounds pads the field so contours are not clipped at the lines.
var DefaultBounds = Bounds{Min: -5, Max: 105}

// Params controls one estimate.
type Params struct {
	MinSamples int     // below this the estimate is skipped
	Levels     int     // contour level count
	Threshold  float64 // lowest probability-mass isoline drawn
	GridSize   int     // cells per axis
	Bounds     Bounds
}

// Defaults for the three entity kinds.
var (
	TeamParams  = Params{MinSamples: 10, Levels: 15, Threshold: 0.05, GridSize: 100, Bounds: DefaultBounds}
	ActorParams = Params{MinSamples: 3, Levels: 10, Threshold: 0.05, GridSize: 100, Bounds: DefaultBounds}
	ZoneParams  = Params{MinSamples: 5, Levels: 10, Threshold: 0.05, GridSize: 100, Bounds: DefaultBounds}
)

// Field is a density surface sampled on a Cols x Rows grid. Values are
// row-major with row 0 at Bounds.Min on the y axis. Levels ascend; value v
// falls in band i when Levels[i] <= v < Levels[i+1].
type Field struct {
	Bounds Bounds
	Cols   int
	Rows   int
	Values []float64
	Levels []float64
}

// At returns the density at grid cell (col, row).
func (f *Field) At(col, row int) float64 { return f.Values[row*f.Cols+col] }

// CellSize is the width of one grid cell in field units.
func (f *Field) CellSize() float64 { return (f.Bounds.Max - f.Bounds.Min) / float64(f.Cols) }

// Bands is the number of filled contour bands.
func (f *Field) Bands() int { return len(f.Levels) - 1 }

// Band returns the contour band of v, or -1 when v is below the lowest level.
// Values at or above the top level fall in the last band.
func (f *Field) Band(v float64) int {
	if len(f.Levels) < 2 || v < f.Levels[0] {
		return -1
	}
	i := sort.SearchFloat64s(f.Levels, v)
	if i < len(f.Levels) && f.Levels[i] == v {
		i++
	}
	b := i - 1
	if b > f.Bands()-1 {
		b = f.Bands() - 1
	}
	return b
}

// Result is the tagged outcome of Estimate. Points always holds the input
// positions so Insufficient and Fault results can fall back to a scatter.
type Result struct {
	Status Status
	Field  *Field
	Points []model.Point
	Reason string
}

// Usable reports whether a density map can be drawn.
func (r Result) Usable() bool { return r.Status == Defined && r.Field != nil }

// Estimator computes a Result from points.
type Estimator func(points []model.Point, p Params) Result

var errDegenerate = errors.New("degenerate point set")

const (
	// maxCond bounds the bandwidth covariance condition number.
	maxCond = 1e10
	// minBandedCells is the fewest grid cells the lowest contour must cover.
	minBandedCells = 9
)

// Estimate runs the KDE. It never panics and never returns an error: numerical
// failures come back as Fault, small inputs as Insufficient.
func Estimate(points []model.Point, p Params) (res Result) {
	pts := append([]model.Point(nil), points...)
	if len(pts) < p.MinSamples {
		return Result{
			Status: Insufficient,
			Points: pts,
			Reason: fmt.Sprintf("%d points, need %d", len(pts), p.MinSamples),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Status: Fault, Points: pts, Reason: fmt.Sprint(r)}
		}
	}()

	field, err := kde(pts, p)
	if err != nil {
		return Result{Status: Fault, Points: pts, Reason: err.Error()}
	}
	return Result{Status: Defined, Field: field, Points: pts}
}

// kde evaluates a Gaussian kernel estimate with Scott's bandwidth factor
// n^(-1/(d+4)) on the parameter grid.
func kde(pts []model.Point, p Params) (*Field, error) {
	n := len(pts)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points", errDegenerate)
	}
	if p.GridSize <= 0 || p.Levels < 2 {
		return nil, fmt.Errorf("invalid params: grid %d levels %d", p.GridSize, p.Levels)
	}

	data := make([]float64, 0, 2*n)
	for _, pt := range pts {
		data = append(data, pt.X, pt.Y)
	}
	x := mat.NewDense(n, 2, data)

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)
	factor := math.Pow(float64(n), -1.0/6)
	cov.ScaleSym(factor*factor, &cov)

	var chol mat.Cholesky
	if ok := chol.Factorize(&cov); !ok {
		return nil, fmt.Errorf("%w: singular covariance", errDegenerate)
	}
	if cond := chol.Cond(); cond > maxCond || math.IsNaN(cond) {
		return nil, fmt.Errorf("%w: covariance condition %.3g", errDegenerate, cond)
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, fmt.Errorf("invert covariance: %w", err)
	}
	det := chol.Det()
	if det <= 0 || math.IsNaN(det) {
		return nil, fmt.Errorf("%w: covariance determinant %v", errDegenerate, det)
	}

	a, b, c := inv.At(0, 0), inv.At(0, 1), inv.At(1, 1)
	norm := 1 / (2 * math.Pi * math.Sqrt(det) * float64(n))

	f := &Field{Bounds: p.Bounds, Cols: p.GridSize, Rows: p.GridSize, Values: make([]float64, p.GridSize*p.GridSize)}
	step := f.CellSize()
	for row := 0; row < f.Rows; row++ {
		gy := p.Bounds.Min + (float64(row)+0.5)*step
		for col := 0; col < f.Cols; col++ {
			gx := p.Bounds.Min + (float64(col)+0.5)*step
			var s float64
			for _, pt := range pts {
				dx, dy := gx-pt.X, gy-pt.Y
				s += math.Exp(-0.5 * (a*dx*dx + 2*b*dx*dy + c*dy*dy))
			}
			f.Values[row*f.Cols+col] = s * norm
		}
	}

	levels, err := contourLevels(f.Values, p.Levels, p.Threshold)
	if err != nil {
		return nil, err
	}
	f.Levels = levels

	banded := 0
	for _, v := range f.Values {
		if v >= levels[0] {
			banded++
		}
	}
	if banded < minBandedCells {
		return nil, fmt.Errorf("%w: contours cover %d cells", errDegenerate, banded)
	}
	return f, nil
}

// contourLevels converts probability-mass isoproportions to density levels.
// Isoproportions are spaced evenly from threshold to 1; each maps to the
// density above which that share of total mass lies. Duplicate levels are
// dropped so bands stay non-empty.
func contourLevels(values []float64, count int, threshold float64) ([]float64, error) {
	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var total float64
	for _, v := range sorted {
		total += v
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: density mass %v", errDegenerate, total)
	}

	cum := make([]float64, len(sorted))
	var run float64
	for i, v := range sorted {
		run += v
		cum[i] = run / total
	}

	levels := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		q := threshold + (1-threshold)*float64(i)/float64(count-1)
		idx := sort.SearchFloat64s(cum, 1-q)
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		lv := sorted[idx]
		if n := len(levels); n > 0 && lv <= levels[n-1] {
			continue
		}
		levels = append(levels, lv)
	}
	if len(levels) < 2 {
		return nil, fmt.Errorf("%w: flat density surface", errDegenerate)
	}
	return levels, nil
}
