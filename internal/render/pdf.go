// Package render serializes composed reports to PDF and JSON.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/teinac2012/attack-metrics-suite/internal/aggregator"
	"github.com/teinac2012/attack-metrics-suite/internal/density"
	"github.com/teinac2012/attack-metrics-suite/internal/model"
	"github.com/teinac2012/attack-metrics-suite/internal/pitch"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
)

// A4 landscape, millimetres.
const (
	pageW  = 297.0
	pageH  = 210.0
	margin = 12.0
	titleH = 14.0
)

// box is a rectangle on the page that field coordinates are mapped into.
type box struct{ x, y, w, h float64 }

// px maps field x to page x.
func (b box) px(x float64) float64 { return b.x + x/pitch.FieldSize*b.w }

// py maps field y to page y with y growing upward on the field.
func (b box) py(y float64) float64 { return b.y + (pitch.FieldSize-y)/pitch.FieldSize*b.h }

// Recovery-type marker colours.
var recoveryColours = map[string]report.RGB{
	"Recup":          {R: 0, G: 0, B: 255},
	"Recuperación":   {R: 0, G: 0, B: 255},
	"Intercep":       {R: 0, G: 100, B: 0},
	"Interceptación": {R: 0, G: 100, B: 0},
}

var fallbackRecovery = report.RGB{R: 0, G: 128, B: 0}

type pdfWriter struct {
	pdf   *fpdf.Fpdf
	theme report.Theme
	tr    func(string) string
	marks pitch.Markings
}

// PDF writes r as a landscape A4 document, one sheet per page.
func PDF(w io.Writer, r *report.Report) error {
	if r == nil {
		return fmt.Errorf("render pdf: nil report")
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetAuthor(r.Author, true)
	pdf.SetSubject(r.Subject, true)
	pdf.SetKeywords(r.Keywords, true)
	pdf.SetCreator(r.Author, true)
	pdf.SetCreationDate(r.CreatedAt)
	pdf.SetAutoPageBreak(false, 0)

	pw := &pdfWriter{
		pdf:   pdf,
		theme: r.Theme,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		marks: pitch.FieldMarkings(),
	}
	if pw.theme.Font == "" {
		pw.theme.Font = "Helvetica"
	}

	if len(r.Pages) == 0 {
		pw.newPage(r.Title)
		pw.centerNote(box{margin, margin + titleH, pageW - 2*margin, pageH - 2*margin - titleH}, "Sin datos")
	}
	for _, p := range r.Pages {
		switch pg := p.(type) {
		case *report.StatisticsPage:
			pw.statistics(pg)
		case *report.TeamDensityPage:
			pw.teamDensity(pg)
		case *report.ActorDensityGridPage:
			pw.actorGrid(pg)
		case *report.ZoneActivityPage:
			pw.zoneActivity(pg)
		case *report.PlaceholderPage:
			pw.placeholder(pg)
		default:
			return fmt.Errorf("render pdf: unknown page kind %v", p.Kind())
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("render pdf: %s page: %w", p.Kind(), err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ---- Primitives ----

func (pw *pdfWriter) fill(c report.RGB) { pw.pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func (pw *pdfWriter) draw(c report.RGB) { pw.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func (pw *pdfWriter) text(c report.RGB) { pw.pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }
func (pw *pdfWriter) font(style string, size float64) {
	pw.pdf.SetFont(pw.theme.Font, style, size)
}

// newPage starts a sheet with the theme background and a centred title.
func (pw *pdfWriter) newPage(title string) {
	pw.pdf.AddPage()
	pw.fill(pw.theme.Background)
	pw.pdf.Rect(0, 0, pageW, pageH, "F")
	pw.text(pw.theme.Text)
	pw.font("B", 16)
	pw.pdf.SetXY(margin, margin)
	pw.pdf.CellFormat(pageW-2*margin, titleH-4, pw.tr(title), "", 1, "C", false, 0, "")
}

func (pw *pdfWriter) centerNote(b box, msg string) {
	pw.text(pw.theme.Text)
	pw.font("B", 12)
	pw.pdf.SetXY(b.x, b.y+b.h/2-4)
	pw.pdf.CellFormat(b.w, 8, pw.tr(msg), "", 0, "C", false, 0, "")
}

// pitchBox fits a 105x68 field into the available area.
func pitchBox(x, y, w, h float64) box {
	const ratio = 105.0 / 68.0
	bw, bh := w, w/ratio
	if bh > h {
		bh = h
		bw = h * ratio
	}
	return box{x: x + (w-bw)/2, y: y + (h-bh)/2, w: bw, h: bh}
}

// drawPitch paints the field surface and its markings.
func (pw *pdfWriter) drawPitch(b box, lineWidth float64) {
	pw.fill(pw.theme.Pitch)
	pw.pdf.Rect(b.x, b.y, b.w, b.h, "F")
	pw.draw(pw.theme.Lines)
	pw.pdf.SetLineWidth(lineWidth)
	for _, s := range pw.marks.Outline {
		pw.pdf.Line(b.px(s.X1), b.py(s.Y1), b.px(s.X2), b.py(s.Y2))
	}
	for _, s := range pw.marks.Lines {
		pw.pdf.Line(b.px(s.X1), b.py(s.Y1), b.px(s.X2), b.py(s.Y2))
	}
	pw.fill(pw.theme.Lines)
	for _, p := range pw.marks.Spots {
		pw.pdf.Circle(b.px(p.X), b.py(p.Y), lineWidth*2, "F")
	}
}

// drawDensity paints filled contour bands as raster cells, or the scatter
// fallback when the estimate is not usable.
func (pw *pdfWriter) drawDensity(b box, res density.Result, alpha, dot float64) {
	if !res.Usable() {
		pw.drawScatter(b, res.Points, pw.theme.Scatter, dot, 0.5)
		return
	}
	f := res.Field
	cell := f.CellSize()
	cw := cell / pitch.FieldSize * b.w
	ch := cell / pitch.FieldSize * b.h
	bands := f.Bands()

	// Partial edge cells are clipped to the pitch box.
	pw.pdf.ClipRect(b.x, b.y, b.w, b.h, false)
	pw.pdf.SetAlpha(alpha, "Normal")
	for row := 0; row < f.Rows; row++ {
		y0 := f.Bounds.Min + float64(row)*cell
		for col := 0; col < f.Cols; col++ {
			x0 := f.Bounds.Min + float64(col)*cell
			if !cellInField(x0, y0, cell) {
				continue
			}
			band := f.Band(f.At(col, row))
			if band < 0 {
				continue
			}
			t := 0.0
			if bands > 1 {
				t = float64(band) / float64(bands-1)
			}
			pw.fill(pw.theme.DensityLow.Lerp(pw.theme.DensityHigh, t))
			pw.pdf.Rect(b.px(x0), b.py(y0+cell), cw, ch, "F")
		}
	}
	pw.pdf.SetAlpha(1, "Normal")
	pw.pdf.ClipEnd()
}

// cellInField reports whether the square cell with lower-left corner (x0, y0)
// overlaps the [0, FieldSize] field.
func cellInField(x0, y0, size float64) bool {
	return x0+size > 0 && x0 < pitch.FieldSize && y0+size > 0 && y0 < pitch.FieldSize
}

func (pw *pdfWriter) drawScatter(b box, pts []model.Point, c report.RGB, r, alpha float64) {
	pw.pdf.SetAlpha(alpha, "Normal")
	pw.fill(c)
	for _, p := range pts {
		pw.pdf.Circle(b.px(p.X), b.py(p.Y), r, "F")
	}
	pw.pdf.SetAlpha(1, "Normal")
}

// statusNote labels a map drawn in a degraded mode.
func (pw *pdfWriter) statusNote(b box, res density.Result) {
	if res.Usable() {
		return
	}
	pw.text(pw.theme.Text)
	pw.font("I", 7)
	pw.pdf.SetXY(b.x, b.y+b.h+1)
	pw.pdf.CellFormat(b.w, 4, pw.tr("Datos insuficientes para densidad ("+res.Status.String()+")"), "", 0, "C", false, 0, "")
}

// ---- Pages ----

func (pw *pdfWriter) statistics(p *report.StatisticsPage) {
	pw.newPage("Estadísticas del Partido")

	pw.font("B", 12)
	pw.pdf.SetXY(margin, margin+titleH)
	pw.pdf.CellFormat(pageW-2*margin, 6, pw.tr(fmt.Sprintf("%s vs %s  |  Fecha: %s", p.HomeTeam, p.AwayTeam, p.Date)), "", 1, "C", false, 0, "")

	// Left column: totals and frequent types.
	colW := (pageW - 3*margin) / 2
	top := margin + titleH + 10
	pw.font("", 10)
	pw.pdf.SetXY(margin, top)
	lines := fmt.Sprintf("%s\n\nTotal de acciones: %d\nNúmero de jugadores: %d\n", p.Title, p.Total, p.Actors)
	if p.XGEvents > 0 {
		lines += fmt.Sprintf("xG acumulado: %.2f\n", p.XG)
	}
	if p.XTEvents > 0 {
		lines += fmt.Sprintf("xT acumulado: %.2f\n", p.XT)
	}
	lines += "\nAcciones más frecuentes:\n"
	for _, c := range p.TopTypes {
		lines += fmt.Sprintf("  - %s: %d\n", c.Key, c.Count)
	}
	pw.pdf.MultiCell(colW, 5, pw.tr(lines), "", "L", false)

	// Right column: actor, period and zone bars.
	rx := margin*2 + colW
	y := pw.barChart(rx, top, colW, "Top Jugadores Más Activos", p.TopActors)
	if len(p.Periods) > 0 {
		y = pw.barChart(rx, y+4, colW, "Acciones por Periodo", p.Periods)
	}
	pw.barChart(rx, y+4, colW, "Distribución por Zonas del Campo", zoneBars(p.Zones))
}

// barChart draws labelled horizontal bars and returns the y below them.
func (pw *pdfWriter) barChart(x, y, w float64, title string, counts []aggregator.Count) float64 {
	pw.text(pw.theme.Text)
	pw.font("B", 10)
	pw.pdf.SetXY(x, y)
	pw.pdf.CellFormat(w, 6, pw.tr(title), "", 1, "L", false, 0, "")
	y += 7

	peak := 0
	for _, c := range counts {
		if c.Count > peak {
			peak = c.Count
		}
	}
	const barH, labelW, valueW = 4.0, 40.0, 10.0
	pw.font("", 8)
	for i, c := range counts {
		t := 0.0
		if len(counts) > 1 {
			t = float64(i) / float64(len(counts)-1)
		}
		pw.pdf.SetXY(x, y)
		pw.pdf.CellFormat(labelW, barH, pw.tr(c.Key), "", 0, "L", false, 0, "")
		bw := 0.0
		if peak > 0 {
			bw = (w - labelW - valueW) * float64(c.Count) / float64(peak)
		}
		pw.fill(pw.theme.DensityHigh.Lerp(pw.theme.DensityLow, t*0.6))
		pw.pdf.Rect(x+labelW, y+0.5, bw, barH-1, "F")
		pw.pdf.SetXY(x+labelW+bw+1, y)
		pw.pdf.CellFormat(valueW, barH, strconv.Itoa(c.Count), "", 0, "L", false, 0, "")
		y += barH + 1
	}
	return y
}

func zoneBars(zones []aggregator.ZoneCount) []aggregator.Count {
	out := make([]aggregator.Count, len(zones))
	for i, z := range zones {
		out[i] = aggregator.Count{Key: z.Zone.Label(), Count: z.Count}
	}
	return out
}

func (pw *pdfWriter) teamDensity(p *report.TeamDensityPage) {
	pw.newPage(fmt.Sprintf("%s (%d acciones)", p.Title, p.Events))
	b := pitchBox(margin, margin+titleH, pageW-2*margin, pageH-2*margin-titleH-6)
	pw.drawPitch(b, 0.4)
	pw.drawDensity(b, p.Density, 0.6, 1.0)
	pw.statusNote(b, p.Density)
}

func (pw *pdfWriter) actorGrid(p *report.ActorDensityGridPage) {
	pw.newPage(p.Title)
	rows := p.Rows()
	if rows == 0 {
		return
	}
	areaY := margin + titleH
	cellW := (pageW - 2*margin) / float64(p.Columns)
	cellH := (pageH - areaY - margin) / float64(rows)

	for i, c := range p.Cells {
		if c.Blank {
			continue
		}
		cx := margin + float64(i%p.Columns)*cellW
		cy := areaY + float64(i/p.Columns)*cellH

		pw.text(pw.theme.Text)
		pw.font("B", 8)
		pw.pdf.SetXY(cx, cy)
		pw.pdf.CellFormat(cellW, 5, pw.tr(fmt.Sprintf("%s (%d acciones)", c.Actor, c.Events)), "", 0, "C", false, 0, "")

		b := pitchBox(cx+2, cy+5, cellW-4, cellH-11)
		pw.drawPitch(b, 0.2)
		if c.Placeholder {
			pw.centerNote(b, "Datos insuficientes")
			continue
		}
		pw.drawDensity(b, c.Density, 0.7, 0.8)
		pw.statusNote(b, c.Density)
	}
}

func (pw *pdfWriter) zoneActivity(p *report.ZoneActivityPage) {
	pw.newPage(p.Title)
	b := pitchBox(margin, margin+titleH+10, pageW-2*margin, pageH-2*margin-titleH-18)
	pw.drawPitch(b, 0.4)

	// Third boundaries.
	pw.draw(pw.theme.Lines)
	pw.pdf.SetLineWidth(0.6)
	pw.pdf.SetDashPattern([]float64{2, 1.5}, 0)
	for _, x := range pitch.ThirdLines {
		pw.pdf.Line(b.px(x), b.py(0), b.px(x), b.py(pitch.FieldSize))
	}
	pw.pdf.SetDashPattern([]float64{}, 0)

	if p.Density.Usable() {
		pw.drawDensity(b, p.Density, 0.4, 1.2)
	}
	pw.recoveryMarkers(b, p)

	// Per-third counts above the pitch.
	labels := [3]string{"Defensivo", "Medio", "Ofensivo"}
	centres := [3]float64{16.6, 50, 83.3}
	pw.font("B", 11)
	for i := range labels {
		w := 40.0
		x := b.px(centres[i]) - w/2
		pw.fill(report.RGB{R: 0x2d, G: 0x50, B: 0x16})
		pw.text(report.RGB{R: 255, G: 255, B: 255})
		pw.pdf.SetXY(x, b.y-9)
		pw.pdf.CellFormat(w, 7, pw.tr(fmt.Sprintf("%s: %d", labels[i], p.Depth[i])), "", 0, "C", true, 0, "")
	}
	pw.statusNote(b, p.Density)
}

// recoveryMarkers draws one marker per recovery coloured by type, with a
// legend below the pitch when more than one type is present.
func (pw *pdfWriter) recoveryMarkers(b box, p *report.ZoneActivityPage) {
	pw.draw(report.RGB{R: 255, G: 255, B: 255})
	pw.pdf.SetLineWidth(0.3)
	pw.pdf.SetAlpha(0.9, "Normal")
	for _, m := range p.Markers {
		pw.fill(recoveryColour(m.Type))
		pw.pdf.Circle(b.px(m.Pos.X), b.py(m.Pos.Y), 1.6, "FD")
	}
	pw.pdf.SetAlpha(1, "Normal")

	if len(p.Types) < 2 {
		return
	}
	const itemW = 45.0
	x := b.x + (b.w-itemW*float64(len(p.Types)))/2
	y := b.y + b.h + 6
	pw.font("", 9)
	pw.text(pw.theme.Text)
	for _, typ := range p.Types {
		pw.fill(recoveryColour(typ))
		pw.pdf.Circle(x+2, y+2, 1.6, "F")
		pw.pdf.SetXY(x+5, y)
		pw.pdf.CellFormat(itemW-5, 4, pw.tr(typ), "", 0, "L", false, 0, "")
		x += itemW
	}
}

func recoveryColour(typ string) report.RGB {
	if c, ok := recoveryColours[typ]; ok {
		return c
	}
	return fallbackRecovery
}

func (pw *pdfWriter) placeholder(p *report.PlaceholderPage) {
	pw.newPage(fmt.Sprintf("%s - %s", p.TeamName, p.Replaces))
	body := box{margin, margin + titleH, pageW - 2*margin, pageH - 2*margin - titleH}
	pw.centerNote(body, "Datos insuficientes")
	pw.font("I", 8)
	pw.pdf.SetXY(body.x, body.y+body.h/2+6)
	pw.pdf.CellFormat(body.w, 5, pw.tr(p.Reason), "", 0, "C", false, 0, "")
}
