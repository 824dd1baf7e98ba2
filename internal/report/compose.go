package report

import (
	"context"
	"fmt"
	"time"

	"github.com/teinac2012/attack-metrics-suite/internal/aggregator"
	"github.com/teinac2012/attack-metrics-suite/internal/density"
	"github.com/teinac2012/attack-metrics-suite/internal/model"
	"github.com/teinac2012/attack-metrics-suite/internal/parser"
	"github.com/teinac2012/attack-metrics-suite/internal/pitch"
	"github.com/teinac2012/attack-metrics-suite/pkg/logger"
	"github.com/teinac2012/attack-metrics-suite/pkg/metrics"
)

// Document metadata written into every report.
const (
	DocAuthor   = "Attack Metrics Suite"
	DocSubject  = "Análisis de Partido"
	DocKeywords = "Fútbol, Análisis, Heatmap"
)

// Config holds the composition parameters.
type Config struct {
	TopTypes       int // statistics page type list
	TopActors      int // statistics page actor list
	GridActors     int // actors on the density grid
	GridColumns    int
	ZoneWidthSplit bool
	RecoveryTypes  []string

	TeamDensity  density.Params
	ActorDensity density.Params
	ZoneDensity  density.Params

	Theme Theme
}

// DefaultConfig returns the standard report layout.
func DefaultConfig() Config {
	return Config{
		TopTypes:       10,
		TopActors:      5,
		GridActors:     12,
		GridColumns:    4,
		ZoneWidthSplit: true,
		RecoveryTypes:  []string{"Recup", "Intercep", "Recuperación", "Interceptación"},
		TeamDensity:    density.TeamParams,
		ActorDensity:   density.ActorParams,
		ZoneDensity:    density.ZoneParams,
		Theme:          LightTheme(),
	}
}

// Composer builds reports. It holds no per-report state and is safe for
// concurrent use.
type Composer struct {
	cfg      Config
	log      logger.Logger
	metrics  *metrics.Metrics
	estimate density.Estimator
	now      func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger; the default discards output.
func WithLogger(l logger.Logger) Option { return func(c *Composer) { c.log = l } }

// WithMetrics sets the instruments; nil disables them.
func WithMetrics(m *metrics.Metrics) Option { return func(c *Composer) { c.metrics = m } }

// WithEstimator replaces the density estimator.
func WithEstimator(e density.Estimator) Option { return func(c *Composer) { c.estimate = e } }

// WithClock replaces the creation-time source.
func WithClock(now func() time.Time) Option { return func(c *Composer) { c.now = now } }

// NewComposer returns a Composer for cfg.
func NewComposer(cfg Config, opts ...Option) *Composer {
	c := &Composer{
		cfg:      cfg,
		log:      logger.Nop(),
		estimate: density.Estimate,
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compose builds the report for m. Team blocks are HOME then AWAY; a team
// without events contributes no pages. Only a nil or empty match and context
// cancellation are returned as errors; page failures become placeholders.
func (c *Composer) Compose(ctx context.Context, m *model.Match) (*Report, error) {
	return c.compose(ctx, m, false)
}

// ComposeStatistics builds a report holding only the statistics pages. No
// density is estimated.
func (c *Composer) ComposeStatistics(ctx context.Context, m *model.Match) (*Report, error) {
	return c.compose(ctx, m, true)
}

func (c *Composer) compose(ctx context.Context, m *model.Match, statsOnly bool) (*Report, error) {
	start := time.Now()
	if m == nil || len(m.Events) == 0 {
		c.metrics.IncReport("invalid_input")
		return nil, &parser.InputError{Index: -1, Field: "actions", Reason: "absent or empty", Err: parser.ErrNoActions}
	}

	r := &Report{
		Title:     fmt.Sprintf("Informe Completo: %s vs %s", m.Config.HomeTeam, m.Config.AwayTeam),
		Author:    DocAuthor,
		Subject:   DocSubject,
		Keywords:  DocKeywords,
		CreatedAt: c.now(),
		InputHash: m.InputHash,
		HomeTeam:  m.Config.HomeTeam,
		AwayTeam:  m.Config.AwayTeam,
		Date:      m.Config.Date,
		Events:    len(m.Events),
		Theme:     c.cfg.Theme,
	}

	for _, team := range model.Teams {
		sub := pitch.TeamSubset(m, team)
		if sub.Len() == 0 {
			continue
		}
		tb := teamBlock{
			c:    c,
			team: team,
			name: m.TeamName(team),
			sub:  sub,
			sum:  aggregator.Summarize(sub, c.cfg.ZoneWidthSplit),
			m:    m,
		}
		r.Teams = append(r.Teams, TeamSummary{Team: team, Name: tb.name, Summary: tb.sum})

		builders := []struct {
			kind  PageKind
			build func() (Page, error)
		}{
			{KindStatistics, tb.statistics},
			{KindTeamDensity, tb.teamDensity},
			{KindActorGrid, tb.actorGrid},
			{KindZoneActivity, tb.zoneActivity},
		}
		if statsOnly {
			builders = builders[:1]
		}
		for _, b := range builders {
			if err := ctx.Err(); err != nil {
				c.metrics.IncReport("error")
				return nil, fmt.Errorf("compose report: %w", err)
			}
			if p := c.safePage(ctx, tb, b.kind, b.build); p != nil {
				r.Pages = append(r.Pages, p)
			}
		}
	}

	c.metrics.IncReport("ok")
	c.metrics.ObserveCompose(time.Since(start))
	c.log.Info(ctx, "report composed",
		logger.String("home", r.HomeTeam),
		logger.String("away", r.AwayTeam),
		logger.Int("events", r.Events),
		logger.Int("pages", len(r.Pages)),
		logger.Int("degraded", r.Degraded()),
	)
	return r, nil
}

// safePage runs build and converts a panic or error into a placeholder. A nil
// page with nil error means the page is omitted.
func (c *Composer) safePage(ctx context.Context, tb teamBlock, kind PageKind, build func() (Page, error)) (p Page) {
	fail := func(reason string) Page {
		c.metrics.IncPage(kind.String(), "placeholder")
		c.log.Warn(ctx, "page replaced by placeholder",
			logger.String("team", tb.team.String()),
			logger.String("page", kind.String()),
			logger.String("reason", reason),
		)
		return &PlaceholderPage{
			PageHeader: tb.header("Datos insuficientes"),
			Replaces:   kind,
			Reason:     reason,
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			p = fail(fmt.Sprint(rec))
		}
	}()

	page, err := build()
	if err != nil {
		return fail(err.Error())
	}
	if page != nil {
		c.metrics.IncPage(kind.String(), "ok")
	}
	return page
}

// estimateFor runs the estimator and records the outcome.
func (c *Composer) estimateFor(entity string, pts []model.Point, p density.Params) density.Result {
	res := c.estimate(pts, p)
	c.metrics.IncDensity(entity, res.Status.String())
	if res.Status != density.Defined {
		c.log.Debug(context.Background(), "density fallback to scatter",
			logger.String("entity", entity),
			logger.String("status", res.Status.String()),
			logger.String("reason", res.Reason),
		)
	}
	return res
}

// teamBlock holds the oriented subset and statistics shared by one team's pages.
type teamBlock struct {
	c    *Composer
	team model.Team
	name string
	sub  model.EventSubset
	sum  aggregator.Summary
	m    *model.Match
}

func (tb teamBlock) header(title string) PageHeader {
	return PageHeader{Team: tb.team, TeamName: tb.name, Title: title}
}

func (tb teamBlock) statistics() (Page, error) {
	cfg := tb.c.cfg
	profiles := tb.sum.Profiles
	if cfg.TopActors > 0 && len(profiles) > cfg.TopActors {
		profiles = profiles[:cfg.TopActors]
	}
	return &StatisticsPage{
		PageHeader: tb.header("Estadísticas de " + tb.name),
		HomeTeam:   tb.m.Config.HomeTeam,
		AwayTeam:   tb.m.Config.AwayTeam,
		Date:       tb.m.Config.Date,
		Total:      tb.sum.Total,
		Actors:     tb.sum.Actors,
		TopTypes:   aggregator.Top(tb.sum.ByType, cfg.TopTypes),
		TopActors:  aggregator.Top(tb.sum.ByActor, cfg.TopActors),
		Periods:    tb.sum.ByPeriod,
		Zones:      tb.sum.ByZone,
		Profiles:   profiles,
		XG:         tb.sum.XG,
		XT:         tb.sum.XT,
		XGEvents:   tb.sum.XGEvents,
		XTEvents:   tb.sum.XTEvents,
	}, nil
}

func (tb teamBlock) teamDensity() (Page, error) {
	return &TeamDensityPage{
		PageHeader: tb.header("Mapa de Calor del Equipo - " + tb.name),
		Events:     tb.sub.Len(),
		Density:    tb.c.estimateFor("team", tb.sub.Points(), tb.c.cfg.TeamDensity),
	}, nil
}

func (tb teamBlock) actorGrid() (Page, error) {
	cfg := tb.c.cfg
	if cfg.GridColumns <= 0 {
		return nil, fmt.Errorf("grid columns must be positive, got %d", cfg.GridColumns)
	}
	actors := aggregator.TopActors(tb.sub, cfg.GridActors)

	page := &ActorDensityGridPage{
		PageHeader: tb.header("Mapas de Calor Individuales - " + tb.name),
		Columns:    cfg.GridColumns,
	}
	for _, a := range actors {
		page.Cells = append(page.Cells, tb.actorCell(a))
	}
	for len(page.Cells)%cfg.GridColumns != 0 {
		page.Cells = append(page.Cells, ActorCell{Blank: true})
	}
	return page, nil
}

// actorCell builds one grid cell; a fault is contained to the cell.
func (tb teamBlock) actorCell(actor string) (cell ActorCell) {
	sub := tb.sub.ForActor(actor)
	defer func() {
		if rec := recover(); rec != nil {
			reason := fmt.Sprint(rec)
			tb.c.log.Warn(context.Background(), "actor cell replaced by placeholder",
				logger.String("team", tb.team.String()),
				logger.String("actor", actor),
				logger.String("reason", reason),
			)
			cell = ActorCell{Actor: actor, Events: sub.Len(), Placeholder: true, Reason: reason}
		}
	}()
	return ActorCell{
		Actor:   actor,
		Events:  sub.Len(),
		Density: tb.c.estimateFor("actor", sub.Points(), tb.c.cfg.ActorDensity),
	}
}

func (tb teamBlock) zoneActivity() (Page, error) {
	cfg := tb.c.cfg
	rec := tb.sub.OfTypes(cfg.RecoveryTypes)
	if rec.Len() == 0 {
		return nil, nil
	}

	var types []string
	for _, c := range aggregator.Summarize(rec, false).ByType {
		types = append(types, c.Key)
	}
	markers := make([]Marker, rec.Len())
	for i, e := range rec.Events {
		markers[i] = Marker{Type: e.Type, Pos: e.Pos()}
	}
	return &ZoneActivityPage{
		PageHeader: tb.header(fmt.Sprintf("Mapa de Recuperaciones - %s (Total: %d)", tb.name, rec.Len())),
		Types:      types,
		Events:     rec.Len(),
		Markers:    markers,
		Depth:      aggregator.DepthCounts(rec),
		Zones:      aggregator.ZoneCounts(rec, cfg.ZoneWidthSplit),
		Density:    tb.c.estimateFor("zone", rec.Points(), cfg.ZoneDensity),
	}, nil
}
