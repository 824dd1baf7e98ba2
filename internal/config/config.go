// Package config defines the tool's configuration and its conversion into
// report composition parameters.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teinac2012/attack-metrics-suite/internal/density"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
	"github.com/teinac2012/attack-metrics-suite/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite analysis history.
	DBPath string `koanf:"db_path"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// RequestTimeoutSeconds bounds each HTTP report request.
	RequestTimeoutSeconds int `koanf:"request_timeout_seconds"`

	Report ReportSettings `koanf:"report"`
	Theme  ThemeSettings  `koanf:"theme"`
}

// ReportSettings mirrors report.Config in file/env form.
type ReportSettings struct {
	TopTypes       int      `koanf:"top_types"`
	TopActors      int      `koanf:"top_actors"`
	GridActors     int      `koanf:"grid_actors"`
	GridColumns    int      `koanf:"grid_columns"`
	ZoneWidthSplit bool     `koanf:"zone_width_split"`
	RecoveryTypes  []string `koanf:"recovery_types"`
	GridSize       int      `koanf:"grid_size"`

	TeamDensity  DensitySettings `koanf:"team_density"`
	ActorDensity DensitySettings `koanf:"actor_density"`
	ZoneDensity  DensitySettings `koanf:"zone_density"`
}

// DensitySettings are the per-entity estimator knobs.
type DensitySettings struct {
	MinSamples int     `koanf:"min_samples"`
	Levels     int     `koanf:"levels"`
	Threshold  float64 `koanf:"threshold"`
}

// ThemeSettings selects a preset and optionally overrides its colours.
type ThemeSettings struct {
	Name        string `koanf:"name"`
	Background  string `koanf:"background"`
	Pitch       string `koanf:"pitch"`
	Lines       string `koanf:"lines"`
	Text        string `koanf:"text"`
	DensityLow  string `koanf:"density_low"`
	DensityHigh string `koanf:"density_high"`
	Scatter     string `koanf:"scatter"`
	Font        string `koanf:"font"`
}

// New returns a Config populated with defaults.
func New() *Config {
	def := report.DefaultConfig()
	return &Config{
		LogLevel:              "info",
		DBPath:                filepath.Join(userHome(), ".attackmetrics", "analyses.db"),
		Addr:                  ":8090",
		RequestTimeoutSeconds: 60,
		Report: ReportSettings{
			TopTypes:       def.TopTypes,
			TopActors:      def.TopActors,
			GridActors:     def.GridActors,
			GridColumns:    def.GridColumns,
			ZoneWidthSplit: def.ZoneWidthSplit,
			RecoveryTypes:  append([]string(nil), def.RecoveryTypes...),
			GridSize:       def.TeamDensity.GridSize,
			TeamDensity:    fromParams(def.TeamDensity),
			ActorDensity:   fromParams(def.ActorDensity),
			ZoneDensity:    fromParams(def.ZoneDensity),
		},
		Theme: ThemeSettings{Name: def.Theme.Name},
	}
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func fromParams(p density.Params) DensitySettings {
	return DensitySettings{MinSamples: p.MinSamples, Levels: p.Levels, Threshold: p.Threshold}
}

func (d DensitySettings) params(gridSize int) density.Params {
	return density.Params{
		MinSamples: d.MinSamples,
		Levels:     d.Levels,
		Threshold:  d.Threshold,
		GridSize:   gridSize,
		Bounds:     density.DefaultBounds,
	}
}

// RequestTimeout returns the HTTP request budget.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: request_timeout_seconds must be positive", ErrInvalidConfig)
	}
	r := c.Report
	for name, v := range map[string]int{
		"report.top_types":    r.TopTypes,
		"report.top_actors":   r.TopActors,
		"report.grid_actors":  r.GridActors,
		"report.grid_columns": r.GridColumns,
		"report.grid_size":    r.GridSize,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, name, v)
		}
	}
	for name, d := range map[string]DensitySettings{
		"report.team_density":  r.TeamDensity,
		"report.actor_density": r.ActorDensity,
		"report.zone_density":  r.ZoneDensity,
	} {
		if d.MinSamples < 1 {
			return fmt.Errorf("%w: %s.min_samples must be >= 1, got %d", ErrInvalidConfig, name, d.MinSamples)
		}
		if d.Levels < 2 {
			return fmt.Errorf("%w: %s.levels must be >= 2, got %d", ErrInvalidConfig, name, d.Levels)
		}
		if d.Threshold <= 0 || d.Threshold >= 1 {
			return fmt.Errorf("%w: %s.threshold must be in (0,1), got %g", ErrInvalidConfig, name, d.Threshold)
		}
	}
	if _, err := c.theme(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) theme() (report.Theme, error) {
	t := c.Theme
	th, err := report.ThemeByName(t.Name)
	if err != nil {
		return th, err
	}
	th, err = th.Override(map[string]string{
		"background":   t.Background,
		"pitch":        t.Pitch,
		"lines":        t.Lines,
		"text":         t.Text,
		"density_low":  t.DensityLow,
		"density_high": t.DensityHigh,
		"scatter":      t.Scatter,
	})
	if err != nil {
		return th, err
	}
	if f := strings.TrimSpace(t.Font); f != "" {
		th.Font = f
	}
	return th, nil
}

// ReportConfig converts the settings into composition parameters.
func (c *Config) ReportConfig() (report.Config, error) {
	th, err := c.theme()
	if err != nil {
		return report.Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	r := c.Report
	return report.Config{
		TopTypes:       r.TopTypes,
		TopActors:      r.TopActors,
		GridActors:     r.GridActors,
		GridColumns:    r.GridColumns,
		ZoneWidthSplit: r.ZoneWidthSplit,
		RecoveryTypes:  append([]string(nil), r.RecoveryTypes...),
		TeamDensity:    r.TeamDensity.params(r.GridSize),
		ActorDensity:   r.ActorDensity.params(r.GridSize),
		ZoneDensity:    r.ZoneDensity.params(r.GridSize),
		Theme:          th,
	}, nil
}
