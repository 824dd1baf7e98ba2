// Package httpapi exposes report composition and the analysis history over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teinac2012/attack-metrics-suite/internal/model"
	"github.com/teinac2012/attack-metrics-suite/internal/parser"
	"github.com/teinac2012/attack-metrics-suite/internal/render"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
	"github.com/teinac2012/attack-metrics-suite/pkg/logger"
	"github.com/teinac2012/attack-metrics-suite/pkg/metrics"
)

// MaxBodyBytes caps the match record size.
const MaxBodyBytes = 10 << 20

// Composer builds a report from a validated match.
type Composer interface {
	Compose(ctx context.Context, m *model.Match) (*report.Report, error)
}

// Store records and lists analyses. A nil Store disables history.
type Store interface {
	SaveReport(r *report.Report) (*model.AnalysisSummary, error)
	ListAnalyses(limit int) ([]model.AnalysisSummary, error)
}

// Handler wires the report endpoints to the composer and the history store.
type Handler struct {
	composer Composer
	store    Store
	logger   logger.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// New constructs a handler. timeout bounds each report request; zero disables it.
func New(composer Composer, store Store, log logger.Logger, m *metrics.Metrics, timeout time.Duration) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		composer: composer,
		store:    store,
		logger:   log.Named("httpapi"),
		metrics:  m,
		timeout:  timeout,
	}
}

// Router builds the full route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.Register(r)
	return r
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/reports", h.HandleCreateReport)
		r.Get("/analyses", h.HandleListAnalyses)
	})
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleCreateReport handles POST /v1/reports?format=pdf|json.
func (h *Handler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetReqID(ctx)
	start := time.Now()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "json" {
		writeErrorCode(w, http.StatusBadRequest, "invalid_format", "format must be pdf or json")
		return
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	match, err := parser.Parse(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		h.logger.Info(ctx, "rejected match record",
			logger.String("request_id", requestID),
			logger.Error(err),
		)
		writeError(w, err)
		return
	}

	rep, err := h.composer.Compose(ctx, match)
	if err != nil {
		h.logger.Error(ctx, "report composition failed",
			logger.String("request_id", requestID),
			logger.Error(err),
		)
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	contentType := "application/pdf"
	if format == "json" {
		contentType = "application/json"
		err = render.JSON(&buf, rep)
	} else {
		err = render.PDF(&buf, rep)
	}
	if err != nil {
		h.logger.Error(ctx, "report serialization failed",
			logger.String("request_id", requestID),
			logger.String("format", format),
			logger.Error(err),
		)
		writeError(w, err)
		return
	}

	if h.store != nil {
		saved, err := h.store.SaveReport(rep)
		if err != nil {
			h.logger.Warn(ctx, "analysis not recorded",
				logger.String("request_id", requestID),
				logger.Error(err),
			)
		} else {
			w.Header().Set("X-Analysis-ID", saved.ID)
		}
	}

	h.logger.Info(ctx, "report served",
		logger.String("request_id", requestID),
		logger.String("format", format),
		logger.Int("pages", len(rep.Pages)),
		logger.Int("degraded", rep.Degraded()),
		logger.Int("duration_ms", int(time.Since(start).Milliseconds())),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Degraded-Pages", strconv.Itoa(rep.Degraded()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// analysisResponse is one history entry on the wire.
type analysisResponse struct {
	ID            string    `json:"id"`
	InputHash     string    `json:"inputHash"`
	HomeTeam      string    `json:"homeTeam"`
	AwayTeam      string    `json:"awayTeam"`
	MatchDate     string    `json:"matchDate"`
	Events        int       `json:"events"`
	Pages         int       `json:"pages"`
	DegradedPages int       `json:"degradedPages"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HandleListAnalyses handles GET /v1/analyses?limit=N.
func (h *Handler) HandleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "history_disabled", "analysis history is not configured")
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeErrorCode(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := h.store.ListAnalyses(limit)
	if err != nil {
		h.logger.Error(r.Context(), "list analyses failed", logger.Error(err))
		writeError(w, err)
		return
	}
	out := make([]analysisResponse, 0, len(list))
	for _, a := range list {
		out = append(out, analysisResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": out})
}
