package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FairviewRisk/provision/internal/calibration"
	"github.com/FairviewRisk/provision/internal/collateral"
	"github.com/FairviewRisk/provision/internal/config"
	"github.com/FairviewRisk/provision/internal/ecl"
	"github.com/FairviewRisk/provision/internal/events"
	"github.com/FairviewRisk/provision/internal/scores"
	"github.com/FairviewRisk/provision/internal/store"
)

func NewRouter(s store.Store, ev events.Client, sc scores.Client, calib *calibration.Calibrator, calc *ecl.Calculator, table *collateral.Table, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMin))

	weights := NewWeightsHandler(s, ev, calib, cfg.Risk.DefaultWeights)
	records := NewRecordsHandler(s, ev, sc, calc, table, cfg)
	portfolioH := NewPortfolioHandler(s, calc, cfg.Risk.DefaultWeights)
	collateralH := NewCollateralHandler(table)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/weights", weights.Get)

		r.Get("/records", records.List)
		r.Get("/records/{id}", records.Get)

		r.Get("/portfolio/report", portfolioH.Report)
		r.Get("/portfolio/snapshots", portfolioH.Snapshots)

		r.Get("/collateral", collateralH.List)
		r.Get("/collateral/{category}", collateralH.WeightedAverage)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Put("/weights", weights.Update)
			r.Post("/records", records.Create)
			r.Put("/records/{id}", records.Update)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
