package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/FairviewRisk/provision/internal/config"
	"github.com/FairviewRisk/provision/internal/ecl"
	"github.com/FairviewRisk/provision/internal/events"
	"github.com/FairviewRisk/provision/internal/portfolio"
	"github.com/FairviewRisk/provision/internal/store"
)

var revaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "provision_revaluations_total",
	Help: "Number of completed portfolio revaluation runs.",
})

// Engine periodically revalues the portfolio: it loads every record and
// the current weight vector, aggregates the report, persists a snapshot
// and publishes it on the event bus.
type Engine struct {
	store  store.Store
	events events.Client
	calc   *ecl.Calculator
	cfg    *config.Config
	logger *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ev events.Client, calc *ecl.Calculator, cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		store:  s,
		events: ev,
		calc:   calc,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

func (e *Engine) Start(ctx context.Context) {
	e.wg.Add(1)
	go e.revaluationLoop(ctx)
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.wg.Wait()
}

// SetupSubscriptions wires bookkeeping handlers for record events.
func (e *Engine) SetupSubscriptions() {
	if e.events == nil {
		return
	}
	err := e.events.Subscribe("risk.record.*.created", func(subject string, data []byte) {
		var ev events.RecordCreatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			e.logger.Warn("bad record event payload", "subject", subject, "error", err)
			return
		}
		e.logger.Info("record created", "record_id", ev.RecordID, "borrower", ev.Borrower, "grade", ev.RiskGrade)
	})
	if err != nil {
		e.logger.Warn("failed to subscribe to record events", "error", err)
	}
}

func (e *Engine) revaluationLoop(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Revalue(ctx)
		}
	}
}

// Revalue runs one full portfolio revaluation pass.
func (e *Engine) Revalue(ctx context.Context) {
	records, err := e.store.ListCreditRecords(ctx, store.RecordFilter{})
	if err != nil {
		e.logger.Error("failed to load credit records", "error", err)
		return
	}

	weights := e.cfg.Risk.DefaultWeights
	if rw, err := e.store.GetRiskWeights(ctx); err != nil {
		e.logger.Error("failed to load risk weights", "error", err)
		return
	} else if rw != nil {
		weights = rw.Weights
	}

	report := portfolio.Build(e.calc, records, weights)
	snap := &store.Snapshot{
		RecordCount:   report.RecordCount,
		TotalExposure: report.TotalExposure,
		TotalEAD:      report.TotalEAD,
		TotalECL:      report.TotalECL,
		AveragePD:     report.AveragePD,
		CoverageRatio: report.CoverageRatio,
	}
	if err := e.store.SaveSnapshot(ctx, snap); err != nil {
		e.logger.Error("failed to save snapshot", "error", err)
		return
	}
	revaluationsTotal.Inc()

	if e.events != nil {
		_ = e.events.Publish(events.SubjectPortfolioSnapshot, events.SnapshotEvent{
			RecordCount:   report.RecordCount,
			TotalExposure: report.TotalExposure,
			TotalECL:      report.TotalECL,
			AveragePD:     report.AveragePD,
			CoverageRatio: report.CoverageRatio,
			Timestamp:     time.Now(),
		})
	}

	e.logger.Info("portfolio revalued",
		"records", report.RecordCount,
		"skipped", report.Skipped,
		"total_ecl", report.TotalECL,
		"coverage_ratio", report.CoverageRatio,
	)
}
