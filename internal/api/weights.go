package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/FairviewRisk/provision/internal/calibration"
	"github.com/FairviewRisk/provision/internal/events"
	"github.com/FairviewRisk/provision/internal/store"
)

var calibrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "provision_weight_calibrations_total",
	Help: "Number of risk-weight calibrations applied.",
})

type WeightsHandler struct {
	store          store.Store
	events         events.Client
	calibrator     *calibration.Calibrator
	defaultWeights []int
}

func NewWeightsHandler(s store.Store, ev events.Client, c *calibration.Calibrator, defaults []int) *WeightsHandler {
	return &WeightsHandler{store: s, events: ev, calibrator: c, defaultWeights: defaults}
}

func (h *WeightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	weights, err := h.store.GetRiskWeights(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if weights == nil {
		// Nothing persisted yet; serve the configured allocation.
		weights = &store.RiskWeights{Weights: h.defaultWeights}
	}
	writeJSON(w, http.StatusOK, weights)
}

type UpdateWeightsRequest struct {
	PivotIndex int    `json:"pivot_index"`
	Weights    []int  `json:"weights"`
	UpdatedBy  string `json:"updated_by,omitempty"`
}

type UpdateWeightsResponse struct {
	Weights []int  `json:"weights"`
	Message string `json:"message"`
}

func (h *WeightsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateWeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	calibrated, err := h.calibrator.Calibrate(req.PivotIndex, req.Weights)
	if err != nil {
		if errors.Is(err, calibration.ErrPivotOutOfRange) || errors.Is(err, calibration.ErrBadVectorLength) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	weights := &store.RiskWeights{Weights: calibrated, UpdatedBy: req.UpdatedBy}
	if err := h.store.SaveRiskWeights(r.Context(), weights); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	calibrationsTotal.Inc()

	if h.events != nil {
		_ = h.events.Publish(events.SubjectWeightsUpdated, events.WeightsUpdatedEvent{
			Weights:   calibrated,
			PivotSlot: req.PivotIndex,
			UpdatedBy: req.UpdatedBy,
			Timestamp: time.Now(),
		})
	}

	writeJSON(w, http.StatusOK, UpdateWeightsResponse{
		Weights: calibrated,
		Message: "Weights status updated",
	})
}
