package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FairviewRisk/provision/internal/collateral"
	"github.com/FairviewRisk/provision/internal/config"
	"github.com/FairviewRisk/provision/internal/ecl"
	"github.com/FairviewRisk/provision/internal/events"
	"github.com/FairviewRisk/provision/internal/scores"
	"github.com/FairviewRisk/provision/internal/store"
)

type RecordsHandler struct {
	store  store.Store
	events events.Client
	scores scores.Client
	calc   *ecl.Calculator
	table  *collateral.Table
	cfg    *config.Config
}

func NewRecordsHandler(s store.Store, ev events.Client, sc scores.Client, calc *ecl.Calculator, table *collateral.Table, cfg *config.Config) *RecordsHandler {
	return &RecordsHandler{store: s, events: ev, scores: sc, calc: calc, table: table, cfg: cfg}
}

type CreateRecordRequest struct {
	Borrower           string  `json:"borrower"`
	Value              float64 `json:"value"`
	OriginationYear    int     `json:"origination_year"`
	MaturityYear       int     `json:"maturity_year"`
	RiskGrade          string  `json:"risk_grade"`
	RiskScore          float64 `json:"risk_score,omitempty"`
	CollateralCategory string  `json:"collateral_category"`
	CollateralValue    float64 `json:"collateral_value"`
}

// RecordView is a credit record with its computed risk metrics attached.
type RecordView struct {
	*store.CreditRecord
	Metrics *ecl.Result `json:"metrics,omitempty"`
}

func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if msg := h.validateRecordRequest(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	score := req.RiskScore
	if score == 0 {
		// No score supplied — ask the provider, fall back to the
		// configured default when it is unreachable.
		if bs, err := h.scores.GetBorrowerScore(r.Context(), req.Borrower); err == nil {
			score = bs.Score
		} else {
			score = h.cfg.Scores.DefaultPD
		}
	}

	rec := &store.CreditRecord{
		Borrower:           req.Borrower,
		Value:              req.Value,
		OriginationYear:    req.OriginationYear,
		MaturityYear:       req.MaturityYear,
		RiskGrade:          req.RiskGrade,
		RiskScore:          score,
		CollateralCategory: req.CollateralCategory,
		CollateralValue:    req.CollateralValue,
	}
	if err := h.store.CreateCreditRecord(r.Context(), rec); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectRecordCreated(rec.ID.String()), events.RecordCreatedEvent{
			RecordID:  rec.ID.String(),
			Borrower:  rec.Borrower,
			Value:     rec.Value,
			RiskGrade: rec.RiskGrade,
		})
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid record id"})
		return
	}

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if msg := h.validateRecordRequest(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	rec, err := h.store.GetCreditRecord(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}

	rec.Borrower = req.Borrower
	rec.Value = req.Value
	rec.OriginationYear = req.OriginationYear
	rec.MaturityYear = req.MaturityYear
	rec.RiskGrade = req.RiskGrade
	rec.CollateralCategory = req.CollateralCategory
	rec.CollateralValue = req.CollateralValue
	if req.RiskScore != 0 {
		// An omitted score keeps the stored one; updates never re-query
		// the provider.
		rec.RiskScore = req.RiskScore
	}

	if err := h.store.UpdateCreditRecord(r.Context(), rec); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectRecordUpdated(rec.ID.String()), events.RecordUpdatedEvent{
			RecordID:  rec.ID.String(),
			Borrower:  rec.Borrower,
			Value:     rec.Value,
			RiskGrade: rec.RiskGrade,
		})
	}

	writeJSON(w, http.StatusOK, rec)
}

// validateRecordRequest returns a client-facing message, or "" when the
// request is valid.
func (h *RecordsHandler) validateRecordRequest(req *CreateRecordRequest) string {
	if req.Borrower == "" || req.Value <= 0 {
		return "borrower and positive value required"
	}
	if req.MaturityYear <= req.OriginationYear {
		return "maturity_year must be after origination_year"
	}
	if store.GradeSlot(req.RiskGrade) < 0 {
		return "unknown risk_grade"
	}
	if !h.table.Has(req.CollateralCategory) {
		return "unknown collateral_category"
	}
	return ""
}

func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.RecordFilter{
		Grade:    r.URL.Query().Get("grade"),
		Category: r.URL.Query().Get("category"),
		Borrower: r.URL.Query().Get("borrower"),
	}

	records, err := h.store.ListCreditRecords(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	weights, err := h.currentWeights(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	views := make([]RecordView, 0, len(records))
	for _, rec := range records {
		view := RecordView{CreditRecord: rec}
		if res, err := h.calc.Compute(rec, weights); err == nil {
			view.Metrics = res
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid record id"})
		return
	}

	rec, err := h.store.GetCreditRecord(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}

	weights, err := h.currentWeights(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	view := RecordView{CreditRecord: rec}
	if res, err := h.calc.Compute(rec, weights); err == nil {
		view.Metrics = res
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *RecordsHandler) currentWeights(r *http.Request) ([]int, error) {
	weights, err := h.store.GetRiskWeights(r.Context())
	if err != nil {
		return nil, err
	}
	if weights == nil {
		return h.cfg.Risk.DefaultWeights, nil
	}
	return weights.Weights, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
