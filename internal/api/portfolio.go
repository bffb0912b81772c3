package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FairviewRisk/provision/internal/collateral"
	"github.com/FairviewRisk/provision/internal/ecl"
	"github.com/FairviewRisk/provision/internal/portfolio"
	"github.com/FairviewRisk/provision/internal/store"
)

type PortfolioHandler struct {
	store          store.Store
	calc           *ecl.Calculator
	defaultWeights []int
}

func NewPortfolioHandler(s store.Store, calc *ecl.Calculator, defaults []int) *PortfolioHandler {
	return &PortfolioHandler{store: s, calc: calc, defaultWeights: defaults}
}

func (h *PortfolioHandler) Report(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListCreditRecords(r.Context(), store.RecordFilter{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	weights := h.defaultWeights
	if rw, err := h.store.GetRiskWeights(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	} else if rw != nil {
		weights = rw.Weights
	}

	writeJSON(w, http.StatusOK, portfolio.Build(h.calc, records, weights))
}

func (h *PortfolioHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	snaps, err := h.store.ListSnapshots(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if snaps == nil {
		snaps = []*store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

type CollateralHandler struct {
	table *collateral.Table
}

func NewCollateralHandler(table *collateral.Table) *CollateralHandler {
	return &CollateralHandler{table: table}
}

// List returns every category with its weighted average.
func (h *CollateralHandler) List(w http.ResponseWriter, r *http.Request) {
	type categoryView struct {
		Category        string  `json:"category"`
		WeightedAverage float64 `json:"weighted_average"`
	}

	categories := h.table.Categories()
	out := make([]categoryView, 0, len(categories))
	for _, category := range categories {
		cwa, err := h.table.WeightedAverage(category)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		out = append(out, categoryView{Category: category, WeightedAverage: cwa})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CollateralHandler) WeightedAverage(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	cwa, err := h.table.WeightedAverage(category)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category":         category,
		"weighted_average": cwa,
	})
}
