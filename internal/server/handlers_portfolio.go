package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/stockfolio/internal/models"
	"github.com/bobmcallan/stockfolio/internal/services/report"
)

// refreshResponse is the JSON body of POST /api/prices/refresh.
type refreshResponse struct {
	*models.RefreshSummary
	Messages []models.Message `json:"messages"`
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	dash, err := s.app.ReportService.Dashboard(r.Context())
	if err != nil {
		s.log(r).Error().Err(err).Msg("Failed to list holdings")
		WriteError(w, http.StatusInternalServerError, "Failed to load holdings")
		return
	}
	WriteJSON(w, http.StatusOK, dash)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	dash, err := s.app.ReportService.Dashboard(r.Context())
	if err != nil {
		s.log(r).Error().Err(err).Msg("Failed to load summary")
		WriteError(w, http.StatusInternalServerError, "Failed to load summary")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary":        dash.Summary,
		"api_configured": s.app.PriceService.Configured(),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol := models.NormalizeSymbol(r.URL.Query().Get("symbol"))
	txns, err := s.app.ReportService.Transactions(r.Context(), symbol)
	if err != nil {
		s.log(r).Error().Err(err).Str("symbol", symbol).Msg("Failed to list transactions")
		WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txns,
	})
}

// handlePriceRefresh runs the refresh routine synchronously and returns its summary.
func (s *Server) handlePriceRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ctx, done := s.beginRefresh(r)
	defer done()

	summary, err := s.app.PriceService.Refresh(ctx)
	if err != nil {
		s.log(r).Error().Err(err).Msg("Price refresh failed")
		WriteError(w, http.StatusInternalServerError, "Price refresh did not complete")
		return
	}
	if summary.Unconfigured {
		WriteJSON(w, http.StatusServiceUnavailable, refreshResponse{RefreshSummary: summary, Messages: summary.Messages()})
		return
	}
	WriteJSON(w, http.StatusOK, refreshResponse{RefreshSummary: summary, Messages: summary.Messages()})
}

// handleAllocationChart serves the current allocation pie chart as PNG.
func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	png, err := s.app.ReportService.AllocationChart(r.Context())
	if errors.Is(err, report.ErrNoPricedHoldings) {
		WriteErrorWithCode(w, http.StatusNotFound, "No priced holdings to chart", "no_priced_holdings")
		return
	}
	if err != nil {
		s.log(r).Error().Err(err).Msg("Failed to render allocation chart")
		WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}
