package server

import (
	"net/http"

	"github.com/bobmcallan/stockfolio/internal/common"
)

// registerRoutes sets up all page and API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/transactions", s.handleTransactionsPage)
	mux.HandleFunc("/update_prices", s.handleUpdatePrices)
	mux.HandleFunc("/charts/allocation.png", s.handleAllocationChart)

	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Portfolio
	mux.HandleFunc("/api/holdings", s.handleHoldings)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/prices/refresh", s.handlePriceRefresh)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
