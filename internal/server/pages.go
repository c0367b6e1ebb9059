package server

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/models"
)

//go:embed pages/*.html pages/partials/*.html
var pageFS embed.FS

// parsePages loads the embedded templates with money helpers bound to currency.
func parsePages(currency string) *template.Template {
	funcs := template.FuncMap{
		"money": func(v float64) string {
			return common.FormatMoney(v, currency)
		},
		"optMoney": func(v *float64) string {
			if v == nil {
				return "N/A"
			}
			return common.FormatMoney(*v, currency)
		},
		"optTime": func(t *time.Time) string {
			if t == nil {
				return "N/A"
			}
			return t.UTC().Format("2006-01-02 15:04:05")
		},
		"date": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04:05")
		},
		"negative": func(v float64) bool { return v < 0 },
		"optNegative": func(v *float64) bool {
			return v != nil && *v < 0
		},
	}
	templates := template.Must(template.New("").Funcs(funcs).ParseFS(pageFS, "pages/*.html"))
	template.Must(templates.ParseFS(pageFS, "pages/partials/*.html"))
	return templates
}

// render executes a page into a buffer so template failures still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.log(r).Error().Str("template", name).Err(err).Msg("Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleIndex renders the portfolio dashboard.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	dash, err := s.app.ReportService.Dashboard(r.Context())
	if err != nil {
		s.log(r).Error().Err(err).Msg("Failed to load dashboard")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "index.html", map[string]interface{}{
		"Page":          "dashboard",
		"Holdings":      dash.Holdings,
		"Summary":       dash.Summary,
		"APIConfigured": s.app.PriceService.Configured(),
		"Messages":      popFlash(w, r),
		"Version":       common.GetVersion(),
	})
}

// handleTransactionsPage renders the full ledger, newest first.
func (s *Server) handleTransactionsPage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	symbol := models.NormalizeSymbol(r.URL.Query().Get("symbol"))
	txns, err := s.app.ReportService.Transactions(r.Context(), symbol)
	if err != nil {
		s.log(r).Error().Err(err).Msg("Failed to load transactions")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "transactions.html", map[string]interface{}{
		"Page":         "transactions",
		"Transactions": txns,
		"Symbol":       symbol,
		"Messages":     popFlash(w, r),
		"Version":      common.GetVersion(),
	})
}

// handleUpdatePrices runs a refresh and redirects to the dashboard with the outcome as flash messages.
func (s *Server) handleUpdatePrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx, done := s.beginRefresh(r)
	defer done()

	setFlash(w, s.refreshMessages(ctx))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// refreshMessages runs the refresh routine and converts its outcome to notices.
// Refresh errors are logged and reduced to a generic error notice.
func (s *Server) refreshMessages(ctx context.Context) []models.Message {
	summary, err := s.app.PriceService.Refresh(ctx)

	var msgs []models.Message
	if summary != nil && (err == nil || summary.Updated > 0 || summary.Failed > 0) {
		msgs = summary.Messages()
	}
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Error().Err(err).Msg("Price refresh failed")
		msgs = append(msgs, models.Message{
			Level: models.LevelError,
			Text:  "Price refresh did not complete. Check the server logs for details.",
		})
	}
	return msgs
}
