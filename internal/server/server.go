package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/bobmcallan/stockfolio/internal/app"
	"github.com/bobmcallan/stockfolio/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger
	pages  *template.Template

	// baseCtx is cancelled on shutdown to abort in-flight price refreshes.
	baseCtx   context.Context
	cancel    context.CancelFunc
	refreshes sync.WaitGroup
}

// NewServer creates the HTTP server for the web UI and JSON API.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
		pages:  parsePages(a.Config.DisplayCurrency),
	}
	s.baseCtx, s.cancel = context.WithCancel(context.Background())

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	// A refresh blocks the request for (instruments - 1) cooldown intervals.
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: a.Config.Server.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server. Price refreshes still running
// when ctx expires are cancelled, and Shutdown returns only once they have
// stopped, so the store can be closed safely afterwards.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Shutdown deadline reached, cancelling in-flight price refreshes")
	}
	s.cancel()
	s.refreshes.Wait()
	return err
}

// beginRefresh derives a context for a price refresh that is cancelled by
// either the request or server shutdown. Call the returned func when done.
func (s *Server) beginRefresh(r *http.Request) (context.Context, func()) {
	s.refreshes.Add(1)
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(s.baseCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
		s.refreshes.Done()
	}
}

// log returns the request-scoped logger set by the correlation middleware.
func (s *Server) log(r *http.Request) *common.Logger {
	return common.LoggerFromContext(r.Context(), s.logger)
}
