package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jub0bs/fcors"

	"airbnb-dashboard/services"
	"airbnb-dashboard/utils"
)

// Server exposes the dashboard page and its JSON API.
type Server struct {
	store      *services.Store
	dashboards *services.DashboardService
	hub        *Hub
	logger     *utils.Logger
}

// New creates a Server. Dataset changes in store are pushed to websocket
// clients.
func New(store *services.Store, dashboards *services.DashboardService, logger *utils.Logger) *Server {
	s := &Server{
		store:      store,
		dashboards: dashboards,
		hub:        NewHub(logger),
		logger:     logger,
	}
	store.OnChange(func(version uint64) {
		s.hub.Broadcast(Event{Event: EventDatasetReloaded, Version: version, At: time.Now()})
	})
	return s
}

// RegisterRoutes wires every route onto r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.hub.ServeWS).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/filters", s.filtersHandler).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.dashboardHandler).Methods(http.MethodGet)
	api.HandleFunc("/listings.xlsx", s.exportXLSXHandler).Methods(http.MethodGet)
	api.HandleFunc("/listings.csv", s.exportCSVHandler).Methods(http.MethodGet)
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() (http.Handler, error) {
	r := mux.NewRouter()
	s.RegisterRoutes(r)
	r.Use(requestLogger(s.logger))

	cors, err := fcors.AllowAccess(
		fcors.FromAnyOrigin(),
		fcors.WithRequestHeaders(requestIDHeader),
	)
	if err != nil {
		return nil, fmt.Errorf("server: cors: %w", err)
	}
	return cors(r), nil
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[http] Dashboard listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("[http] Shutting down...")
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
