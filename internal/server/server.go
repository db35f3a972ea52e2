package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"watchlist/internal/catalog"
	"watchlist/internal/config"
	"watchlist/internal/listsvc"
	"watchlist/internal/logging"
)

// maxBodyBytes bounds request bodies. A full replace of a long list stays
// well under it.
const maxBodyBytes = 1 << 20

// Server serves the watchlist HTTP API.
type Server struct {
	bind    string
	logger  *slog.Logger
	lists   *listsvc.Service
	catalog catalog.Catalog

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New builds a server for cfg. cat may be nil when no TMDB key is
// configured; the catalog routes then answer 502.
func New(cfg *config.Config, lists *listsvc.Service, cat catalog.Catalog, logger *slog.Logger) (*Server, error) {
	if cfg == nil || lists == nil {
		return nil, errors.New("server requires config and list service")
	}
	bind := strings.TrimSpace(cfg.Server.Bind)
	if bind == "" {
		return nil, errors.New("server bind address is empty")
	}
	s := &Server{
		bind:    bind,
		logger:  logging.NewComponentLogger(logger, "api-server"),
		lists:   lists,
		catalog: cat,
	}
	s.handler = s.routes()
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       seconds(cfg.Server.ReadTimeoutSeconds, 15),
		WriteTimeout:      seconds(cfg.Server.WriteTimeoutSeconds, 30),
		IdleTimeout:       seconds(cfg.Server.IdleTimeoutSeconds, 60),
	}
	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	// Path is matched before method on every route so a request whose path
	// exists under another method reaches MethodNotAllowedHandler.
	handle := func(method, path string, h http.HandlerFunc) {
		r.HandleFunc("/api"+path, h).Methods(method)
	}
	handle(http.MethodGet, "/health", s.handleHealth)
	handle(http.MethodPost, "/lists", s.handleCreateList)
	handle(http.MethodGet, "/lists", s.handleListIDs)
	handle(http.MethodGet, "/lists/{id}", s.handleGetList)
	handle(http.MethodPatch, "/lists/{id}", s.handleRenameList)
	handle(http.MethodDelete, "/lists/{id}", s.handleDeleteList)
	handle(http.MethodPut, "/lists/{id}/password", s.handleSetPassword)
	handle(http.MethodPost, "/lists/{id}/items", s.handleAddItem)
	handle(http.MethodPatch, "/lists/{id}/items/{itemId}", s.handleUpdateItem)
	handle(http.MethodDelete, "/lists/{id}/items/{itemId}", s.handleRemoveItem)
	handle(http.MethodPost, "/lists/{id}/mutations", s.handleMutation)
	handle(http.MethodGet, "/search", s.handleSearch)
	handle(http.MethodGet, "/movies/{movieId}", s.handleMovieDetails)

	// Wrapped outside the router so 404/405 responses are logged too.
	return s.withRequestID(s.withAccessLog(r))
}

// Start listens on the configured address and serves until ctx is done or
// Stop is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func seconds(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
