package server

import (
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"

	"watchlist/internal/api"
	"watchlist/internal/logging"
	"watchlist/internal/services"
)

const maxRequestIDLength = 128

// withRequestID attaches a correlation id to the request context and echoes
// it on the response.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(api.HeaderRequestID))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(api.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		logger := logging.WithContext(r.Context(), s.logger)
		attrs := logging.Args(
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", m.Code),
			logging.Duration("duration", m.Duration),
			logging.Int64("bytes", m.Written),
		)
		if m.Code >= http.StatusInternalServerError {
			logger.Warn("request handled", attrs...)
			return
		}
		logger.Debug("request handled", attrs...)
	})
}
