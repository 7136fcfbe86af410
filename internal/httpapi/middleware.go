package httpapi

import (
	"net/http"
	"time"
)

// instrument оборачивает обработчик измерением времени ответа.
func (s *Server) instrument(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if s.metrics != nil {
			s.metrics.RecordRequestDuration(name, time.Since(start))
		}
	})
}

// recoverMiddleware переводит панику обработчика в generic 500,
// не раскрывая деталей клиенту.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.WithField("panic", rec).Error("handler panic recovered")
				s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware требует действующий bearer-токен админ-сессии.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization required"})
			return
		}

		if _, err := s.gate.Authenticate(token); err != nil {
			s.writeError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
