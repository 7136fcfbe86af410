package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
	"github.com/vladislavdragonenkov/shopintake/internal/metrics"
	"github.com/vladislavdragonenkov/shopintake/internal/service/adminauth"
	"github.com/vladislavdragonenkov/shopintake/internal/service/intake"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

// Server — HTTP-адаптер над сервисом приёма заявок и админ-гейтом.
// Публичный маршрут один (отправка заявки), остальные за bearer-токеном.
type Server struct {
	router  *mux.Router
	intake  *intake.Service
	gate    *adminauth.Gate
	metrics *metrics.IntakeMetrics
	logger  *log.Entry
}

// NewServer собирает маршрутизатор и обработчики.
func NewServer(
	intakeService *intake.Service,
	gate *adminauth.Gate,
	intakeMetrics *metrics.IntakeMetrics,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}

	s := &Server{
		router:  mux.NewRouter(),
		intake:  intakeService,
		gate:    gate,
		metrics: intakeMetrics,
		logger:  logger,
	}

	s.router.Use(s.recoverMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Handle("/orders", s.instrument("submit_order", http.HandlerFunc(s.handleSubmitOrder))).
		Methods(http.MethodPost)
	api.Handle("/admin/login", s.instrument("admin_login", http.HandlerFunc(s.handleLogin))).
		Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.authMiddleware)
	admin.Handle("/logout", s.instrument("admin_logout", http.HandlerFunc(s.handleLogout))).
		Methods(http.MethodPost)
	admin.Handle("/orders", s.instrument("admin_list_orders", http.HandlerFunc(s.handleListOrders))).
		Methods(http.MethodGet)
	admin.Handle("/orders/{id}/status", s.instrument("admin_update_status", http.HandlerFunc(s.handleUpdateStatus))).
		Methods(http.MethodPatch)
	admin.Handle("/ping", s.instrument("admin_ping", http.HandlerFunc(s.handlePing))).
		Methods(http.MethodGet)

	return s
}

// Handler возвращает корневой http.Handler сервера.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.intake.Submit(toSubmitRequest(req))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, submitOrderResponse{
		OrderID:  result.OrderID,
		Message:  result.Message,
		Estimate: toEstimateResponse(result.Estimate),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	session, err := s.gate.Login(req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if err := s.gate.Logout(token); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListOrders(w http.ResponseWriter, _ *http.Request) {
	orders, err := s.intake.List()
	if err != nil {
		s.writeError(w, err)
		return
	}

	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	s.writeJSON(w, http.StatusOK, listOrdersResponse{Orders: result})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	var req updateStatusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.intake.UpdateStatus(orderID, req.Status); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, updateStatusResponse{OrderID: orderID, Status: req.Status})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if err := s.intake.Ping(r.Context()); err != nil {
		s.logger.WithError(err).Warn("storage ping failed")
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage is unreachable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// writeError переводит доменные ошибки в HTTP-статусы. Преобразование
// сосредоточено здесь: сервисы возвращают только типизированные ошибки.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrOrderNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrOrderNotFound.Error()})
	case errors.Is(err, domain.ErrInvalidPassword):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: domain.ErrInvalidPassword.Error()})
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionTokenRequired):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization required"})
	default:
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Warn("failed to encode response")
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
