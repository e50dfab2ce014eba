// Package http exposes the admin surface: health, metrics, and read-only
// configuration inspection.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/domain"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/ports"
	"github.com/StariusTechnologies/appeal-modmail-plugins/pkg/waiter"
)

// Server backs the admin routes.
type Server struct {
	store     ports.ConfigStore
	waits     *waiter.Waiter
	connected func() bool
}

type healthResponse struct {
	Status           string `json:"status"`
	GatewayConnected bool   `json:"gateway_connected"`
	PendingWaits     int    `json:"pending_waits"`
}

// NewHandler builds the admin HTTP handler. connected reports gateway
// liveness; reg is the metrics registry to serve.
func NewHandler(store ports.ConfigStore, waits *waiter.Waiter, connected func() bool, reg *prometheus.Registry) http.Handler {
	s := &Server{store: store, waits: waits, connected: connected}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/config/{scope}", s.config)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:       "ok",
		PendingWaits: s.waits.Pending(),
	}
	if s.connected != nil {
		resp.GatewayConnected = s.connected()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) config(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")

	cfg, err := s.store.Find(r.Context(), scope)
	if errors.Is(err, domain.ErrConfigNotFound) {
		http.Error(w, "no configuration for scope", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "config lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
