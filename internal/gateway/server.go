// Package gateway is the inbound HTTP surface: one endpoint accepting a
// user message and returning the agent's reply, plus health and metrics.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oreem-dev/pouch-agent/internal/metrics"
	"github.com/oreem-dev/pouch-agent/pkg/agent"
)

// MessageRequest is the inbound payload.
type MessageRequest struct {
	Message string `json:"message"`
}

// MessageResponse is the outbound payload.
type MessageResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server wires the agent loop behind HTTP.
type Server struct {
	loop    *agent.Loop
	metrics *metrics.Metrics
	router  *mux.Router
	log     *zap.Logger
}

// NewServer creates the gateway. The Prometheus gatherer must be the
// registry the metrics were registered on.
func NewServer(loop *agent.Loop, m *metrics.Metrics, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		loop:    loop,
		metrics: m,
		router:  mux.NewRouter(),
		log:     log,
	}

	s.router.HandleFunc("/api/message", s.handleMessage).Methods("POST")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	return s
}

// Handler returns the underlying router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Build returns an http.Server ready to listen on host:port.
func (s *Server) Build(host string, port int) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Message == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	if s.metrics != nil {
		s.metrics.ObserveMessage()
	}

	// A turn runs to completion once started: a client disconnect must not
	// cancel the upstream accounting call mid-flight.
	reply, err := s.loop.HandleMessage(context.WithoutCancel(r.Context()), req.Message)
	if err != nil {
		s.log.Error("message handling failed", zap.Error(err))
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, MessageResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}
