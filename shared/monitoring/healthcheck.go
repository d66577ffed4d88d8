package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// StatusReporter is the health view the health endpoints render.
type StatusReporter interface {
	IsHealthy() bool
	GetStatusSummary() string
}

type HealthServer struct {
	monitor StatusReporter
	port    string
	log     *zap.Logger
}

func NewHealthServer(monitor StatusReporter, port string, logger *zap.Logger) *HealthServer {
	if port == "" {
		port = "8080"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthServer{
		monitor: monitor,
		port:    port,
		log:     logger,
	}
}

// Handler serves /health, /status and /metrics.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.healthHandler)
	mux.HandleFunc("/status", h.statusHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (h *HealthServer) Start() {
	h.log.Info("Health check server starting", zap.String("port", h.port))
	go func() {
		if err := http.ListenAndServe(":"+h.port, h.Handler()); err != nil {
			h.log.Error("Health server error", zap.Error(err))
		}
	}()
}

func (h *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if h.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", h.monitor.GetStatusSummary())
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "Service unhealthy - %s", h.monitor.GetStatusSummary())
	}
}

func (h *HealthServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s", h.monitor.GetStatusSummary())
}
