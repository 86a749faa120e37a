package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Pinger is implemented by every snapshot store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BrokerStatus is implemented by the RabbitMQ connection wrapper.
type BrokerStatus interface {
	Healthy() bool
}

type HealthHandler struct {
	Storage     Pinger
	Backend     string
	Broker      BrokerStatus
	MailEnabled bool
	Version     string
	StartTime   time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(storage Pinger, backend string, broker BrokerStatus, mailEnabled bool, version string) *HealthHandler {
	return &HealthHandler{
		Storage:     storage,
		Backend:     backend,
		Broker:      broker,
		MailEnabled: mailEnabled,
		Version:     version,
		StartTime:   time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Storage
	if h.Storage != nil {
		if err := h.Storage.Ping(ctx); err != nil {
			deps["storage"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["storage"] = "healthy"
		}
	} else {
		deps["storage"] = "not configured"
	}
	if h.Backend != "" {
		deps["storage_backend"] = h.Backend
	}

	// RabbitMQ
	if h.Broker != nil {
		if h.Broker.Healthy() {
			deps["rabbitmq"] = "healthy"
		} else {
			deps["rabbitmq"] = "unhealthy: connection closed"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.MailEnabled {
		deps["mail"] = "configured"
	} else {
		deps["mail"] = "not configured"
	}

	status := "healthy"
	for k, v := range deps {
		if k == "storage_backend" {
			continue
		}
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
