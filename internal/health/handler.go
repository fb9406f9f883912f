// Tiendat | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Tiendat2703/bleen-private/internal/config"
	"github.com/Tiendat2703/bleen-private/internal/core"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db      Pinger
	redis   Pinger
	appCfg  config.AppConfig
	started time.Time
}

func NewHandler(db, redis Pinger, appCfg config.AppConfig) *Handler {
	return &Handler{
		db:      db,
		redis:   redis,
		appCfg:  appCfg,
		started: time.Now(),
	}
}

type status struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Live answers as long as the process is serving requests.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	core.OK(w, "alive", status{
		Status:  "ok",
		Version: h.appCfg.Version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready checks the dependencies the request path actually needs. A failing
// check flips the whole response to 503 so the load balancer drains us.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := h.redis.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	s := status{
		Status:  "ok",
		Version: h.appCfg.Version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Checks:  checks,
	}

	if !healthy {
		s.Status = "degraded"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		//nolint:errcheck // best-effort response write
		_ = json.NewEncoder(w).Encode(core.Response{
			Success: false,
			Message: "not ready",
			Data:    s,
		})
		return
	}

	core.OK(w, "ready", s)
}
