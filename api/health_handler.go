package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        pinger
	startedAt time.Time
}

func newHealthHandler(db pinger, startedAt time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		startedAt: startedAt,
	}
}

// health reports liveness and database reachability
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} Envelope{data=HealthStatus}
// @Failure 503 {object} Envelope{data=HealthStatus} "Database unreachable"
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{
			Status:    "ok",
			Database:  "ok",
			StartedAt: h.startedAt,
			Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		}

		if h.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := h.db.Ping(ctx); err != nil {
				h.logger.Error().Err(err).Msg("Database ping failed")
				status.Status = "degraded"
				status.Database = "unreachable"
				h.responder.write(w, http.StatusServiceUnavailable, Envelope{Success: false, Data: status, Message: "database unreachable"})
				return
			}
		}
		h.responder.WriteJSON(w, status)
	}
}
