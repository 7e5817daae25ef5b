package handler

import (
	"log/slog"
	"net/http"

	"github.com/bioweb/backend/internal/repository"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health は GET /api/health を処理する。DB に ping できなければ 503
func Health(db repository.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:  "unhealthy",
				Message: "database unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Message: "BioWeb API",
		})
	}
}
