package handler

import (
	"context"
	"net/http"

	"github.com/bioweb/backend/internal/model"
)

// Seeder is the part of seed.Seeder the development routes use.
type Seeder interface {
	Reset(ctx context.Context) (*model.DataCounts, error)
	Counts(ctx context.Context) (*model.DataCounts, error)
}

// SeedHandler は開発環境専用のシード API
type SeedHandler struct {
	seeder Seeder
}

func NewSeedHandler(seeder Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// ForceSeed は POST /api/Seed/force-seed を処理する。全データを消して入れ直す
func (h *SeedHandler) ForceSeed(w http.ResponseWriter, r *http.Request) {
	counts, err := h.seeder.Reset(r.Context())
	if err != nil {
		writeError(w, r, err, "Seed data")
		return
	}
	writeOK(w, http.StatusOK, "Seed data recreated", counts)
}

// CheckData は GET /api/Seed/check-data を処理する
func (h *SeedHandler) CheckData(w http.ResponseWriter, r *http.Request) {
	counts, err := h.seeder.Counts(r.Context())
	if err != nil {
		writeError(w, r, err, "Seed data")
		return
	}
	writeOK(w, http.StatusOK, "Data counts retrieved", counts)
}
