package handler

import (
	"net/http"

	"github.com/bioweb/backend/internal/service"
)

// ProjectHandler はプロジェクトの HTTP ハンドラ
type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListPublished は GET /api/Project を処理する
func (h *ProjectHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPublished(r.Context())
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	writeOK(w, http.StatusOK, "Projects retrieved", list)
}

// GetPublished は GET /api/Project/{id} を処理する。閲覧数をクライアント IP 単位で数える
func (h *ProjectHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	p, err := h.svc.GetPublished(r.Context(), id, clientIP(r))
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	writeOK(w, http.StatusOK, "Project retrieved", p)
}

// ListAll は GET /api/Project/admin を処理する（管理者）
func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	writeOK(w, http.StatusOK, "Projects retrieved", list)
}

// Get は GET /api/Project/admin/{id} を処理する（管理者）
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	writeOK(w, http.StatusOK, "Project retrieved", p)
}

// Create は POST /api/Project を処理する（管理者）
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Project")
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	writeOK(w, http.StatusCreated, "Project created", p)
}

// Update は PUT /api/Project/{id} を処理する（管理者）
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	var in service.ProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Project")
		return
	}
	p, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	writeOK(w, http.StatusOK, "Project updated", p)
}

// Delete は DELETE /api/Project/{id} を処理する（管理者）
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Project")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Project")
		return
	}
	writeOK(w, http.StatusOK, "Project deleted", nil)
}
