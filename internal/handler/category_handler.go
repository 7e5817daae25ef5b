package handler

import (
	"net/http"

	"github.com/bioweb/backend/internal/service"
)

// CategoryHandler はカテゴリ CRUD の HTTP ハンドラ
type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List は GET /api/Category を処理する
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	writeOK(w, http.StatusOK, "Categories retrieved", cats)
}

// Get は GET /api/Category/{id} を処理する
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	writeOK(w, http.StatusOK, "Category retrieved", c)
}

// Create は POST /api/Category を処理する（管理者）
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Category")
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	writeOK(w, http.StatusCreated, "Category created", c)
}

// Update は PUT /api/Category/{id} を処理する（管理者）
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	var in service.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Category")
		return
	}
	c, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	writeOK(w, http.StatusOK, "Category updated", c)
}

// Delete は DELETE /api/Category/{id} を処理する（管理者）
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Category")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Category")
		return
	}
	writeOK(w, http.StatusOK, "Category deleted", nil)
}
