package handler

import (
	"net/http"

	"github.com/bioweb/backend/internal/service"
)

// ArticleHandler は記事の HTTP ハンドラ
type ArticleHandler struct {
	svc service.ArticleService
}

func NewArticleHandler(svc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// ListPublished は GET /api/Article を処理する
func (h *ArticleHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPublished(r.Context())
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	writeOK(w, http.StatusOK, "Articles retrieved", list)
}

// GetPublished は GET /api/Article/{id} を処理する。下書きは 404
func (h *ArticleHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	a, err := h.svc.GetPublished(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	writeOK(w, http.StatusOK, "Article retrieved", a)
}

// ListByCategory は GET /api/Article/category/{id} を処理する
func (h *ArticleHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	list, err := h.svc.ListByCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	writeOK(w, http.StatusOK, "Articles retrieved", list)
}

// ListAll は GET /api/Article/admin を処理する（管理者）
func (h *ArticleHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	writeOK(w, http.StatusOK, "Articles retrieved", list)
}

// Get は GET /api/Article/admin/{id} を処理する（管理者）
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	writeOK(w, http.StatusOK, "Article retrieved", a)
}

// Create は POST /api/Article を処理する（管理者）
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ArticleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Article")
		return
	}
	a, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	writeOK(w, http.StatusCreated, "Article created", a)
}

// Update は PUT /api/Article/{id} を処理する（管理者）
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	var in service.ArticleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Article")
		return
	}
	a, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	writeOK(w, http.StatusOK, "Article updated", a)
}

// Delete は DELETE /api/Article/{id} を処理する（管理者）
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Article")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Article")
		return
	}
	writeOK(w, http.StatusOK, "Article deleted", nil)
}
