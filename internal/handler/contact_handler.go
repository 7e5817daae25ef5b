package handler

import (
	"net/http"
	"strconv"

	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/service"
)

// ContactHandler はお問い合わせメッセージの HTTP ハンドラ
type ContactHandler struct {
	svc service.ContactService
}

func NewContactHandler(svc service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Submit は POST /api/Contact を処理する（公開）
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in service.ContactSubmitInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Message")
		return
	}
	msg, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "Message")
		return
	}
	writeOK(w, http.StatusCreated, "Message sent", msg)
}

// List は GET /api/Contact?status=&limit=&offset= を処理する（管理者）
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.ContactListOptions{Status: q.Get("status")}
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))
	opts.Offset, _ = strconv.Atoi(q.Get("offset"))

	list, err := h.svc.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err, "Message")
		return
	}
	writeOK(w, http.StatusOK, "Messages retrieved", list)
}

// UnreadCount は GET /api/Contact/unread-count を処理する（管理者）
func (h *ContactHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context())
	if err != nil {
		writeError(w, r, err, "Message")
		return
	}
	writeOK(w, http.StatusOK, "Unread count retrieved", map[string]int{"unreadCount": n})
}

// Get は GET /api/Contact/{id} を処理する（管理者）。既読にする
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Message")
		return
	}
	msg, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Message")
		return
	}
	writeOK(w, http.StatusOK, "Message retrieved", msg)
}

// Update は PUT /api/Contact/{id} を処理する（管理者）
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Message")
		return
	}
	var in service.ContactUpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Message")
		return
	}
	msg, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err, "Message")
		return
	}
	writeOK(w, http.StatusOK, "Message updated", msg)
}

// Delete は DELETE /api/Contact/{id} を処理する（管理者）
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Message")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Message")
		return
	}
	writeOK(w, http.StatusOK, "Message deleted", nil)
}
