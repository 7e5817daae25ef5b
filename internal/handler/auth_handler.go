package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bioweb/backend/internal/metrics"
	"github.com/bioweb/backend/internal/service"
	"github.com/bioweb/backend/pkg/auth"
)

// AuthHandler は管理者ログインとトークン確認の HTTP ハンドラ
type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// loginResponse はログイン成功時のレスポンス。token は互換のためトップレベルにも置く
type loginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Data      any       `json:"data"`
}

// Login は POST /api/Auth/admin/login を処理する
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Admin")
		return
	}
	res, err := h.svc.Login(r.Context(), in)
	metrics.RecordAuthAttempt("login", err == nil)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			slog.Warn("admin login failed", "username", in.Username, "remote_addr", clientIP(r))
		}
		writeError(w, r, err, "Admin")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Data:      res,
	})
}

// ValidateToken は GET /api/Auth/validate-token を処理する（管理者）。
// ゲートを通過した時点で有効なので、識別情報を返すだけ
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	writeOK(w, http.StatusOK, "Token is valid", id)
}

// ChangePassword は POST /api/Auth/change-password を処理する（管理者）
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	var in service.ChangePasswordInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "Admin")
		return
	}
	if err := h.svc.ChangePassword(r.Context(), id.Username, in); err != nil {
		writeError(w, r, err, "Admin")
		return
	}
	writeOK(w, http.StatusOK, "Password changed", nil)
}
