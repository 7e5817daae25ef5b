package handler

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/bioweb/backend/internal/service"
	"github.com/bioweb/backend/internal/validation"
)

// maxJSONBody は JSON リクエストボディの上限
const maxJSONBody = 1 << 20

// envelope は全 API 共通のレスポンス形式
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string, errs ...string) {
	writeJSON(w, status, envelope{Success: false, Message: message, Errors: errs})
}

// writeError はサービス層のエラーを HTTP ステータスと envelope に変換する。
// what は 404 のメッセージに使うリソース名（"Article" など）
func writeError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var ve *validation.RequestValidationError
	var ue *service.UploadRejectedError
	switch {
	case errors.As(err, &ve):
		writeFail(w, http.StatusBadRequest, "Invalid request data", ve.Messages()...)
	case errors.As(err, &ue):
		writeFail(w, http.StatusBadRequest, ue.Reason)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeFail(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrNotFound):
		writeFail(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, service.ErrCategoryInUse):
		writeFail(w, http.StatusBadRequest, "Cannot delete a category that still has articles")
	case errors.Is(err, service.ErrInvalidCategory):
		writeFail(w, http.StatusBadRequest, "Category does not exist")
	case errors.Is(err, service.ErrConflict):
		writeFail(w, http.StatusConflict, what+" was modified by another request, reload and try again")
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeFail(w, http.StatusInternalServerError, "An internal error occurred")
	}
}

// decodeJSON はボディを v に読み込む。キーの大文字小文字は区別しない
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		msg := "request body must be valid JSON"
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			msg = "request body is too large"
		} else if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		return validation.NewRequestValidationError(validation.FieldError{Field: "body", Message: msg})
	}
	return nil
}

// pathID は URL パラメータの数値 ID を取り出す
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.NewRequestValidationError(validation.FieldError{Field: name, Message: name + " must be a positive integer"})
	}
	return id, nil
}

// clientIP は RealIP ミドルウェア適用後の RemoteAddr からホスト部を返す
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
