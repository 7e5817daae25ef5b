package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bioweb/backend/internal/service"
)

// multipart のフォーム部分に許す余裕
const multipartOverhead = 1 << 20

// UploadHandler はファイルアップロードの HTTP ハンドラ
type UploadHandler struct {
	svc service.UploadService
}

func NewUploadHandler(svc service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Upload は POST /api/Upload/{kind} を処理する（管理者、multipart/form-data）。
// フォーム項目: file, autoSave, projectId / articleId
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind, ok := service.ParseUploadKind(chi.URLParam(r, "kind"))
	if !ok {
		writeFail(w, http.StatusNotFound, "Unknown upload type")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, r, service.RejectTooLarge(kind), "File")
			return
		}
		writeFail(w, http.StatusBadRequest, "Request must be multipart/form-data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := service.UploadRequest{Kind: kind}
	req.AutoSave, _ = strconv.ParseBool(r.FormValue("autoSave"))
	switch kind {
	case service.KindProjectThumbnail:
		req.TargetID, _ = strconv.ParseInt(r.FormValue("projectId"), 10, 64)
	case service.KindArticleThumbnail:
		req.TargetID, _ = strconv.ParseInt(r.FormValue("articleId"), 10, 64)
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		writeFail(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	default:
		defer file.Close()
		req.File = &service.UploadFile{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	}

	res, err := h.svc.Upload(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Target")
		return
	}
	writeOK(w, http.StatusOK, "File uploaded", res)
}

// FileInfo は GET /api/Upload/file-info/{category}/{fileName} を処理する（管理者）
func (h *UploadHandler) FileInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.FileInfo(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "fileName"))
	if err != nil {
		writeError(w, r, err, "File")
		return
	}
	writeOK(w, http.StatusOK, "File info retrieved", info)
}

// DeleteFile は DELETE /api/Upload/file/{category}/{fileName} を処理する（管理者）
func (h *UploadHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFile(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "fileName")); err != nil {
		writeError(w, r, err, "File")
		return
	}
	writeOK(w, http.StatusOK, "File deleted", nil)
}

// DownloadCV は GET /api/Upload/cv/download を処理する。添付ファイルとして返す
func (h *UploadHandler) DownloadCV(w http.ResponseWriter, r *http.Request) {
	rc, info, err := h.svc.OpenCV(r.Context())
	if err != nil {
		writeError(w, r, err, "CV")
		return
	}
	defer rc.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.FileName}))
	http.ServeContent(w, r, info.FileName, info.ModifiedAt, rc)
}
