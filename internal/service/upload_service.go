package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/bioweb/backend/internal/metrics"
	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/storage"
)

// UploadKind はアップロード API の種別（URL の末尾）
type UploadKind string

const (
	KindAvatar           UploadKind = "avatar"
	KindProjectThumbnail UploadKind = "project-thumbnail"
	KindArticleThumbnail UploadKind = "article-thumbnail"
	KindCV               UploadKind = "cv"
)

const (
	maxImageBytes    = 5 << 20
	maxDocumentBytes = 10 << 20
)

var (
	imageExtensions    = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	documentExtensions = []string{".pdf", ".doc", ".docx"}
)

type uploadRule struct {
	category   string
	extensions []string
	maxBytes   int64
}

var uploadRules = map[UploadKind]uploadRule{
	KindAvatar:           {category: "avatars", extensions: imageExtensions, maxBytes: maxImageBytes},
	KindProjectThumbnail: {category: "projects", extensions: imageExtensions, maxBytes: maxImageBytes},
	KindArticleThumbnail: {category: "articles", extensions: imageExtensions, maxBytes: maxImageBytes},
	KindCV:               {category: "cv", extensions: documentExtensions, maxBytes: maxDocumentBytes},
}

// ParseUploadKind は URL の種別文字列を UploadKind に変換する
func ParseUploadKind(s string) (UploadKind, bool) {
	k := UploadKind(s)
	_, ok := uploadRules[k]
	return k, ok
}

// IsUploadCategory reports whether category is a storage folder uploads are written to.
func IsUploadCategory(category string) bool {
	for _, r := range uploadRules {
		if r.category == category {
			return true
		}
	}
	return false
}

// MaxUploadBytes is the largest file any upload kind accepts.
const MaxUploadBytes = maxDocumentBytes

// UploadFile is one file part of a multipart request.
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// UploadRequest はアップロード 1 件分の入力
type UploadRequest struct {
	Kind UploadKind
	// File is nil when the form carried no file.
	File     *UploadFile
	AutoSave bool
	// TargetID is the project or article id for thumbnail auto-save.
	TargetID int64
}

// ProfileAssets stores the avatar and CV locations of the site owner.
// SiteConfigService implements it.
type ProfileAssets interface {
	SetAvatar(ctx context.Context, url string) error
	SetCV(ctx context.Context, path string) error
	CVPath(ctx context.Context) (string, error)
}

// ThumbnailSetter stores a thumbnail URL on a project or article.
type ThumbnailSetter interface {
	SetThumbnail(ctx context.Context, id int64, url string) error
}

// UploadService はファイルアップロードのインターフェース
type UploadService interface {
	Upload(ctx context.Context, req UploadRequest) (*model.UploadResult, error)
	FileInfo(ctx context.Context, category, fileName string) (*model.FileInfo, error)
	DeleteFile(ctx context.Context, category, fileName string) error
	// OpenCV opens the CV referenced by the site configuration. The caller closes it.
	OpenCV(ctx context.Context) (io.ReadSeekCloser, *model.FileInfo, error)
}

type uploadServiceImpl struct {
	store    storage.Storage
	profile  ProfileAssets
	projects ThumbnailSetter
	articles ThumbnailSetter
}

// NewUploadService は UploadService を生成する
func NewUploadService(store storage.Storage, profile ProfileAssets, projects, articles ThumbnailSetter) UploadService {
	return &uploadServiceImpl{store: store, profile: profile, projects: projects, articles: articles}
}

func sizeLabel(n int64) string {
	return fmt.Sprintf("%dMB", n>>20)
}

func tooLargeReason(maxBytes int64) string {
	return "File too large. Maximum size is " + sizeLabel(maxBytes)
}

// RejectTooLarge is the rejection for a request body that exceeded the
// transport limit before the file could be inspected.
func RejectTooLarge(kind UploadKind) error {
	limit := int64(MaxUploadBytes)
	if r, ok := uploadRules[kind]; ok {
		limit = r.maxBytes
	}
	return rejectUpload(tooLargeReason(limit))
}

func (s *uploadServiceImpl) Upload(ctx context.Context, req UploadRequest) (*model.UploadResult, error) {
	res, err := s.upload(ctx, req)
	var size int64
	if res != nil {
		size = res.Size
	}
	metrics.RecordUpload(string(req.Kind), err == nil, size)
	return res, err
}

func (s *uploadServiceImpl) upload(ctx context.Context, req UploadRequest) (*model.UploadResult, error) {
	rule, ok := uploadRules[req.Kind]
	if !ok {
		return nil, rejectUpload("Unknown upload type")
	}
	f := req.File
	if f == nil || f.Body == nil || f.Size == 0 {
		return nil, rejectUpload("No file selected")
	}
	tooLarge := tooLargeReason(rule.maxBytes)
	if f.Size > rule.maxBytes {
		return nil, rejectUpload(tooLarge)
	}
	ext := strings.ToLower(path.Ext(f.Name))
	if !slices.Contains(rule.extensions, ext) {
		return nil, rejectUpload("Invalid file type. Allowed types: " + strings.Join(rule.extensions, ", "))
	}

	// ファイル名はユーザー入力から作らない（拡張子のみ引き継ぐ）
	fileName := uuid.NewString() + ext
	key := rule.category + "/" + fileName
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = f.ContentType
	}

	url, n, err := s.store.Save(ctx, key, io.LimitReader(f.Body, rule.maxBytes+1), contentType)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	if n > rule.maxBytes {
		_ = s.store.Delete(ctx, key)
		return nil, rejectUpload(tooLarge)
	}
	if n == 0 {
		_ = s.store.Delete(ctx, key)
		return nil, rejectUpload("No file selected")
	}

	res := &model.UploadResult{
		FileName:         fileName,
		OriginalFileName: path.Base(strings.ReplaceAll(f.Name, "\\", "/")),
		URL:              url,
		Size:             n,
		ContentType:      contentType,
		Category:         rule.category,
	}
	if req.AutoSave {
		saved, err := s.autoSave(ctx, req, url)
		if err != nil {
			_ = s.store.Delete(ctx, key)
			return nil, err
		}
		res.Saved = saved
	}
	slog.Info("file uploaded", "kind", req.Kind, "key", key, "size", n, "saved", res.Saved)
	return res, nil
}

// autoSave は URL を所有レコードへ書き込む。対象 ID が無いサムネイルは保存しない
func (s *uploadServiceImpl) autoSave(ctx context.Context, req UploadRequest, url string) (bool, error) {
	var err error
	switch req.Kind {
	case KindAvatar:
		err = s.profile.SetAvatar(ctx, url)
	case KindCV:
		err = s.profile.SetCV(ctx, url)
	case KindProjectThumbnail:
		if req.TargetID <= 0 {
			return false, nil
		}
		err = s.projects.SetThumbnail(ctx, req.TargetID, url)
	case KindArticleThumbnail:
		if req.TargetID <= 0 {
			return false, nil
		}
		err = s.articles.SetThumbnail(ctx, req.TargetID, url)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("auto-save %s: %w", req.Kind, err)
	}
	return true, nil
}

// objectKey は category と fileName を検証してストレージキーを返す
func objectKey(category, fileName string) (string, error) {
	if !IsUploadCategory(category) {
		return "", fieldError("category", "unknown upload category")
	}
	if fileName == "" || fileName == "." || fileName == ".." ||
		strings.ContainsAny(fileName, `/\`) || path.Base(fileName) != fileName {
		return "", fieldError("fileName", "invalid file name")
	}
	return category + "/" + fileName, nil
}

func (s *uploadServiceImpl) toFileInfo(info *storage.ObjectInfo) *model.FileInfo {
	category, name, _ := strings.Cut(info.Key, "/")
	return &model.FileInfo{
		FileName:    name,
		Category:    category,
		URL:         s.store.URL(info.Key),
		Size:        info.Size,
		ContentType: mime.TypeByExtension(strings.ToLower(path.Ext(name))),
		ModifiedAt:  info.ModifiedAt,
	}
}

func (s *uploadServiceImpl) FileInfo(ctx context.Context, category, fileName string) (*model.FileInfo, error) {
	key, err := objectKey(category, fileName)
	if err != nil {
		return nil, err
	}
	info, err := s.store.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.toFileInfo(info), nil
}

func (s *uploadServiceImpl) DeleteFile(ctx context.Context, category, fileName string) error {
	key, err := objectKey(category, fileName)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	slog.Info("file deleted", "key", key)
	return nil
}

func (s *uploadServiceImpl) OpenCV(ctx context.Context) (io.ReadSeekCloser, *model.FileInfo, error) {
	p, err := s.profile.CVPath(ctx)
	if err != nil {
		return nil, nil, err
	}
	if p == "" {
		return nil, nil, ErrNotFound
	}
	// 保存値は公開 URL（/uploads/cv/xxx.pdf）なので key に戻す
	key := strings.TrimPrefix(p, s.store.URL(""))
	category, name, ok := strings.Cut(strings.TrimPrefix(key, "/"), "/")
	if !ok {
		return nil, nil, ErrNotFound
	}
	key, err = objectKey(category, name)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	rc, info, err := s.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return rc, s.toFileInfo(info), nil
}
