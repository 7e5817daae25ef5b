package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bioweb/backend/internal/storage"
)

type mockThumbnailSetter struct {
	setThumbnailFunc func(ctx context.Context, id int64, url string) error
}

func (m *mockThumbnailSetter) SetThumbnail(ctx context.Context, id int64, url string) error {
	if m.setThumbnailFunc != nil {
		return m.setThumbnailFunc(ctx, id, url)
	}
	return nil
}

type uploadFixture struct {
	dir      string
	profile  *mockSiteConfigRepository
	projects *mockThumbnailSetter
	svc      UploadService
}

func newUploadFixture(t *testing.T) *uploadFixture {
	t.Helper()
	dir := t.TempDir()
	profile := newMockSiteConfigRepository()
	projects := &mockThumbnailSetter{}
	store := storage.NewLocalStorage(dir, "/uploads")
	siteSvc := NewSiteConfigService(profile, &mockLimiter{})
	return &uploadFixture{
		dir:      dir,
		profile:  profile,
		projects: projects,
		svc:      NewUploadService(store, siteSvc, projects, &mockThumbnailSetter{}),
	}
}

func fileOf(name string, size int) *UploadFile {
	return &UploadFile{Name: name, Size: int64(size), Body: bytes.NewReader(make([]byte, size))}
}

func rejectionReason(t *testing.T, err error) string {
	t.Helper()
	var re *UploadRejectedError
	if !errors.As(err, &re) {
		t.Fatalf("expected UploadRejectedError, got %v", err)
	}
	return re.Reason
}

func TestUploadService_Avatar_GeneratesFileName(t *testing.T) {
	f := newUploadFixture(t)
	res, err := f.svc.Upload(context.Background(), UploadRequest{Kind: KindAvatar, File: fileOf("Me.JPG", 2<<20)})
	if err != nil {
		t.Fatalf("Upload returned unexpected error: %v", err)
	}
	if res.FileName == "Me.JPG" || !strings.HasSuffix(res.FileName, ".jpg") {
		t.Errorf("unexpected generated name %q", res.FileName)
	}
	if res.OriginalFileName != "Me.JPG" {
		t.Errorf("expected original name Me.JPG, got %q", res.OriginalFileName)
	}
	if res.URL != "/uploads/avatars/"+res.FileName {
		t.Errorf("unexpected url %q", res.URL)
	}
	if res.Size != 2<<20 || res.ContentType != "image/jpeg" {
		t.Errorf("unexpected size/content type: %d %q", res.Size, res.ContentType)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "avatars", res.FileName)); err != nil {
		t.Errorf("file not written: %v", err)
	}
	if res.Saved {
		t.Error("Saved should be false without autoSave")
	}
}

func TestUploadService_Rejections(t *testing.T) {
	f := newUploadFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, UploadRequest{Kind: KindAvatar, File: fileOf("big.jpg", 6<<20)})
	if got := rejectionReason(t, err); got != "File too large. Maximum size is 5MB" {
		t.Errorf("too large: got %q", got)
	}

	_, err = f.svc.Upload(ctx, UploadRequest{Kind: KindAvatar})
	if got := rejectionReason(t, err); got != "No file selected" {
		t.Errorf("no file: got %q", got)
	}

	_, err = f.svc.Upload(ctx, UploadRequest{Kind: KindAvatar, File: fileOf("tool.exe", 10)})
	if got := rejectionReason(t, err); !strings.Contains(got, ".jpg, .jpeg, .png, .gif, .webp") {
		t.Errorf("bad type: got %q", got)
	}

	_, err = f.svc.Upload(ctx, UploadRequest{Kind: KindCV, File: fileOf("cv.png", 10)})
	if got := rejectionReason(t, err); !strings.Contains(got, ".pdf, .doc, .docx") {
		t.Errorf("cv image: got %q", got)
	}

	_, err = f.svc.Upload(ctx, UploadRequest{Kind: KindCV, File: fileOf("cv.pdf", 11<<20)})
	if got := rejectionReason(t, err); got != "File too large. Maximum size is 10MB" {
		t.Errorf("cv too large: got %q", got)
	}
}

func TestUploadService_UnderstatedSizeIsCaught(t *testing.T) {
	f := newUploadFixture(t)
	file := &UploadFile{Name: "a.png", Size: 10, Body: bytes.NewReader(make([]byte, 6<<20))}
	_, err := f.svc.Upload(context.Background(), UploadRequest{Kind: KindAvatar, File: file})
	rejectionReason(t, err)

	entries, _ := os.ReadDir(filepath.Join(f.dir, "avatars"))
	if len(entries) != 0 {
		t.Errorf("oversized file left on disk: %d entries", len(entries))
	}
}

func TestUploadService_AutoSave(t *testing.T) {
	f := newUploadFixture(t)
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, UploadRequest{Kind: KindAvatar, File: fileOf("a.png", 100), AutoSave: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Saved || f.profile.cfg.AvatarURL != res.URL {
		t.Errorf("avatar not saved: %+v, config avatar %q", res, f.profile.cfg.AvatarURL)
	}

	var gotID int64
	f.projects.setThumbnailFunc = func(ctx context.Context, id int64, url string) error {
		gotID = id
		return nil
	}
	res, err = f.svc.Upload(ctx, UploadRequest{Kind: KindProjectThumbnail, File: fileOf("t.webp", 100), AutoSave: true, TargetID: 12})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Saved || gotID != 12 {
		t.Errorf("project thumbnail not saved: %+v id=%d", res, gotID)
	}

	res, err = f.svc.Upload(ctx, UploadRequest{Kind: KindProjectThumbnail, File: fileOf("t.webp", 100), AutoSave: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Saved {
		t.Error("thumbnail without a target id must not be saved")
	}

	f.projects.setThumbnailFunc = func(ctx context.Context, id int64, url string) error { return ErrNotFound }
	_, err = f.svc.Upload(ctx, UploadRequest{Kind: KindProjectThumbnail, File: fileOf("t.webp", 100), AutoSave: true, TargetID: 99})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing project, got %v", err)
	}
}

func TestUploadService_FileInfoAndDelete(t *testing.T) {
	f := newUploadFixture(t)
	ctx := context.Background()
	res, err := f.svc.Upload(ctx, UploadRequest{Kind: KindArticleThumbnail, File: fileOf("x.gif", 64)})
	if err != nil {
		t.Fatal(err)
	}

	info, err := f.svc.FileInfo(ctx, "articles", res.FileName)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size != 64 || info.ContentType != "image/gif" || info.URL != res.URL {
		t.Errorf("unexpected file info %+v", info)
	}

	for _, name := range []string{"../x", "..", "a/b.gif", `a\b.gif`} {
		if err := f.svc.DeleteFile(ctx, "articles", name); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteFile(%q): expected validation error, got %v", name, err)
		}
	}
	if _, err := f.svc.FileInfo(ctx, "secrets", res.FileName); err == nil {
		t.Error("unknown category should be rejected")
	}

	if err := f.svc.DeleteFile(ctx, "articles", res.FileName); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteFile(ctx, "articles", res.FileName); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestUploadService_OpenCV(t *testing.T) {
	f := newUploadFixture(t)
	ctx := context.Background()

	if _, _, err := f.svc.OpenCV(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no cv: expected ErrNotFound, got %v", err)
	}

	body := []byte("%PDF-1.4 resume")
	res, err := f.svc.Upload(ctx, UploadRequest{
		Kind:     KindCV,
		File:     &UploadFile{Name: "Resume.pdf", Size: int64(len(body)), Body: bytes.NewReader(body)},
		AutoSave: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if f.profile.cfg.CVFilePath != res.URL {
		t.Fatalf("cv path not saved: %q", f.profile.cfg.CVFilePath)
	}

	rc, info, err := f.svc.OpenCV(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, body) || info.ContentType != "application/pdf" {
		t.Errorf("unexpected cv contents %q (%q)", got, info.ContentType)
	}
}

var _ ProfileAssets = (SiteConfigService)(nil)
