package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_Projects(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Project" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, `{"success":true,"message":"ok","data":[{"projectId":1,"projectName":"Portfolio","technologies":"Go"}]}`)
	})

	ps, err := New(srv.URL).Projects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 || ps[0].Name != "Portfolio" || ps[0].ID != 1 {
		t.Errorf("unexpected projects %+v", ps)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, `{"success":false,"message":"Project not found"}`)
	})

	_, err := New(srv.URL).Project(context.Background(), 42)
	if !IsKind(err, KindAPI) {
		t.Fatalf("expected api error, got %v", err)
	}
	var ce *Error
	errors.As(err, &ce)
	if ce.Status != http.StatusNotFound || ce.Message != "Project not found" {
		t.Errorf("unexpected error %+v", ce)
	}
}

func TestClient_FailureEnvelopeWith200IsAPIError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"success":false,"message":"nope"}`)
	})
	if _, err := New(srv.URL).Profile(context.Background()); !IsKind(err, KindAPI) {
		t.Errorf("expected api error, got %v", err)
	}
}

func TestClient_NonJSONResponseIsUnknown(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>proxy page</html>")
	})
	if _, err := New(srv.URL).Profile(context.Background()); !IsKind(err, KindUnknown) {
		t.Errorf("expected unknown error, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Profile(context.Background())
	if !IsKind(err, KindTimeout) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestClient_Connectivity(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Profile(context.Background())
	if !IsKind(err, KindConnectivity) {
		t.Errorf("expected connectivity error, got %v", err)
	}
}

func TestClient_LoginCachesToken(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Auth/admin/login":
			writeEnvelope(w, http.StatusOK, `{"success":true,"message":"ok","token":"tok-1","expiresAt":"`+expires.Format(time.RFC3339)+`"}`)
		case "/api/Auth/validate-token":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				writeEnvelope(w, http.StatusUnauthorized, `{"success":false,"message":"Authentication required"}`)
				return
			}
			writeEnvelope(w, http.StatusOK, `{"success":true,"message":"ok","data":{"username":"admin","role":"Admin","method":"token"}}`)
		}
	})

	store := NewMemoryTokenStore()
	c := New(srv.URL, WithTokenStore(store))
	tok, err := c.Login(context.Background(), "admin", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.Value != "tok-1" || !tok.ExpiresAt.Equal(expires) {
		t.Errorf("unexpected token %+v", tok)
	}

	id, err := c.ValidateToken(context.Background())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if id.Username != "admin" || id.Role != "Admin" {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestClient_ValidateTokenClearsRejectedToken(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, `{"success":false,"message":"Invalid or expired credentials"}`)
	})
	store := NewMemoryTokenStore()
	_ = store.Save(Token{Value: "stale"})

	_, err := New(srv.URL, WithTokenStore(store)).ValidateToken(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected token to be cleared, got %v", err)
	}
}

func TestClient_AdminCallWithoutToken(t *testing.T) {
	called := false
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := New(srv.URL).AllProjects(context.Background())
	if !IsUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	if called {
		t.Error("server should not be called without a token")
	}
}

func TestClient_ExpiredTokenNotSent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called with an expired token")
	})
	store := NewMemoryTokenStore()
	_ = store.Save(Token{Value: "old", ExpiresAt: time.Now().Add(-time.Minute)})

	if _, err := New(srv.URL, WithTokenStore(store)).AllArticles(context.Background()); !IsUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestClient_Upload(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Upload/project-thumbnail" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("autoSave") != "true" || r.FormValue("projectId") != "7" {
			t.Errorf("unexpected form %v", r.MultipartForm.Value)
		}
		f, h, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		if h.Filename != "shot.png" || string(b) != "png-bytes" {
			t.Errorf("unexpected file %q %q", h.Filename, b)
		}
		writeEnvelope(w, http.StatusOK, `{"success":true,"message":"File uploaded","data":{"fileName":"abc.png","url":"/uploads/projects/abc.png","saved":true}}`)
	})
	store := NewMemoryTokenStore()
	_ = store.Save(Token{Value: "tok"})

	res, err := New(srv.URL, WithTokenStore(store)).Upload(context.Background(), "project-thumbnail", "shot.png",
		strings.NewReader("png-bytes"), UploadOptions{AutoSave: true, TargetID: 7})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.URL != "/uploads/projects/abc.png" || !res.Saved {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestClient_DownloadCV(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="cv.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4")
	})

	var buf bytes.Buffer
	name, err := New(srv.URL).DownloadCV(context.Background(), &buf)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if name != "cv.pdf" || buf.String() != "%PDF-1.4" {
		t.Errorf("got %q %q", name, buf.String())
	}
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	s := NewFileTokenStore(path)

	if _, err := s.Load(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	want := Token{Value: "abc", Username: "admin", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Value != want.Value || got.Username != want.Username || !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second clear should be a no-op, got %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken after clear, got %v", err)
	}
}

func TestToken_Expired(t *testing.T) {
	now := time.Now()
	if (Token{}).Expired(now) {
		t.Error("token without expiry should not expire")
	}
	if !(Token{ExpiresAt: now}).Expired(now) {
		t.Error("token expiring now should be expired")
	}
	if (Token{ExpiresAt: now.Add(time.Second)}).Expired(now) {
		t.Error("future expiry should not be expired")
	}
}
