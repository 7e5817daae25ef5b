// Package client is a Go client for the bio site API. Every call is bounded by
// a fixed timeout and fails with a classified *Error.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 10 * time.Second

// Client は API への HTTP クライアント
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tokens     TokenStore
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTokenStore sets where the admin token is cached. Defaults to memory.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New は baseURL（例: http://localhost:8080）に向けたクライアントを作る
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		tokens:     NewMemoryTokenStore(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope は API 共通のレスポンス形式
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Errors    []string        `json:"errors"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	admin       bool
}

// do は 1 回の API 呼び出しを行い、envelope を返す。
// out が nil でなければ data をデコードする
func (c *Client) do(ctx context.Context, req request, out any) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.admin {
		tok, err := c.tokens.Load()
		if err != nil {
			return nil, &Error{Kind: KindAPI, Status: http.StatusUnauthorized, Message: "not logged in", Err: err}
		}
		if tok.Expired(c.now()) {
			return nil, &Error{Kind: KindAPI, Status: http.StatusUnauthorized, Message: "cached token has expired"}
		}
		httpReq.Header.Set("Authorization", "Bearer "+tok.Value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &Error{Kind: KindAPI, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: "response is not a JSON envelope", Err: err}
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{Kind: KindAPI, Status: resp.StatusCode, Message: msg, Errors: env.Errors}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: "decode response data", Err: err}
		}
	}
	return &env, nil
}

func (c *Client) get(ctx context.Context, path string, admin bool, out any) error {
	_, err := c.do(ctx, request{method: http.MethodGet, path: path, admin: admin}, out)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, admin bool, in, out any) (*envelope, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(b),
		contentType: "application/json",
		admin:       admin,
	}, out)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

// Login は管理者ログインを行い、取得したトークンを TokenStore に保存する
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	env, err := c.send(ctx, http.MethodPost, "/api/Auth/admin/login", false,
		map[string]string{"username": username, "password": password}, nil)
	if err != nil {
		return Token{}, err
	}
	if env.Token == "" {
		return Token{}, &Error{Kind: KindUnknown, Message: "login response carried no token"}
	}
	tok := Token{Value: env.Token, Username: username, ExpiresAt: env.ExpiresAt}
	if err := c.tokens.Save(tok); err != nil {
		return Token{}, fmt.Errorf("cache token: %w", err)
	}
	return tok, nil
}

// Logout はキャッシュ済みトークンを破棄する。サーバー側の状態はない
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// ValidateToken checks the cached token with the server. A 401 clears the cache.
func (c *Client) ValidateToken(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.get(ctx, "/api/Auth/validate-token", true, &id); err != nil {
		if IsUnauthorized(err) {
			_ = c.tokens.Clear()
		}
		return nil, err
	}
	return &id, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	_, err := c.send(ctx, http.MethodPost, "/api/Auth/change-password", true,
		map[string]string{"currentPassword": current, "newPassword": next}, nil)
	return err
}

// ---------------------------------------------------------------------------
// Public content
// ---------------------------------------------------------------------------

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, "/api/SiteConfiguration/public", false, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ContactInfo(ctx context.Context) (*ContactInfo, error) {
	var ci ContactInfo
	if err := c.get(ctx, "/api/SiteConfiguration/contact", false, &ci); err != nil {
		return nil, err
	}
	return &ci, nil
}

// RegisterView records a site visit and returns the current counter.
func (c *Client) RegisterView(ctx context.Context) (int, error) {
	var v struct {
		ViewCount int `json:"viewCount"`
	}
	if _, err := c.do(ctx, request{method: http.MethodPost, path: "/api/SiteConfiguration/view"}, &v); err != nil {
		return 0, err
	}
	return v.ViewCount, nil
}

func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var ps []Project
	if err := c.get(ctx, "/api/Project", false, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *Client) Project(ctx context.Context, id int64) (*Project, error) {
	var p Project
	if err := c.get(ctx, "/api/Project/"+strconv.FormatInt(id, 10), false, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var cs []Category
	if err := c.get(ctx, "/api/Category", false, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// Articles returns published articles, optionally limited to one category.
func (c *Client) Articles(ctx context.Context, categoryID int64) ([]Article, error) {
	path := "/api/Article"
	if categoryID > 0 {
		path = "/api/Article/category/" + strconv.FormatInt(categoryID, 10)
	}
	var as []Article
	if err := c.get(ctx, path, false, &as); err != nil {
		return nil, err
	}
	return as, nil
}

func (c *Client) Article(ctx context.Context, id int64) (*Article, error) {
	var a Article
	if err := c.get(ctx, "/api/Article/"+strconv.FormatInt(id, 10), false, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) SubmitContact(ctx context.Context, msg ContactMessage) error {
	_, err := c.send(ctx, http.MethodPost, "/api/Contact", false, msg, nil)
	return err
}

// ---------------------------------------------------------------------------
// Admin
// ---------------------------------------------------------------------------

// AllProjects includes unpublished projects.
func (c *Client) AllProjects(ctx context.Context) ([]Project, error) {
	var ps []Project
	if err := c.get(ctx, "/api/Project/admin", true, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// AllArticles includes drafts.
func (c *Client) AllArticles(ctx context.Context) ([]Article, error) {
	var as []Article
	if err := c.get(ctx, "/api/Article/admin", true, &as); err != nil {
		return nil, err
	}
	return as, nil
}

func (c *Client) UnreadContactCount(ctx context.Context) (int, error) {
	var v struct {
		UnreadCount int `json:"unreadCount"`
	}
	if err := c.get(ctx, "/api/Contact/unread-count", true, &v); err != nil {
		return 0, err
	}
	return v.UnreadCount, nil
}

// UploadOptions are the optional form fields of an upload.
type UploadOptions struct {
	// AutoSave also stores the URL on the owning record.
	AutoSave bool
	// TargetID is the project or article id for thumbnail uploads.
	TargetID int64
}

// Upload sends one file to /api/Upload/{kind}. kind is avatar, cv,
// project-thumbnail or article-thumbnail.
func (c *Client) Upload(ctx context.Context, kind, fileName string, r io.Reader, opts UploadOptions) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if opts.AutoSave {
		_ = mw.WriteField("autoSave", "true")
	}
	if opts.TargetID > 0 {
		field := "projectId"
		if kind == "article-thumbnail" {
			field = "articleId"
		}
		_ = mw.WriteField(field, strconv.FormatInt(opts.TargetID, 10))
	}
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, &Error{Kind: KindUnknown, Err: fmt.Errorf("read %s: %w", fileName, err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Kind: KindUnknown, Err: err}
	}

	var res UploadResult
	_, err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/Upload/" + url.PathEscape(kind),
		body:        &buf,
		contentType: mw.FormDataContentType(),
		admin:       true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DownloadCV streams the CV to w and returns the server-provided file name.
func (c *Client) DownloadCV(ctx context.Context, w io.Writer) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/Upload/cv/download", nil)
	if err != nil {
		return "", &Error{Kind: KindUnknown, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var env envelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &Error{Kind: KindAPI, Status: resp.StatusCode, Message: msg}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &Error{Kind: KindTimeout, Err: err}
		}
		return "", classifyTransport(err)
	}
	return fileNameFromDisposition(resp.Header.Get("Content-Disposition")), nil
}

func fileNameFromDisposition(cd string) string {
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return params["filename"]
}
