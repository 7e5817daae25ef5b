package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
)

// ErrUnauthorized is returned by Gate.Authorize when no credential is accepted.
var ErrUnauthorized = errors.New("unauthorized")

// TokenValidator validates bearer tokens. *TokenManager implements it.
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// LegacyVerifier checks a username/password pair and returns the admin id.
type LegacyVerifier interface {
	VerifyLegacy(ctx context.Context, username, password string) (int64, error)
}

// LegacyVerifierFunc adapts a function to LegacyVerifier.
type LegacyVerifierFunc func(ctx context.Context, username, password string) (int64, error)

func (f LegacyVerifierFunc) VerifyLegacy(ctx context.Context, username, password string) (int64, error) {
	return f(ctx, username, password)
}

// Observer is notified of every authorization decision. Optional.
type Observer func(method string, accepted bool)

// Gate decides whether a request comes from an admin.
type Gate struct {
	tokens   TokenValidator
	legacy   LegacyVerifier
	observer Observer
}

// NewGate creates a Gate. legacy may be nil to disable header credentials.
func NewGate(tokens TokenValidator, legacy LegacyVerifier) *Gate {
	return &Gate{tokens: tokens, legacy: legacy}
}

// WithObserver sets a callback for authorization outcomes and returns g.
func (g *Gate) WithObserver(o Observer) *Gate {
	g.observer = o
	return g
}

// Authorize walks creds in order and accepts the first valid one.
// An invalid bearer token falls through to the legacy headers.
func (g *Gate) Authorize(ctx context.Context, creds []Credential) (Identity, error) {
	for _, c := range creds {
		switch c := c.(type) {
		case BearerToken:
			claims, err := g.tokens.Validate(c.Token)
			if err != nil || claims.Role != RoleAdmin {
				g.observe(MethodToken, false)
				continue
			}
			g.observe(MethodToken, true)
			id := Identity{
				Username: claims.Username,
				Role:     claims.Role,
				Method:   MethodToken,
				TokenID:  claims.ID,
			}
			if claims.ExpiresAt != nil {
				id.ExpiresAt = claims.ExpiresAt.Unix()
			}
			return id, nil
		case HeaderCredentials:
			if g.legacy == nil {
				continue
			}
			adminID, err := g.legacy.VerifyLegacy(ctx, c.Username, c.Password)
			if err != nil {
				g.observe(MethodLegacy, false)
				continue
			}
			g.observe(MethodLegacy, true)
			return Identity{
				AdminID:  adminID,
				Username: c.Username,
				Role:     RoleAdmin,
				Method:   MethodLegacy,
			}, nil
		}
	}
	return Identity{}, ErrUnauthorized
}

func (g *Gate) observe(method string, accepted bool) {
	if g.observer != nil {
		g.observer(method, accepted)
	}
}

// RequireAdmin は管理者認証必須ミドルウェア。Identity を context にセットする
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := ExtractCredentials(r)
		if len(creds) == 0 {
			writeUnauthorized(w, "Authentication required")
			return
		}
		id, err := g.Authorize(r.Context(), creds)
		if err != nil {
			slog.Warn("admin authorization rejected", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			writeUnauthorized(w, "Invalid or expired credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
