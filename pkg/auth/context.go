package auth

import "context"

type contextKey string

const identityKey contextKey = "identity"

// Methods by which an admin request was authenticated.
const (
	MethodToken  = "token"
	MethodLegacy = "legacy"
)

// Identity is the authenticated admin attached to a request.
type Identity struct {
	AdminID  int64  `json:"adminId,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Method   string `json:"method"`
	TokenID  string `json:"tokenId,omitempty"`
	// ExpiresAt is the token expiry as a Unix timestamp; zero for legacy headers.
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}

// WithIdentity は context に Identity をセットする
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext は context から Identity を取得する
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey).(Identity)
	return v, ok
}
