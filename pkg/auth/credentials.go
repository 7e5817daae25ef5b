package auth

import (
	"net/http"
	"strings"
)

// Legacy admin headers accepted when no valid bearer token is presented.
const (
	HeaderAdminUsername = "X-Admin-Username"
	HeaderAdminPassword = "X-Admin-Password"
)

// Credential is one piece of evidence extracted from a request.
// Implementations are BearerToken and HeaderCredentials.
type Credential interface {
	credential()
}

// BearerToken comes from "Authorization: Bearer <token>".
type BearerToken struct {
	Token string
}

// HeaderCredentials come from the legacy username/password headers.
type HeaderCredentials struct {
	Username string
	Password string
}

func (BearerToken) credential()       {}
func (HeaderCredentials) credential() {}

// ExtractCredentials returns the credentials on r in the order they are
// tried: the bearer token first, then the legacy headers. An empty result
// means the request carries none.
func ExtractCredentials(r *http.Request) []Credential {
	var creds []Credential
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		creds = append(creds, BearerToken{Token: token})
	}
	username := r.Header.Get(HeaderAdminUsername)
	password := r.Header.Get(HeaderAdminPassword)
	if username != "" && password != "" {
		creds = append(creds, HeaderCredentials{Username: username, Password: password})
	}
	return creds
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
