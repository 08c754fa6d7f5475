package strategy

import (
	"net/http"

	"github.com/rorycl/QBOauthTokenClient/token"
)

// AccessToken is an access token surfaced by the authorization code
// exchange, or by a later refresh
type AccessToken struct {
	Token        string
	RefreshToken string
	ExpiresAt    *int64
}

// FromResult converts a successful refresh Result into an AccessToken
func FromResult(r *token.Result) AccessToken {
	return AccessToken{
		Token:        r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
	}
}

// Expires reports whether the token carries an expiry
func (t AccessToken) Expires() bool {
	return t.ExpiresAt != nil
}

// SetAuthHeader authorizes r with the token as a bearer credential
func (t AccessToken) SetAuthHeader(r *http.Request) {
	r.Header.Set("Authorization", "Bearer "+t.Token)
}

// Credentials returns the credentials mapping. refresh_token and
// expires_at are left out entirely when absent, never set to nil.
func (t AccessToken) Credentials() map[string]any {
	c := map[string]any{
		"token":   t.Token,
		"expires": t.Expires(),
	}
	if t.RefreshToken != "" {
		c["refresh_token"] = t.RefreshToken
	}
	if t.ExpiresAt != nil {
		c["expires_at"] = *t.ExpiresAt
	}
	return c
}
