package strategy

import (
	"net/http/httptest"
	"testing"

	"github.com/rorycl/QBOauthTokenClient/token"
	"github.com/stretchr/testify/assert"
)

func TestCredentials(t *testing.T) {
	expiry := int64(1_700_003_600)

	tests := []struct {
		name  string
		token AccessToken
		want  map[string]any
	}{
		{
			name:  "full",
			token: AccessToken{Token: "A", RefreshToken: "R", ExpiresAt: &expiry},
			want:  map[string]any{"token": "A", "refresh_token": "R", "expires_at": expiry, "expires": true},
		},
		{
			name:  "no_refresh_token",
			token: AccessToken{Token: "A", ExpiresAt: &expiry},
			want:  map[string]any{"token": "A", "expires_at": expiry, "expires": true},
		},
		{
			name:  "no_expiry",
			token: AccessToken{Token: "A", RefreshToken: "R"},
			want:  map[string]any{"token": "A", "refresh_token": "R", "expires": false},
		},
		{
			name:  "token_only",
			token: AccessToken{Token: "A"},
			want:  map[string]any{"token": "A", "expires": false},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.token.Credentials()
			assert.Equal(t, test.want, got)
			if test.token.RefreshToken == "" {
				assert.NotContains(t, got, "refresh_token")
			}
			if test.token.ExpiresAt == nil {
				assert.NotContains(t, got, "expires_at")
			}
		})
	}
}

func TestFromResult(t *testing.T) {
	expiry := int64(42)
	at := FromResult(&token.Result{Success: true, AccessToken: "A", RefreshToken: "R", ExpiresAt: &expiry})
	assert.Equal(t, AccessToken{Token: "A", RefreshToken: "R", ExpiresAt: &expiry}, at)
	assert.True(t, at.Expires())
}

func TestSetAuthHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com/", nil)
	AccessToken{Token: "abc"}.SetAuthHeader(req)
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
}
