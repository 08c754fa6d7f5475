package strategy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleUserInfo(t *testing.T) {
	stub := newUserInfoStub(t, http.StatusOK, userInfoString)
	s := newTestStrategy(t, DefaultScope, stub.server.URL, zerolog.Nop())

	req := httptest.NewRequest("GET", "http://127.0.0.1:5001/userinfo?realmId=123145", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	s.HandleUserInfo(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var hash AuthHash
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hash))
	require.NotNil(t, hash.UID)
	assert.Equal(t, "123145", *hash.UID)
	assert.Equal(t, "John Doe", hash.Info["name"])
	assert.Equal(t, map[string]any{"token": "abc", "expires": false}, hash.Credentials)
	assert.Equal(t, "Bearer abc", stub.auth.Load())
}

func TestHandleUserInfoNoRealm(t *testing.T) {
	s := newTestStrategy(t, "com.intuit.quickbooks.accounting", "", zerolog.Nop())

	req := httptest.NewRequest("GET", "http://127.0.0.1:5001/userinfo", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	s.HandleUserInfo(w, req)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	assert.Contains(t, body, "uid")
	assert.Nil(t, body["uid"])
}

func TestHandleUserInfoUnauthorized(t *testing.T) {
	s := newTestStrategy(t, DefaultScope, "", zerolog.Nop())

	for _, header := range []string{"", "Basic abc", "Bearer "} {
		req := httptest.NewRequest("GET", "http://127.0.0.1:5001/userinfo", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		s.HandleUserInfo(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode, "header %q", header)
	}
}
