package token

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of a single token refresh. A successful Result
// always carries an AccessToken and no Error; a failed Result always
// carries an Error and no tokens or expiry. RawResponse holds the
// decoded provider payload whenever a body was received and parsed.
type Result struct {
	Success      bool           `json:"success"`
	AccessToken  string         `json:"access_token,omitempty"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	TokenType    string         `json:"token_type,omitempty"`
	ExpiresAt    *int64         `json:"expires_at,omitempty"`
	ExpiresIn    *int64         `json:"expires_in,omitempty"`
	Error        string         `json:"error,omitempty"`
	RawResponse  map[string]any `json:"raw_response,omitempty"`
}

// Failure is the inverse of Success
func (r *Result) Failure() bool {
	return !r.Success
}

// Expired reports whether the access token in the result should be
// treated as expired, given a buffer in seconds
func (r *Result) Expired(bufferSeconds int64) bool {
	return Expired(r.ExpiresAt, bufferSeconds)
}

// String represents a Result for printing without exposing tokens
func (r *Result) String() string {
	if r.Failure() {
		return fmt.Sprintf("refresh failed: %s", r.Error)
	}
	expiry := "none"
	if r.ExpiresAt != nil {
		expiry = fmt.Sprintf("%d", *r.ExpiresAt)
	}
	return fmt.Sprintf("refresh succeeded: expires_at %s", expiry)
}

// AsJSON returns a json encoding of the result
func (r *Result) AsJSON() ([]byte, error) {
	return json.Marshal(r)
}

func succeeded(accessToken, refreshToken, tokenType string, expiresIn *int64, raw map[string]any) *Result {
	r := &Result{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
		ExpiresIn:    expiresIn,
		RawResponse:  raw,
	}
	if expiresIn != nil {
		at := now().Unix() + *expiresIn
		r.ExpiresAt = &at
	}
	return r
}

func failed(msg string, raw map[string]any) *Result {
	return &Result{
		Success:     false,
		Error:       msg,
		RawResponse: raw,
	}
}
