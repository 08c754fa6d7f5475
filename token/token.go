package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// IntuitTokenURL is the Intuit OAuth2 bearer token endpoint
const IntuitTokenURL string = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"

// DefaultHTTPTimeout is the timeout applied to the default http client.
// Callers supplying their own client via WithHTTPClient own its timeout.
const DefaultHTTPTimeout = 10 * time.Second

// Client refreshes Intuit OAuth2 tokens. It holds only configuration set
// at construction and is safe for concurrent use.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	expiryBuffer int64
	httpClient   *http.Client
	log          zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTokenURL overrides the Intuit token endpoint
func WithTokenURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.tokenURL = u
		}
	}
}

// WithHTTPClient sets the http client used for token requests
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the timeout of the default http client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithExpiryBuffer sets the buffer in seconds used by HandleExpired when
// the request does not supply one
func WithExpiryBuffer(secs int64) Option {
	return func(c *Client) {
		c.expiryBuffer = secs
	}
}

// WithLogger sets the logger; the default discards output
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient returns a new Client for the given application credentials
func NewClient(clientID, clientSecret string, opts ...Option) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("client id or secret is empty")
	}
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     IntuitTokenURL,
		expiryBuffer: DefaultExpiryBuffer,
		httpClient:   &http.Client{Timeout: DefaultHTTPTimeout},
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := url.ParseRequestURI(c.tokenURL); err != nil {
		return nil, fmt.Errorf("token url invalid: %w", err)
	}
	return c, nil
}

// encodeIDSecret encodes the client id and secret into a "Basic"
// string suitable for an authorization header
func (c *Client) encodeIDSecret() string {
	s := c.clientID + ":" + c.clientSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(s))
}

// RefreshToken exchanges refreshToken for a new access token. It makes a
// single request and never returns an error: every failure is reported
// in the Result.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) *Result {

	if refreshToken == "" {
		return failed("Refresh token is required", nil)
	}

	form := url.Values{}
	form.Add("grant_type", "refresh_token")
	form.Add("refresh_token", refreshToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return failed("Unexpected error: "+err.Error(), nil)
	}
	req.Header.Add("Authorization", c.encodeIDSecret())
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")

	c.log.Debug().Str("url", c.tokenURL).Msg("refreshing token")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("token refresh request failed")
		return failed("Network error: "+transportMessage(err), nil)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn().Err(err).Msg("token refresh body read failed")
		return failed("Network error: "+err.Error(), nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := newHTTPClientError(resp.StatusCode, body)
		c.log.Warn().Int("status", e.StatusCode()).Str("reason", e.Message()).Msg("token refresh rejected")
		return failed(e.Message(), e.raw)
	}

	return parseTokenResponse(body)
}

// parseTokenResponse converts a 2xx token endpoint body into a Result
func parseTokenResponse(body []byte) *Result {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return failed("Invalid JSON response: "+err.Error(), nil)
	}
	if payload == nil {
		return failed("Invalid JSON response: expected an object", nil)
	}

	accessToken, ok := stringField(payload, "access_token")
	if !ok {
		return failed("Unexpected error: access_token missing from response", payload)
	}
	refreshToken, _ := stringField(payload, "refresh_token")
	tokenType, _ := stringField(payload, "token_type")

	var expiresIn *int64
	if n, ok := intField(payload, "expires_in"); ok {
		expiresIn = &n
	}
	return succeeded(accessToken, refreshToken, tokenType, expiresIn, payload)
}

// transportMessage strips the method and url that net/http adds to
// transport errors
func transportMessage(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}

func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// intField coerces a json number or numeric string to an integer
func intField(m map[string]any, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
