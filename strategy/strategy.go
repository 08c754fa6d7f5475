/*
Package strategy is the QuickBooks side of an OAuth2 authentication
strategy. The hosting middleware performs the authorization code exchange;
this package turns the resulting access token and realmId into the uid,
info, credentials and extra values the middleware exposes, fetching the
OpenID Connect userinfo profile when the openid scope was requested.
*/
package strategy

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Name is the provider name reported in an AuthHash
const Name = "quickbooks"

// Strategy holds the configuration shared by authentication flows. It
// is not modified after New and may be shared between goroutines; each
// authentication gets its own Flow.
type Strategy struct {
	opts        Options
	userInfoURL string
	httpClient  *http.Client
	log         zerolog.Logger
}

// Option configures a Strategy
type Option func(*Strategy)

// WithUserInfoURL overrides the environment's userinfo endpoint
func WithUserInfoURL(u string) Option {
	return func(s *Strategy) {
		if u != "" {
			s.userInfoURL = u
		}
	}
}

// WithHTTPClient sets the http client used for userinfo requests
func WithHTTPClient(h *http.Client) Option {
	return func(s *Strategy) {
		if h != nil {
			s.httpClient = h
		}
	}
}

// WithLogger sets the logger; the default discards output
func WithLogger(l zerolog.Logger) Option {
	return func(s *Strategy) {
		s.log = l
	}
}

// New returns a Strategy for opts
func New(opts Options, options ...Option) (*Strategy, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s := &Strategy{
		opts:        opts,
		userInfoURL: opts.UserInfoURL(),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		log:         zerolog.Nop(),
	}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

// Options returns the strategy configuration
func (s *Strategy) Options() Options {
	return s.opts
}

// OpenIDRequested reports whether the configured scope includes openid
func (s *Strategy) OpenIDRequested() bool {
	return ScopeRequested(s.opts.Scope, "openid")
}

// NewFlow starts a flow for one authentication. realmID is the realmId
// request parameter returned with the authorization code, and may be
// empty.
func (s *Strategy) NewFlow(accessToken AccessToken, realmID string) *Flow {
	return newFlow(s, accessToken, realmID)
}
