package strategy

import (
	"errors"
	"strings"
)

// DefaultScope is the scope requested when none is configured
const DefaultScope = "com.intuit.quickbooks.accounting openid profile email"

// Userinfo endpoint hosts and path
const (
	SandboxUserInfoHost    = "sandbox-accounts.platform.intuit.com"
	ProductionUserInfoHost = "accounts.platform.intuit.com"
	UserInfoPath           = "/v1/openid_connect/userinfo"
)

// Options configures the authentication strategy.
//
// Scope defaults to DefaultScope and Sandbox defaults to true; use
// DefaultOptions to obtain these defaults. RedirectURI may be left empty,
// in which case the hosting middleware derives it from the request.
// ClientID and ClientSecret are required.
type Options struct {
	ClientID     string
	ClientSecret string
	Scope        string
	Sandbox      bool
	RedirectURI  string
}

// DefaultOptions returns Options holding the documented defaults
func DefaultOptions() Options {
	return Options{
		Scope:   DefaultScope,
		Sandbox: true,
	}
}

// Validate checks the required fields
func (o Options) Validate() error {
	if o.ClientID == "" || o.ClientSecret == "" {
		return errors.New("client id or secret is empty")
	}
	return nil
}

// UserInfoURL is the userinfo endpoint for the configured environment
func (o Options) UserInfoURL() string {
	host := ProductionUserInfoHost
	if o.Sandbox {
		host = SandboxUserInfoHost
	}
	return "https://" + host + UserInfoPath
}

// ScopeRequested reports whether name is one of the whitespace separated
// tokens in scope. Matching is by whole token, so "openidconnect" does not
// match "openid".
func ScopeRequested(scope, name string) bool {
	for _, s := range strings.Fields(scope) {
		if s == name {
			return true
		}
	}
	return false
}
