package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rorycl/QBOauthTokenClient/strategy"
	"github.com/rorycl/QBOauthTokenClient/token"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, strategy.DefaultScope, c.Scope)
	assert.True(t, c.Sandbox)
	assert.Equal(t, token.IntuitTokenURL, c.TokenURL)
	assert.Equal(t, token.DefaultHTTPTimeout, c.HTTPTimeout)
	assert.Equal(t, token.DefaultExpiryBuffer, c.ExpiryBuffer)
	assert.Equal(t, "127.0.0.1", c.Server.Address)
	assert.Equal(t, "5001", c.Server.Port)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "console", c.Log.Format)

	// client credentials have no defaults
	assert.Error(t, c.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "config.yml", `
client_id: abc
client_secret: def
sandbox: false
http_timeout: 30s
expiry_buffer: 600
server:
  port: "6001"
log:
  level: debug
  format: json
`)
	c, err := Load(path, "")
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "abc", c.ClientID)
	assert.Equal(t, "def", c.ClientSecret)
	assert.False(t, c.Sandbox)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(600), c.ExpiryBuffer)
	assert.Equal(t, "6001", c.Server.Port)
	assert.Equal(t, "127.0.0.1", c.Server.Address)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yml", "client_id: abc\nclient_secret: def\n")
	t.Setenv("QBO_CLIENT_ID", "fromenv")
	t.Setenv("QBO_SERVER_PORT", "7001")
	t.Setenv("QBO_SANDBOX", "false")

	c, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "fromenv", c.ClientID)
	assert.Equal(t, "def", c.ClientSecret)
	assert.Equal(t, "7001", c.Server.Port)
	assert.False(t, c.Sandbox)
}

func TestLoadEnvFile(t *testing.T) {
	// godotenv does not override variables already set, so register
	// cleanup of the variables it sets
	t.Setenv("QBO_CLIENT_ID", "")
	os.Unsetenv("QBO_CLIENT_ID")
	t.Setenv("QBO_CLIENT_SECRET", "")
	os.Unsetenv("QBO_CLIENT_SECRET")

	path := writeFile(t, ".env", "QBO_CLIENT_ID=envfileid\nQBO_CLIENT_SECRET=envfilesecret\n")
	c, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, "envfileid", c.ClientID)
	assert.Equal(t, "envfilesecret", c.ClientSecret)
}

func TestLoadMissingFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), "")
	assert.ErrorContains(t, err, "could not read config file")

	_, err = Load("", filepath.Join(t.TempDir(), "nope.env"))
	assert.ErrorContains(t, err, "could not load env file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ClientID:     "abc",
			ClientSecret: "def",
			HTTPTimeout:  time.Second,
			ExpiryBuffer: 300,
			Log:          Log{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "ok", modify: func(c *Config) {}},
		{name: "no_client", modify: func(c *Config) { c.ClientID = "" }, errMsg: "client_id and client_secret are required"},
		{name: "no_secret", modify: func(c *Config) { c.ClientSecret = "" }, errMsg: "client_id and client_secret are required"},
		{name: "zero_timeout", modify: func(c *Config) { c.HTTPTimeout = 0 }, errMsg: "http_timeout must be positive"},
		{name: "negative_buffer", modify: func(c *Config) { c.ExpiryBuffer = -1 }, errMsg: "expiry_buffer cannot be negative"},
		{name: "bad_format", modify: func(c *Config) { c.Log.Format = "xml" }, errMsg: "log.format"},
		{name: "bad_level", modify: func(c *Config) { c.Log.Level = "loud" }, errMsg: "log.level"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := valid()
			test.modify(c)
			err := c.Validate()
			if test.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, test.errMsg)
		})
	}
}

func TestStrategyOptions(t *testing.T) {
	c := &Config{ClientID: "abc", ClientSecret: "def", Scope: "openid", Sandbox: true, RedirectURI: "http://localhost:5001/callback"}
	assert.Equal(t, strategy.Options{
		ClientID:     "abc",
		ClientSecret: "def",
		Scope:        "openid",
		Sandbox:      true,
		RedirectURI:  "http://localhost:5001/callback",
	}, c.StrategyOptions())
}
