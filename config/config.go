// Package config loads the token client configuration from defaults, an
// optional yaml file, an optional .env file and QBO_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rorycl/QBOauthTokenClient/strategy"
	"github.com/rorycl/QBOauthTokenClient/token"
)

// EnvPrefix prefixes environment variables, e.g. QBO_CLIENT_ID
const EnvPrefix = "QBO"

// Server configures the sidecar http server
type Server struct {
	Address string `mapstructure:"address"`
	Port    string `mapstructure:"port"`
}

// Log configures logging
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the complete configuration
type Config struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Scope        string        `mapstructure:"scope"`
	Sandbox      bool          `mapstructure:"sandbox"`
	RedirectURI  string        `mapstructure:"redirect_uri"`
	TokenURL     string        `mapstructure:"token_url"`
	UserInfoURL  string        `mapstructure:"userinfo_url"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	ExpiryBuffer int64         `mapstructure:"expiry_buffer"`
	Server       Server        `mapstructure:"server"`
	Log          Log           `mapstructure:"log"`
}

// keys lists every configuration key so that each can be bound to its
// environment variable; viper's AutomaticEnv alone does not populate
// Unmarshal for keys without a default
var keys = []string{
	"client_id", "client_secret", "scope", "sandbox", "redirect_uri",
	"token_url", "userinfo_url", "http_timeout", "expiry_buffer",
	"server.address", "server.port", "log.level", "log.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scope", strategy.DefaultScope)
	v.SetDefault("sandbox", true)
	v.SetDefault("redirect_uri", "")
	v.SetDefault("token_url", token.IntuitTokenURL)
	v.SetDefault("userinfo_url", "")
	v.SetDefault("http_timeout", token.DefaultHTTPTimeout)
	v.SetDefault("expiry_buffer", token.DefaultExpiryBuffer)
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", "5001")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads the configuration. configFile and envFile are optional; an
// explicitly named file that cannot be read is an error.
func Load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("could not load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", configFile, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	return &c, nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return errors.New("client_id and client_secret are required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive (got: %s)", c.HTTPTimeout)
	}
	if c.ExpiryBuffer < 0 {
		return fmt.Errorf("expiry_buffer cannot be negative (got: %d)", c.ExpiryBuffer)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be one of [console json] (got: %s)", c.Log.Format)
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of [trace debug info warn error] (got: %s)", c.Log.Level)
	}
	return nil
}

// StrategyOptions converts the configuration to strategy options
func (c *Config) StrategyOptions() strategy.Options {
	return strategy.Options{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scope:        c.Scope,
		Sandbox:      c.Sandbox,
		RedirectURI:  c.RedirectURI,
	}
}
