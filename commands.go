package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/braintree/manners"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rorycl/QBOauthTokenClient/config"
	"github.com/rorycl/QBOauthTokenClient/logging"
	"github.com/rorycl/QBOauthTokenClient/strategy"
	"github.com/rorycl/QBOauthTokenClient/token"
)

// stdout and stderr are replaced in tests
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// setup loads and validates the configuration and builds the logger
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(options.Config, options.EnvFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if options.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Format, stderr), nil
}

func newClient(cfg *config.Config, log zerolog.Logger) (*token.Client, error) {
	return token.NewClient(
		cfg.ClientID,
		cfg.ClientSecret,
		token.WithTokenURL(cfg.TokenURL),
		token.WithTimeout(cfg.HTTPTimeout),
		token.WithExpiryBuffer(cfg.ExpiryBuffer),
		token.WithLogger(log.With().Str("component", "token").Logger()),
	)
}

func newStrategy(cfg *config.Config, log zerolog.Logger) (*strategy.Strategy, error) {
	return strategy.New(
		cfg.StrategyOptions(),
		strategy.WithUserInfoURL(cfg.UserInfoURL),
		strategy.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		strategy.WithLogger(log.With().Str("component", "strategy").Logger()),
	)
}

// recoveryLogger adapts zerolog to the gorilla recovery handler
type recoveryLogger struct {
	log zerolog.Logger
}

func (r recoveryLogger) Println(v ...interface{}) {
	r.log.Error().Msg(fmt.Sprint(v...))
}

// newRouter routes the sidecar endpoints, wrapped in a recovery handler
// and logging handler
func newRouter(client *token.Client, strat *strategy.Strategy, log zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/refresh", client.HandleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/expired", client.HandleExpired).Methods(http.MethodGet)
	r.HandleFunc("/userinfo", strat.HandleUserInfo).Methods(http.MethodGet)
	r.HandleFunc("/livez", client.HandleLivez)

	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log}))(
		handlers.LoggingHandler(log, r))
}

// serveCommand runs the sidecar server
type serveCommand struct {
	Port string `short:"p" long:"port" description:"port to run on (overrides server.port)"`
	Addr string `short:"n" long:"address" description:"network address to run on (overrides server.address)"`
}

func (s *serveCommand) Execute(args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if s.Port != "" {
		cfg.Server.Port = s.Port
	}
	if s.Addr != "" {
		cfg.Server.Address = s.Addr
	}

	client, err := newClient(cfg, log)
	if err != nil {
		return fmt.Errorf("new token client error: %w", err)
	}
	strat, err := newStrategy(cfg, log)
	if err != nil {
		return fmt.Errorf("new strategy error: %w", err)
	}

	addr := cfg.Server.Address + ":" + cfg.Server.Port
	server := manners.NewWithServer(&http.Server{
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 5*time.Second,
		Handler:      newRouter(client, strat, log),
	})

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go listenForShutdown(ch, server, log)

	log.Info().Str("addr", addr).Bool("sandbox", cfg.Sandbox).Msg("serving")
	return server.ListenAndServe()
}

func listenForShutdown(ch <-chan os.Signal, server *manners.GracefulServer, log zerolog.Logger) {
	<-ch
	log.Info().Msg("closing the server")
	server.Close()
}

// refreshCommand refreshes a token from the command line
type refreshCommand struct {
	Args struct {
		RefreshToken string `positional-arg-name:"refresh_token" description:"the refresh token to exchange"`
	} `positional-args:"yes" required:"yes"`
}

func (c *refreshCommand) Execute(args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	client, err := newClient(cfg, log)
	if err != nil {
		return fmt.Errorf("new token client error: %w", err)
	}

	result := client.RefreshToken(context.Background(), c.Args.RefreshToken)
	j, err := result.AsJSON()
	if err != nil {
		return fmt.Errorf("result json encoding error: %w", err)
	}
	fmt.Fprintln(stdout, string(j))
	if result.Failure() {
		return fmt.Errorf("refresh failed: %s", result.Error)
	}
	return nil
}

// expiredCommand reports whether an expiry time is within the buffer
type expiredCommand struct {
	Buffer int64 `short:"b" long:"buffer" description:"seconds before expiry to treat as expired" default:"300"`
	Args   struct {
		ExpiresAt string `positional-arg-name:"expires_at" description:"unix expiry time; absent is always expired"`
	} `positional-args:"yes"`
}

func (c *expiredCommand) Execute(args []string) error {
	var expiresAt *int64
	if c.Args.ExpiresAt != "" {
		v, err := strconv.ParseInt(c.Args.ExpiresAt, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid expires_at %q: %w", c.Args.ExpiresAt, err)
		}
		expiresAt = &v
	}
	fmt.Fprintln(stdout, token.Expired(expiresAt, c.Buffer))
	return nil
}
