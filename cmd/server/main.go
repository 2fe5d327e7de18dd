package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/mcp-oauth-broker/auth"
	"github.com/jrsteele09/mcp-oauth-broker/internal/config"
	"github.com/jrsteele09/mcp-oauth-broker/server"
	"github.com/jrsteele09/mcp-oauth-broker/sessions"
	"github.com/jrsteele09/mcp-oauth-broker/sessions/memstore"
	"github.com/jrsteele09/mcp-oauth-broker/sessions/redisstore"
	"github.com/jrsteele09/mcp-oauth-broker/token"
	"github.com/jrsteele09/mcp-oauth-broker/upstream"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	setupLogging(c)
	if err := c.Validate(); err != nil {
		return err
	}
	displayAppname(c.GetAppName())

	ctx := context.Background()
	store, closeStore, err := newStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	handler, err := newHandler(ctx, c, store)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// newStore returns Redis when REDIS_ADDR is set, otherwise an in-process store
// that only suits a single instance.
func newStore(ctx context.Context, c config.Config) (sessions.Store, func(), error) {
	if addr := c.GetRedisAddr(); addr != "" {
		store, err := redisstore.Dial(ctx, addr, c.GetRedisPassword(), c.GetRedisDB(), c.GetRedisKeyPrefix())
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", addr).Msg("Using redis session store")
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Closing redis session store")
			}
		}, nil
	}
	log.Warn().Msg("REDIS_ADDR not set, using in-memory session store")
	return memstore.New(), func() {}, nil
}

func newHandler(ctx context.Context, c config.Config, store sessions.Store) (http.Handler, error) {
	baseURL := strings.TrimRight(c.GetBaseURL(), "/")

	provider, err := upstream.New(ctx, upstream.Config{
		ClientID:     c.GetUpstreamClientID(),
		ClientSecret: c.GetUpstreamClientSecret(),
		RedirectURL:  baseURL + server.RouteOAuthCallback,
		Scopes:       c.GetUpstreamScopes(),
		Issuer:       c.GetUpstreamIssuer(),
		AuthURL:      c.GetUpstreamAuthURL(),
		TokenURL:     c.GetUpstreamTokenURL(),
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.New(token.NewHMACSigner(c.GetJWTSecret()), baseURL,
		token.WithAccessTokenExpiry(c.GetAccessTokenExpiry()))
	if err != nil {
		return nil, err
	}

	broker, err := auth.NewBroker(sessions.NewRepo(store), provider, tokens,
		auth.WithLifetimes(c.GetSessionTTL(), c.GetAuthCodeTTL()),
		auth.WithScope(c.GetAccessTokenScope()),
		auth.WithIDGenerator(auth.NewRandomIDGenerator(c.GetCodeGenerationLength())),
	)
	if err != nil {
		return nil, err
	}

	srv, err := server.New(c, broker, tokens)
	if err != nil {
		return nil, err
	}
	return srv, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
