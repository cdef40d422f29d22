package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/export"
	"github.com/natjungquist/c1-wxautomator-backend/internal/config"
	infraauth "github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/auth"
	httprouter "github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/http"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/http/handlers"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/http/middleware"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/session"
	"github.com/natjungquist/c1-wxautomator-backend/internal/infrastructure/webex"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("validate config")
	}

	webexClient := webex.NewClient(
		webex.WithBaseURL(cfg.Webex.BaseURL),
		webex.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Webex.TimeoutSecs) * time.Second}),
	)

	exportUC := export.NewExportUsers(webexClient, export.Config{
		FailOnErrors: cfg.Webex.FailOnErrors,
		Resolve: export.ResolveConfig{
			InitialInterval: cfg.Webex.ResolveInitial,
			MaxInterval:     cfg.Webex.ResolveMax,
			MaxElapsed:      cfg.Webex.ResolveElapsed,
		},
		AssignWorkers: cfg.Webex.AssignWorkers,
	}, log)

	sessions := session.NewStore(cfg.Session.Secret, cfg.Session.MaxAge, !cfg.Secure.IsDevelopment)
	states := infraauth.NewStateSigner(cfg.OAuth.StateSecret, cfg.OAuth.StateExpiry)
	oauthCfg := infraauth.NewOAuthConfig(cfg.OAuth)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create ip rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))
	corsMiddleware := middleware.CORS(cfg.Secure.AllowedOrigins, nil, nil)

	authHandler := handlers.NewAuthHandler(oauthCfg, states, sessions, webexClient, cfg.OAuth.RedirectURL, log)
	exportHandler := handlers.NewExportHandler(exportUC, log)
	orgHandler := handlers.NewOrgHandler(webexClient, log)

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:    authHandler,
		HealthHandler:  handlers.NewHealthHandler(),
		ExportHandler:  exportHandler,
		OrgHandler:     orgHandler,
		RequireSession: middleware.RequireSession(sessions),
		Log:            log,
		Secure:         secureMiddleware,
		CORS:           corsMiddleware,
		IPRateLimit:    ipLimit,
		Metrics:        true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}
