package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/accounts"
	"resume-tailor/internal/analyses"
	"resume-tailor/internal/analyzer"
	"resume-tailor/internal/analyzer/webhook"
	"resume-tailor/internal/auth"
	"resume-tailor/internal/feedback"
	"resume-tailor/internal/profiles"
	"resume-tailor/internal/services/health"
	sharedauth "resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/storage/db"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/tracker"
	"resume-tailor/internal/users"
)

// App holds the wired services and the HTTP router.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Signer   *sharedauth.Signer
	Analyzer analyzer.Client

	AccountsService *accounts.Service
	TrackerService  *tracker.Service
	AnalysesService *analyses.Service
	Gate            *analyses.Gate
	UsersService    *users.Service
	FeedbackService *feedback.Service
	ProfilesService *profiles.Service
	EmailAuth       *auth.EmailService
	GoogleAuth      *auth.GoogleService
	RateLimiter     *middleware.RateLimiter
}

type repos struct {
	accounts *accounts.Service
	tracker  tracker.Repo
	analyses analyses.Repo
	users    users.Repo
	feedback feedback.Repo
	profiles profiles.Repo
	tokens   auth.TokenStore
}

// Build wires every dependency. Postgres backs the repositories when a
// database is configured; dev environments fall back to memory.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	signer, err := sharedauth.NewSigner(cfg.JWTSecret, cfg.Env == "production")
	if err != nil {
		return nil, err
	}

	client, err := buildAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	r := buildRepos(sqlDB, cfg)
	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Signer:      signer,
		Analyzer:    client,
		RateLimiter: middleware.NewRateLimiter(nil),
	}

	app.TrackerService = tracker.NewService(r.tracker)
	app.AccountsService = r.accounts
	app.AccountsService.Tracked = app.TrackerService
	app.AnalysesService = &analyses.Service{Repo: r.analyses}
	app.Gate = &analyses.Gate{
		Credits:      app.AccountsService,
		Applications: app.TrackerService,
		Analyzer:     client,
		Results:      app.AnalysesService,
		Cost:         cfg.AnalysisCreditCost,
	}
	app.UsersService = users.NewService(r.users)
	app.FeedbackService = feedback.NewService(r.feedback)
	app.ProfilesService = profiles.NewService(r.profiles)

	signIn := &auth.SignIn{Users: app.UsersService, Accounts: app.AccountsService, Signer: signer}
	app.EmailAuth = &auth.EmailService{
		Tokens:     r.tokens,
		Mailer:     auth.LogMailer{From: cfg.EmailFrom, ShowLink: cfg.IsDev()},
		SignIn:     signIn,
		BaseURL:    cfg.AppBaseURL,
		UIRedirect: cfg.UIRedirectURL,
		TTL:        cfg.MagicLinkTTL,
	}
	app.GoogleAuth = auth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		signIn,
	)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Verifier:          signer,
		IsAnalysisRequest: analyses.IsAnalysisRequest,
		Limiter:           app.RateLimiter,
		Health:            health.NewService(pingerOrNil(sqlDB)),
		Handlers: []server.Routes{
			app.EmailAuth,
			app.GoogleAuth,
			users.NewHandler(app.UsersService),
			accounts.NewHandler(app.AccountsService),
			tracker.NewHandler(app.TrackerService),
			analyses.NewHandler(app.Gate, app.AnalysesService, cfg.AnalysisCallbackKey),
			feedback.NewHandler(app.FeedbackService),
			profiles.NewHandler(app.ProfilesService),
		},
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// pingerOrNil avoids wrapping a nil *sql.DB in a non-nil interface.
func pingerOrNil(sqlDB *sql.DB) health.Pinger {
	if sqlDB == nil {
		return nil
	}
	return sqlDB
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDev() {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDev() {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if cfg.IsDev() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildAnalyzer(cfg config.Config) (analyzer.Client, error) {
	if strings.TrimSpace(cfg.AnalysisWebhookURL) == "" {
		telemetry.Warn("bootstrap.analyzer_unconfigured", map[string]any{"reason": "ANALYSIS_WEBHOOK_URL empty"})
		return analyzer.Unconfigured, nil
	}
	client, err := webhook.New(webhook.Options{
		URL:                 cfg.AnalysisWebhookURL,
		Timeout:             cfg.AnalysisTimeout,
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerTimeout:      cfg.BreakerTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis webhook: %w", err)
	}
	return client, nil
}

func buildRepos(sqlDB *sql.DB, cfg config.Config) repos {
	if sqlDB != nil {
		return repos{
			accounts: accounts.NewPostgresService(sqlDB, cfg.StarterCredits),
			tracker:  &tracker.PGRepo{DB: sqlDB},
			analyses: &analyses.PGRepo{DB: sqlDB},
			users:    &users.PGRepo{DB: sqlDB},
			feedback: &feedback.PGRepo{DB: sqlDB},
			profiles: &profiles.PGRepo{DB: sqlDB},
			tokens:   &auth.PGTokenStore{DB: sqlDB},
		}
	}
	return repos{
		accounts: accounts.NewService(cfg.StarterCredits),
		tracker:  tracker.NewMemoryRepo(),
		analyses: analyses.NewMemoryRepo(),
		users:    users.NewMemoryRepo(),
		feedback: feedback.NewMemoryRepo(),
		profiles: profiles.NewMemoryRepo(),
		tokens:   auth.NewMemoryTokenStore(),
	}
}
