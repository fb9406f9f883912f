// Tiendat | 2026
// main.go

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Tiendat2703/bleen-private/internal/admin"
	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/auth"
	"github.com/Tiendat2703/bleen-private/internal/beneficiary"
	"github.com/Tiendat2703/bleen-private/internal/config"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/health"
	"github.com/Tiendat2703/bleen-private/internal/media"
	"github.com/Tiendat2703/bleen-private/internal/middleware"
	"github.com/Tiendat2703/bleen-private/internal/photo"
	"github.com/Tiendat2703/bleen-private/internal/post"
	"github.com/Tiendat2703/bleen-private/internal/server"
	"github.com/Tiendat2703/bleen-private/internal/stats"
	"github.com/Tiendat2703/bleen-private/internal/storage"
	"github.com/Tiendat2703/bleen-private/internal/user"
)

const drainDelay = 2 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // shutdown path

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redis.Close() //nolint:errcheck // shutdown path

	blobs, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(cfg.JWT.PrivateKeyPath); statErr != nil &&
		!cfg.IsProduction() {
		logger.Warn("signing key not found, generating a development pair",
			"path", cfg.JWT.PrivateKeyPath)
		if err := auth.GenerateKeyPair(
			cfg.JWT.PrivateKeyPath,
			cfg.JWT.PublicKeyPath,
		); err != nil {
			return err
		}
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}

	auditSink := audit.NewSink(
		audit.NewRepository(db.DB),
		cfg.Audit.BufferSize,
		logger,
	)

	validate := validator.New()

	userRepo := user.NewRepository(db.DB)
	userService := user.NewService(
		userRepo, blobs, cfg.Storage, auditSink, logger)
	userHandler := user.NewHandler(userService, validate)

	authService := auth.NewService(
		userRepo, jwtManager, cfg.Admin, cfg.JWT, auditSink, logger)
	authHandler := auth.NewHandler(authService, validate)

	photoService := photo.NewService(
		photo.NewRepository(db.DB),
		blobs,
		cfg.Storage.PhotoBucket,
		cfg.Upload.MaxImageBytes,
		cfg.Upload.MaxBatchFiles,
		auditSink,
		logger,
	)
	photoHandler := photo.NewHandler(photoService, cfg.Upload.MaxImageBytes+1<<20)

	mediaService := media.NewService(
		media.NewRepository(db.DB),
		blobs,
		cfg.Storage.VideoBucket,
		cfg.Storage.VoiceBucket,
		cfg.Upload.MaxVideoBytes,
		cfg.Upload.MaxVoiceBytes,
		auditSink,
		logger,
	)
	mediaHandler := media.NewHandler(mediaService, cfg.Upload.MaxVideoBytes+1<<20)

	postHandler := post.NewHandler(post.NewService(
		post.NewRepository(db.DB), auditSink))

	beneficiaryService := beneficiary.NewService(
		beneficiary.NewRepository(db.DB),
		blobs,
		cfg.Storage.PhotoBucket,
		cfg.Upload.MaxImageBytes,
		auditSink,
		logger,
	)
	beneficiaryHandler := beneficiary.NewHandler(
		beneficiaryService, validate, cfg.Upload.MaxImageBytes+1<<20)

	statsHandler := stats.NewHandler(stats.NewService(
		stats.NewRepository(db.DB)))

	healthHandler := health.NewHandler(db, redis, cfg.App)
	adminHandler := admin.NewHandler(db, redis, auditSink)

	authRL := middleware.NewRateLimiter(
		redis.Client, cfg.RateLimit.Auth, "auth", logger)
	uploadRL := middleware.NewRateLimiter(
		redis.Client, cfg.RateLimit.Upload, "upload", logger)
	generalRL := middleware.NewRateLimiter(
		redis.Client, cfg.RateLimit.General, "general", logger)

	srv := server.New(server.Config{
		Server: cfg.Server,
		CORS:   cfg.CORS,
		Logger: logger,
	})

	authn := middleware.Authenticator(jwtManager)
	owner := middleware.RequireOwner("userId")

	r := srv.Router()

	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRL.Handler)

			r.Post("/admin/login", authHandler.AdminLogin)
			r.Post("/verify-passcode", authHandler.VerifyPasscode)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.With(middleware.RequireAdmin).
					Post("/register", authHandler.Register)
				r.With(middleware.RequireAdmin).
					Post("/reset-passcode", authHandler.ResetPasscode)
				r.With(owner).
					Put("/change-passcode/{userId}", authHandler.ChangePasscode)
			})
		})

		// Resource routes chain rate limiting, then authentication, then
		// ownership, so over-limit callers are refused before any token
		// work happens.
		r.Route("/users", func(r chi.Router) {
			r.Use(generalRL.Handler, authn)

			r.With(middleware.RequireAdmin).Get("/all", userHandler.ListAll)

			r.Route("/{userId}", func(r chi.Router) {
				r.With(owner).Get("/", userHandler.GetProfile)
				r.With(owner).Put("/", userHandler.UpdateProfile)
				r.With(middleware.RequireAdmin).
					Put("/deactivate", userHandler.Deactivate)
				r.With(middleware.RequireAdmin).
					Put("/reactivate", userHandler.Reactivate)
				r.With(middleware.RequireAdmin).
					Delete("/", userHandler.Delete)
			})
		})

		r.Route("/photos/{userId}", func(r chi.Router) {
			r.With(generalRL.Handler, authn, owner).
				Get("/", photoHandler.List)
			r.With(generalRL.Handler, authn, owner).
				Get("/{imageId}", photoHandler.Get)
			r.With(uploadRL.Handler, authn, owner).
				Post("/", photoHandler.Upload)
			r.With(uploadRL.Handler, authn, owner).
				Post("/batch", photoHandler.BatchUpload)
			r.With(generalRL.Handler, authn, owner).
				Put("/{imageId}/position", photoHandler.SetPosition)
			r.With(generalRL.Handler, authn, owner).
				Delete("/{imageId}", photoHandler.Delete)
		})

		r.Route("/videos/{userId}", func(r chi.Router) {
			r.With(generalRL.Handler, authn, owner).
				Get("/", mediaHandler.GetVideo)
			r.With(uploadRL.Handler, authn, owner).
				Put("/", mediaHandler.UpsertVideo)
			r.With(generalRL.Handler, authn, owner).
				Delete("/", mediaHandler.DeleteVideo)
		})

		r.Route("/voices/{userId}", func(r chi.Router) {
			r.With(generalRL.Handler, authn, owner).
				Get("/", mediaHandler.GetVoice)
			r.With(uploadRL.Handler, authn, owner).
				Put("/", mediaHandler.UpsertVoice)
			r.With(generalRL.Handler, authn, owner).
				Delete("/", mediaHandler.DeleteVoice)
		})

		r.Route("/posts/{userId}", func(r chi.Router) {
			r.Use(generalRL.Handler, authn, owner)

			r.Get("/", postHandler.Get)
			r.Put("/", postHandler.Upsert)
			r.Delete("/", postHandler.Delete)
		})

		r.Route("/beneficiaries/{userId}", func(r chi.Router) {
			r.With(generalRL.Handler, authn, owner).
				Get("/", beneficiaryHandler.Slots)
			r.With(generalRL.Handler, authn, owner).
				Put("/{slot}", beneficiaryHandler.Upsert)
			r.With(uploadRL.Handler, authn, owner).
				Post("/{slot}/avatar", beneficiaryHandler.UploadAvatar)
			r.With(generalRL.Handler, authn, owner).
				Delete("/{slot}", beneficiaryHandler.Delete)
		})

		r.With(generalRL.Handler, authn, owner).
			Get("/stats/{userId}", statsHandler.Overview)

		r.Route("/admin", func(r chi.Router) {
			r.Use(generalRL.Handler, authn, middleware.RequireAdmin)

			r.Get("/runtime", adminHandler.Runtime)
			r.Get("/pools", adminHandler.Pools)
		})
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown", "error", err)
	}

	if err := auditSink.Close(shutdownCtx); err != nil {
		logger.Error("audit sink shutdown", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown", "error", err)
	}

	logger.Info("shutdown complete")

	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
