package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipebook/config"
	"recipebook/logger"
	"recipebook/middlewares"
	"recipebook/routes"
	"recipebook/services"
	"recipebook/views"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "recipebook",
		Short:         "Recipe browser backed by TheMealDB",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return serve(cmd.Context(), cfg)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			db, err := config.InitDB(cfg.DB)
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			logger.Info("migration complete", zap.String("driver", cfg.DB.Driver))
			return nil
		},
	})
	return root
}

func setup(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	var cache services.Cache = services.NewMemoryCache()
	if cfg.Redis.URL != "" {
		rc, err := services.NewRedisCache(cfg.Redis.URL, "recipebook:mealdb:")
		if err != nil {
			return err
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, cache reads will miss", zap.Error(err))
		}
		cache = rc
	}

	var thumbs services.ThumbnailStore = services.PassThroughStore{}
	if cfg.S3.Bucket != "" {
		s3Store, err := services.NewS3ThumbnailStore(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.PublicURL)
		if err != nil {
			return err
		}
		thumbs = s3Store
	}

	tmpl, err := views.Load()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	hub := services.NewRealtimeHub()
	deps := routes.Deps{
		DB: db,
		Meals: services.NewMealDBService(services.MealDBOptions{
			BaseURL:  cfg.MealDB.BaseURL,
			Timeout:  cfg.MealDB.Timeout,
			Cache:    cache,
			CacheTTL: cfg.MealDB.CacheTTL,
		}),
		Favorites:     services.NewFavoriteService(db, hub, thumbs),
		Hub:           hub,
		Templates:     tmpl,
		Catalog:       services.NewNoticeCatalog(cfg.DefaultLocale),
		CookieName:    cfg.Auth.CookieName,
		SecureCookies: cfg.Auth.SecureCookie,
	}
	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		deps.AuthService = services.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		deps.Authenticator = middlewares.SessionAuthenticator{}
	default:
		deps.Authenticator = middlewares.StaticAuthenticator{Value: cfg.Auth.Static}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("auth_mode", cfg.Auth.Mode))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
