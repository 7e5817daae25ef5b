package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bioweb/backend/internal/config"
	"github.com/bioweb/backend/internal/handler"
	"github.com/bioweb/backend/internal/logging"
	"github.com/bioweb/backend/internal/metrics"
	"github.com/bioweb/backend/internal/migration"
	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/internal/seed"
	"github.com/bioweb/backend/internal/service"
	"github.com/bioweb/backend/internal/storage"
	"github.com/bioweb/backend/internal/viewlimit"
	"github.com/bioweb/backend/migrations"
	"github.com/bioweb/backend/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load configuration", "error", err)
	}
	logging.Setup(cfg.Logging.Level)

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if _, err := migration.New(pool, migrations.FS).Incremental(ctx); err != nil {
			logging.Fatal("migration failed", "error", err)
		}
	}

	adminRepo := repository.NewPgAdminUserRepository(pool)
	categoryRepo := repository.NewPgCategoryRepository(pool)
	articleRepo := repository.NewPgArticleRepository(pool)
	projectRepo := repository.NewPgProjectRepository(pool)
	siteRepo := repository.NewPgSiteConfigRepository(pool)
	contactRepo := repository.NewPgContactRepository(pool)
	maintenanceRepo := repository.NewPgMaintenanceRepository(pool)

	seeder := seed.New(seed.Repositories{
		Admins:      adminRepo,
		Site:        siteRepo,
		Categories:  categoryRepo,
		Articles:    articleRepo,
		Projects:    projectRepo,
		Maintenance: maintenanceRepo,
	}, seed.Admin{Username: cfg.Admin.Username, Password: cfg.Admin.Password})
	if cfg.Database.SeedOnStart {
		if _, err := seeder.Seed(ctx); err != nil {
			// シードの失敗では起動を止めない
			slog.Error("seeding failed", "error", err)
		}
	}

	limiter, closeLimiter, err := newViewLimiter(cfg.Views)
	if err != nil {
		logging.Fatal("failed to create view limiter", "error", err)
	}
	defer closeLimiter()

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	if err != nil {
		logging.Fatal("invalid token configuration", "error", err)
	}

	authService := service.NewAuthService(adminRepo, tokens)
	categoryService := service.NewCategoryService(categoryRepo)
	articleService := service.NewArticleService(articleRepo, categoryRepo)
	projectService := service.NewProjectService(projectRepo, limiter)
	siteService := service.NewSiteConfigService(siteRepo, limiter)
	contactService := service.NewContactService(contactRepo)
	uploadService := service.NewUploadService(
		storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.URLPrefix),
		siteService, projectService, articleService,
	)

	gate := auth.NewGate(tokens, authService).WithObserver(metrics.RecordAuthAttempt)

	services := handler.Services{
		DB:         pool,
		Gate:       gate,
		Auth:       authService,
		Categories: categoryService,
		Articles:   articleService,
		Projects:   projectService,
		Site:       siteService,
		Contact:    contactService,
		Uploads:    uploadService,
	}
	if cfg.IsDevelopment() {
		services.Seeder = seeder
	}

	router := handler.NewRouter(handler.RouterConfig{
		Development:     cfg.IsDevelopment(),
		CORSOrigins:     cfg.Server.CORSOrigins,
		StaticDir:       cfg.Server.StaticDir,
		UploadDir:       cfg.Upload.Dir,
		UploadURLPrefix: cfg.Upload.URLPrefix,
		LoginRateLimit:  cfg.RateLimit.LoginRequests,
		LoginRateWindow: cfg.RateLimit.LoginWindow,
	}, services)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

// newViewLimiter は設定に応じて閲覧数の重複防止ストアを作る
func newViewLimiter(cfg config.ViewsConfig) (viewlimit.Limiter, func(), error) {
	if cfg.Store != "badger" {
		return viewlimit.NewMemoryLimiter(cfg.Cooldown, cfg.Capacity), func() {}, nil
	}
	db, err := viewlimit.OpenBadger(cfg.BadgerPath)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close view store", "error", err)
		}
	}
	return viewlimit.NewBadgerLimiter(db, cfg.Cooldown), closeDB, nil
}
