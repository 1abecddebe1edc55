package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"rental-backend/internal/auth"
	"rental-backend/internal/billing"
	"rental-backend/internal/cache"
	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/db"
	"rental-backend/internal/events"
	"rental-backend/internal/handlers"
	"rental-backend/internal/health"
	h "rental-backend/internal/http"
	"rental-backend/internal/jobs"
	"rental-backend/internal/logger"
	"rental-backend/internal/middleware"
	"rental-backend/internal/notify"
	"rental-backend/internal/repositories"
	"rental-backend/internal/scheduler"
	"rental-backend/internal/services"
	"rental-backend/internal/storage"
	"rental-backend/internal/timeutil"
	"rental-backend/migrations"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML config file")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := timeutil.SetLocation(cfg.App.Timezone); err != nil {
		log.Fatal().Err(err).Msg("time zone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	applied, err := database.NewMigratorWithFS(pool, migrations.FS, ".").RunMigrations(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}
	log.Info().Int("applied", applied).Msg("migrations up to date")

	// Optional collaborators
	var statsCache services.StatsCache
	var cachePinger health.Pinger
	if cfg.Redis.Addr != "" {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, dashboard cache disabled")
		} else {
			statsCache = cache.Stats{}
			cachePinger = cache.Stats{}
			defer cache.Close()
		}
	}

	sender, err := notify.NewSender(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("mail sender")
	}
	format := billing.Formatter{Currency: cfg.Agreement.CurrencyPrefix}
	notifier := notify.NewNotifier(sender, cfg.Mail.CopyTo, format)

	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	rentalRepo := repositories.NewRentalRepository(pool)
	templateRepo := repositories.NewTemplateRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager, cfg.Auth.AllowRegistration)

	productService := services.NewProductService(productRepo)
	productService.Stats = statsCache

	rentalService := services.NewRentalService(productRepo, rentalRepo, templateRepo, format)
	rentalService.Notifier = notifier
	rentalService.Events = publisher
	rentalService.Stats = statsCache

	archive, err := storage.NewAgreementArchive(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("agreement archive")
	}
	if archive != nil {
		rentalService.Archive = archive
	}

	dashboardService := services.NewDashboardService(productRepo, rentalRepo)
	dashboardService.Cache = statsCache

	// HTTP
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRequests, time.Duration(cfg.Server.RateLimitWindowMinutes)*time.Minute)
	router := h.NewRouter(h.Handlers{
		Auth:      handlers.NewAuthHandler(userService),
		User:      handlers.NewUserHandler(userService),
		Product:   handlers.NewProductHandler(productService),
		Rental:    handlers.NewRentalHandler(rentalService, services.NewReportService(format)),
		Template:  handlers.NewTemplateHandler(services.NewTemplateService(templateRepo, format)),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(pool, cachePinger)),
	}, middleware.NewAuthMiddleware(jwtManager, userRepo), limiter)

	// Background jobs
	jobRunner := jobs.NewJobRunner(rentalRepo, notifier, limiter)
	sched, err := scheduler.NewScheduler(cfg, jobRunner)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h.Wrap(router, middleware.NewCORS(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("timezone", timeutil.Location.String()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
