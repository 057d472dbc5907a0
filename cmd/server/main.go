package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/fleetease-rental/internal/config"
	"github.com/iliyamo/fleetease-rental/internal/database"
	"github.com/iliyamo/fleetease-rental/internal/handler"
	"github.com/iliyamo/fleetease-rental/internal/identity"
	"github.com/iliyamo/fleetease-rental/internal/middleware"
	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/queue"
	"github.com/iliyamo/fleetease-rental/internal/realtime"
	"github.com/iliyamo/fleetease-rental/internal/repository"
	"github.com/iliyamo/fleetease-rental/internal/router"
	"github.com/iliyamo/fleetease-rental/internal/service"
	"github.com/iliyamo/fleetease-rental/internal/utils"
)

const sessionPurgeInterval = time.Hour

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db, log); err != nil {
			log.Error("migration failed", "err", err)
			os.Exit(1)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unreachable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	locations := repository.NewLocationRepo(db)
	campaigns := repository.NewCampaignRepo(db)
	seeder := repository.NewCatalogSeedRepo(db)
	reservations := repository.NewReservationRepo(db)
	notifications := repository.NewNotificationRepo(db)

	hub := realtime.NewHub(log)
	notifSvc := service.NewNotificationService(notifications, hub, log)

	var notifier service.Notifier = notifSvc
	qcfg := config.LoadQueueConfig()
	if qcfg.Enabled {
		pub := queue.NewPublisher(qcfg.URL, qcfg.Notifications, qcfg.PublishTimeout, log)
		defer pub.Close()
		notifier = queue.NewQueueNotifier(pub, notifSvc, log)

		consumer := queue.NewConsumer(qcfg.URL, qcfg.Notifications, qcfg.Prefetch,
			func(ctx context.Context, d model.NotificationDraft) error {
				_, err := notifSvc.Emit(ctx, d)
				return err
			}, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("notification consumer stopped", "err", err)
			}
		}()
		log.Info("notification queue enabled", "queue", qcfg.Notifications)
	}

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, log)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)

	idp := identity.NewClient(cfg.IdentityProviderURL, cfg.IdentityProviderTimeout)
	hasher := utils.NewPasswordHasher(cfg.HashAlgo, cfg.BcryptCost)

	authSvc := service.NewAuthService(users, sessions, hasher, cfg.SessionTTL(), idp, log)
	catalogSvc := service.NewCatalogService(vehicles, locations, campaigns, seeder, cache, log)
	reservationSvc := service.NewReservationService(reservations, vehicles, notifier, log)

	go purgeSessions(ctx, authSvc, log)

	e := router.New(router.Deps{
		Log:           log,
		CORSOrigins:   cfg.CORSOrigins,
		SeedEnabled:   cfg.SeedEnabled,
		Sessions:      authSvc,
		Auth:          handler.NewAuthHandler(authSvc, log),
		Catalog:       handler.NewCatalogHandler(catalogSvc, log),
		Reservations:  handler.NewReservationHandler(reservationSvc, log),
		Notifications: handler.NewNotificationHandler(notifSvc, hub, cfg.CORSOrigins, log),
		Limiter:       limiter,
		Cache:         cache.Middleware(),
	})
	// websocket streams watch the request context, so tie it to shutdown
	e.Server.BaseContext = func(net.Listener) context.Context { return ctx }

	addr := ":" + cfg.Port
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "seed", cfg.SeedEnabled)
		serverErrors <- e.Start(addr)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			_ = e.Close()
		}
	}
}

// purgeSessions deletes expired sessions once at startup and then hourly.
func purgeSessions(ctx context.Context, auth *service.AuthService, log *slog.Logger) {
	t := time.NewTicker(sessionPurgeInterval)
	defer t.Stop()
	for {
		n, err := auth.PurgeExpiredSessions(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn("session purge failed", "err", err)
		case n > 0:
			log.Info("expired sessions purged", "count", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
