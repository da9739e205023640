package main

import (
	"context"
	stdlog "log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sirahabazaar/delivery/internal/auth"
	"github.com/sirahabazaar/delivery/internal/cache"
	"github.com/sirahabazaar/delivery/internal/config"
	"github.com/sirahabazaar/delivery/internal/db"
	"github.com/sirahabazaar/delivery/internal/grpcserver"
	"github.com/sirahabazaar/delivery/internal/kafka"
	"github.com/sirahabazaar/delivery/internal/logger"
	"github.com/sirahabazaar/delivery/internal/monitor"
	"github.com/sirahabazaar/delivery/internal/notification"
	"github.com/sirahabazaar/delivery/internal/repository/postgresql"
	"github.com/sirahabazaar/delivery/internal/server"
	"github.com/sirahabazaar/delivery/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded", zap.Stringer("config", cfg))

	database, err := db.NewDb(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("database init error", zap.Error(err))
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, database); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		log.Info("database schema applied")
	}

	userRepo := postgresql.NewUserRepo(database)
	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if err := userRepo.EnsureUser(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, storage.RoleAdmin); err != nil {
			log.Fatal("failed to bootstrap admin user", zap.Error(err))
		}
	}

	zoneRepo := postgresql.NewZoneRepo(database)
	zoneCache := cache.NewZoneCache(zoneRepo, log.Named("zone_cache"))
	if err := zoneCache.LoadInitialData(ctx); err != nil {
		log.Fatal("failed to load delivery zones", zap.Error(err))
	}

	outboxRepo := postgresql.NewOutboxTaskRepo()
	notifier := notification.NewOutboxNotifier(database, outboxRepo, cfg.Kafka.Topic)

	stg := storage.NewPostgresStorage(database, storage.Repositories{
		Orders:          postgresql.NewOrderRepo(database),
		OrderHistory:    postgresql.NewHistoryRepo(database),
		Stores:          postgresql.NewStoreRepo(database),
		Partners:        postgresql.NewPartnerRepo(database),
		Deliveries:      postgresql.NewDeliveryRepo(database),
		DeliveryHistory: postgresql.NewDeliveryHistoryRepo(database),
		Locations:       postgresql.NewLocationRepo(database),
		Zones:           zoneRepo,
	}, zoneCache, notifier, log.Named("storage"), storage.Options{
		DefaultDeliveryFee: cfg.Tracking.DefaultDeliveryFee,
	})

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("failed to init token issuer", zap.Error(err))
	}

	var producer kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewBrokerProducer(cfg.Kafka.Brokers)
	} else {
		producer = kafka.NewConsoleProducer(log.Named("kafka"))
	}
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval:    cfg.Outbox.PollInterval,
		BatchSize:       cfg.Outbox.BatchSize,
		MaxAttempts:     cfg.Outbox.MaxAttempts,
		ProcessingLease: cfg.Outbox.ProcessingLease,
	}, log.Named("outbox"))

	httpServer := server.New(stg, userRepo, issuer, log.Named("http"))
	grpcServer := grpcserver.NewGRPCServer(grpcserver.NewServer(stg, log.Named("grpc")), issuer)
	staleMonitor := monitor.NewStaleMonitor(stg, cfg.Tracking.StaleAfter, cfg.Tracking.StaleCheckInterval, log.Named("monitor"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(gctx, cfg.HTTP.Port)
	})
	g.Go(func() error {
		return grpcserver.Serve(gctx, grpcServer, cfg.GRPC.Address, log.Named("grpc"))
	})
	g.Go(func() error {
		return publisher.Run(gctx)
	})
	g.Go(func() error {
		return staleMonitor.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", zap.Error(err))
		return
	}
	log.Info("service gracefully stopped")
}
