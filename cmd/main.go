package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"groupnet/memberhub/internal/config"
	"groupnet/memberhub/internal/handler"
	"groupnet/memberhub/internal/metrics"
	"groupnet/memberhub/internal/model"
	"groupnet/memberhub/internal/repository"
	"groupnet/memberhub/internal/service"
	"groupnet/memberhub/pkg/crypto"
)

type stores struct {
	intents repository.IntentRepository
	invites repository.InviteRepository
	members repository.MemberRepository
	tx      repository.Transactor
	pinger  repository.Pinger
}

func main() {
	// 1. Load configuration
	configPath := os.Getenv("MEMBERHUB_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Open the primary store
	st, err := openStores(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}

	// 4. Initialize state store (Redis or in-memory)
	var stateStore repository.StateStore
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		stateStore = repository.NewRedisStateStore(redisClient)
		logger.Info("using Redis state store")
	default:
		stateStore = repository.NewMemoryStateStore()
		logger.Info("using in-memory state store")
	}

	// 5. Metrics
	var obs handler.Observability
	var recorder service.EventRecorder
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New("memberhub", reg)
		obs = handler.Observability{Metrics: m, Gatherer: reg}
		recorder = m
	}

	// 6. Initialize services
	opts := []service.Option{service.WithLogger(logger)}
	if recorder != nil {
		opts = append(opts, service.WithEventRecorder(recorder))
	}
	hasher := crypto.NewArgon2Hasher(crypto.DefaultArgon2Params)
	workflow := service.WorkflowConfig{InviteTTLDays: cfg.Invite.TTLDays}
	intentService := service.NewIntentService(st.intents, st.invites, st.tx, workflow, opts...)
	inviteService := service.NewInviteService(st.invites, st.members, st.tx, hasher, opts...)

	// 7. Seed
	if cfg.Seed.Enabled {
		if err := seed(context.Background(), cfg.Seed, st.members, intentService, hasher, logger); err != nil {
			logger.Fatal("failed to seed", zap.Error(err))
		}
	}

	// 8. Setup router
	router := handler.SetupRouter(cfg, logger, stateStore, obs,
		handler.NewHealthHandler(st.pinger, logger),
		handler.NewIntentHandler(intentService, logger),
		handler.NewInviteHandler(inviteService, logger),
		handler.NewAdminHandler(intentService, inviteService, logger),
	)

	// 9. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 10. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.String("backend", cfg.Database.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("server exited gracefully")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}

func openStores(cfg config.DatabaseConfig, logger *zap.Logger) (*stores, error) {
	if cfg.Backend == "memory" {
		logger.Warn("using in-memory store, data is lost on restart")
		return &stores{
			intents: repository.NewMemoryIntentRepository(),
			invites: repository.NewMemoryInviteRepository(),
			members: repository.NewMemoryMemberRepository(),
			tx:      repository.NewMemoryTransactor(),
			pinger:  repository.NewMemoryPinger(),
		}, nil
	}

	db, err := config.NewPostgresDB(cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if cfg.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("database migration completed")
	}
	return &stores{
		intents: repository.NewPGIntentRepository(db),
		invites: repository.NewPGInviteRepository(db),
		members: repository.NewPGMemberRepository(db),
		tx:      repository.NewGormTransactor(db),
		pinger:  repository.NewGormPinger(db),
	}, nil
}

func seed(
	ctx context.Context,
	cfg config.SeedConfig,
	members repository.MemberRepository,
	intents service.IntentService,
	hasher service.PasswordHasher,
	logger *zap.Logger,
) error {
	seeder := service.NewSeeder(members, intents, hasher, logger)
	if _, _, err := seeder.SeedAdmin(ctx, service.SeedAdmin{
		Name:     cfg.Admin.Name,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}); err != nil {
		return err
	}

	samples := make([]service.SeedIntent, 0, len(cfg.SampleIntents))
	for _, s := range cfg.SampleIntents {
		samples = append(samples, service.SeedIntent{
			FullName: s.FullName,
			Email:    s.Email,
			Phone:    s.Phone,
			Notes:    s.Notes,
		})
	}
	_, err := seeder.SeedIntents(ctx, samples)
	return err
}
