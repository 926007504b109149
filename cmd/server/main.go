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

	"github.com/google/uuid"

	"github.com/bandhub/server/internal/cron"
	"github.com/bandhub/server/internal/handler"
	"github.com/bandhub/server/internal/realtime"
	"github.com/bandhub/server/internal/repository"
	"github.com/bandhub/server/internal/service"
	"github.com/bandhub/server/migrations"
	"github.com/bandhub/server/pkg/config"
	"github.com/bandhub/server/pkg/db"
	"github.com/bandhub/server/pkg/jwt"
	"github.com/bandhub/server/pkg/logger"
	"github.com/bandhub/server/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{Level: logger.ParseLevel(cfg.Log.Level)})

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", logger.Error(err))
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库迁移
	migrator, err := db.NewMigrator(cfg.Postgres.DSN, migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		migrator.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	migrator.Close()
	log.Info("database migrations applied")

	// 连接池
	pool, err := db.NewPool(ctx, &db.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		MaxConnLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	// Redis（实时扇出），连接失败时降级为单实例广播
	var rdb *redis.Client
	rdb, err = redis.NewClient(&redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("redis unavailable, realtime events will not fan out across instances", logger.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// 仓储层
	bandRepo := repository.NewBandRepository(pool)
	songRepo := repository.NewSongRepository(pool)
	setlistRepo := repository.NewSetlistRepository(pool)
	setlistSongRepo := repository.NewSetlistSongRepository(pool)
	gigRepo := repository.NewGigRepository(pool)
	rehearsalRepo := repository.NewRehearsalRepository(pool)

	// 实时仪表盘
	hub := realtime.NewHub(rdb, uuid.New().String(), log)
	go hub.Run(ctx)

	// 服务层
	membership := service.NewMembershipService(bandRepo)
	bandService := service.NewBandService(bandRepo, membership, log)
	songService := service.NewSongService(songRepo)
	setlistService := service.NewSetlistService(setlistRepo, setlistSongRepo, songRepo, membership, hub, log)
	gigService := service.NewGigService(gigRepo, setlistRepo, membership, hub)
	rehearsalService := service.NewRehearsalService(rehearsalRepo, setlistRepo, membership, hub)

	// 定时任务：缓存总时长刷新
	refresher := cron.NewTotalRefresher(setlistRepo, setlistSongRepo, cfg.Jobs.TotalRefreshSpec, log)
	if err := refresher.Start(); err != nil {
		return fmt.Errorf("failed to start refresh job: %w", err)
	}
	defer refresher.Stop()

	// HTTP 层
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:      cfg.Auth.JWTSecret,
		Issuer:      cfg.Auth.Issuer,
		TokenExpiry: cfg.Auth.TokenExpiry,
	})

	router := handler.NewRouter(&handler.Handlers{
		Band:      handler.NewBandHandler(bandService),
		Song:      handler.NewSongHandler(songService),
		Setlist:   handler.NewSetlistHandler(setlistService),
		Gig:       handler.NewGigHandler(gigService),
		Rehearsal: handler.NewRehearsalHandler(rehearsalService),
		WS:        handler.NewWSHandler(hub, membership, log),
	}, jwtManager, cfg.Server.CORSOrigins, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.Int("port", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
