package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/s2311-del/shopease-india-connect/internal/auth"
	"github.com/s2311-del/shopease-india-connect/internal/cache"
	"github.com/s2311-del/shopease-india-connect/internal/cart"
	"github.com/s2311-del/shopease-india-connect/internal/catalog"
	"github.com/s2311-del/shopease-india-connect/internal/config"
	"github.com/s2311-del/shopease-india-connect/internal/db"
	"github.com/s2311-del/shopease-india-connect/internal/dedup"
	"github.com/s2311-del/shopease-india-connect/internal/events"
	httpapi "github.com/s2311-del/shopease-india-connect/internal/http"
	"github.com/s2311-del/shopease-india-connect/internal/order"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	sqlDB, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db open: %v", err)
	}
	defer sqlDB.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("redis ping: %v", err)
	}
	store := cache.NewRedisCache(rdb, cfg.CacheTTL)

	// --- AMQP ---
	var publisher order.EventPublisher
	orderRepo := order.NewPostgresRepository(pool)

	if cfg.PublishEvents || cfg.ConsumeStatusEvents {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer conn.Close()

		if cfg.PublishEvents {
			pub, err := events.NewPublisher(conn, events.PublisherOptions{}, logger)
			if err != nil {
				logger.Fatalf("start publisher: %v", err)
			}
			defer pub.Close()
			publisher = pub
		}

		if cfg.ConsumeStatusEvents {
			handler := events.OrderStatusChangedHandler(orderRepo, dedup.NewCheckpoints(pool), store, logger, events.StatusConsumerName)
			consumer, err := events.StartStatusConsumer(ctx, conn, handler, logger)
			if err != nil {
				logger.Fatalf("start consumer: %v", err)
			}
			defer consumer.Close()
		}
	}

	// --- services ---
	authSvc := auth.NewService(
		auth.NewUserRepository(sqlDB),
		auth.NewTokens(cfg.JWTSecret, cfg.SessionTTL),
		auth.NewRedisRevocations(rdb),
	)

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:  logger,
		Cfg:     cfg,
		Auth:    authSvc,
		Catalog: catalog.NewService(catalog.NewPostgresRepository(pool), store, logger),
		Cart:    cart.NewService(cart.NewRepository(sqlDB), store, logger),
		Placer:  order.NewPlacer(pool, store, publisher, logger),
		Orders:  order.NewService(orderRepo, store, logger),
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Printf("fatal error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
	stop()

	logger.Printf("shutdown complete")
}
