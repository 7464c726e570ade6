package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/config"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/adapter/handler"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/adapter/remote"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/adapter/storage"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/service"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/port"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}
	setLevel(logger, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	logger.Infof("local store ready (%s)", cfg.StoreDriver)

	client := remote.NewHTTPClient(cfg.APIURL, cfg.RemoteTimeout, logger)
	session := service.NewSessionService(client, store, logger)
	if restored, err := session.Restore(ctx); err != nil {
		logger.WithError(err).Warn("could not restore admin session")
	} else if restored {
		logger.Info("admin session restored")
	}

	cache := service.NewInventoryCache(client, store, cfg.Mode(), logger)

	// gRPC health server
	grpcHandler := handler.NewGRPCHandler(cache, logger)
	grpcServer := grpc.NewServer()
	grpcHandler.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		grpcHandler.Watch(ctx)
	}()
	go func() {
		defer wg.Done()
		logger.Infof("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Errorf("gRPC server error: %v", err)
		}
	}()

	go cache.Load(ctx)

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	httpHandler := handler.NewHTTPHandler(cache, session, service.NewCheckout(cfg.WhatsAppNumber), cfg.DefaultPageSize, logger)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Router(),
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	// open SSE streams end when the base context is cancelled
	cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("HTTP shutdown: %v", err)
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	wg.Wait()
	logger.Info("gRPC server stopped")

	if err := store.Close(); err != nil {
		logger.Warnf("closing store: %v", err)
	}
	logger.Info("connections closed")
}

func setLevel(logger *logrus.Logger, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("invalid LOG_LEVEL %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
}

func openStore(ctx context.Context, cfg *config.Config) (port.LocalStore, error) {
	switch cfg.StoreDriver {
	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, err
		}
		return storage.NewRedisAdapter(rdb), nil
	case config.DriverMySQL, config.DriverPostgres:
		return storage.OpenSQL(ctx, cfg.StoreDriver, cfg.SQLDSN)
	default:
		return storage.OpenBolt(cfg.BoltPath)
	}
}
