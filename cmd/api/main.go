package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"stitchmart/internal/assets"
	"stitchmart/internal/config"
	"stitchmart/internal/database"
	"stitchmart/internal/logger"
	"stitchmart/internal/mailer"
	"stitchmart/internal/queue"
	"stitchmart/internal/repository"
	"stitchmart/internal/server"
	"stitchmart/internal/worker"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, orderWorker *worker.OrderWorker, amqpConn *amqp.Connection, log *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	orderWorker.Stop()
	if err := amqpConn.Close(); err != nil {
		log.Error("Failed to close rabbitmq connection", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		log.Error("Error closing server resources", zap.Error(err))
	}

	log.Info("Server exiting")
	done <- true
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting stitchmart API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}

	if err := database.RunMigrations(db, "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}

	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to rabbitmq", zap.Error(err))
	}
	amqpChannel, err := amqpConn.Channel()
	if err != nil {
		log.Fatal("Failed to open rabbitmq channel", zap.Error(err))
	}
	if err := queue.Setup(amqpChannel); err != nil {
		log.Fatal("Failed to declare rabbitmq topology", zap.Error(err))
	}

	assetStore, err := assets.NewCloudinaryStore(cfg.Cloudinary)
	if err != nil {
		log.Fatal("Failed to create asset store", zap.Error(err))
	}

	mail := mailer.NewSMTPMailer(cfg.SMTP)

	orderWorker := worker.NewOrderWorker(
		amqpChannel,
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		redisClient,
		mail,
		log,
	)
	if err := orderWorker.Start(context.Background()); err != nil {
		log.Fatal("Failed to start order worker", zap.Error(err))
	}

	srv := server.NewServer(cfg, log, server.Deps{
		DB:         db,
		Redis:      redisClient,
		AssetStore: assetStore,
		Mailer:     mail,
		Publisher:  queue.NewPublisher(amqpChannel),
	})

	done := make(chan bool, 1)
	go gracefulShutdown(srv, orderWorker, amqpConn, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
