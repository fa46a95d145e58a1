package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stitchmart/internal/domain"
	"stitchmart/internal/mailer"
	"stitchmart/internal/queue"
	"stitchmart/internal/repository"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// OrderWorker consumes placed-order messages, sends the confirmation email,
// and advances the order to processing. Redelivered messages are deduplicated
// through a redis idempotency key; poison messages dead-letter after one
// failed attempt.
type OrderWorker struct {
	channel     *amqp.Channel
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	redisClient *redis.Client
	mailer      mailer.Mailer
	logger      *zap.Logger
	done        chan struct{}
}

// NewOrderWorker creates a new OrderWorker
func NewOrderWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	mail mailer.Mailer,
	logger *zap.Logger,
) *OrderWorker {
	return &OrderWorker{
		channel:     ch,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
		mailer:      mail,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Start begins consuming in a background goroutine
func (w *OrderWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(queue.OrderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.logger.Info("Order worker started")
	return nil
}

// Stop signals the consume loop to exit
func (w *OrderWorker) Stop() { close(w.done) }

func (w *OrderWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var orderMsg domain.OrderPlacedMessage
	if err := json.Unmarshal(msg.Body, &orderMsg); err != nil {
		w.logger.Error("Failed to unmarshal order message", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	logger := w.logger.With(
		zap.String("order_id", orderMsg.OrderID.String()),
		zap.String("user_id", orderMsg.UserID.String()),
	)

	idempotencyKey := "order_processed:" + orderMsg.OrderID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		logger.Error("Failed to check idempotency key", zap.Error(err))
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		logger.Info("Order already processed, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.processOrder(ctx, orderMsg); err != nil {
		logger.Error("Failed to process order", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		logger.Error("Failed to set idempotency key", zap.Error(err))
	}

	_ = msg.Ack(false)
	logger.Info("Order processed")
}

func (w *OrderWorker) processOrder(ctx context.Context, orderMsg domain.OrderPlacedMessage) error {
	order, err := w.orderRepo.FindByID(ctx, orderMsg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	user, err := w.userRepo.FindByID(ctx, orderMsg.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := w.mailer.SendOrderConfirmation(ctx, user.Email, order.ID.String()); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	// An admin may have already moved the order along; only touch it if it
	// is still pending.
	if order.Status == domain.OrderStatusPending {
		if err := w.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusProcessing); err != nil {
			return fmt.Errorf("failed to advance order status: %w", err)
		}
	}

	return nil
}
