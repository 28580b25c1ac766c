package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"waste-monitor-backend/internal/model"
	"waste-monitor-backend/internal/stats"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Store is the slice of the persistence layer the workers need.
type Store interface {
	ByBin(ctx context.Context, binID string) ([]model.Reading, error)
	SubscriptionsForBin(ctx context.Context, binID string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// WorkerPool rescans bins after writes and alerts subscribers when a bin's
// all-time segregation score falls below the threshold.
type WorkerPool struct {
	size      int
	threshold int
	jobs      chan string
	store     Store
	webpush   *webpush.Options
	sender    NotificationSender
	logger    *slog.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size, threshold int, store Store, webpushOptions *webpush.Options, logger *slog.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		size:      size,
		threshold: threshold,
		jobs:      make(chan string, size*16),
		store:     store,
		webpush:   webpushOptions,
		sender:    &WebPushSender{},
		logger:    logger.With("component", "alerts"),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Debug("worker started", "worker", id)
	for {
		select {
		case binID := <-wp.jobs:
			wp.checkBin(ctx, binID)
		case <-ctx.Done():
			wp.logger.Debug("worker shutting down", "worker", id)
			return
		}
	}
}

// Dispatch queues a bin for checking. A full queue drops the job rather than
// stalling the request that triggered it.
func (wp *WorkerPool) Dispatch(binID string) {
	select {
	case wp.jobs <- binID:
	default:
		wp.logger.Warn("alert queue full, dropping job", "bin_id", binID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

func (wp *WorkerPool) checkBin(ctx context.Context, binID string) {
	readings, err := wp.store.ByBin(ctx, binID)
	if err != nil {
		wp.logger.Error("failed to load readings", "bin_id", binID, "err", err)
		return
	}

	scored, err := stats.ScoreBin(binID, readings)
	if err != nil {
		return
	}
	if scored.Score >= wp.threshold {
		return
	}

	subscriptions, err := wp.store.SubscriptionsForBin(ctx, binID)
	if err != nil {
		wp.logger.Error("failed to load subscriptions", "bin_id", binID, "err", err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	wp.logger.Info("sending low score alerts", "bin_id", binID, "score", scored.Score, "subscribers", len(subscriptions))
	message := []byte(fmt.Sprintf("Bin %s segregation score dropped to %d", binID, scored.Score))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, message)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Error("failed to send notification", "endpoint", sub.Endpoint, "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.logger.Info("subscription expired, deleting", "endpoint", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.logger.Error("failed to delete expired subscription", "endpoint", sub.Endpoint, "err", err)
		}
	}
}
