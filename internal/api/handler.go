package api

import (
	"log/slog"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"

	"waste-monitor-backend/internal/clock"
	"waste-monitor-backend/internal/store"
)

// AlertDispatcher queues a bin for a low-score check after a write.
type AlertDispatcher interface {
	Dispatch(binID string)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	clock   clock.Clock
	alerts  AlertDispatcher
	webpush *webpush.Options
	logger  *slog.Logger
	newID   func() string
}

// NewHandler creates a new API handler. alerts and webpushOptions may be nil
// when push alerts are not configured.
func NewHandler(s store.Store, clk clock.Clock, alerts AlertDispatcher, webpushOptions *webpush.Options, logger *slog.Logger) *Handler {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:   s,
		clock:   clk,
		alerts:  alerts,
		webpush: webpushOptions,
		logger:  logger,
		newID:   uuid.NewString,
	}
}
