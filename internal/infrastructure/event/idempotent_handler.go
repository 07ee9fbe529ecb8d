package event

import (
	"context"
	"fmt"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "diskbabu_event_deliveries_total",
	Help: "Event deliveries by event type and result (processed, duplicate, failed).",
}, []string{"event_type", "result"})

// NamedHandler lets a handler choose the namespace of its idempotency keys
type NamedHandler interface {
	Name() string
}

// IdempotentHandler makes sure a handler sees each event id once within
// the configured TTL, even when an event is delivered more than once.
// Keys are namespaced per handler so several handlers can share one store.
type IdempotentHandler struct {
	name    string
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger
}

// IdempotentHandlerOption configures an IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig sets the TTL and on/off switch
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = config
	}
}

// NewIdempotentHandler wraps handler
func NewIdempotentHandler(
	handler shared.EventHandler,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	name := fmt.Sprintf("%T", handler)
	if n, ok := handler.(NamedHandler); ok {
		name = n.Name()
	}
	h := &IdempotentHandler{
		name:    name,
		handler: handler,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle marks the event id and skips it when already marked. A store
// failure does not drop the event; it is processed and a warning logged.
// The mark is kept when the handler fails so retries wait for the TTL.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, event)
	}

	eventID := event.EventID().String()
	fields := []zap.Field{zap.String("event_id", eventID), zap.String("event_type", event.EventType())}

	isNew, err := h.store.MarkProcessed(ctx, h.name+":"+eventID, h.config.TTL)
	switch {
	case err != nil:
		h.logger.Warn("idempotency check failed, processing anyway", append(fields, zap.Error(err))...)
	case !isNew:
		deliveries.WithLabelValues(event.EventType(), "duplicate").Inc()
		h.logger.Debug("duplicate event skipped", fields...)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		deliveries.WithLabelValues(event.EventType(), "failed").Inc()
		return err
	}
	deliveries.WithLabelValues(event.EventType(), "processed").Inc()
	return nil
}

// Unwrap returns the wrapped handler
func (h *IdempotentHandler) Unwrap() shared.EventHandler {
	return h.handler
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)

// SubscribeIdempotent wraps each handler with store and subscribes it to bus
func SubscribeIdempotent(
	bus shared.EventSubscriber,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	handlers ...shared.EventHandler,
) {
	for _, handler := range handlers {
		bus.Subscribe(NewIdempotentHandler(handler, store, logger))
	}
}

// HandlerFunc adapts a function to shared.EventHandler. Use it by pointer
// so the bus can compare handlers on Unsubscribe.
type HandlerFunc struct {
	Types []string
	Fn    func(ctx context.Context, event shared.DomainEvent) error
}

// Handle calls Fn
func (f *HandlerFunc) Handle(ctx context.Context, event shared.DomainEvent) error {
	return f.Fn(ctx, event)
}

// EventTypes returns Types
func (f *HandlerFunc) EventTypes() []string {
	return f.Types
}
