package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const notifierQueue = "meraroom-notifier"

// BookingEventHandler reacts to one decoded booking event.
type BookingEventHandler func(ctx context.Context, ev domain.BookingEvent) error

// Subscriber consumes booking events. Handlers run on the NATS client's
// delivery goroutine, one message at a time per subscription.
type Subscriber struct {
	conn           *nats.Conn
	logger         *logger.Logger
	handlerTimeout time.Duration
	subs           []*nats.Subscription
}

func NewSubscriber(conn *nats.Conn, handlerTimeout time.Duration, log *logger.Logger) *Subscriber {
	return &Subscriber{
		conn:           conn,
		logger:         log.Named("NATSSubscriber"),
		handlerTimeout: handlerTimeout,
	}
}

// SubscribeBookingEvents registers handler on subject within a queue group so
// that several replicas share the work.
func (s *Subscriber) SubscribeBookingEvents(subject string, handler BookingEventHandler) error {
	sub, err := s.conn.QueueSubscribe(subject, notifierQueue, func(msg *nats.Msg) {
		s.dispatch(msg, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)
	s.logger.Info("Subscribed to booking events", zap.String("subject", subject), zap.String("queue", notifierQueue))
	return nil
}

func (s *Subscriber) dispatch(msg *nats.Msg, handler BookingEventHandler) {
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), NATSHeaderCarrier(msg.Header))
	ctx, span := tracer.Start(ctx, fmt.Sprintf("NATS.Consume.%s", msg.Subject))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, s.handlerTimeout)
	defer cancel()

	var ev domain.BookingEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		s.logger.Error("Dropping undecodable booking event", zap.String("subject", msg.Subject), zap.Error(err))
		span.RecordError(err)
		return
	}
	if err := handler(ctx, ev); err != nil {
		s.logger.Error("Booking event handler failed",
			zap.String("subject", msg.Subject),
			zap.String("booking_id", ev.BookingID),
			zap.Error(err))
		span.RecordError(err)
	}
}

// Unsubscribe removes every subscription made by s.
func (s *Subscriber) Unsubscribe() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn("Failed to unsubscribe", zap.String("subject", sub.Subject), zap.Error(err))
		}
	}
	s.subs = nil
}
