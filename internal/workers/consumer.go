// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/metrics"
	"github.com/MKhiriev/go-accounts/internal/utils"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const consumerTag = "go-accounts"

var (
	ErrDeliveriesClosed = errors.New("deliveries channel closed")
	ErrConnectionClosed = errors.New("broker connection closed")
)

// LoginEventsConsumer records the login events published on a durable queue.
//
// Each message body is a {amountLogin} event and is executed as the
// amount-login/update-amount-login command. A message is acked once recorded.
// Validation and payload failures are dropped without requeue. Internal
// failures are requeued once: a redelivered message that fails again is
// dropped.
type LoginEventsConsumer struct {
	cfg        config.Broker
	dispatcher CommandDispatcher
	dial       Dialer
	metrics    *metrics.Metrics

	logger *logger.Logger
}

func NewLoginEventsConsumer(cfg config.Broker, dispatcher CommandDispatcher, dial Dialer, m *metrics.Metrics, logger *logger.Logger) *LoginEventsConsumer {
	if dial == nil {
		dial = DialAMQP
	}

	return &LoginEventsConsumer{
		cfg:        cfg,
		dispatcher: dispatcher,
		dial:       dial,
		metrics:    m,
		logger:     logger,
	}
}

// Run consumes until ctx is done, reconnecting after every broker failure.
func (c *LoginEventsConsumer) Run(ctx context.Context) error {
	log := c.logger.With().Str("queue", c.cfg.LoginEventsQueue).Logger()

	for {
		err := c.consume(ctx)
		if ctx.Err() != nil {
			log.Info().Msg("login events consumer stopped")
			return nil
		}

		log.Err(err).Dur("retry_in", c.cfg.ReconnectInterval).Msg("login events consumer disconnected")

		select {
		case <-ctx.Done():
			log.Info().Msg("login events consumer stopped")
			return nil
		case <-time.After(c.cfg.ReconnectInterval):
		}
	}
}

func (c *LoginEventsConsumer) consume(ctx context.Context) error {
	conn, err := c.dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err = ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	if _, err = ch.QueueDeclare(c.cfg.LoginEventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	deliveries, err := ch.Consume(c.cfg.LoginEventsQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.Info().Str("queue", c.cfg.LoginEventsQueue).Msg("login events consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr, ok := <-closed:
			if ok && amqpErr != nil {
				return fmt.Errorf("%w: %s", ErrConnectionClosed, amqpErr.Error())
			}
			return ErrConnectionClosed
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.handle(ctx, d)
		}
	}
}

func (c *LoginEventsConsumer) handle(ctx context.Context, d amqp.Delivery) {
	traceID := d.MessageId
	if traceID == "" {
		traceID = uuid.NewString()
	}

	l := c.logger.GetChildLogger()
	l.UpdateContext(func(zc zerolog.Context) zerolog.Context {
		return zc.Str("trace_id", traceID)
	})
	ctx = l.WithContext(utils.WithTraceID(ctx, traceID))

	reply := c.dispatcher.Dispatch(ctx, models.Command{
		Cmd:    models.CmdAmountLogin,
		Method: models.MethodUpdateAmountLogin,
		Data:   d.Body,
	})

	var err error
	switch {
	case reply.Error == nil:
		err = d.Ack(false)
		c.metrics.LoginEvent(metrics.OutcomeRecorded)
	case reply.Error.Code == models.CodeInternal && !d.Redelivered:
		err = d.Nack(false, true)
		c.metrics.LoginEvent(metrics.OutcomeRequeued)
	case reply.Error.Code == models.CodeInternal:
		l.Error().Str("code", reply.Error.Code).Msg("dropping redelivered login event")
		err = d.Nack(false, false)
		c.metrics.LoginEvent(metrics.OutcomeFailed)
	default:
		l.Warn().Str("code", reply.Error.Code).Msg("rejecting login event")
		err = d.Nack(false, false)
		c.metrics.LoginEvent(metrics.OutcomeRejected)
	}

	if err != nil {
		l.Err(err).Msg("failed to acknowledge login event")
	}
}
