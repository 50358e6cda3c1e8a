package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/accounts/infra"
	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

const eventField = "event"

// RedisEventBus carries events over a single Redis stream. Every registered
// event type reads the stream through its own consumer group, so each
// handler sees every event of its type exactly once per group.
type RedisEventBus struct {
	client        *redis.Client
	stream        string
	group         string
	typeFactories map[string]func() events.Event
	logger        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis connects to Redis and returns a stream-backed event bus.
func NewWithRedis(cfg *config.Redis, types map[string]func() events.Event, logger *slog.Logger) (*RedisEventBus, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("redis event bus: url is required")
	}

	client, err := infra.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		stream:        cfg.KeyPrefix + "events",
		group:         cfg.Group,
		typeFactories: types,
		logger:        logger.With("component", "redis-event-bus"),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Emit appends the event to the stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	raw, err := encodeEnvelope(event)
	if err != nil {
		b.logger.Error("failed to encode event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: %w", err)
	}

	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{eventField: raw},
	}).Err(); err != nil {
		b.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}

	b.logger.Debug("event emitted", "type", event.Type())
	return nil
}

// Register creates the consumer group for eventType and starts a consumer
// that calls handler for each matching event until Close.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	group := b.group + ":" + eventType.String()
	host, _ := os.Hostname()
	consumer := fmt.Sprintf("%s-%d", host, os.Getpid())

	err := b.client.XGroupCreateMkStream(b.ctx, b.stream, group, "$").Err()
	if err != nil && !isBusyGroup(err) {
		b.logger.Error("failed to create consumer group", "error", err, "group", group)
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(group, consumer, eventType.String(), handler)
	}()
	b.logger.Info("handler registered", "event_type", eventType, "group", group, "consumer", consumer)
}

func (b *RedisEventBus) consume(group, consumer, eventType string, handler eventbus.HandlerFunc) {
	for {
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{b.stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if b.ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err, "group", group)
				select {
				case <-b.ctx.Done():
					return
				case <-time.After(time.Second):
				}
			}
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.handleMessage(group, eventType, msg, handler)
				if err := b.client.XAck(b.ctx, b.stream, group, msg.ID).Err(); err != nil {
					b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
				}
			}
		}
	}
}

func (b *RedisEventBus) handleMessage(group, eventType string, msg redis.XMessage, handler eventbus.HandlerFunc) {
	raw, ok := msg.Values[eventField].(string)
	if !ok {
		b.pushToDLQ(msg.Values, "missing event field")
		return
	}
	evt, err := decodeEnvelope(raw, b.typeFactories)
	if err != nil {
		b.pushToDLQ(msg.Values, err.Error())
		return
	}
	if evt.Type() != eventType {
		return
	}
	if err := runHandler(b.ctx, handler, evt); err != nil {
		b.logger.Error("handler error", "error", err, "event_type", eventType, "group", group)
		b.pushToDLQ(msg.Values, err.Error())
	}
}

// pushToDLQ copies a message that could not be processed to the dead letter stream.
func (b *RedisEventBus) pushToDLQ(values map[string]any, reason string) {
	dlqStream := b.stream + "-dlq"
	fields := make(map[string]any, len(values)+1)
	for k, v := range values {
		fields[k] = v
	}
	fields["reason"] = reason
	if err := b.client.XAdd(context.WithoutCancel(b.ctx), &redis.XAddArgs{
		Stream: dlqStream,
		Values: fields,
	}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlqStream)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlqStream, "reason", reason)
}

// Close stops the consumers and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

func isBusyGroup(err error) bool {
	return strings.HasPrefix(err.Error(), "BUSYGROUP")
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
