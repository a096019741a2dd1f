package library

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const eventChannel = "library.events"

// Publisher pushes mutation events to redis for any interested consumer
// (UI refresh, cache invalidation). Publishing is best-effort: a nil client
// disables it and failures are only logged.
type Publisher struct {
	rdb    *redis.Client
	logger *log.Logger
}

func NewPublisher(rdb *redis.Client, logger *log.Logger) *Publisher {
	return &Publisher{rdb: rdb, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) {
	if p == nil || p.rdb == nil {
		return
	}
	body := map[string]any{
		"type":    eventType,
		"payload": payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		p.logger.Warn("marshal event", "type", eventType, "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, eventChannel, string(data)).Err(); err != nil {
		p.logger.Warn("publish event", "type", eventType, "err", err)
	}
}
