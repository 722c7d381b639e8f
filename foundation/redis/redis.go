// Package redis publishes analysis-completed events for external dashboards.
// The payload carries summary fields only, never media or frame data.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Publisher struct {
	Client  *redis.Client
	Logger  *zap.SugaredLogger
	Channel string
}

func New(address string, password string, channel string, logger *zap.SugaredLogger) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Publisher{
		Client:  client,
		Logger:  logger,
		Channel: channel,
	}, nil
}

func (p *Publisher) Publish(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := p.Client.Publish(context.Background(), p.Channel, jsonData).Err(); err != nil {
		return err
	}

	p.Logger.Infow("redis: Publish", "channel", p.Channel, "data", data)

	return nil
}
