package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CoMfUcIoS/pomo/internal/config"
	"github.com/CoMfUcIoS/pomo/internal/obs"
	"github.com/CoMfUcIoS/pomo/internal/timer"
)

// timersKey is the hash holding all persisted timers, field id -> record line.
const timersKey = "pomo:timers"

// redisBackend stores the timer snapshot in a single Redis hash so timers
// can be shared between machines. Save keeps the full-rewrite protocol:
// the hash is deleted and repopulated in one pipeline.
type redisBackend struct {
	client *redis.Client
}

func newRedisBackend(addr, password string, db int) (*redisBackend, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &redisBackend{client: rdb}, nil
}

func (b *redisBackend) Load(cfg *config.Config) ([]*timer.Timer, error) {
	ctx := context.Background()
	fields, err := b.client.HGetAll(ctx, timersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load failed: %w", err)
	}
	var timers []*timer.Timer
	for id, line := range fields {
		t, err := timer.Deserialize(line, cfg)
		if err != nil {
			obs.Error("store.load.skip", obs.Fields{"key": timersKey, "field": id, "err": err.Error()})
			obs.StoreLoadErrorsTotal.Inc()
			continue
		}
		timers = append(timers, t)
	}
	return timers, nil
}

func (b *redisBackend) Save(timers []*timer.Timer) error {
	fields := make(map[string]string, len(timers))
	for _, t := range timers {
		line, err := t.Serialize()
		if err != nil {
			return err
		}
		fields[strconv.Itoa(t.ID)] = line
	}
	ctx := context.Background()
	pipe := b.client.TxPipeline()
	pipe.Del(ctx, timersKey)
	if len(fields) > 0 {
		pipe.HSet(ctx, timersKey, fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis rewrite failed: %w", err)
	}
	return nil
}
