// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. It stays nil when Redis is not configured,
// in which case publishing is skipped by callers.
var Rdb *redis.Client

const (
	// roundStreamPrefix + battle ID holds a battle's turn history.
	roundStreamPrefix = "battle:rounds:"
	// RoundChannel carries every turn of every battle for live subscribers.
	RoundChannel = "battle:rounds"
	// maxStreamLen caps each per-battle stream; a match has at most 30 turns.
	maxStreamLen = 64
)

// RoundRecord is one turn published to Redis.
type RoundRecord struct {
	BattleID  uuid.UUID         `json:"battleId"`
	Event     models.RoundEvent `json:"event"`
	Timestamp int64             `json:"timestamp"`
}

// ConnectRedis parses url, pings the server and sets Rdb.
func ConnectRedis(ctx context.Context, url string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping: %w", err)
	}
	Rdb = client
	log.Infof("Connected to Redis at %s", opts.Addr)
	return nil
}

// Close releases the shared client.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}

// StreamKey returns the stream holding a battle's turns.
func StreamKey(battleID uuid.UUID) string {
	return roundStreamPrefix + battleID.String()
}

// PublishRoundEvent appends the turn to the battle's stream and announces it
// on RoundChannel in one pipeline.
func PublishRoundEvent(ctx context.Context, rec RoundRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis client not initialized")
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal round record: %w", err)
	}
	_, err = Rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.XAdd(ctx, &redis.XAddArgs{
			Stream: StreamKey(rec.BattleID),
			MaxLen: maxStreamLen,
			Approx: true,
			Values: map[string]any{"round": rec.Event.Round, "data": payload},
		})
		p.Publish(ctx, RoundChannel, payload)
		return nil
	})
	return err
}

// BattleRounds reads back a battle's turn history in order.
func BattleRounds(ctx context.Context, battleID uuid.UUID) ([]RoundRecord, error) {
	if Rdb == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}
	msgs, err := Rdb.XRange(ctx, StreamKey(battleID), "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("read round stream: %w", err)
	}
	out := make([]RoundRecord, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values["data"].(string)
		if !ok {
			continue
		}
		var rec RoundRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode round %s: %w", m.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
