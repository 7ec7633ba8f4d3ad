// internal/battle/events.go
package battle

import (
	"context"
	"time"

	"github.com/jason-s-yu/idiomchain/service/internal/cache"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"
)

// recordRound appends a turn record, hands it to the callbacks and mirrors it
// to the Redis history stream. Runs on the battle's own goroutine, so records
// leave in turn order.
func (b *Battle) recordRound(ctx context.Context, ev models.RoundEvent) {
	b.rounds = append(b.rounds, ev)
	if b.OnRound != nil {
		b.OnRound(ev)
	}
	b.fireEvent(models.Event{Event: models.EventRound, Data: ev})
	b.publishRound(ctx, ev)
}

func (b *Battle) fireEvent(ev models.Event) {
	if b.BroadcastFn == nil {
		return
	}
	b.BroadcastFn(ev)
}

// publishRound sends the turn to the history stream when Redis is configured.
func (b *Battle) publishRound(ctx context.Context, ev models.RoundEvent) {
	if cache.Rdb == nil {
		return
	}
	// Short timeout for the Redis operation.
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	rec := cache.RoundRecord{
		BattleID:  b.ID,
		Event:     ev,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := cache.PublishRoundEvent(ctx, rec); err != nil {
		log.Printf("Error: Battle %s: failed publishing round %d to Redis: %v", b.ID, ev.Round, err)
	}
}
