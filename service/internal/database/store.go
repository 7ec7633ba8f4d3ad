// internal/database/store.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/idiomchain/engine"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
)

// ErrNotFound is returned by GetBattle for an unknown ID.
var ErrNotFound = errors.New("battle not found")

// Store persists finished matches.
type Store interface {
	InsertBattle(ctx context.Context, rec models.BattleRecord) (int64, error)
	// ListBattles returns summaries newest first, without round history.
	ListBattles(ctx context.Context) ([]models.BattleRecord, error)
	GetBattle(ctx context.Context, id int64) (models.BattleRecord, error)
	Close() error
}

// Open picks the backend: Postgres when databaseURL is set, SQLite at
// dbPath otherwise.
func Open(ctx context.Context, databaseURL, dbPath string) (Store, error) {
	if databaseURL != "" {
		pg, err := OpenPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	lite, err := OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return lite, nil
}

func encodeHistory(rounds []models.RoundEvent) ([]byte, error) {
	if rounds == nil {
		rounds = []models.RoundEvent{}
	}
	b, err := json.Marshal(rounds)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return b, nil
}

func decodeHistory(raw []byte) ([]models.RoundEvent, error) {
	var rounds []models.RoundEvent
	if len(raw) == 0 {
		return rounds, nil
	}
	if err := json.Unmarshal(raw, &rounds); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return rounds, nil
}

func winnerOf(s string) engine.Winner { return engine.Winner(s) }
