// internal/database/postgres.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"
)

// PostgresStore keeps battle records in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool to url and applies migrations.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	log.Infof("Connected to Postgres at %s/%s", cfg.ConnConfig.Host, cfg.ConnConfig.Database)
	return s, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// postgresSchema mirrors the SQLite schema; text columns are unbounded.
const postgresSchema = `
		CREATE TABLE IF NOT EXISTS battles (
			id BIGSERIAL PRIMARY KEY,
			model_a_name TEXT NOT NULL,
			model_b_name TEXT NOT NULL,
			start_word TEXT NOT NULL,
			history JSONB NOT NULL DEFAULT '[]',
			winner TEXT NOT NULL,
			reason TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_battles_created_at ON battles(created_at);`

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InsertBattle stores a finished match and returns its ID.
func (s *PostgresStore) InsertBattle(ctx context.Context, rec models.BattleRecord) (int64, error) {
	history, err := encodeHistory(rec.History)
	if err != nil {
		return 0, err
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO battles (model_a_name, model_b_name, start_word, history, winner, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		rec.ModelAName, rec.ModelBName, rec.StartWord, history, string(rec.Winner), rec.Reason, created,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert battle: %w", err)
	}
	return id, nil
}

// ListBattles returns every stored match, newest first.
func (s *PostgresStore) ListBattles(ctx context.Context) ([]models.BattleRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, model_a_name, model_b_name, start_word, winner, reason, created_at
		 FROM battles ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	out := []models.BattleRecord{}
	for rows.Next() {
		var (
			rec    models.BattleRecord
			winner string
		)
		if err := rows.Scan(&rec.ID, &rec.ModelAName, &rec.ModelBName, &rec.StartWord, &winner, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		rec.Winner = winnerOf(winner)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetBattle returns one match with its round history.
func (s *PostgresStore) GetBattle(ctx context.Context, id int64) (models.BattleRecord, error) {
	var (
		rec     models.BattleRecord
		history []byte
		winner  string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, model_a_name, model_b_name, start_word, history, winner, reason, created_at
		 FROM battles WHERE id = $1`, id).
		Scan(&rec.ID, &rec.ModelAName, &rec.ModelBName, &rec.StartWord, &history, &winner, &rec.Reason, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.BattleRecord{}, ErrNotFound
	}
	if err != nil {
		return models.BattleRecord{}, fmt.Errorf("get battle %d: %w", id, err)
	}
	rec.Winner = winnerOf(winner)
	if rec.History, err = decodeHistory(history); err != nil {
		return models.BattleRecord{}, err
	}
	return rec, nil
}
