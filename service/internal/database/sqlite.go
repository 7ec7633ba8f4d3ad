// internal/database/sqlite.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jason-s-yu/idiomchain/service/internal/models"
	log "github.com/sirupsen/logrus"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps battle records in an embedded SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Benchmark matches finish concurrently; serialize writers.
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Infof("Using SQLite battle store at %s", path)
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS battles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model_a_name TEXT NOT NULL,
			model_b_name TEXT NOT NULL,
			start_word TEXT NOT NULL,
			history TEXT NOT NULL DEFAULT '[]',
			winner TEXT NOT NULL,
			reason TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_battles_created_at ON battles(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// InsertBattle stores a finished match and returns its ID.
func (s *SQLiteStore) InsertBattle(ctx context.Context, rec models.BattleRecord) (int64, error) {
	history, err := encodeHistory(rec.History)
	if err != nil {
		return 0, err
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO battles (model_a_name, model_b_name, start_word, history, winner, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ModelAName,
		rec.ModelBName,
		rec.StartWord,
		string(history),
		string(rec.Winner),
		rec.Reason,
		created.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert battle: %w", err)
	}
	return res.LastInsertId()
}

// ListBattles returns every stored match, newest first.
func (s *SQLiteStore) ListBattles(ctx context.Context) ([]models.BattleRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model_a_name, model_b_name, start_word, winner, reason, created_at
		 FROM battles ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	out := []models.BattleRecord{}
	for rows.Next() {
		var (
			rec     models.BattleRecord
			winner  string
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.ModelAName, &rec.ModelBName, &rec.StartWord, &winner, &rec.Reason, &created); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		rec.Winner = winnerOf(winner)
		rec.CreatedAt = parseTime(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetBattle returns one match with its round history.
func (s *SQLiteStore) GetBattle(ctx context.Context, id int64) (models.BattleRecord, error) {
	var (
		rec     models.BattleRecord
		history string
		winner  string
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, model_a_name, model_b_name, start_word, history, winner, reason, created_at
		 FROM battles WHERE id = ?`, id).
		Scan(&rec.ID, &rec.ModelAName, &rec.ModelBName, &rec.StartWord, &history, &winner, &rec.Reason, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BattleRecord{}, ErrNotFound
	}
	if err != nil {
		return models.BattleRecord{}, fmt.Errorf("get battle %d: %w", id, err)
	}
	rec.Winner = winnerOf(winner)
	rec.CreatedAt = parseTime(created)
	if rec.History, err = decodeHistory([]byte(history)); err != nil {
		return models.BattleRecord{}, err
	}
	return rec, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return time.Time{}
		}
	}
	return t
}
