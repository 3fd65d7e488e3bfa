package scores

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps scores in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	q := `
	CREATE TABLE IF NOT EXISTS high_scores (
		game TEXT PRIMARY KEY,
		score INTEGER NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create high_scores table: %v", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT game, score FROM high_scores;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query high scores: %v", err)
	}
	defer rows.Close()

	scores := make(map[string]int)
	for rows.Next() {
		var game string
		var score int
		if err := rows.Scan(&game, &score); err != nil {
			return nil, fmt.Errorf("failed to scan high score: %v", err)
		}
		scores[game] = score
	}

	return scores, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, scores map[string]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	for game, score := range scores {
		q := `
		INSERT OR REPLACE INTO high_scores (game, score)
		VALUES (?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, game, score); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert high score: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}
