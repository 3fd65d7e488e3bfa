package scores

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps scores in a Postgres database, for consoles that share
// a leaderboard across devices.
type PostgresStore struct {
	conn *pgx.Conn
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	q := `
	CREATE TABLE IF NOT EXISTS high_scores (
		game TEXT PRIMARY KEY,
		score INTEGER NOT NULL
	);
	`
	if _, err := conn.Exec(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create high_scores table: %v", err)
	}

	return &PostgresStore{conn: conn}, nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

func (s *PostgresStore) Load(ctx context.Context) (map[string]int, error) {
	rows, err := s.conn.Query(ctx, `SELECT game, score FROM high_scores;`)
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

func (s *PostgresStore) Save(ctx context.Context, scores map[string]int) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	for game, score := range scores {
		q := `
		INSERT INTO high_scores (game, score) VALUES ($1, $2)
		ON CONFLICT (game) DO UPDATE SET score = $2;
		`
		if _, err := tx.Exec(ctx, q, game, score); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to insert high score: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}
