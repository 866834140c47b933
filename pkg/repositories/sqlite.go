package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := runMigrations(migrations, func(name string, migration string) error {
		_, err := db.ExecContext(ctx, migration)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

// runMigrations applies every file in the migrations directory in name order.
func runMigrations(migrations string, exec func(name string, migration string) error) error {
	dir, err := os.ReadDir(migrations)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %v", err)
	}
	sort.Slice(dir, func(i, j int) bool { return dir[i].Name() < dir[j].Name() })

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if err := exec(entry.Name(), string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveMatchResult(ctx context.Context, result *models.MatchResult) error {
	players, err := json.Marshal(result.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal players: %v", err)
	}

	q := `
	INSERT OR REPLACE INTO match_results (match_id, seed, started_at, ended_at, rounds, winner, win_reason, players)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = r.db.ExecContext(ctx, q,
		result.ID.String(),
		result.Seed,
		result.StartedAt.UnixMilli(),
		result.EndedAt.UnixMilli(),
		result.Rounds,
		result.Winner,
		result.WinReason,
		string(players),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match result: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) GetMatchResult(ctx context.Context, id uuid.UUID) (*models.MatchResult, error) {
	q := `
	SELECT match_id, seed, started_at, ended_at, rounds, winner, win_reason, players
	FROM match_results WHERE match_id = ?;
	`
	result, err := scanSQLiteMatchResult(r.db.QueryRowContext(ctx, q, id.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{MatchID: id}
		}
		return nil, fmt.Errorf("failed to scan match result: %v", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ListMatchResults(ctx context.Context, limit int) ([]*models.MatchResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q := `
	SELECT match_id, seed, started_at, ended_at, rounds, winner, win_reason, players
	FROM match_results ORDER BY ended_at DESC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %v", err)
	}
	defer rows.Close()

	results := make([]*models.MatchResult, 0)
	for rows.Next() {
		result, err := scanSQLiteMatchResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match result: %v", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match results: %v", err)
	}

	return results, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteMatchResult(row scanner) (*models.MatchResult, error) {
	var id string
	var startedAt, endedAt int64
	var players string
	result := &models.MatchResult{}
	if err := row.Scan(&id, &result.Seed, &startedAt, &endedAt, &result.Rounds, &result.Winner, &result.WinReason, &players); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse match id: %v", err)
	}
	result.ID = parsed
	result.StartedAt = time.UnixMilli(startedAt).UTC()
	result.EndedAt = time.UnixMilli(endedAt).UTC()
	if err := json.Unmarshal([]byte(players), &result.Players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %v", err)
	}
	return result, nil
}
