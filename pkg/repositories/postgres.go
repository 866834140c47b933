package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository serializes access to a single connection,
// which pgx does not allow to be used concurrently.
type PostgresRepository struct {
	lock sync.Mutex
	conn *pgx.Conn
}

// NewPostgresRepository connects to the database and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(migrations, func(name string, migration string) error {
		_, err := conn.Exec(ctx, migration)
		return err
	}); err != nil {
		conn.Close(ctx)
		return nil, err
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveMatchResult(ctx context.Context, result *models.MatchResult) error {
	players, err := json.Marshal(result.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal players: %v", err)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	INSERT INTO match_results (match_id, seed, started_at, ended_at, rounds, winner, win_reason, players)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (match_id) DO UPDATE SET ended_at = $4, rounds = $5, winner = $6, win_reason = $7, players = $8;
	`
	_, err = r.conn.Exec(ctx, q,
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

func (r *PostgresRepository) GetMatchResult(ctx context.Context, id uuid.UUID) (*models.MatchResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	SELECT match_id::text, seed, started_at, ended_at, rounds, winner, win_reason, players::text
	FROM match_results WHERE match_id = $1::uuid;
	`
	result, err := scanPostgresMatchResult(r.conn.QueryRow(ctx, q, id.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{MatchID: id}
		}
		return nil, fmt.Errorf("failed to scan match result: %v", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListMatchResults(ctx context.Context, limit int) ([]*models.MatchResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	SELECT match_id::text, seed, started_at, ended_at, rounds, winner, win_reason, players::text
	FROM match_results ORDER BY ended_at DESC LIMIT $1;
	`
	rows, err := r.conn.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %v", err)
	}
	defer rows.Close()

	results := make([]*models.MatchResult, 0)
	for rows.Next() {
		result, err := scanPostgresMatchResult(rows)
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

func scanPostgresMatchResult(row pgx.Row) (*models.MatchResult, error) {
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
