package repositories

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/google/uuid"
)

// DefaultListLimit caps ListMatchResults when no limit is given.
const DefaultListLimit = 50

type Repository interface {
	Close(ctx context.Context) error
	SaveMatchResult(ctx context.Context, result *models.MatchResult) error
	GetMatchResult(ctx context.Context, id uuid.UUID) (*models.MatchResult, error)
	// ListMatchResults returns the most recently ended matches first.
	ListMatchResults(ctx context.Context, limit int) ([]*models.MatchResult, error)
}

// NewRepositoryFromURL opens a repository by URL scheme, sqlite://<file> or postgresql://...,
// applying the matching migrations found under migrationsRoot.
func NewRepositoryFromURL(ctx context.Context, connStr string, migrationsRoot string) (Repository, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %v", err)
	}

	switch u.Scheme {
	case "sqlite":
		path := u.Host + u.Path
		repository, err := NewSQLiteRepository(ctx, path, filepath.Join(migrationsRoot, "sqlite"))
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite repository: %v", err)
		}
		return repository, nil
	case "postgres", "postgresql":
		repository, err := NewPostgresRepository(ctx, u.String(), filepath.Join(migrationsRoot, "postgres"))
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres repository: %v", err)
		}
		return repository, nil
	default:
		return nil, fmt.Errorf("unknown database type %s", u.Scheme)
	}
}
