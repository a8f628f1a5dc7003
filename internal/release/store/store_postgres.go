package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"clms/internal/release/models"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
	txcontext "clms/pkg/platform/tx"
)

const releaseColumns = `id, version, release_type, release_date, notes, policy_updated, created_at`

const newestFirst = ` ORDER BY release_date DESC, created_at DESC, seq DESC`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, r *models.Release) error {
	_, err := txcontext.Or(ctx, s.db).ExecContext(ctx,
		`INSERT INTO releases (`+releaseColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(r.ID), r.Version.String(), string(r.Type), r.ReleaseDate, r.Notes, r.PolicyUpdated, r.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("release %s: %w", r.Version, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert release: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Release, error) {
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, `SELECT `+releaseColumns+` FROM releases`+newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Release, 0)
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate releases: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Latest(ctx context.Context) (*models.Release, error) {
	return s.findOne(ctx, `SELECT `+releaseColumns+` FROM releases`+newestFirst+` LIMIT 1`)
}

func (s *PostgresStore) LatestPolicyUpdated(ctx context.Context) (*models.Release, error) {
	return s.findOne(ctx, `SELECT `+releaseColumns+` FROM releases WHERE policy_updated`+newestFirst+` LIMIT 1`)
}

func (s *PostgresStore) Execute(ctx context.Context, releaseID id.ReleaseID, validate func(*models.Release) error, mutate func(*models.Release)) (*models.Release, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin release update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+releaseColumns+` FROM releases WHERE id = $1 FOR UPDATE`, uuid.UUID(releaseID))
	r, err := scanRelease(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load release for update: %w", err)
	}
	if err := validate(r); err != nil {
		return nil, err
	}
	mutate(r)
	if _, err := tx.ExecContext(ctx,
		`UPDATE releases SET notes = $2, policy_updated = $3 WHERE id = $1`,
		uuid.UUID(r.ID), r.Notes, r.PolicyUpdated); err != nil {
		return nil, fmt.Errorf("update release: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit release update: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string) (*models.Release, error) {
	r, err := scanRelease(txcontext.Or(ctx, s.db).QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find release: %w", err)
	}
	return r, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRelease(row rowScanner) (*models.Release, error) {
	var (
		r           models.Release
		releaseID   uuid.UUID
		version     string
		releaseType string
	)
	if err := row.Scan(&releaseID, &version, &releaseType, &r.ReleaseDate, &r.Notes, &r.PolicyUpdated, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.ID = id.ReleaseID(releaseID)
	r.Version = id.PolicyVersion(version)
	r.Type = models.ReleaseType(releaseType)
	return &r, nil
}
