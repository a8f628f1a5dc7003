package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
	txcontext "clms/pkg/platform/tx"
)

type PostgresTypeStore struct {
	db *sql.DB
}

func NewPostgresTypeStore(db *sql.DB) *PostgresTypeStore {
	return &PostgresTypeStore{db: db}
}

func (s *PostgresTypeStore) Create(ctx context.Context, t *models.Type) error {
	_, err := txcontext.Or(ctx, s.db).ExecContext(ctx,
		`INSERT INTO masterdata_types (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(t.ID), t.Name, t.Description, t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("type name %q: %w", t.Name, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert type: %w", err)
	}
	return nil
}

func (s *PostgresTypeStore) FindByID(ctx context.Context, typeID id.TypeID) (*models.Type, error) {
	row := txcontext.Or(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM masterdata_types WHERE id = $1`, uuid.UUID(typeID))
	t, err := scanType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find type: %w", err)
	}
	return t, nil
}

func (s *PostgresTypeStore) List(ctx context.Context) ([]*models.Type, error) {
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx,
		`SELECT id, name, description, created_at FROM masterdata_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Type, 0)
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate types: %w", err)
	}
	return out, nil
}

func scanType(row rowScanner) (*models.Type, error) {
	var (
		t      models.Type
		typeID uuid.UUID
	)
	if err := row.Scan(&typeID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.ID = id.TypeID(typeID)
	return &t, nil
}
