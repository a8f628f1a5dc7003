package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	"clms/pkg/platform/sentinel"
	txcontext "clms/pkg/platform/tx"
)

const pgUniqueViolation = "23505"

const entryColumns = `id, type_id, graph_id, name, parent_id, state_id, status, active, metadata, created_at, published_at, deleted_at`

// PostgresEntryStore persists entries in masterdata_entries.
type PostgresEntryStore struct {
	db *sql.DB
}

func NewPostgresEntryStore(db *sql.DB) *PostgresEntryStore {
	return &PostgresEntryStore{db: db}
}

func (s *PostgresEntryStore) Create(ctx context.Context, e *models.Entry) error {
	return s.insert(ctx, txcontext.Or(ctx, s.db), e)
}

// CreateMany inserts inside the caller's transaction when there is one,
// otherwise inside its own.
func (s *PostgresEntryStore) CreateMany(ctx context.Context, entries []*models.Entry) error {
	if _, ok := txcontext.From(ctx); ok {
		for _, e := range entries {
			if err := s.insert(ctx, txcontext.Or(ctx, s.db), e); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	for _, e := range entries {
		if err := s.insert(ctx, tx, e); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

func (s *PostgresEntryStore) insert(ctx context.Context, q txcontext.Querier, e *models.Entry) error {
	name, err := json.Marshal(e.Name)
	if err != nil {
		return fmt.Errorf("encode entry name: %w", err)
	}
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode entry metadata: %w", err)
	}
	var parent *uuid.UUID
	if e.ParentID != nil {
		p := uuid.UUID(*e.ParentID)
		parent = &p
	}
	var stateID sql.NullString
	if e.StateID != "" {
		stateID = sql.NullString{String: e.StateID, Valid: true}
	}

	query := `INSERT INTO masterdata_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = q.ExecContext(ctx, query,
		uuid.UUID(e.ID), uuid.UUID(e.TypeID), string(e.GraphID), name, parent, stateID,
		string(e.Status), e.Active, meta, e.CreatedAt, e.PublishedAt, e.DeletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("entry %s: %w", e.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *PostgresEntryStore) FindByID(ctx context.Context, entryID id.EntryID) (*models.Entry, error) {
	row := txcontext.Or(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM masterdata_entries WHERE id = $1 AND active`, uuid.UUID(entryID))
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return e, nil
}

func (s *PostgresEntryStore) List(ctx context.Context, filter models.EntryFilter) ([]*models.Entry, error) {
	var (
		conds = []string{"active", "graph_id = $1"}
		args  = []any{string(filter.GraphID)}
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TypeID != nil {
		args = append(args, uuid.UUID(*filter.TypeID))
		conds = append(conds, fmt.Sprintf("type_id = $%d", len(args)))
	}
	query := `SELECT ` + entryColumns + ` FROM masterdata_entries WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY created_at DESC, id DESC`

	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

func (s *PostgresEntryStore) CountDrafts(ctx context.Context, graphID id.GraphID) (int, error) {
	var n int
	err := txcontext.Or(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM masterdata_entries WHERE graph_id = $1 AND status = 'draft' AND active`,
		string(graphID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count drafts: %w", err)
	}
	return n, nil
}

// PublishDrafts is a single conditional update; rows already live or
// deleted are never touched.
func (s *PostgresEntryStore) PublishDrafts(ctx context.Context, graphID id.GraphID, now time.Time) ([]id.EntryID, error) {
	query := `
		UPDATE masterdata_entries
		SET status = 'live', published_at = $2
		WHERE graph_id = $1 AND status = 'draft' AND active
		RETURNING id, created_at
	`
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, query, string(graphID), now)
	if err != nil {
		return nil, fmt.Errorf("publish drafts: %w", err)
	}
	defer rows.Close()

	type moved struct {
		id        uuid.UUID
		createdAt time.Time
	}
	var all []moved
	for rows.Next() {
		var m moved
		if err := rows.Scan(&m.id, &m.createdAt); err != nil {
			return nil, fmt.Errorf("scan published id: %w", err)
		}
		all = append(all, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published ids: %w", err)
	}
	// RETURNING has no ORDER BY.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].createdAt.Equal(all[j].createdAt) {
			return all[i].createdAt.Before(all[j].createdAt)
		}
		return all[i].id.String() < all[j].id.String()
	})

	ids := make([]id.EntryID, len(all))
	for i, m := range all {
		ids[i] = id.EntryID(m.id)
	}
	return ids, nil
}

func (s *PostgresEntryStore) Execute(ctx context.Context, entryID id.EntryID, validate func(*models.Entry) error, mutate func(*models.Entry)) (*models.Entry, error) {
	run := func(ctx context.Context, q txcontext.Querier) (*models.Entry, error) {
		row := q.QueryRowContext(ctx,
			`SELECT `+entryColumns+` FROM masterdata_entries WHERE id = $1 AND active FOR UPDATE`, uuid.UUID(entryID))
		e, err := scanEntry(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load entry for update: %w", err)
		}
		if err := validate(e); err != nil {
			return nil, err
		}
		mutate(e)
		_, err = q.ExecContext(ctx, `
			UPDATE masterdata_entries
			SET status = $2, active = $3, published_at = $4, deleted_at = $5
			WHERE id = $1
		`, uuid.UUID(e.ID), string(e.Status), e.Active, e.PublishedAt, e.DeletedAt)
		if err != nil {
			return nil, fmt.Errorf("update entry: %w", err)
		}
		return e, nil
	}

	if _, ok := txcontext.From(ctx); ok {
		return run(ctx, txcontext.Or(ctx, s.db))
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin entry update: %w", err)
	}
	e, err := run(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entry update: %w", err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e          models.Entry
		entryID    uuid.UUID
		typeID     uuid.UUID
		graphID    string
		name, meta []byte
		parent     uuid.NullUUID
		stateID    sql.NullString
		status     string
		published  sql.NullTime
		deleted    sql.NullTime
	)
	if err := row.Scan(&entryID, &typeID, &graphID, &name, &parent, &stateID, &status,
		&e.Active, &meta, &e.CreatedAt, &published, &deleted); err != nil {
		return nil, err
	}
	e.ID = id.EntryID(entryID)
	e.TypeID = id.TypeID(typeID)
	e.GraphID = id.GraphID(graphID)
	e.Status = models.EntryStatus(status)
	e.StateID = stateID.String
	if parent.Valid {
		p := id.EntryID(parent.UUID)
		e.ParentID = &p
	}
	if published.Valid {
		t := published.Time
		e.PublishedAt = &t
	}
	if deleted.Valid {
		t := deleted.Time
		e.DeletedAt = &t
	}
	if err := json.Unmarshal(name, &e.Name); err != nil {
		return nil, fmt.Errorf("decode entry name: %w", err)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &e.Metadata); err != nil {
			return nil, fmt.Errorf("decode entry metadata: %w", err)
		}
	}
	return &e, nil
}
