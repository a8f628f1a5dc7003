package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clms/internal/knowledgegraph/models"
	"clms/pkg/platform/sentinel"
	txcontext "clms/pkg/platform/tx"
)

// PostgresStore persists each graph as one JSONB document.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, g *models.Graph) error {
	doc, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	query := `
		INSERT INTO knowledge_graphs (id, name, document, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`
	if _, err := txcontext.Or(ctx, s.db).ExecContext(ctx, query, g.ID, g.Name, doc, time.Now()); err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, graphID string) (*models.Graph, error) {
	var doc []byte
	err := txcontext.Or(ctx, s.db).QueryRowContext(ctx,
		`SELECT document FROM knowledge_graphs WHERE id = $1`, graphID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find graph: %w", err)
	}
	return decode(doc)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Graph, error) {
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, `SELECT document FROM knowledge_graphs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer rows.Close()

	var graphs []*models.Graph
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan graph: %w", err)
		}
		g, err := decode(doc)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graphs: %w", err)
	}
	return graphs, nil
}
