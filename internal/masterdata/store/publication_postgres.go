package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	txcontext "clms/pkg/platform/tx"
)

type PostgresPublicationStore struct {
	db *sql.DB
}

func NewPostgresPublicationStore(db *sql.DB) *PostgresPublicationStore {
	return &PostgresPublicationStore{db: db}
}

func (s *PostgresPublicationStore) Append(ctx context.Context, rec *models.PublicationRecord) error {
	entryIDs := make([]string, len(rec.EntryIDs))
	for i, e := range rec.EntryIDs {
		entryIDs[i] = e.String()
	}
	_, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `
		INSERT INTO masterdata_publications (id, graph_id, actor, records_count, entry_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.UUID(rec.ID), string(rec.GraphID), rec.Actor, rec.RecordsCount, pq.Array(entryIDs), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert publication: %w", err)
	}
	return nil
}

func (s *PostgresPublicationStore) ListByGraph(ctx context.Context, graphID id.GraphID) ([]*models.PublicationRecord, error) {
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, `
		SELECT id, graph_id, actor, records_count, entry_ids, created_at
		FROM masterdata_publications
		WHERE graph_id = $1
		ORDER BY created_at DESC, id DESC
	`, string(graphID))
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.PublicationRecord, 0)
	for rows.Next() {
		var (
			rec      models.PublicationRecord
			pubID    uuid.UUID
			graph    string
			entryIDs []string
		)
		if err := rows.Scan(&pubID, &graph, &rec.Actor, &rec.RecordsCount, pq.Array(&entryIDs), &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		rec.ID = id.PublicationID(pubID)
		rec.GraphID = id.GraphID(graph)
		rec.EntryIDs = make([]id.EntryID, 0, len(entryIDs))
		for _, raw := range entryIDs {
			entryID, err := id.ParseEntryID(raw)
			if err != nil {
				return nil, fmt.Errorf("decode publication entry id: %w", err)
			}
			rec.EntryIDs = append(rec.EntryIDs, entryID)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate publications: %w", err)
	}
	return out, nil
}
