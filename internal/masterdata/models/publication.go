package models

import (
	"time"

	id "clms/pkg/domain"
)

// PublicationRecord is the append-only audit row written once per publish.
type PublicationRecord struct {
	ID           id.PublicationID `json:"id"`
	GraphID      id.GraphID       `json:"graph_id"`
	Actor        string           `json:"actor"`
	RecordsCount int              `json:"records_count"`
	EntryIDs     []id.EntryID     `json:"entry_ids"`
	CreatedAt    time.Time        `json:"created_at"`
}

// PublishResult is returned to the caller of a successful publish.
type PublishResult struct {
	GraphID       id.GraphID       `json:"graph_id"`
	Count         int              `json:"count"`
	PublicationID id.PublicationID `json:"publication_id"`
	PublishedAt   time.Time        `json:"published_at"`
}
