package models

// CreateEntryRequest is the input of a single draft creation.
type CreateEntryRequest struct {
	GraphID  string         `json:"graph_id"`
	TypeID   string         `json:"type_id"`
	Name     LocalizedName  `json:"name"`
	ParentID string         `json:"parent_id,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DraftInput is one item of a bulk creation batch. Graph and state come from
// the batch.
type DraftInput struct {
	TypeID   string         `json:"type_id"`
	Name     LocalizedName  `json:"name"`
	ParentID string         `json:"parent_id,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// BulkCreateRequest creates a batch of drafts atomically.
type BulkCreateRequest struct {
	StateID string       `json:"state_id"`
	Entries []DraftInput `json:"entries"`
}

// CreateTypeRequest registers a new entry type.
type CreateTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
