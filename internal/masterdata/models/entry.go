package models

import (
	"strings"
	"time"

	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
)

// EntryStatus is the publication stage of an entry.
type EntryStatus string

const (
	StatusDraft EntryStatus = "draft"
	StatusLive  EntryStatus = "live"
)

func (s EntryStatus) IsValid() bool {
	return s == StatusDraft || s == StatusLive
}

// CanTransitionTo reports whether the lifecycle allows moving to target.
// Only draft -> live exists; live is terminal.
func (s EntryStatus) CanTransitionTo(target EntryStatus) bool {
	return s == StatusDraft && target == StatusLive
}

// DefaultLanguage must always be present in a LocalizedName.
const DefaultLanguage = "en"

// LocalizedName maps a language code to a display name.
type LocalizedName map[string]string

// Normalize trims every value and drops empty translations.
func (n LocalizedName) Normalize() LocalizedName {
	out := make(LocalizedName, len(n))
	for lang, v := range n {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if v = strings.TrimSpace(v); lang != "" && v != "" {
			out[lang] = v
		}
	}
	return out
}

// Default returns the English name.
func (n LocalizedName) Default() string {
	return n[DefaultLanguage]
}

// Entry is one master-data (taxonomy) record scoped to a knowledge graph.
//
// Invariants:
//   - Name carries a non-empty "en" value
//   - Status moves draft -> live only, never back
//   - Active moves true -> false only (soft delete); inactive entries are
//     invisible to every read
//   - PublishedAt is set exactly when Status is live
type Entry struct {
	ID          id.EntryID     `json:"id"`
	TypeID      id.TypeID      `json:"type_id"`
	GraphID     id.GraphID     `json:"graph_id"`
	Name        LocalizedName  `json:"name"`
	ParentID    *id.EntryID    `json:"parent_id,omitempty"`
	StateID     string         `json:"state_id,omitempty"`
	Status      EntryStatus    `json:"status"`
	Active      bool           `json:"active"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// NewDraftEntry builds an active draft, enforcing the construction invariants.
func NewDraftEntry(entryID id.EntryID, typeID id.TypeID, graphID id.GraphID, name LocalizedName, now time.Time) (*Entry, error) {
	if entryID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "entry id is required")
	}
	if typeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "type id is required")
	}
	if graphID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "graph id is required")
	}
	name = name.Normalize()
	if name.Default() == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name must include an English (en) value")
	}
	return &Entry{
		ID:        entryID,
		TypeID:    typeID,
		GraphID:   graphID,
		Name:      name,
		Status:    StatusDraft,
		Active:    true,
		Metadata:  map[string]any{},
		CreatedAt: now,
	}, nil
}

func (e *Entry) IsDraft() bool { return e.Status == StatusDraft }
func (e *Entry) IsLive() bool  { return e.Status == StatusLive }

// CanPublish checks the draft -> live transition.
func (e *Entry) CanPublish() error {
	if !e.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "entry is deleted")
	}
	if !e.Status.CanTransitionTo(StatusLive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "entry is already live")
	}
	return nil
}

// ApplyPublish moves the entry live. Call CanPublish first.
func (e *Entry) ApplyPublish(now time.Time) {
	e.Status = StatusLive
	e.PublishedAt = &now
}

// CanSoftDelete checks the active -> inactive transition.
func (e *Entry) CanSoftDelete() error {
	if !e.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "entry is already deleted")
	}
	return nil
}

// ApplySoftDelete deactivates the entry. Call CanSoftDelete first.
func (e *Entry) ApplySoftDelete(now time.Time) {
	e.Active = false
	e.DeletedAt = &now
}

// Clone returns a deep copy so stores never hand out shared state.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Name = make(LocalizedName, len(e.Name))
	for k, v := range e.Name {
		c.Name[k] = v
	}
	if e.ParentID != nil {
		p := *e.ParentID
		c.ParentID = &p
	}
	if e.Metadata != nil {
		c.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = v
		}
	}
	if e.PublishedAt != nil {
		t := *e.PublishedAt
		c.PublishedAt = &t
	}
	if e.DeletedAt != nil {
		t := *e.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// EntryFilter selects visible entries of one graph.
type EntryFilter struct {
	GraphID id.GraphID
	Status  EntryStatus
	TypeID  *id.TypeID
}

// Matches reports whether a visible entry satisfies the filter.
func (f EntryFilter) Matches(e *Entry) bool {
	if !e.Active || e.GraphID != f.GraphID {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.TypeID != nil && e.TypeID != *f.TypeID {
		return false
	}
	return true
}
