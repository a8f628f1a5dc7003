package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing downstream of the outbox.
type EventCategory string

const (
	// CategoryCompliance covers events with legal or editorial significance:
	// what went live, who accepted which terms.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine authoring activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	// ActorID is the authenticated user who performed the action.
	ActorID string
	// Subject is the primary entity the action touched (graph id, entry id,
	// release version, user id for consent events).
	Subject   string
	Action    string
	GraphID   string
	Count     int
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	// Knowledge graph events
	EventGraphReplaced AuditEvent = "graph_replaced"

	// Master data events
	EventTypeCreated        AuditEvent = "masterdata_type_created"
	EventEntryDrafted       AuditEvent = "masterdata_entry_drafted"
	EventEntriesBulkDrafted AuditEvent = "masterdata_entries_bulk_drafted"
	EventEntriesPublished   AuditEvent = "masterdata_entries_published"
	EventEntrySoftDeleted   AuditEvent = "masterdata_entry_soft_deleted"

	// Release events
	EventReleaseCreated        AuditEvent = "release_created"
	EventPolicyChangePublished AuditEvent = "policy_change_published"

	// Consent events
	EventTermsAccepted AuditEvent = "terms_accepted"
	EventConsentReset  AuditEvent = "consent_reset"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventEntriesPublished:      CategoryCompliance,
	EventEntrySoftDeleted:      CategoryCompliance,
	EventPolicyChangePublished: CategoryCompliance,
	EventTermsAccepted:         CategoryCompliance,
	EventConsentReset:          CategoryCompliance,

	EventGraphReplaced:      CategoryOperations,
	EventTypeCreated:        CategoryOperations,
	EventEntryDrafted:       CategoryOperations,
	EventEntriesBulkDrafted: CategoryOperations,
	EventReleaseCreated:     CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Append must honour a transaction carried in
// ctx (pkg/platform/tx) so events commit with the change they describe.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
