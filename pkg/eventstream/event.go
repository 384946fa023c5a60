package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeCreated is emitted after a memory item is created.
	EventTypeCreated = "memory.created"

	// EventTypeUpdated is emitted after a memory item is updated.
	EventTypeUpdated = "memory.updated"

	// EventTypeDeleted is emitted after a memory item is deleted.
	EventTypeDeleted = "memory.deleted"

	// EventTypeBulkDeleted is emitted after a bulk delete completes.
	EventTypeBulkDeleted = "memory.bulk_deleted"
)

// MutationEvent is a transport-neutral event payload for a memory mutation.
type MutationEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`
	UserID        string    `json:"user_id"`
	ItemIDs       []string  `json:"item_ids"`
	ProjectID     string    `json:"project_id,omitempty"`
}
