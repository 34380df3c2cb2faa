package types

import "time"

// Change event tables.
const (
	TableComplaints       = "complaints"
	TableDocumentRequests = "document_requests"
	TableAnnouncements    = "announcements"
)

// Change event actions.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// ChangeEvent describes a row change pushed to subscribed clients.
// Consumers should treat it as an invalidation signal and re-fetch the
// affected collection rather than patching state from the payload.
type ChangeEvent struct {
	// Table names the changed collection (see Table* constants).
	Table string `json:"table"`

	// Action is created, updated, or deleted.
	Action string `json:"action"`

	// EntityID is the id of the changed row.
	EntityID string `json:"entity_id"`

	// Status carries the row's status after the change, when the table
	// has one.
	Status string `json:"status,omitempty"`

	// At is the server time of the change.
	At time.Time `json:"at"`
}
