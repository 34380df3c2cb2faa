package types

import "time"

// ComplaintStatus is the lifecycle state of a complaint.
// The set of values is closed; the store enforces it with a CHECK
// constraint and no transition may produce anything outside it.
type ComplaintStatus string

// Supported complaint statuses.
const (
	// ComplaintPending is the initial status of every new complaint.
	ComplaintPending ComplaintStatus = "pending"

	// ComplaintInProgress marks a complaint a staff member has taken up.
	ComplaintInProgress ComplaintStatus = "in-progress"

	// ComplaintResolved is a terminal status.
	ComplaintResolved ComplaintStatus = "resolved"

	// ComplaintRejected is a terminal status.
	ComplaintRejected ComplaintStatus = "rejected"

	// ComplaintVerified is accepted as a stored value for historical
	// rows but is not produced by any transition.
	ComplaintVerified ComplaintStatus = "verified"
)

// Valid reports whether s is one of the supported statuses.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintRejected, ComplaintVerified:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s ComplaintStatus) Terminal() bool {
	return s == ComplaintResolved || s == ComplaintRejected
}

// ComplaintAction names a workflow transition on a complaint.
type ComplaintAction string

// Supported complaint actions.
const (
	ComplaintMarkInProgress ComplaintAction = "markInProgress"
	ComplaintMarkResolved   ComplaintAction = "markResolved"
	ComplaintMarkRejected   ComplaintAction = "markRejected"
)

// complaintTransitions is the full transition graph. A missing entry
// means the (status, action) pair is illegal.
var complaintTransitions = map[ComplaintStatus]map[ComplaintAction]ComplaintStatus{
	ComplaintPending: {
		ComplaintMarkInProgress: ComplaintInProgress,
		ComplaintMarkRejected:   ComplaintRejected,
	},
	ComplaintInProgress: {
		ComplaintMarkResolved: ComplaintResolved,
		ComplaintMarkRejected: ComplaintRejected,
	},
}

// Apply returns the status reached by taking action from s.
// The second return value is false when the transition is illegal.
func (s ComplaintStatus) Apply(action ComplaintAction) (ComplaintStatus, bool) {
	next, ok := complaintTransitions[s][action]
	return next, ok
}

// ComplaintActions lists the actions legal from s, in a stable order.
// The UI renders exactly this set as buttons for moderating roles.
func ComplaintActions(s ComplaintStatus) []ComplaintAction {
	ordered := []ComplaintAction{ComplaintMarkInProgress, ComplaintMarkResolved, ComplaintMarkRejected}
	var actions []ComplaintAction
	for _, action := range ordered {
		if _, ok := complaintTransitions[s][action]; ok {
			actions = append(actions, action)
		}
	}
	return actions
}

// ComplaintCategories is the fixed category list offered by the portal.
var ComplaintCategories = []string{
	"Water Supply",
	"Electricity",
	"Roads & Transportation",
	"Sanitation",
	"Public Health",
	"Education",
	"Agriculture",
	"Environment",
	"Public Property",
	"Other",
}

// ValidComplaintCategory reports whether category is in the fixed list.
func ValidComplaintCategory(category string) bool {
	for _, c := range ComplaintCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Complaint represents a citizen-submitted issue report tracked through
// the resolution workflow.
type Complaint struct {
	// ID is the unique identifier, used as the public tracking ID.
	ID string `json:"id" db:"id"`

	// UserID identifies the submitting profile, immutable after creation.
	UserID string `json:"user_id" db:"user_id"`

	// Title is a short summary of the issue.
	Title string `json:"title" db:"title"`

	// Description is the full issue report.
	Description string `json:"description" db:"description"`

	// Category is one of ComplaintCategories.
	Category string `json:"category" db:"category"`

	// Location optionally pins the issue to a place.
	Location string `json:"location,omitempty" db:"location"`

	// Status is the current lifecycle state.
	Status ComplaintStatus `json:"status" db:"status"`

	// AssignedTo is the staff profile handling the complaint.
	// Set exactly once, on the transition into in-progress.
	AssignedTo string `json:"assigned_to,omitempty" db:"assigned_to"`

	// Version is the optimistic-concurrency token, bumped on every
	// transition. A stale version fails the update.
	Version int `json:"version" db:"version"`

	// CreatedAt is the timestamp when the complaint was submitted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent transition.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
