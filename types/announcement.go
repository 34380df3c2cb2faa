package types

import "time"

// Announcement is a public notice posted by staff or admins.
// Announcements carry no workflow; they are plain CRUD rows consumed
// read-only by citizens.
type Announcement struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Category  string    `json:"category" db:"category"`
	Important bool      `json:"important" db:"important"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DashboardStats is the aggregate view rendered on the dashboard.
type DashboardStats struct {
	// OpenComplaints counts complaints not yet resolved.
	OpenComplaints int `json:"open_complaints"`

	// PendingDocuments counts document requests awaiting verification.
	PendingDocuments int `json:"pending_documents"`

	// ResolvedThisWeek counts complaints resolved in the trailing 7 days.
	ResolvedThisWeek int `json:"resolved_this_week"`

	// RegisteredCitizens counts all profiles.
	RegisteredCitizens int `json:"registered_citizens"`
}
