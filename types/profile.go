package types

import "time"

// Role is the authorization level of a profile.
type Role string

// Supported roles.
const (
	// RoleCitizen is the default role assigned at signup. Citizens may
	// submit complaints and document requests and read their own rows.
	RoleCitizen Role = "citizen"

	// RoleStaff may act on any complaint or document request.
	RoleStaff Role = "staff"

	// RoleAdmin has staff powers plus staff management.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may invoke workflow transitions.
func (r Role) CanModerate() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Profile represents a principal's stored identity record.
// Exactly one profile exists per authenticated identity.
type Profile struct {
	// ID is the opaque identity key, immutable once assigned.
	ID string `json:"id" db:"id"`

	// Name is the citizen's display name.
	Name string `json:"name" db:"name"`

	// Email is the unique login email.
	Email string `json:"email" db:"email"`

	// Role gates which operations the profile may invoke.
	// It is set at creation and only changed by admin staff management.
	Role Role `json:"role" db:"role"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty" db:"phone"`

	// Address is an optional postal address.
	Address string `json:"address,omitempty" db:"address"`

	// PasswordHash stores the bcrypt hash of the login password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the profile was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
