package types

import (
	"strings"
	"time"
)

// DocumentType identifies the certificate being requested.
type DocumentType string

// Supported document types.
const (
	DocumentBirth     DocumentType = "birth"
	DocumentDeath     DocumentType = "death"
	DocumentMarriage  DocumentType = "marriage"
	DocumentIncome    DocumentType = "income"
	DocumentResidence DocumentType = "residence"
	DocumentOther     DocumentType = "other"
)

// Valid reports whether t is one of the supported document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentBirth, DocumentDeath, DocumentMarriage, DocumentIncome, DocumentResidence, DocumentOther:
		return true
	}
	return false
}

// documentDetailFields maps each document type to the detail fields the
// request form must supply. Types absent from the map need only the
// common fields (purpose, attachments).
var documentDetailFields = map[DocumentType][]string{
	DocumentBirth: {
		"child_name", "father_name", "mother_name",
		"date_of_birth", "place_of_birth", "address",
	},
	DocumentDeath: {
		"deceased_name", "applicant_name", "relationship",
		"date_of_death", "place_of_death", "cause_of_death", "address",
	},
	DocumentMarriage: {
		"husband_name", "wife_name",
		"date_of_marriage", "place_of_marriage", "address",
	},
}

// RequiredDetailFields returns the detail fields required for t.
func RequiredDetailFields(t DocumentType) []string {
	return documentDetailFields[t]
}

// MissingDetailFields returns the required fields of t that are absent
// or blank in details.
func MissingDetailFields(t DocumentType, details map[string]string) []string {
	var missing []string
	for _, field := range documentDetailFields[t] {
		if strings.TrimSpace(details[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// DocumentStatus is the lifecycle state of a document request.
type DocumentStatus string

// Supported document request statuses.
const (
	DocumentPending  DocumentStatus = "pending"
	DocumentVerified DocumentStatus = "verified"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// Valid reports whether s is one of the supported statuses.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentPending, DocumentVerified, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentApproved || s == DocumentRejected
}

// DocumentAction names a workflow transition on a document request.
type DocumentAction string

// Supported document request actions.
const (
	DocumentVerify  DocumentAction = "verify"
	DocumentApprove DocumentAction = "approve"
	DocumentReject  DocumentAction = "reject"
)

var documentTransitions = map[DocumentStatus]map[DocumentAction]DocumentStatus{
	DocumentPending: {
		DocumentVerify:  DocumentVerified,
		DocumentApprove: DocumentApproved,
		DocumentReject:  DocumentRejected,
	},
	DocumentVerified: {
		DocumentApprove: DocumentApproved,
		DocumentReject:  DocumentRejected,
	},
}

// Apply returns the status reached by taking action from s.
// The second return value is false when the transition is illegal.
func (s DocumentStatus) Apply(action DocumentAction) (DocumentStatus, bool) {
	next, ok := documentTransitions[s][action]
	return next, ok
}

// DocumentActions lists the actions legal from s, in a stable order.
func DocumentActions(s DocumentStatus) []DocumentAction {
	ordered := []DocumentAction{DocumentVerify, DocumentApprove, DocumentReject}
	var actions []DocumentAction
	for _, action := range ordered {
		if _, ok := documentTransitions[s][action]; ok {
			actions = append(actions, action)
		}
	}
	return actions
}

// DocumentRequest represents a citizen's application for an official
// certificate, tracked through verification and approval.
type DocumentRequest struct {
	// ID is the unique identifier, used as the public tracking ID.
	ID string `json:"id" db:"id"`

	// UserID identifies the submitting profile.
	UserID string `json:"user_id" db:"user_id"`

	// DocumentType identifies which certificate is requested.
	DocumentType DocumentType `json:"document_type" db:"document_type"`

	// Purpose states why the certificate is needed.
	Purpose string `json:"purpose" db:"purpose"`

	// AdditionalNotes carries optional free-form notes.
	AdditionalNotes string `json:"additional_notes,omitempty" db:"additional_notes"`

	// Details holds the per-type form fields (see RequiredDetailFields).
	Details map[string]string `json:"details,omitempty" db:"details"`

	// Attachments lists object-storage keys of supporting files.
	// At least one is required at creation.
	Attachments []string `json:"attachments" db:"attachments"`

	// Status is the current lifecycle state.
	Status DocumentStatus `json:"status" db:"status"`

	// VerifiedBy is the staff profile that verified the request.
	// Set only on the transition to verified.
	VerifiedBy string `json:"verified_by,omitempty" db:"verified_by"`

	// ApprovedBy is the staff profile that approved the request.
	// Set only on the transition to approved.
	ApprovedBy string `json:"approved_by,omitempty" db:"approved_by"`

	// RejectionReason explains a rejection to the citizen.
	RejectionReason string `json:"rejection_reason,omitempty" db:"rejection_reason"`

	// Version is the optimistic-concurrency token.
	Version int `json:"version" db:"version"`

	// CreatedAt is the timestamp when the request was submitted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent transition.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
