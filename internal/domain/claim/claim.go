// Package claim defines the claim entity and its lifecycle states.
package claim

import "time"

// Status is a claim lifecycle state. The reviewed path is
// submitted → under_review → {approved, denied}, with paid reachable from
// approved by an explicit administrator status update. Review may also set
// approved/denied directly from submitted.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusDenied      Status = "denied"
	StatusPaid        Status = "paid"
)

// Valid reports whether s is a known claim status.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusDenied, StatusPaid:
		return true
	}
	return false
}

// ReviewOutcome reports whether s may be set by a claim review.
func (s Status) ReviewOutcome() bool {
	return s == StatusUnderReview || s == StatusApproved || s == StatusDenied
}

// Claim is a reimbursement request against a policy. UserID duplicates the
// policy owner so access checks need not join through the policy.
// ApprovedAmount is non-zero only while Status is approved.
type Claim struct {
	ID               string     `json:"id"`
	ClaimNumber      string     `json:"claim_number"`
	PolicyID         string     `json:"policy_id"`
	UserID           string     `json:"user_id"`
	ClaimAmount      float64    `json:"claim_amount"`
	ApprovedAmount   float64    `json:"approved_amount"`
	Status           Status     `json:"status"`
	Diagnosis        string     `json:"diagnosis"`
	TreatmentDetails string     `json:"treatment_details"`
	ProviderName     string     `json:"provider_name"`
	ServiceDate      time.Time  `json:"service_date"`
	ReviewedBy       string     `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes      string     `json:"review_notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
