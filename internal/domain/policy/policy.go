// Package policy defines the insurance policy entity and its status set.
package policy

import "time"

// Status is the flat set of policy states. There is no enforced transition
// graph; the only cross-cutting effect is that claims may be submitted only
// against an active policy.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known policy status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusCancelled:
		return true
	}
	return false
}

// Program classifies which payer program funds a policy.
type Program string

const (
	ProgramMedicare        Program = "medicare"
	ProgramMedicaid        Program = "medicaid"
	ProgramCommercial      Program = "commercial"
	ProgramOtherGovernment Program = "other_government"
)

// Programs lists the known payer programs in presentation order.
func Programs() []Program {
	return []Program{ProgramMedicare, ProgramMedicaid, ProgramCommercial, ProgramOtherGovernment}
}

// Valid reports whether p is a known payer program.
func (p Program) Valid() bool {
	switch p {
	case ProgramMedicare, ProgramMedicaid, ProgramCommercial, ProgramOtherGovernment:
		return true
	}
	return false
}

// Policy is an insurance contract owned by a user. PolicyNumber is assigned
// at creation and never changes.
type Policy struct {
	ID             string    `json:"id"`
	PolicyNumber   string    `json:"policy_number"`
	UserID         string    `json:"user_id"`
	PolicyType     string    `json:"policy_type"`
	CoverageAmount float64   `json:"coverage_amount"`
	PremiumAmount  float64   `json:"premium_amount"`
	Status         Status    `json:"status"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`

	// Payer program details. PayerProgram is empty when the policy has not
	// been assigned to a program.
	PayerProgram     Program `json:"payer_program,omitempty"`
	PayerName        string  `json:"payer_name,omitempty"`
	PayerID          string  `json:"payer_id,omitempty"`
	PlanName         string  `json:"plan_name,omitempty"`
	DeductibleAmount float64 `json:"deductible_amount,omitempty"`
	OutOfPocketMax   float64 `json:"out_of_pocket_max,omitempty"`
	MedicarePart     string  `json:"medicare_part,omitempty"`
	MedicaidState    string  `json:"medicaid_state,omitempty"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
