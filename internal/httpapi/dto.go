package httpapi

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/medbridge/insurance-api/internal/domain/claim"
	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/errors"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.Validation("invalid date format, use YYYY-MM-DD")
	}
	return t, nil
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Role, validation.In(
			string(user.RolePatient), string(user.RoleProvider), string(user.RoleAdministrator),
		)),
		validation.Field(&r.DateOfBirth, validation.Date(dateLayout)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type updateUserRequest struct {
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
	Password    *string `json:"password"`
	Role        *string `json:"role"`
}

func (r updateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DateOfBirth, validation.Date(dateLayout)),
		validation.Field(&r.Role, validation.In(
			string(user.RolePatient), string(user.RoleProvider), string(user.RoleAdministrator),
		)),
	)
}

type createPolicyRequest struct {
	UserID         string  `json:"user_id"`
	PolicyType     string  `json:"policy_type"`
	CoverageAmount float64 `json:"coverage_amount"`
	PremiumAmount  float64 `json:"premium_amount"`
	Status         string  `json:"status"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`

	PayerProgram     string  `json:"payer_program"`
	PayerName        string  `json:"payer_name"`
	PayerID          string  `json:"payer_id"`
	PlanName         string  `json:"plan_name"`
	DeductibleAmount float64 `json:"deductible_amount"`
	OutOfPocketMax   float64 `json:"out_of_pocket_max"`
	MedicarePart     string  `json:"medicare_part"`
	MedicaidState    string  `json:"medicaid_state"`
}

func (r createPolicyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.PolicyType, validation.Required),
		validation.Field(&r.StartDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.EndDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.Status, validation.In(
			string(policy.StatusActive), string(policy.StatusInactive),
			string(policy.StatusSuspended), string(policy.StatusCancelled),
		)),
		validation.Field(&r.PayerProgram, validation.In(
			string(policy.ProgramMedicare), string(policy.ProgramMedicaid),
			string(policy.ProgramCommercial), string(policy.ProgramOtherGovernment),
		)),
	)
}

type updatePolicyRequest struct {
	PolicyType     *string  `json:"policy_type"`
	CoverageAmount *float64 `json:"coverage_amount"`
	PremiumAmount  *float64 `json:"premium_amount"`
	Status         *string  `json:"status"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`

	PayerProgram     *string  `json:"payer_program"`
	PayerName        *string  `json:"payer_name"`
	PayerID          *string  `json:"payer_id"`
	PlanName         *string  `json:"plan_name"`
	DeductibleAmount *float64 `json:"deductible_amount"`
	OutOfPocketMax   *float64 `json:"out_of_pocket_max"`
	MedicarePart     *string  `json:"medicare_part"`
	MedicaidState    *string  `json:"medicaid_state"`
}

func (r updatePolicyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StartDate, validation.Date(dateLayout)),
		validation.Field(&r.EndDate, validation.Date(dateLayout)),
		validation.Field(&r.Status, validation.In(
			string(policy.StatusActive), string(policy.StatusInactive),
			string(policy.StatusSuspended), string(policy.StatusCancelled),
		)),
		validation.Field(&r.PayerProgram, validation.In(
			string(policy.ProgramMedicare), string(policy.ProgramMedicaid),
			string(policy.ProgramCommercial), string(policy.ProgramOtherGovernment),
		)),
	)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (r setStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

type submitClaimRequest struct {
	PolicyID         string  `json:"policy_id"`
	ClaimAmount      float64 `json:"claim_amount"`
	Diagnosis        string  `json:"diagnosis"`
	TreatmentDetails string  `json:"treatment_details"`
	ProviderName     string  `json:"provider_name"`
	ServiceDate      string  `json:"service_date"`
}

func (r submitClaimRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PolicyID, validation.Required),
		validation.Field(&r.Diagnosis, validation.Required),
		validation.Field(&r.TreatmentDetails, validation.Required),
		validation.Field(&r.ProviderName, validation.Required),
		validation.Field(&r.ServiceDate, validation.Required, validation.Date(dateLayout)),
	)
}

type reviewClaimRequest struct {
	Status         string   `json:"status"`
	ApprovedAmount *float64 `json:"approved_amount"`
	ReviewNotes    string   `json:"review_notes"`
}

func (r reviewClaimRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			string(claim.StatusUnderReview), string(claim.StatusApproved), string(claim.StatusDenied),
		)),
	)
}
