// Package authz is the pure authorization decision logic: given the caller's
// role and identity and the target resource's owner, decide each operation.
// Deactivated users never reach these checks; authentication rejects them.
package authz

import "github.com/medbridge/insurance-api/internal/domain/user"

// Operation classifies the request being authorized.
type Operation int

const (
	// OpViewResource covers reading a single profile, policy, or claim.
	OpViewResource Operation = iota
	// OpListAll covers listing every user, policy, or claim.
	OpListAll
	// OpCreatePolicy covers issuing a new policy.
	OpCreatePolicy
	// OpUpdatePolicy covers field-level policy mutation.
	OpUpdatePolicy
	// OpChangePolicyStatus covers policy status transitions.
	OpChangePolicyStatus
	// OpSubmitClaim covers submitting a claim against a policy.
	OpSubmitClaim
	// OpReviewClaim covers approving or denying a claim.
	OpReviewClaim
	// OpSetClaimStatus covers the administrator claim-status override.
	OpSetClaimStatus
	// OpToggleUserActive covers activating or deactivating a user.
	OpToggleUserActive
	// OpChangeUserRole covers changing another user's role.
	OpChangeUserRole
	// OpUpdateProfile covers editing a user profile.
	OpUpdateProfile
)

// Decide reports whether callerRole acting as callerID may perform op on a
// resource owned by ownerID. ownerID is empty for operations without a single
// owning resource (listing, policy creation).
func Decide(callerRole user.Role, callerID, ownerID string, op Operation) bool {
	own := ownerID != "" && callerID == ownerID

	switch op {
	case OpViewResource:
		switch callerRole {
		case user.RolePatient:
			return own
		case user.RoleProvider, user.RoleAdministrator:
			return true
		}
	case OpListAll, OpCreatePolicy, OpUpdatePolicy, OpReviewClaim:
		switch callerRole {
		case user.RolePatient:
			return false
		case user.RoleProvider, user.RoleAdministrator:
			return true
		}
	case OpChangePolicyStatus, OpSetClaimStatus, OpToggleUserActive, OpChangeUserRole:
		switch callerRole {
		case user.RolePatient, user.RoleProvider:
			return false
		case user.RoleAdministrator:
			return true
		}
	case OpSubmitClaim:
		// Every role may submit, but only against its own policy.
		switch callerRole {
		case user.RolePatient, user.RoleProvider, user.RoleAdministrator:
			return own
		}
	case OpUpdateProfile:
		// Users edit their own profile; administrators edit anyone's.
		switch callerRole {
		case user.RolePatient, user.RoleProvider:
			return own
		case user.RoleAdministrator:
			return true
		}
	}
	return false
}
