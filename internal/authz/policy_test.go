package authz

import (
	"testing"

	"github.com/medbridge/insurance-api/internal/domain/user"
)

func TestDecide(t *testing.T) {
	const (
		self  = "caller-1"
		other = "someone-else"
	)

	tests := []struct {
		name  string
		role  user.Role
		owner string
		op    Operation
		want  bool
	}{
		{"patient views own resource", user.RolePatient, self, OpViewResource, true},
		{"patient cannot view others", user.RolePatient, other, OpViewResource, false},
		{"provider views any resource", user.RoleProvider, other, OpViewResource, true},
		{"admin views any resource", user.RoleAdministrator, other, OpViewResource, true},

		{"patient cannot list all", user.RolePatient, "", OpListAll, false},
		{"provider lists all", user.RoleProvider, "", OpListAll, true},

		{"patient cannot create policy", user.RolePatient, "", OpCreatePolicy, false},
		{"provider creates policy", user.RoleProvider, "", OpCreatePolicy, true},
		{"admin creates policy", user.RoleAdministrator, "", OpCreatePolicy, true},

		{"provider cannot change policy status", user.RoleProvider, other, OpChangePolicyStatus, false},
		{"admin changes policy status", user.RoleAdministrator, other, OpChangePolicyStatus, true},

		{"patient submits against own policy", user.RolePatient, self, OpSubmitClaim, true},
		{"patient cannot submit against others", user.RolePatient, other, OpSubmitClaim, false},
		{"admin cannot submit against others", user.RoleAdministrator, other, OpSubmitClaim, false},
		{"admin submits against own policy", user.RoleAdministrator, self, OpSubmitClaim, true},

		{"patient cannot review", user.RolePatient, other, OpReviewClaim, false},
		{"provider reviews", user.RoleProvider, other, OpReviewClaim, true},

		{"provider cannot override claim status", user.RoleProvider, other, OpSetClaimStatus, false},
		{"admin overrides claim status", user.RoleAdministrator, other, OpSetClaimStatus, true},

		{"provider cannot toggle active", user.RoleProvider, other, OpToggleUserActive, false},
		{"admin toggles active", user.RoleAdministrator, other, OpToggleUserActive, true},

		{"patient updates own profile", user.RolePatient, self, OpUpdateProfile, true},
		{"patient cannot update others", user.RolePatient, other, OpUpdateProfile, false},
		{"provider cannot update others", user.RoleProvider, other, OpUpdateProfile, false},
		{"admin updates anyone", user.RoleAdministrator, other, OpUpdateProfile, true},

		{"provider cannot change roles", user.RoleProvider, self, OpChangeUserRole, false},
		{"admin changes roles", user.RoleAdministrator, other, OpChangeUserRole, true},

		{"unknown role denied", user.Role("auditor"), self, OpViewResource, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.role, self, tt.owner, tt.op); got != tt.want {
				t.Errorf("Decide(%s, %s, %s, %d) = %v, want %v", tt.role, self, tt.owner, tt.op, got, tt.want)
			}
		})
	}
}
