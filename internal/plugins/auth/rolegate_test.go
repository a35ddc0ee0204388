package auth

import "testing"

func TestIsPermitted(t *testing.T) {
	customer := &SessionRecord{AccessToken: "t", Roles: []string{RoleCustomer}}
	admin := &SessionRecord{AccessToken: "t", Roles: []string{RoleCustomer, RoleAdmin}}
	failed := &SessionRecord{AccessToken: "t", Roles: []string{RoleAdmin}, Error: ErrorRefreshFailed}
	noToken := &SessionRecord{Roles: []string{RoleAdmin}}

	tests := []struct {
		name string
		role string
		rec  *SessionRecord
		want bool
	}{
		{"public anonymous", "", nil, true},
		{"public refresh failed", "", failed, true},
		{"customer anonymous", RoleCustomer, nil, false},
		{"customer has role", RoleCustomer, customer, true},
		{"admin lacks role", RoleAdmin, customer, false},
		{"admin has role", RoleAdmin, admin, true},
		{"case sensitive", "admin", admin, false},
		{"refresh failed", RoleAdmin, failed, false},
		{"no access token", RoleAdmin, noToken, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermitted(tt.role, tt.rec); got != tt.want {
				t.Errorf("IsPermitted(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
