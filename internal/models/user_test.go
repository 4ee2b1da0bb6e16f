package models

import "testing"

// TestUserIsAdmin verifies that IsAdmin returns true only for the admin role.
func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "admin role", role: RoleAdmin, want: true},
		{name: "user role", role: RoleUser, want: false},
		{name: "empty role", role: Role(""), want: false},
		{name: "uppercase ADMIN", role: Role("ADMIN"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("User{Role: %q}.IsAdmin() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestCategoryAcceptsVotes(t *testing.T) {
	tests := []struct {
		active, enabled, want bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, tt := range tests {
		c := &Category{IsActive: tt.active, VotingEnabled: tt.enabled}
		if got := c.AcceptsVotes(); got != tt.want {
			t.Errorf("AcceptsVotes(active=%v, enabled=%v) = %v, want %v", tt.active, tt.enabled, got, tt.want)
		}
	}
}

func TestCategoryPatchIsEmpty(t *testing.T) {
	if !(CategoryPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	year := 2027
	if (CategoryPatch{Year: &year}).IsEmpty() {
		t.Error("patch with year should not be empty")
	}
}
