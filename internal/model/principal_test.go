package model

import "testing"

func TestPrincipalHasRole(t *testing.T) {
	analyst := Principal{Role: RoleAnalyst}
	if !analyst.IsAnalyst() {
		t.Error("analyst role should satisfy IsAnalyst")
	}

	// Legacy tokens carried a capitalized role name.
	legacy := Principal{Role: "Analyst"}
	if !legacy.IsAnalyst() {
		t.Error("role match must be case-insensitive")
	}

	staff := Principal{Role: RoleStaff}
	if staff.IsAnalyst() {
		t.Error("staff must not satisfy IsAnalyst")
	}

	// No matching role means no access.
	none := Principal{}
	if none.IsAnalyst() || none.HasRole("") {
		t.Error("empty role must never grant access")
	}
}
