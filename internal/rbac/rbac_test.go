package rbac

import "testing"

func TestCan(t *testing.T) {
	cases := []struct {
		name   string
		role   Role
		action Action
		allow  bool
	}{
		{name: "student read", role: RoleStudent, action: ActionRead, allow: true},
		{name: "student submit", role: RoleStudent, action: ActionSubmit, allow: true},
		{name: "student manage", role: RoleStudent, action: ActionManage, allow: false},
		{name: "admin read", role: RoleAdmin, action: ActionRead, allow: true},
		{name: "admin manage", role: RoleAdmin, action: ActionManage, allow: true},
		{name: "unknown role", role: Role("Guest"), action: ActionRead, allow: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.role, tc.action); got != tc.allow {
				t.Fatalf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.allow)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("Admin") != RoleAdmin {
		t.Error("Normalize(Admin) != RoleAdmin")
	}
	if Normalize("Student") != RoleStudent {
		t.Error("Normalize(Student) != RoleStudent")
	}
	if Normalize("admin") != RoleStudent {
		t.Error("Normalize should map unknown casing to Student")
	}
	if Normalize("") != RoleStudent {
		t.Error("Normalize empty should map to Student")
	}
}
