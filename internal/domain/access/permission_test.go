package access

import (
	"errors"
	"testing"
)

func TestPermission_AtLeast(t *testing.T) {
	cases := []struct {
		have, need Permission
		want       bool
	}{
		{PermissionView, PermissionView, true},
		{PermissionView, PermissionEdit, false},
		{PermissionEdit, PermissionView, true},
		{PermissionAdmin, PermissionEdit, true},
		{PermissionEdit, PermissionAdmin, false},
		{"owner", PermissionView, false},
		{PermissionAdmin, "", false},
	}
	for _, tc := range cases {
		if got := tc.have.AtLeast(tc.need); got != tc.want {
			t.Fatalf("%q.AtLeast(%q)=%v want %v", tc.have, tc.need, got, tc.want)
		}
	}
}

func TestParsePermission(t *testing.T) {
	p, err := ParsePermission(" EDIT ")
	if err != nil || p != PermissionEdit {
		t.Fatalf("got %q err=%v", p, err)
	}
	if _, err := ParsePermission("write"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGrant_CloneIsDeep(t *testing.T) {
	g := Grant{
		Tags:        []string{"a"},
		Delegations: []Delegation{{TargetUserID: "u-2"}},
		AuditLog:    []AuditEntry{{Action: AuditGranted, Details: map[string]any{"k": "v"}}},
	}
	c := g.Clone()
	c.Tags[0] = "b"
	c.Delegations[0].TargetUserID = "u-3"
	c.AuditLog[0].Details["k"] = "changed"

	if g.Tags[0] != "a" || g.Delegations[0].TargetUserID != "u-2" || g.AuditLog[0].Details["k"] != "v" {
		t.Fatalf("clone shares memory with original: %+v", g)
	}
}
