package policy

import (
	"testing"

	"github.com/mmp/beacon-platform/internal/model"
)

func ident(loginID string, role model.Role, companyID uint64) *model.Identity {
	var cid *uint64
	if companyID != 0 {
		cid = &companyID
	}
	return &model.Identity{LoginID: loginID, Role: role, CompanyID: cid}
}

func TestCanView(t *testing.T) {
	super := ident("root", model.RoleSuperAdmin, 0)
	adminT1 := ident("admin-t1", model.RoleAdmin, 1)
	adminT2 := ident("admin-t2", model.RoleAdmin, 2)
	userT1 := ident("user-t1", model.RoleUser, 1)
	userT1b := ident("user-t1b", model.RoleUser, 1)
	userT2 := ident("user-t2", model.RoleUser, 2)
	userNoCo := ident("user-nc", model.RoleUser, 0)

	cases := []struct {
		name          string
		actor, target *model.Identity
		want          bool
	}{
		{"self view user", userT1, userT1, true},
		{"self view admin", adminT1, adminT1, true},
		{"super admin sees user", super, userT2, true},
		{"super admin sees admin", super, adminT1, true},
		{"admin sees same-company user", adminT1, userT1, true},
		{"admin blocked from other-company user", adminT2, userT1, false},
		{"admin blocked from peer admin", adminT1, adminT2, false},
		{"admin blocked from super admin", adminT1, super, false},
		{"user sees same-company user", userT1, userT1b, true},
		{"user blocked from other-company user", userT1, userT2, false},
		{"user blocked from admin", userT1, adminT1, false},
		{"companyless user blocked", userNoCo, userT1, false},
		{"nil actor", nil, userT1, false},
		{"nil target", adminT1, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanView(tc.actor, tc.target); got != tc.want {
				t.Fatalf("CanView = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanDelete(t *testing.T) {
	super := ident("root", model.RoleSuperAdmin, 0)
	admin := ident("admin-t1", model.RoleAdmin, 1)
	adminT2 := ident("admin-t2", model.RoleAdmin, 2)
	user := ident("user-t1", model.RoleUser, 1)
	userT2 := ident("user-t2", model.RoleUser, 2)

	cases := []struct {
		name          string
		actor, target *model.Identity
		want          bool
	}{
		{"super admin deletes admin", super, admin, true},
		{"super admin deletes user", super, user, true},
		{"admin deletes user", admin, user, true},
		// Deletion has no tenant check; visibility gates who an admin can
		// even look up.
		{"admin deletes other-company user", admin, userT2, true},
		{"admin blocked from admin", admin, adminT2, false},
		{"admin blocked from super admin", admin, super, false},
		{"user deletes nobody", user, userT2, false},
		{"user cannot delete self", user, user, false},
		{"nil actor", nil, user, false},
		{"nil target", admin, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanDelete(tc.actor, tc.target); got != tc.want {
				t.Fatalf("CanDelete = %v, want %v", got, tc.want)
			}
		})
	}
}
