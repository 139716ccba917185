// Package policy holds the pure authorization decision functions for the
// three-tier role hierarchy. The functions take the acting identity and the
// target identity explicitly and have no side effects, so they can be reused
// by any transport layer and tested in isolation.
package policy

import "github.com/mmp/beacon-platform/internal/model"

// CanView decides whether actor may read target's profile.
//
// Self-view is always allowed. SUPER_ADMIN sees everyone. ADMIN and USER see
// a USER target only when both belong to the same company; they never see
// other admins or super admins.
func CanView(actor, target *model.Identity) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.LoginID == target.LoginID {
		return true
	}
	if actor.Role == model.RoleSuperAdmin {
		return true
	}
	if (actor.Role == model.RoleAdmin || actor.Role == model.RoleUser) && target.Role == model.RoleUser {
		return actor.SameCompany(target)
	}
	return false
}

// CanDelete decides whether actor may soft-delete target. SUPER_ADMIN may
// delete anyone; ADMIN may delete only USER targets; USER may delete nobody.
func CanDelete(actor, target *model.Identity) bool {
	if actor == nil || target == nil {
		return false
	}
	switch actor.Role {
	case model.RoleSuperAdmin:
		return true
	case model.RoleAdmin:
		return target.Role == model.RoleUser
	default:
		return false
	}
}
