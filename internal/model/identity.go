package model

import "time"

// Role classifies an identity in the three-tier hierarchy. The values match
// the `role` column of the `users` table.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
)

// Identity is the role-tagged account record stored in the `users` table.
// All three role variants share the base fields; the role-specific ones are
// meaningful only for the matching variant:
//
//	SUPER_ADMIN – no company affiliation, CompanyID is nil.
//	ADMIN       – CompanyID set, contact fields unused.
//	USER        – CompanyID set, Name/Email/Phone/Position populated; the
//	              user's beacon set is derived from beacons.user_id and is
//	              never stored on this record.
//
// LoginID is unique and immutable after creation. IsDeleted implements
// soft deletion: deleted rows stay in the table but are excluded from all
// active queries.
type Identity struct {
	ID           uint64
	LoginID      string
	PasswordHash string
	Role         Role
	CompanyID    *uint64
	Name         string
	Email        string
	Phone        string
	Position     string
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SameCompany reports whether both identities belong to the same company.
// Identities without a company (SUPER_ADMIN) never match.
func (i *Identity) SameCompany(other *Identity) bool {
	if i == nil || other == nil || i.CompanyID == nil || other.CompanyID == nil {
		return false
	}
	return *i.CompanyID == *other.CompanyID
}
