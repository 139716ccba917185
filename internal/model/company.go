package model

import "time"

// Company is the tenant that admins and users belong to. Soft-deleted
// companies cannot receive new registrations.
type Company struct {
	ID        uint64
	Name      string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
