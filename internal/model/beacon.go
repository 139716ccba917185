package model

import "time"

// Beacon mirrors the `beacons` table. A physical beacon device is assigned
// to at most one user at a time; UserID is the nullable back-reference to
// that user. A user's beacon set is exactly the set of beacons whose UserID
// points at them, so every assignment change must go through the
// reassignment protocol in the lifecycle service.
type Beacon struct {
	ID        uint64
	MacAddr   string
	UserID    *uint64
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AssignedTo reports whether the beacon currently points at the given user.
func (b *Beacon) AssignedTo(userID uint64) bool {
	return b.UserID != nil && *b.UserID == userID
}
