// Package session tracks the live refresh token for each identity. At most
// one refresh token per login id is live at a time: storing a new one
// overwrites the previous entry (last write wins), which implicitly
// invalidates the superseded token without a revocation list.
package session

import "context"

// Store is the key-value session component. The memory implementation is
// cleared on process restart; the Redis implementation survives restarts but
// makes no durability promise beyond its configured TTL.
type Store interface {
	// Put records token as the live refresh token for loginID, replacing
	// any previous entry.
	Put(ctx context.Context, loginID, token string) error
	// Get returns the live refresh token for loginID. ok is false when no
	// session exists.
	Get(ctx context.Context, loginID string) (token string, ok bool, err error)
	// Delete removes the session for loginID, if any.
	Delete(ctx context.Context, loginID string) error
}
