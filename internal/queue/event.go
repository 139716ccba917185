// Package queue defines the audit events published on identity lifecycle
// mutations and the broker plumbing that carries them.
package queue

// Audit actions.
const (
	ActionUserRegistered  = "user.registered"
	ActionAdminRegistered = "admin.registered"
	ActionUserUpdated     = "user.updated"
	ActionUserDeleted     = "user.deleted"
)

// AuditEvent records one lifecycle mutation. It contains enough information
// for downstream consumers to build an audit trail without querying the
// primary database.
type AuditEvent struct {
	Action       string   `json:"action"`
	LoginID      string   `json:"login_id"`
	ActorLoginID string   `json:"actor_login_id,omitempty"`
	MacAddrs     []string `json:"mac_addrs,omitempty"`
	OccurredAt   string   `json:"occurred_at"`
}
