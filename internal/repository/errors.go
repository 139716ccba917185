// Package repository implements MySQL-backed persistence for identities,
// companies and beacons, and defines the Store abstraction the lifecycle
// service operates against. Sentinel errors let higher layers distinguish
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrDuplicate is returned when an insert violates a unique constraint,
// e.g. registering a login id that already exists. The service layer
// re-signals it as a duplicate-identity conflict.
var ErrDuplicate = errors.New("duplicate key")
