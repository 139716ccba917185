package service

import (
	"github.com/mmp/beacon-platform/internal/model"
	"github.com/mmp/beacon-platform/internal/utils"
)

// CreateUserRequest registers a new USER account. BeaconIDs optionally lists
// numeric beacon ids to assign to the new user; each referenced beacon must
// exist, be non-deleted and not belong to anyone else.
type CreateUserRequest struct {
	LoginID   string   `json:"login_id"`
	Password  string   `json:"password"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Position  string   `json:"position"`
	BeaconIDs []string `json:"beacon_ids"`
}

// CreateAdminRequest registers a new ADMIN account. Admins carry no contact
// fields and never own beacons.
type CreateAdminRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// UpdateUserRequest changes a USER's profile. MacAddrs is a full replacement
// of the user's beacon set: every currently held beacon is released first,
// then the listed MACs are assigned, so an empty list clears all ownership.
// Profile fields left empty are unchanged; a non-empty Password is re-hashed.
type UpdateUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Position string   `json:"position"`
	Password string   `json:"password"`
	MacAddrs []string `json:"mac_addrs"`
}

// ListRequest selects one page of a role-scoped identity listing.
type ListRequest struct {
	Page     int
	Size     int
	Search   string
	SearchBy string
}

// AuthResult carries the outcome of a successful authentication.
type AuthResult struct {
	Identity *model.Identity
	Access   utils.Token
	Refresh  utils.Token
}

// Profile is the role-shaped projection returned by profile and listing
// operations. Contact and beacon fields are populated only for USER rows,
// company fields for USER and ADMIN rows.
type Profile struct {
	ID          uint64     `json:"id"`
	LoginID     string     `json:"login_id"`
	Role        model.Role `json:"role"`
	Name        string     `json:"name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Position    string     `json:"position,omitempty"`
	CompanyID   *uint64    `json:"company_id,omitempty"`
	CompanyName string     `json:"company_name,omitempty"`
	BeaconIDs   []uint64   `json:"beacon_ids,omitempty"`
	MacAddrs    []string   `json:"mac_addrs,omitempty"`
}

// ProfilePage is one page of profiles with pagination metadata.
type ProfilePage struct {
	Items []Profile `json:"items"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Total int       `json:"total"`
}
