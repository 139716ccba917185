package service

import "errors"

// Typed failures surfaced to the transport layer. Handlers translate them
// into HTTP status codes; none are swallowed inside the service.
var (
	// ErrUnauthenticated means no valid caller context was supplied.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidCredentials means the login id/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden means the caller is authenticated but policy denies.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the target identity, company or beacon is absent
	// or soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateIdentity means the login id is already taken.
	ErrDuplicateIdentity = errors.New("login id already exists")
	// ErrInvalidToken means a bad signature, an expired token, or a refresh
	// token that does not match the stored session.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnsupportedUserType means the operation is not valid for the
	// identity's role.
	ErrUnsupportedUserType = errors.New("unsupported user type")
	// ErrValidation means the request itself is malformed, e.g. an unknown
	// search-by key.
	ErrValidation = errors.New("invalid request")
)
