// Package service implements the identity lifecycle: registration,
// authentication, token refresh, profile reads and updates, and soft
// deletion, together with the beacon reassignment protocol that keeps a
// user's beacon set consistent with the beacons pointing at it.
//
// Every operation that acts on behalf of a caller takes the resolved acting
// identity as an explicit parameter instead of reading ambient security
// state. Mutations run inside a single storage transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/mmp/beacon-platform/internal/model"
	"github.com/mmp/beacon-platform/internal/policy"
	"github.com/mmp/beacon-platform/internal/queue"
	"github.com/mmp/beacon-platform/internal/repository"
	"github.com/mmp/beacon-platform/internal/session"
	"github.com/mmp/beacon-platform/internal/utils"
)

const defaultPageSize = 20

// AuditPublisher receives lifecycle audit events. Publishing is best-effort:
// failures are logged and never fail the originating operation.
type AuditPublisher interface {
	Publish(ctx context.Context, ev queue.AuditEvent) error
}

// UserService orchestrates identity lifecycle operations over the storage,
// session and token components.
type UserService struct {
	store            repository.Store
	sessions         session.Store
	tokens           *utils.TokenIssuer
	audit            AuditPublisher // optional, may be nil
	bcryptCost       int
	defaultCompanyID uint64
}

// NewUserService wires the lifecycle service. audit may be nil to disable
// event publishing. defaultCompanyID is the tenant used when the acting
// identity has no company of its own (SUPER_ADMIN callers).
func NewUserService(store repository.Store, sessions session.Store, tokens *utils.TokenIssuer,
	audit AuditPublisher, bcryptCost int, defaultCompanyID uint64) *UserService {
	return &UserService{
		store:            store,
		sessions:         sessions,
		tokens:           tokens,
		audit:            audit,
		bcryptCost:       bcryptCost,
		defaultCompanyID: defaultCompanyID,
	}
}

// ResolveActor loads the non-deleted identity behind an authenticated
// principal's login id. It backs the "current caller" resolution done by the
// transport layer; a missing or deleted identity yields ErrUnauthenticated.
func (s *UserService) ResolveActor(ctx context.Context, loginID string) (*model.Identity, error) {
	if loginID == "" {
		return nil, ErrUnauthenticated
	}
	ident, err := s.store.FindIdentityByLoginID(ctx, loginID)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		return nil, ErrUnauthenticated
	}
	return ident, nil
}

// Authenticate verifies the credentials and, on success, issues an access
// and a refresh token and records the refresh token as the identity's live
// session (overwriting any previous one). Lookup miss and password mismatch
// are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, loginID, password string) (*AuthResult, error) {
	ident, err := s.store.FindIdentityByLoginID(ctx, strings.TrimSpace(loginID))
	if err != nil {
		return nil, err
	}
	if ident == nil || !utils.VerifyPassword(ident.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccess(ident)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(ident)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, ident.LoginID, refresh.Value); err != nil {
		return nil, err
	}
	return &AuthResult{Identity: ident, Access: access, Refresh: refresh}, nil
}

// RefreshAccessToken exchanges a live refresh token for a new access token.
// The refresh token itself is not rotated. The presented token must pass
// signature and expiry checks and must equal the stored session entry
// exactly, so a refresh token superseded by a later login is rejected.
func (s *UserService) RefreshAccessToken(ctx context.Context, refreshToken string) (utils.Token, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return utils.Token{}, ErrInvalidToken
	}
	stored, ok, err := s.sessions.Get(ctx, claims.Subject)
	if err != nil {
		return utils.Token{}, err
	}
	if !ok || stored != refreshToken {
		return utils.Token{}, ErrInvalidToken
	}
	ident, err := s.store.FindIdentityByLoginID(ctx, claims.Subject)
	if err != nil {
		return utils.Token{}, err
	}
	if ident == nil {
		return utils.Token{}, ErrInvalidToken
	}
	return s.tokens.IssueAccess(ident)
}

// Logout removes the refresh session referenced by the token. The token must
// still be the identity's live session; presenting a superseded token does
// not terminate the newer session.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return ErrInvalidToken
	}
	stored, ok, err := s.sessions.Get(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if !ok || stored != refreshToken {
		return ErrInvalidToken
	}
	return s.sessions.Delete(ctx, claims.Subject)
}

// Register creates a USER account under the actor's company (or the default
// company for actors without one) and assigns the requested beacons. The
// whole operation is atomic: any beacon failure rolls back the account.
func (s *UserService) Register(ctx context.Context, actor *model.Identity, req CreateUserRequest) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	req.LoginID = strings.TrimSpace(req.LoginID)
	if req.LoginID == "" || req.Password == "" {
		return fmt.Errorf("login_id and password are required: %w", ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	companyID := s.companyFor(actor)

	err = s.store.InTx(ctx, func(st repository.Store) error {
		company, err := st.FindCompanyByID(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("company %d: %w", companyID, ErrNotFound)
		}

		ident := &model.Identity{
			LoginID:      req.LoginID,
			PasswordHash: hash,
			Role:         model.RoleUser,
			CompanyID:    &company.ID,
			Name:         req.Name,
			Email:        req.Email,
			Phone:        req.Phone,
			Position:     req.Position,
		}
		if err := st.CreateIdentity(ctx, ident); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("login id %q: %w", req.LoginID, ErrDuplicateIdentity)
			}
			return fmt.Errorf("register %q: %w", req.LoginID, err)
		}

		for _, raw := range req.BeaconIDs {
			beaconID, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return fmt.Errorf("beacon id %q: %w", raw, ErrValidation)
			}
			beacon, err := st.FindBeaconByID(ctx, beaconID)
			if err != nil {
				return err
			}
			// Assigning a beacon that belongs to someone else would
			// silently steal it; treat it the same as a missing beacon.
			if beacon == nil || (beacon.UserID != nil && !beacon.AssignedTo(ident.ID)) {
				return fmt.Errorf("beacon %d: %w", beaconID, ErrNotFound)
			}
			if err := st.SetBeaconUser(ctx, beacon.ID, &ident.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, queue.AuditEvent{
		Action:       queue.ActionUserRegistered,
		LoginID:      req.LoginID,
		ActorLoginID: actor.LoginID,
	})
	return nil
}

// RegisterAdmin creates an ADMIN account under the actor's company (or the
// default company). Admins carry no contact fields and no beacons.
func (s *UserService) RegisterAdmin(ctx context.Context, actor *model.Identity, req CreateAdminRequest) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	req.LoginID = strings.TrimSpace(req.LoginID)
	if req.LoginID == "" || req.Password == "" {
		return fmt.Errorf("login_id and password are required: %w", ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	companyID := s.companyFor(actor)

	err = s.store.InTx(ctx, func(st repository.Store) error {
		company, err := st.FindCompanyByID(ctx, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("company %d: %w", companyID, ErrNotFound)
		}
		ident := &model.Identity{
			LoginID:      req.LoginID,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			CompanyID:    &company.ID,
		}
		if err := st.CreateIdentity(ctx, ident); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("login id %q: %w", req.LoginID, ErrDuplicateIdentity)
			}
			return fmt.Errorf("register admin %q: %w", req.LoginID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, queue.AuditEvent{
		Action:       queue.ActionAdminRegistered,
		LoginID:      req.LoginID,
		ActorLoginID: actor.LoginID,
	})
	return nil
}

// UpdateProfile applies the beacon reassignment protocol and profile field
// changes to a USER identity, atomically:
//
//  1. every beacon currently pointing at the user is released,
//  2. each requested MAC is looked up (must exist, non-deleted) and
//     assigned; a miss aborts the whole update,
//  3. non-empty profile fields replace the stored ones and a non-empty
//     password is re-hashed.
//
// An empty MAC list therefore clears all beacon ownership.
func (s *UserService) UpdateProfile(ctx context.Context, actor *model.Identity, loginID string, req UpdateUserRequest) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	var assigned []string
	err := s.store.InTx(ctx, func(st repository.Store) error {
		ident, err := st.FindIdentityByLoginID(ctx, loginID)
		if err != nil {
			return err
		}
		if ident == nil {
			return fmt.Errorf("identity %q: %w", loginID, ErrNotFound)
		}
		if ident.Role != model.RoleUser {
			return fmt.Errorf("identity %q has role %s: %w", loginID, ident.Role, ErrUnsupportedUserType)
		}

		current, err := st.ListBeaconsByUser(ctx, ident.ID)
		if err != nil {
			return err
		}
		for _, b := range current {
			if err := st.SetBeaconUser(ctx, b.ID, nil); err != nil {
				return err
			}
		}
		for _, mac := range req.MacAddrs {
			beacon, err := st.FindBeaconByMac(ctx, mac)
			if err != nil {
				return err
			}
			if beacon == nil {
				return fmt.Errorf("beacon %q: %w", mac, ErrNotFound)
			}
			if err := st.SetBeaconUser(ctx, beacon.ID, &ident.ID); err != nil {
				return err
			}
			assigned = append(assigned, beacon.MacAddr)
		}

		if req.Name != "" {
			ident.Name = req.Name
		}
		if req.Email != "" {
			ident.Email = req.Email
		}
		if req.Phone != "" {
			ident.Phone = req.Phone
		}
		if req.Position != "" {
			ident.Position = req.Position
		}
		if req.Password != "" {
			hash, err := utils.HashPassword(req.Password, s.bcryptCost)
			if err != nil {
				return err
			}
			ident.PasswordHash = hash
		}
		return st.UpdateIdentity(ctx, ident)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, queue.AuditEvent{
		Action:       queue.ActionUserUpdated,
		LoginID:      loginID,
		ActorLoginID: actor.LoginID,
		MacAddrs:     assigned,
	})
	return nil
}

// DeleteUser soft-deletes the target identity after a CanDelete policy
// check. A USER target's beacons are released in the same transaction as the
// flag flip. Deleting an already-deleted identity reports ErrNotFound and
// touches no beacons.
func (s *UserService) DeleteUser(ctx context.Context, actor *model.Identity, loginID string) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	err := s.store.InTx(ctx, func(st repository.Store) error {
		target, err := st.FindIdentityByLoginID(ctx, loginID)
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("identity %q: %w", loginID, ErrNotFound)
		}
		if !policy.CanDelete(actor, target) {
			return fmt.Errorf("delete %q as %s: %w", loginID, actor.Role, ErrForbidden)
		}

		if target.Role == model.RoleUser {
			beacons, err := st.ListBeaconsByUser(ctx, target.ID)
			if err != nil {
				return err
			}
			for _, b := range beacons {
				if err := st.SetBeaconUser(ctx, b.ID, nil); err != nil {
					return err
				}
			}
		}
		return st.SoftDeleteIdentity(ctx, target.ID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, queue.AuditEvent{
		Action:       queue.ActionUserDeleted,
		LoginID:      loginID,
		ActorLoginID: actor.LoginID,
	})
	return nil
}

// GetProfile returns the role-shaped projection of the target identity,
// subject to the CanView policy.
func (s *UserService) GetProfile(ctx context.Context, actor *model.Identity, loginID string) (*Profile, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	target, err := s.store.FindIdentityByLoginID(ctx, loginID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("identity %q: %w", loginID, ErrNotFound)
	}
	if !policy.CanView(actor, target) {
		return nil, fmt.Errorf("view %q as %s: %w", loginID, actor.Role, ErrForbidden)
	}
	return s.buildProfile(ctx, target)
}

// ListAdmins returns one page of non-deleted admins, optionally filtered by
// login id. Only the "id" search key is accepted.
func (s *UserService) ListAdmins(ctx context.Context, actor *model.Identity, req ListRequest) (*ProfilePage, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if req.Search != "" && req.SearchBy != model.SearchByLoginID {
		return nil, fmt.Errorf("search_by %q (only %q allowed): %w", req.SearchBy, model.SearchByLoginID, ErrValidation)
	}
	return s.list(ctx, model.RoleAdmin, req)
}

// ListUsers returns one page of non-deleted users, optionally filtered by
// login id or name.
func (s *UserService) ListUsers(ctx context.Context, actor *model.Identity, req ListRequest) (*ProfilePage, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if req.Search != "" && req.SearchBy != model.SearchByLoginID && req.SearchBy != model.SearchByName {
		return nil, fmt.Errorf("search_by %q (only %q or %q allowed): %w",
			req.SearchBy, model.SearchByLoginID, model.SearchByName, ErrValidation)
	}
	return s.list(ctx, model.RoleUser, req)
}

func (s *UserService) list(ctx context.Context, role model.Role, req ListRequest) (*ProfilePage, error) {
	if req.Size <= 0 {
		req.Size = defaultPageSize
	}
	if req.Page < 0 {
		req.Page = 0
	}
	idents, total, err := s.store.ListIdentities(ctx, model.ListQuery{
		Role:     role,
		SearchBy: req.SearchBy,
		Search:   req.Search,
		Page:     req.Page,
		Size:     req.Size,
	})
	if err != nil {
		return nil, err
	}

	page := &ProfilePage{Items: make([]Profile, 0, len(idents)), Page: req.Page, Size: req.Size, Total: total}
	for i := range idents {
		p, err := s.buildProfile(ctx, &idents[i])
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, *p)
	}
	return page, nil
}

// buildProfile assembles the projection for one identity. USER rows include
// company, contact fields and the derived beacon lists; ADMIN rows include
// the company only; SUPER_ADMIN rows carry just the base fields.
func (s *UserService) buildProfile(ctx context.Context, ident *model.Identity) (*Profile, error) {
	p := &Profile{
		ID:      ident.ID,
		LoginID: ident.LoginID,
		Role:    ident.Role,
	}
	if ident.Role == model.RoleSuperAdmin {
		return p, nil
	}

	p.CompanyID = ident.CompanyID
	if ident.CompanyID != nil {
		company, err := s.store.FindCompanyByID(ctx, *ident.CompanyID)
		if err != nil {
			return nil, err
		}
		if company != nil {
			p.CompanyName = company.Name
		}
	}
	if ident.Role != model.RoleUser {
		return p, nil
	}

	p.Name = ident.Name
	p.Email = ident.Email
	p.Phone = ident.Phone
	p.Position = ident.Position
	beacons, err := s.store.ListBeaconsByUser(ctx, ident.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range beacons {
		p.BeaconIDs = append(p.BeaconIDs, b.ID)
		p.MacAddrs = append(p.MacAddrs, b.MacAddr)
	}
	return p, nil
}

// companyFor resolves the tenant a new registration lands in: the actor's
// own company when it has one, the configured default otherwise.
func (s *UserService) companyFor(actor *model.Identity) uint64 {
	if actor.CompanyID != nil {
		return *actor.CompanyID
	}
	return s.defaultCompanyID
}

func (s *UserService) publish(ctx context.Context, ev queue.AuditEvent) {
	if s.audit == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.audit.Publish(ctx, ev); err != nil {
		log.Printf("audit: publish %s for %s failed: %v", ev.Action, ev.LoginID, err)
	}
}
