package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmp/beacon-platform/internal/model"
	"github.com/mmp/beacon-platform/internal/repository"
)

// memStore is an in-memory repository.Store for service tests. InTx snapshots
// the maps and restores them when the callback fails, mirroring the rollback
// behavior of the real transaction boundary.
type memStore struct {
	mu         sync.Mutex
	nextID     uint64
	identities map[uint64]model.Identity
	companies  map[uint64]model.Company
	beacons    map[uint64]model.Beacon
}

func newMemStore() *memStore {
	return &memStore{
		identities: make(map[uint64]model.Identity),
		companies:  make(map[uint64]model.Company),
		beacons:    make(map[uint64]model.Beacon),
	}
}

func (m *memStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	snapIdents := cloneMap(m.identities)
	snapCompanies := cloneMap(m.companies)
	snapBeacons := cloneMap(m.beacons)
	snapNext := m.nextID
	if err := fn(m); err != nil {
		m.identities = snapIdents
		m.companies = snapCompanies
		m.beacons = snapBeacons
		m.nextID = snapNext
		return err
	}
	return nil
}

func cloneMap[T any](src map[uint64]T) map[uint64]T {
	dst := make(map[uint64]T, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memStore) FindIdentityByLoginID(_ context.Context, loginID string) (*model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ident := range m.identities {
		if ident.LoginID == loginID && !ident.IsDeleted {
			cp := ident
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindIdentityByID(_ context.Context, id uint64) (*model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ident, ok := m.identities[id]; ok && !ident.IsDeleted {
		cp := ident
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) CreateIdentity(_ context.Context, ident *model.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.identities {
		if existing.LoginID == ident.LoginID {
			// Wrapped so callers must match the sentinel with errors.Is
			// rather than equality.
			return fmt.Errorf("insert %q: %w", ident.LoginID, repository.ErrDuplicate)
		}
	}
	m.nextID++
	ident.ID = m.nextID
	ident.CreatedAt = time.Now().UTC()
	ident.UpdatedAt = ident.CreatedAt
	m.identities[ident.ID] = *ident
	return nil
}

func (m *memStore) UpdateIdentity(_ context.Context, ident *model.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.identities[ident.ID]; ok && !existing.IsDeleted {
		cp := *ident
		cp.UpdatedAt = time.Now().UTC()
		m.identities[ident.ID] = cp
	}
	return nil
}

func (m *memStore) SoftDeleteIdentity(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ident, ok := m.identities[id]; ok {
		ident.IsDeleted = true
		m.identities[id] = ident
	}
	return nil
}

func (m *memStore) ListIdentities(_ context.Context, q model.ListQuery) ([]model.Identity, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Identity
	for _, ident := range m.identities {
		if ident.Role != q.Role || ident.IsDeleted {
			continue
		}
		if q.Search != "" {
			switch q.SearchBy {
			case model.SearchByLoginID:
				if !strings.Contains(ident.LoginID, q.Search) {
					continue
				}
			case model.SearchByName:
				if !strings.Contains(ident.Name, q.Search) {
					continue
				}
			}
		}
		matched = append(matched, ident)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *memStore) FindCompanyByID(_ context.Context, id uint64) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.companies[id]; ok && !c.IsDeleted {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindBeaconByID(_ context.Context, id uint64) (*model.Beacon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.beacons[id]; ok && !b.IsDeleted {
		cp := b
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindBeaconByMac(_ context.Context, mac string) (*model.Beacon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.beacons {
		if b.MacAddr == mac && !b.IsDeleted {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListBeaconsByUser(_ context.Context, userID uint64) ([]model.Beacon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var beacons []model.Beacon
	for _, b := range m.beacons {
		if !b.IsDeleted && b.UserID != nil && *b.UserID == userID {
			beacons = append(beacons, b)
		}
	}
	sort.Slice(beacons, func(i, j int) bool { return beacons[i].ID < beacons[j].ID })
	return beacons, nil
}

func (m *memStore) SetBeaconUser(_ context.Context, beaconID uint64, userID *uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.beacons[beaconID]; ok {
		if userID == nil {
			b.UserID = nil
		} else {
			id := *userID
			b.UserID = &id
		}
		m.beacons[beaconID] = b
	}
	return nil
}

// ----- seeding helpers -----

func (m *memStore) seedCompany(id uint64, name string) {
	m.companies[id] = model.Company{ID: id, Name: name}
}

func (m *memStore) seedIdentity(loginID string, role model.Role, companyID *uint64, passwordHash string) uint64 {
	m.nextID++
	m.identities[m.nextID] = model.Identity{
		ID:           m.nextID,
		LoginID:      loginID,
		PasswordHash: passwordHash,
		Role:         role,
		CompanyID:    companyID,
	}
	return m.nextID
}

func (m *memStore) seedBeacon(id uint64, mac string) {
	m.beacons[id] = model.Beacon{ID: id, MacAddr: mac}
	if id > m.nextID {
		m.nextID = id
	}
}
