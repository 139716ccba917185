package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mmp/beacon-platform/internal/model"
)

const beaconColumns = "id, mac_addr, user_id, is_deleted, created_at, updated_at"

func scanBeacon(row interface{ Scan(...any) error }) (*model.Beacon, error) {
	var (
		b      model.Beacon
		userID sql.NullInt64
	)
	err := row.Scan(&b.ID, &b.MacAddr, &userID, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		id := uint64(userID.Int64)
		b.UserID = &id
	}
	return &b, nil
}

// FindBeaconByID fetches a non-deleted beacon by its numeric id.
func (s *MySQLStore) FindBeaconByID(ctx context.Context, id uint64) (*model.Beacon, error) {
	b, err := scanBeacon(s.q.QueryRowContext(ctx,
		"SELECT "+beaconColumns+" FROM beacons WHERE id=? AND is_deleted=0 LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// FindBeaconByMac fetches a non-deleted beacon by its unique MAC address.
func (s *MySQLStore) FindBeaconByMac(ctx context.Context, mac string) (*model.Beacon, error) {
	b, err := scanBeacon(s.q.QueryRowContext(ctx,
		"SELECT "+beaconColumns+" FROM beacons WHERE mac_addr=? AND is_deleted=0 LIMIT 1",
		strings.TrimSpace(mac)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// ListBeaconsByUser returns every non-deleted beacon currently assigned to
// the user, ordered by id.
func (s *MySQLStore) ListBeaconsByUser(ctx context.Context, userID uint64) ([]model.Beacon, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+beaconColumns+" FROM beacons WHERE user_id=? AND is_deleted=0 ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var beacons []model.Beacon
	for rows.Next() {
		b, err := scanBeacon(rows)
		if err != nil {
			return nil, err
		}
		beacons = append(beacons, *b)
	}
	return beacons, rows.Err()
}

// SetBeaconUser points the beacon's back-reference at userID, or clears it
// when userID is nil.
func (s *MySQLStore) SetBeaconUser(ctx context.Context, beaconID uint64, userID *uint64) error {
	_, err := s.q.ExecContext(ctx,
		"UPDATE beacons SET user_id=?, updated_at=NOW() WHERE id=? AND is_deleted=0",
		nullableID(userID), beaconID)
	return err
}
