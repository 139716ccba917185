package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mmp/beacon-platform/internal/model"
)

const identityColumns = "id, login_id, password_hash, role, company_id, name, email, phone, position, is_deleted, created_at, updated_at"

func scanIdentity(row interface{ Scan(...any) error }) (*model.Identity, error) {
	var (
		ident     model.Identity
		companyID sql.NullInt64
		name      sql.NullString
		email     sql.NullString
		phone     sql.NullString
		position  sql.NullString
	)
	err := row.Scan(&ident.ID, &ident.LoginID, &ident.PasswordHash, &ident.Role,
		&companyID, &name, &email, &phone, &position,
		&ident.IsDeleted, &ident.CreatedAt, &ident.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if companyID.Valid {
		id := uint64(companyID.Int64)
		ident.CompanyID = &id
	}
	ident.Name = name.String
	ident.Email = email.String
	ident.Phone = phone.String
	ident.Position = position.String
	return &ident, nil
}

// FindIdentityByLoginID fetches a non-deleted identity by its login id.
func (s *MySQLStore) FindIdentityByLoginID(ctx context.Context, loginID string) (*model.Identity, error) {
	ident, err := scanIdentity(s.q.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM users WHERE login_id=? AND is_deleted=0 LIMIT 1",
		strings.TrimSpace(loginID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ident, err
}

// FindIdentityByID fetches a non-deleted identity by its numeric id.
func (s *MySQLStore) FindIdentityByID(ctx context.Context, id uint64) (*model.Identity, error) {
	ident, err := scanIdentity(s.q.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM users WHERE id=? AND is_deleted=0 LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ident, err
}

// CreateIdentity inserts the identity and populates its generated id.
// A unique-constraint violation on login_id maps to ErrDuplicate.
func (s *MySQLStore) CreateIdentity(ctx context.Context, ident *model.Identity) error {
	res, err := s.q.ExecContext(ctx,
		"INSERT INTO users (login_id, password_hash, role, company_id, name, email, phone, position) VALUES (?,?,?,?,?,?,?,?)",
		ident.LoginID, ident.PasswordHash, ident.Role, nullableID(ident.CompanyID),
		nullableStr(ident.Name), nullableStr(ident.Email), nullableStr(ident.Phone), nullableStr(ident.Position))
	if err != nil {
		// MySQL error 1062 = duplicate entry for a unique key.
		if strings.Contains(err.Error(), "1062") {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ident.ID = uint64(id)
	return nil
}

// UpdateIdentity persists mutable profile fields and the password hash.
// LoginID and Role are immutable and deliberately not part of the statement.
func (s *MySQLStore) UpdateIdentity(ctx context.Context, ident *model.Identity) error {
	_, err := s.q.ExecContext(ctx,
		"UPDATE users SET password_hash=?, name=?, email=?, phone=?, position=?, updated_at=NOW() WHERE id=? AND is_deleted=0",
		ident.PasswordHash, nullableStr(ident.Name), nullableStr(ident.Email),
		nullableStr(ident.Phone), nullableStr(ident.Position), ident.ID)
	return err
}

// SoftDeleteIdentity flips the soft-delete flag; the row remains for audit.
func (s *MySQLStore) SoftDeleteIdentity(ctx context.Context, id uint64) error {
	_, err := s.q.ExecContext(ctx,
		"UPDATE users SET is_deleted=1, updated_at=NOW() WHERE id=? AND is_deleted=0", id)
	return err
}

// ListIdentities returns one page of non-deleted identities of the queried
// role plus the total match count. SearchBy is assumed to be validated by
// the caller; an unknown key falls through to an unfiltered listing.
func (s *MySQLStore) ListIdentities(ctx context.Context, q model.ListQuery) ([]model.Identity, int, error) {
	where := "role=? AND is_deleted=0"
	args := []any{q.Role}
	if q.Search != "" {
		switch q.SearchBy {
		case model.SearchByLoginID:
			where += " AND login_id LIKE ?"
			args = append(args, "%"+q.Search+"%")
		case model.SearchByName:
			where += " AND name LIKE ?"
			args = append(args, "%"+q.Search+"%")
		}
	}

	var total int
	if err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY id LIMIT ? OFFSET ?", identityColumns, where)
	rows, err := s.q.QueryContext(ctx, query, append(args, q.Size, q.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var idents []model.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, 0, err
		}
		idents = append(idents, *ident)
	}
	return idents, total, rows.Err()
}

func nullableID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
