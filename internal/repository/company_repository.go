package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mmp/beacon-platform/internal/model"
)

// FindCompanyByID fetches a non-deleted company by id.
func (s *MySQLStore) FindCompanyByID(ctx context.Context, id uint64) (*model.Company, error) {
	var c model.Company
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, is_deleted, created_at, updated_at FROM companies WHERE id=? AND is_deleted=0 LIMIT 1",
		id).Scan(&c.ID, &c.Name, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
