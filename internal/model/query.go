package model

// Search-by keys accepted by the listing queries.
const (
	SearchByLoginID = "id"
	SearchByName    = "name"
)

// ListQuery narrows a paginated identity listing. Role selects which variant
// is listed, SearchBy/Search optionally filter on a single field, and
// Page/Size control pagination (Page is zero-based). Soft-deleted rows are
// always excluded.
type ListQuery struct {
	Role     Role
	SearchBy string
	Search   string
	Page     int
	Size     int
}

// Offset returns the row offset for the query's page.
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return q.Page * q.Size
}
