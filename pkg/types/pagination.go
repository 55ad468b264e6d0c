package types

// Pagination defaults. Page numbers are 1-based.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination selects a page of a list result. Zero fields fall back to the
// defaults; a nil *Pagination means page 1 with the default limit.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// OffsetLimit resolves the pagination into SQL offset and limit values.
// Safe to call on a nil receiver.
func (p *Pagination) OffsetLimit() (offset, limit int) {
	page := DefaultPage
	limit = DefaultLimit
	if p != nil {
		if p.Page > 0 {
			page = p.Page
		}
		if p.Limit > 0 {
			limit = p.Limit
		}
	}
	return (page - 1) * limit, limit
}
