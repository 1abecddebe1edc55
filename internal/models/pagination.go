package models

// Pagination is a 1-based page request
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into usable values
func (p Pagination) Normalize(defaultLimit, maxLimit int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit)
func (p Pagination) TotalPages(total int) int {
	if p.Limit < 1 || total == 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
