package pagination

import "strconv"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

func Parse(pageStr, limitStr string) Params {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = defaultPage
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Params{Page: page, Limit: limit}
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewMeta(total int64, p Params) Meta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
