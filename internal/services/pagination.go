package services

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func (p Pagination) validate() error {
	if p.Page < 1 {
		return badRequest("page must be at least 1")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return badRequest("limit must be between 1 and 100")
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return badRequest("page is out of range")
	}
	return nil
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

func newPage[T any](items []T, total int64, p Pagination) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items: items,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: (int(total) + p.Limit - 1) / p.Limit,
	}
}
