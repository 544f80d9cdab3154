package query

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageConfig is the page-size policy.
type PageConfig struct {
	PerPage    int `yaml:"per_page" mapstructure:"per_page"`
	MaxPerPage int `yaml:"max_per_page" mapstructure:"max_per_page"`
}

// ApplyDefaults sets sensible defaults.
func (c *PageConfig) ApplyDefaults() {
	if c.PerPage <= 0 {
		c.PerPage = DefaultPageSize
	}
	if c.MaxPerPage <= 0 {
		c.MaxPerPage = MaxPageSize
	}
}

// Validate checks the configuration.
func (c *PageConfig) Validate() error {
	if c.PerPage < 1 {
		return fmt.Errorf("pagination.per_page must be positive (got: %d)", c.PerPage)
	}
	if c.MaxPerPage < c.PerPage {
		return fmt.Errorf("pagination.max_per_page must be at least per_page (got: %d < %d)", c.MaxPerPage, c.PerPage)
	}
	return nil
}

// Size clamps n to [1, MaxPerPage], using PerPage when n is not positive.
func (c PageConfig) Size(n int) int {
	c.ApplyDefaults()
	if n <= 0 {
		n = c.PerPage
	}
	return clamp(n, 1, c.MaxPerPage)
}

// PageSizer is implemented by entities that override the page size.
type PageSizer interface {
	PerPage() int
}

// Pagination metadata returned in paginated results.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Result is one page of records.
type Result[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate counts the rows matched by db and loads the requested page.
// Pages are 1-based; a page below 1 is treated as 1 and a page past the end
// is returned empty with its number kept.
func Paginate[T any](db *gorm.DB, page, pageSize int) (*Result[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	q := db.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	data := make([]T, 0, min(pageSize, int(total)))
	// The offset stays below total, so it cannot overflow.
	if page <= totalPages {
		if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&data).Error; err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
	}

	return &Result[T]{
		Data: data,
		Pagination: Pagination{
			Page: page, PageSize: pageSize,
			Total: int(total), TotalPages: totalPages,
		},
	}, nil
}

func clamp(v, lower, upper int) int {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
