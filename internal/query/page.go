package query

import (
	"net/url"
	"strconv"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when no page_size parameter is given.
	DefaultPageSize = 20
	// MaxPageSize caps caller-requested page sizes.
	MaxPageSize = 100
)

// Page is a validated pagination request.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page and page_size parameters, falling back to defaults on
// missing or malformed values.
func ParsePage(params url.Values) Page {
	page := Page{Number: 1, Size: DefaultPageSize}
	if n, err := strconv.Atoi(params.Get("page")); err == nil && n > 0 {
		page.Number = n
	}
	if s, err := strconv.Atoi(params.Get("page_size")); err == nil && s > 0 {
		if s > MaxPageSize {
			s = MaxPageSize
		}
		page.Size = s
	}
	return page
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Apply adds LIMIT/OFFSET to a gorm query.
func (p Page) Apply(tx *gorm.DB) *gorm.DB {
	return tx.Limit(p.Size).Offset(p.Offset())
}

// Bounds returns the slice bounds of the page over an in-memory result set of
// n rows. Used when distance ranking forces post-fetch pagination.
func (p Page) Bounds(n int) (lo, hi int) {
	lo = p.Offset()
	if lo > n {
		lo = n
	}
	hi = lo + p.Size
	if hi > n {
		hi = n
	}
	return lo, hi
}
