package destination

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Filter selects destinations for listing. Zero values and nil pointers
// impose no constraint.
type Filter struct {
	Category  string
	Query     string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Tag       string
	Page      int
	PageSize  int
}

type Page struct {
	Items      []Destination `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	// keeps Offset from overflowing; such a page is simply past the end
	if maxPage := math.MaxInt / f.PageSize; f.Page > maxPage {
		f.Page = maxPage
	}
	f.Query = strings.TrimSpace(f.Query)
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

func (f Filter) hasPriceBound() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// Matches reports whether d satisfies every supplied criterion. Price bounds
// apply to estimatedCost.midRange.min, so a destination without a midRange
// never matches a price-bounded filter.
func (f Filter) Matches(d Destination) bool {
	if f.Category != "" && !contains(d.Categories, f.Category) {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Query)) {
		return false
	}
	if f.hasPriceBound() {
		mid := d.EstimatedCost.MidRange
		if mid == nil {
			return false
		}
		if f.MinPrice != nil && mid.Min < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && mid.Min > *f.MaxPrice {
			return false
		}
	}
	if f.MinRating != nil && d.Ratings.Average < *f.MinRating {
		return false
	}
	if f.Tag != "" && !contains(d.Tags, f.Tag) {
		return false
	}
	return true
}

// Apply filters all (in its given order) and slices out the requested page.
func Apply(f Filter, all []Destination) Page {
	f = f.Normalize()

	matched := make([]Destination, 0, len(all))
	for _, d := range all {
		if f.Matches(d) {
			matched = append(matched, d)
		}
	}

	start := f.Offset()
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := start + f.PageSize
	if end < start || end > len(matched) {
		end = len(matched)
	}

	return newPage(f, matched[start:end], len(matched))
}

func newPage(f Filter, items []Destination, total int) Page {
	if items == nil {
		items = []Destination{}
	}
	return Page{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: (total + f.PageSize - 1) / f.PageSize,
	}
}
