package query

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a validated page request. Number and Limit are always positive.
type Page struct {
	Number int
	Limit  int
}

// Pagination is the envelope returned next to a page of rows.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPage coerces raw page/limit values. Missing, non-numeric or non-positive
// input falls back to the defaults; limit is capped at maxLimit when maxLimit > 0.
// Page is capped so that its offset stays representable.
func NewPage(pageRaw, limitRaw string, defaultLimit, maxLimit int) Page {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}

	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	if last := lastPage(limit); page > last {
		page = last
	}

	return Page{Number: page, Limit: limit}
}

// lastPage is the highest page number whose offset fits in an int.
func lastPage(limit int) int {
	return math.MaxInt / limit
}

// Offset returns the number of rows to skip. It is never negative.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	number := p.Number
	if last := lastPage(p.Limit); number > last {
		number = last
	}
	return (number - 1) * p.Limit
}

// Paginate builds the envelope for a total count computed with the same
// predicate as the page fetch. The two reads are not transactional, so a
// concurrently changing collection can make them briefly disagree.
func (p Page) Paginate(totalCount int64) Pagination {
	totalPages := 0
	if totalCount > 0 {
		totalPages = int((totalCount + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{
		CurrentPage: p.Number,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNext:     p.Number < totalPages,
		HasPrev:     p.Number > 1,
	}
}

// Window returns the slice bounds of this page within n in-memory rows.
func (p Page) Window(n int) (start, end int) {
	if n < 0 {
		n = 0
	}
	start = p.Offset()
	if start < 0 || start > n {
		start = n
	}
	end = n
	if p.Limit > 0 && p.Limit < n-start {
		end = start + p.Limit
	}
	return start, end
}
