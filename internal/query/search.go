package query

import (
	"strings"

	"hospital-directory/pkg/apperror"
)

// SearchFields names the fields a free-text term is matched against.
// Substring fields match when they contain the term; Element fields are lists
// matching when one element equals the term. Both ignore case.
type SearchFields struct {
	Substring []string
	Element   []string
}

// TestSearchFields is the catalog search over medical tests.
var TestSearchFields = SearchFields{
	Substring: []string{"name", "description"},
	Element:   []string{"keywords", "aliases"},
}

// HospitalSearchFields is the directory search over hospitals.
var HospitalSearchFields = SearchFields{
	Substring: []string{"name", "full_address", "description"},
	Element:   []string{"departments", "facilities"},
}

// Search builds an OR-combined predicate for term over fields.
// No relevance score is computed; ordering is left to the caller's Sort.
func Search(term string, fields SearchFields) (Predicate, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperror.NewValidationError("Search term is required")
	}

	or := make([]Condition, 0, len(fields.Substring)+len(fields.Element))
	for _, f := range fields.Substring {
		or = append(or, Condition{Field: f, Op: OpContains, Str: term})
	}
	for _, f := range fields.Element {
		or = append(or, Condition{Field: f, Op: OpHasElement, Str: term})
	}
	return Predicate{{Op: OpOr, Or: or}}, nil
}
