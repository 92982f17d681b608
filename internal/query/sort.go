package query

import (
	"cmp"
	"fmt"
	"strings"

	"hospital-directory/pkg/apperror"
)

// Sort orders a result set by one field. Ties are broken by id ascending so
// pages stay stable between requests.
type Sort struct {
	Field string
	Desc  bool
}

// ByName is the default catalog ordering.
var ByName = Sort{Field: "name"}

// ParseSort resolves the sort/order query pair against an allow-list.
// An empty field yields def; order "desc" is descending, anything else ascending.
func ParseSort(field, order string, allowed []string, def Sort) (Sort, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return def, nil
	}
	for _, a := range allowed {
		if a == field {
			return Sort{Field: field, Desc: strings.EqualFold(order, "desc")}, nil
		}
	}
	return Sort{}, apperror.NewValidationError(fmt.Sprintf("cannot sort by %q", field))
}

// Clause renders the ORDER BY expression.
func (s Sort) Clause() string {
	if s.Field == "" {
		return "`id` ASC"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, `id` ASC", quoteColumn(s.Field), dir)
}

// Less orders two documents for in-memory collections.
func (s Sort) Less(a, b Document) bool {
	if s.Field != "" {
		if c := compare(a, b, s.Field); c != 0 {
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
	}
	return compare(a, b, "id") < 0
}

func compare(a, b Document, field string) int {
	av, _ := a.Lookup(field)
	bv, _ := b.Lookup(field)

	// NULL sorts before any value, as in MySQL.
	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return -1
	case bv == nil:
		return 1
	}

	switch x := av.(type) {
	case string:
		y, _ := bv.(string)
		return strings.Compare(strings.ToLower(x), strings.ToLower(y))
	case float64:
		y, _ := bv.(float64)
		return cmp.Compare(x, y)
	case uint:
		y, _ := bv.(uint)
		return cmp.Compare(x, y)
	case bool:
		y, _ := bv.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case []string:
		y, _ := bv.([]string)
		return cmp.Compare(len(x), len(y))
	}
	return 0
}
