package query

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
)

// Op is the comparison a Condition performs against a document field.
type Op int

const (
	// OpEq matches a scalar string field equal to Str, ignoring case.
	OpEq Op = iota
	// OpContains matches a scalar string field containing Str, ignoring case.
	OpContains
	// OpIn matches a scalar string field equal to any of Strs, ignoring case.
	OpIn
	// OpAnyOf matches a list field sharing at least one element with Strs.
	OpAnyOf
	// OpHasElement matches a list field holding an element equal to Str, ignoring case.
	OpHasElement
	// OpBool matches a boolean field equal to Bool.
	OpBool
	// OpRange matches a numeric field within [Lo, Hi].
	OpRange
	// OpUint matches an identifier field equal to ID.
	OpUint
	// OpUintIn matches an identifier field equal to any of IDs.
	OpUintIn
	// OpOr matches when any of Or matches.
	OpOr
)

// Condition is a single constraint over one field of a document.
type Condition struct {
	Field string
	Op    Op
	Str   string
	Strs  []string
	Bool  bool
	Lo    float64
	Hi    float64
	ID    uint
	IDs   []uint
	Or    []Condition
}

// Predicate is a conjunction of conditions. The zero value matches everything.
type Predicate []Condition

// And returns a predicate matching both p and other.
func (p Predicate) And(other Predicate) Predicate {
	out := make(Predicate, 0, len(p)+len(other))
	out = append(out, p...)
	return append(out, other...)
}

// Document is a record the in-memory evaluator can inspect.
// Lookup returns string, bool, float64, uint or []string values, or nil
// where the column would be NULL.
type Document interface {
	Lookup(field string) (any, bool)
}

// Matches evaluates the predicate against a single document.
func (p Predicate) Matches(doc Document) bool {
	for _, c := range p {
		if !c.Matches(doc) {
			return false
		}
	}
	return true
}

// Matches evaluates the condition against a single document.
func (c Condition) Matches(doc Document) bool {
	if c.Op == OpOr {
		for _, child := range c.Or {
			if child.Matches(doc) {
				return true
			}
		}
		return false
	}

	v, ok := doc.Lookup(c.Field)
	if !ok {
		return false
	}

	switch c.Op {
	case OpEq:
		s, ok := v.(string)
		return ok && strings.EqualFold(s, c.Str)
	case OpContains:
		s, ok := v.(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(c.Str))
	case OpIn:
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, want := range c.Strs {
			if strings.EqualFold(s, want) {
				return true
			}
		}
		return false
	case OpAnyOf:
		list, ok := v.([]string)
		if !ok {
			return false
		}
		for _, have := range list {
			for _, want := range c.Strs {
				if have == want {
					return true
				}
			}
		}
		return false
	case OpHasElement:
		list, ok := v.([]string)
		if !ok {
			return false
		}
		for _, have := range list {
			if strings.EqualFold(have, c.Str) {
				return true
			}
		}
		return false
	case OpBool:
		b, ok := v.(bool)
		return ok && b == c.Bool
	case OpRange:
		f, ok := v.(float64)
		return ok && f >= c.Lo && f <= c.Hi
	case OpUint:
		id, ok := v.(uint)
		return ok && id == c.ID
	case OpUintIn:
		id, ok := v.(uint)
		return ok && slices.Contains(c.IDs, id)
	}
	return false
}

// SQL renders the condition as a MySQL boolean expression with positional arguments.
// Field names come from code, never from request input.
func (c Condition) SQL() (string, []any) {
	col := quoteColumn(c.Field)

	switch c.Op {
	case OpEq:
		return fmt.Sprintf("LOWER(%s) = ?", col), []any{strings.ToLower(c.Str)}
	case OpContains:
		return fmt.Sprintf("LOWER(%s) LIKE ?", col), []any{"%" + escapeLike(strings.ToLower(c.Str)) + "%"}
	case OpIn:
		lowered := make([]string, len(c.Strs))
		for i, s := range c.Strs {
			lowered[i] = strings.ToLower(s)
		}
		return fmt.Sprintf("LOWER(%s) IN ?", col), []any{lowered}
	case OpAnyOf:
		encoded, _ := json.Marshal(c.Strs)
		return fmt.Sprintf("JSON_OVERLAPS(%s, CAST(? AS JSON))", col), []any{string(encoded)}
	case OpHasElement:
		return fmt.Sprintf("JSON_SEARCH(LOWER(%s), 'one', ?) IS NOT NULL", col), []any{escapeLike(strings.ToLower(c.Str))}
	case OpBool:
		return fmt.Sprintf("%s = ?", col), []any{c.Bool}
	case OpRange:
		return fmt.Sprintf("%s BETWEEN ? AND ?", col), []any{c.Lo, c.Hi}
	case OpUint:
		return fmt.Sprintf("%s = ?", col), []any{c.ID}
	case OpUintIn:
		if len(c.IDs) == 0 {
			return "1 = 0", nil
		}
		return fmt.Sprintf("%s IN ?", col), []any{c.IDs}
	case OpOr:
		if len(c.Or) == 0 {
			return "1 = 0", nil
		}
		parts := make([]string, 0, len(c.Or))
		var args []any
		for _, child := range c.Or {
			s, a := child.SQL()
			parts = append(parts, "("+s+")")
			args = append(args, a...)
		}
		return strings.Join(parts, " OR "), args
	}
	return "1 = 0", nil
}

// Scope returns a gorm scope applying every condition with AND.
func (p Predicate) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range p {
			s, args := c.SQL()
			db = db.Where("("+s+")", args...)
		}
		return db
	}
}

func quoteColumn(field string) string {
	return "`" + strings.ReplaceAll(field, "`", "") + "`"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
