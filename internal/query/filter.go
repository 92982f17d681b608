package query

import "strings"

// Normalizer maps a raw request value to the stored representation of a field.
// Returning ok=false keeps the trimmed raw value, which then matches nothing stored.
type Normalizer func(raw string) (string, bool)

// Lower lowercases a value.
func Lower(raw string) (string, bool) { return strings.ToLower(raw), true }

// Verbatim keeps a value unchanged.
func Verbatim(raw string) (string, bool) { return raw, true }

// FilterBuilder accumulates AND-ed constraints from optional request parameters.
// A nil parameter means the caller did not send it and adds no constraint.
type FilterBuilder struct {
	pred Predicate
}

// NewFilterBuilder returns an empty builder; its Build matches everything.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Contains adds a case-insensitive substring match.
func (b *FilterBuilder) Contains(field string, raw *string) *FilterBuilder {
	if raw == nil {
		return b
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return b
	}
	b.pred = append(b.pred, Condition{Field: field, Op: OpContains, Str: v})
	return b
}

// Exact adds an equality match after normalizing the value.
func (b *FilterBuilder) Exact(field string, raw *string, norm Normalizer) *FilterBuilder {
	if raw == nil {
		return b
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return b
	}
	if n, ok := norm(v); ok {
		v = n
	}
	b.pred = append(b.pred, Condition{Field: field, Op: OpEq, Str: v})
	return b
}

// OneOf adds a match against any of the given values.
func (b *FilterBuilder) OneOf(field string, values []string) *FilterBuilder {
	if len(values) == 0 {
		return b
	}
	b.pred = append(b.pred, Condition{Field: field, Op: OpIn, Strs: values})
	return b
}

// Bool adds a boolean match. Only the literal "true" maps to true.
func (b *FilterBuilder) Bool(field string, raw *string) *FilterBuilder {
	if raw == nil {
		return b
	}
	b.pred = append(b.pred, Condition{Field: field, Op: OpBool, Bool: *raw == "true"})
	return b
}

// Flag adds a boolean match with a value decided by the caller.
func (b *FilterBuilder) Flag(field string, value bool) *FilterBuilder {
	b.pred = append(b.pred, Condition{Field: field, Op: OpBool, Bool: value})
	return b
}

// AnyOf splits a comma separated list and matches records whose list field
// shares at least one element with it.
func (b *FilterBuilder) AnyOf(field string, raw *string, norm Normalizer) *FilterBuilder {
	if raw == nil {
		return b
	}
	values := SplitList(*raw, norm)
	if len(values) == 0 {
		return b
	}
	b.pred = append(b.pred, Condition{Field: field, Op: OpAnyOf, Strs: values})
	return b
}

// Range adds an inclusive numeric bound. Either end may be nil.
func (b *FilterBuilder) Range(field string, lo, hi *float64) *FilterBuilder {
	if lo == nil && hi == nil {
		return b
	}
	c := Condition{Field: field, Op: OpRange, Lo: -1e308, Hi: 1e308}
	if lo != nil {
		c.Lo = *lo
	}
	if hi != nil {
		c.Hi = *hi
	}
	b.pred = append(b.pred, c)
	return b
}

// ID adds an identifier match.
func (b *FilterBuilder) ID(field string, id *uint) *FilterBuilder {
	if id == nil {
		return b
	}
	b.pred = append(b.pred, Condition{Field: field, Op: OpUint, ID: *id})
	return b
}

// IDs adds a match against any of the given identifiers. An empty list
// matches nothing.
func (b *FilterBuilder) IDs(field string, ids []uint) *FilterBuilder {
	b.pred = append(b.pred, Condition{Field: field, Op: OpUintIn, IDs: ids})
	return b
}

// Where appends an arbitrary predicate.
func (b *FilterBuilder) Where(p Predicate) *FilterBuilder {
	b.pred = append(b.pred, p...)
	return b
}

// Build returns the accumulated predicate.
func (b *FilterBuilder) Build() Predicate {
	return b.pred
}

// SplitList splits a comma separated value, trims and normalizes each element,
// and drops empties and duplicates.
func SplitList(raw string, norm Normalizer) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, ok := norm(part)
		if !ok {
			v = part
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
