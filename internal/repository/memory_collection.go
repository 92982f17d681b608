package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"gorm.io/gorm"

	"hospital-directory/internal/query"
)

// Record is the pointer side of a type the in-memory store can hold
type Record[T any] interface {
	*T
	query.Document
	GetID() uint
	SetID(id uint)
	Touch(now time.Time)
}

// UniqueKey derives a key that must be unique across the collection.
// An empty key is not checked.
type UniqueKey[T any] func(*T) string

// MemoryCollection keeps rows in process memory. It evaluates predicates and
// sorts with query.Predicate.Matches and query.Sort.Less and enforces unique
// keys the way a database index would.
type MemoryCollection[T any, P Record[T]] struct {
	mu     sync.RWMutex
	rows   map[uint]T
	nextID uint
	entity Entity
	unique []UniqueKey[T]
	now    func() time.Time
}

func NewMemoryCollection[T any, P Record[T]](entity Entity, unique ...UniqueKey[T]) *MemoryCollection[T, P] {
	return &MemoryCollection[T, P]{
		rows:   make(map[uint]T),
		entity: entity,
		unique: unique,
		now:    time.Now,
	}
}

func (m *MemoryCollection[T, P]) matching(pred query.Predicate, sort query.Sort) []T {
	out := make([]T, 0, len(m.rows))
	for _, row := range m.rows {
		if pred.Matches(P(&row)) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b T) int {
		switch {
		case sort.Less(P(&a), P(&b)):
			return -1
		case sort.Less(P(&b), P(&a)):
			return 1
		}
		return 0
	})
	return out
}

// Find returns one page of matches and the total match count
func (m *MemoryCollection[T, P]) Find(ctx context.Context, pred query.Predicate, sort query.Sort, page query.Page) ([]T, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.matching(pred, sort)
	start, end := page.Window(len(all))
	return slices.Clone(all[start:end]), int64(len(all)), nil
}

// FindAll returns every match, or the first limit when limit > 0
func (m *MemoryCollection[T, P]) FindAll(ctx context.Context, pred query.Predicate, sort query.Sort, limit int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.matching(pred, sort)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Count counts matches
func (m *MemoryCollection[T, P]) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, row := range m.rows {
		if pred.Matches(P(&row)) {
			n++
		}
	}
	return n, nil
}

// GetByID retrieves a row by identifier
func (m *MemoryCollection[T, P]) GetByID(ctx context.Context, id uint) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[id]
	if !ok {
		return nil, m.entity.notFound()
	}
	return &row, nil
}

// Create assigns the next identifier and stores the row
func (m *MemoryCollection[T, P]) Create(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(entity, 0); err != nil {
		return err
	}
	m.nextID++
	P(entity).SetID(m.nextID)
	P(entity).Touch(m.now())
	m.rows[m.nextID] = *entity
	return nil
}

// Update replaces an existing row
func (m *MemoryCollection[T, P]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := P(entity).GetID()
	if _, ok := m.rows[id]; !ok {
		return m.entity.notFound()
	}
	if err := m.checkUnique(entity, id); err != nil {
		return err
	}
	P(entity).Touch(m.now())
	m.rows[id] = *entity
	return nil
}

// Delete removes a row by identifier
func (m *MemoryCollection[T, P]) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return m.entity.notFound()
	}
	delete(m.rows, id)
	return nil
}

// checkUnique rejects entity when another row (not self) holds one of its keys
func (m *MemoryCollection[T, P]) checkUnique(entity *T, self uint) error {
	for _, key := range m.unique {
		k := key(entity)
		if k == "" {
			continue
		}
		for id, row := range m.rows {
			if id != self && key(&row) == k {
				return m.entity.translate(gorm.ErrDuplicatedKey)
			}
		}
	}
	return nil
}
