package repository

import (
	"context"

	"gorm.io/gorm"

	"hospital-directory/internal/query"
)

// GormCollection stores T in its gorm table
type GormCollection[T any] struct {
	db     *gorm.DB
	entity Entity
}

func NewGormCollection[T any](db *gorm.DB, entity Entity) *GormCollection[T] {
	return &GormCollection[T]{db: db, entity: entity}
}

// Find fetches one page, then counts all matches with the same predicate
func (r *GormCollection[T]) Find(ctx context.Context, pred query.Predicate, sort query.Sort, page query.Page) ([]T, int64, error) {
	var rows []T
	err := r.db.WithContext(ctx).
		Scopes(pred.Scope()).
		Order(sort.Clause()).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, r.entity.translate(err)
	}

	total, err := r.Count(ctx, pred)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindAll fetches every match, or the first limit when limit > 0
func (r *GormCollection[T]) FindAll(ctx context.Context, pred query.Predicate, sort query.Sort, limit int) ([]T, error) {
	var rows []T
	q := r.db.WithContext(ctx).Scopes(pred.Scope()).Order(sort.Clause())
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, r.entity.translate(err)
	}
	return rows, nil
}

// Count counts matches
func (r *GormCollection[T]) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(new(T)).
		Scopes(pred.Scope()).
		Count(&total).Error
	return total, r.entity.translate(err)
}

// GetByID retrieves a row by primary key
func (r *GormCollection[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, r.entity.translate(err)
	}
	return &row, nil
}

// Create inserts a row
func (r *GormCollection[T]) Create(ctx context.Context, entity *T) error {
	return r.entity.translate(r.db.WithContext(ctx).Create(entity).Error)
}

// Update saves every column of an existing row
func (r *GormCollection[T]) Update(ctx context.Context, entity *T) error {
	return r.entity.translate(r.db.WithContext(ctx).Save(entity).Error)
}

// Delete removes a row by primary key
func (r *GormCollection[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return r.entity.translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.entity.notFound()
	}
	return nil
}
