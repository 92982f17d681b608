package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"hospital-directory/internal/query"
	"hospital-directory/pkg/apperror"
)

// Collection is the storage abstraction the services query through.
// Predicates and sorts are evaluated by the implementation; a Page bounds Find.
type Collection[T any] interface {
	// Find returns one page of matching rows and the total match count.
	// The two reads are not transactional.
	Find(ctx context.Context, pred query.Predicate, sort query.Sort, page query.Page) ([]T, int64, error)
	// FindAll returns every matching row, or the first limit rows when limit > 0.
	FindAll(ctx context.Context, pred query.Predicate, sort query.Sort, limit int) ([]T, error)
	Count(ctx context.Context, pred query.Predicate) (int64, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
}

// Entity describes a stored type for error messages.
type Entity struct {
	// Name is used in "<Name> not found"
	Name string
	// Conflict is returned when a unique key is already taken
	Conflict string
}

var (
	HospitalEntity     = Entity{Name: "Hospital", Conflict: "a hospital with this phone number already exists"}
	MedicalTestEntity  = Entity{Name: "Medical test", Conflict: "medical test already exists"}
	OfferingEntity     = Entity{Name: "Hospital test offering", Conflict: "this hospital already offers this test"}
	UserEntity         = Entity{Name: "User", Conflict: "username already exists"}
	RefreshTokenEntity = Entity{Name: "Refresh token", Conflict: "refresh token already exists"}
	AuditLogEntity     = Entity{Name: "Audit log", Conflict: "audit log already exists"}
)

// mysqlDuplicateEntry is ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// translate maps storage errors onto the application error taxonomy
func (e Entity) translate(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.notFound()
	case isDuplicateKey(err):
		return apperror.NewConflictError(e.Conflict, err)
	default:
		return apperror.NewInternalError(e.Name+" storage failure", err)
	}
}

func (e Entity) notFound() error {
	return apperror.NewNotFoundError(e.Name + " not found")
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
