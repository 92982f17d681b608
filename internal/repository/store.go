package repository

import (
	"strings"

	"gorm.io/gorm"

	"hospital-directory/internal/models"
)

// Store bundles every collection the service layer needs
type Store struct {
	Hospitals    Collection[models.Hospital]
	MedicalTests Collection[models.MedicalTest]
	Offerings    Collection[models.HospitalTestOffering]
	Users        *UserRepository
	Audit        *AuditRepository
}

// NewGormStore backs every collection with its MySQL table
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Hospitals:    NewHospitalRepo(db),
		MedicalTests: NewMedicalTestRepo(db),
		Offerings:    NewOfferingRepo(db),
		Users: NewUserRepo(
			NewGormCollection[models.User](db, UserEntity),
			NewGormCollection[models.RefreshToken](db, RefreshTokenEntity),
		),
		Audit: NewAuditRepo(NewGormCollection[models.AuditLog](db, AuditLogEntity)),
	}
}

// NewMemoryStore keeps everything in process memory. Data is lost on restart.
func NewMemoryStore() *Store {
	return &Store{
		Hospitals:    NewMemoryHospitalRepo(),
		MedicalTests: NewMemoryMedicalTestRepo(),
		Offerings:    NewMemoryOfferingRepo(),
		Users: NewUserRepo(
			NewMemoryCollection[models.User](UserEntity, func(u *models.User) string {
				return strings.ToLower(u.Username)
			}),
			NewMemoryCollection[models.RefreshToken](RefreshTokenEntity),
		),
		Audit: NewAuditRepo(NewMemoryCollection[models.AuditLog](AuditLogEntity)),
	}
}
