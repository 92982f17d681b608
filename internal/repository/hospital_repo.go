package repository

import (
	"gorm.io/gorm"

	"hospital-directory/internal/models"
)

// NewHospitalRepo returns the hospitals table as a collection
func NewHospitalRepo(db *gorm.DB) *GormCollection[models.Hospital] {
	return NewGormCollection[models.Hospital](db, HospitalEntity)
}

// NewMemoryHospitalRepo returns an in-memory hospital collection with
// phone numbers kept unique
func NewMemoryHospitalRepo() *MemoryCollection[models.Hospital, *models.Hospital] {
	return NewMemoryCollection[models.Hospital](HospitalEntity, func(h *models.Hospital) string {
		return h.Phone
	})
}
