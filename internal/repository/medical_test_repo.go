package repository

import (
	"gorm.io/gorm"

	"hospital-directory/internal/models"
)

// NewMedicalTestRepo returns the medical_tests table as a collection
func NewMedicalTestRepo(db *gorm.DB) *GormCollection[models.MedicalTest] {
	return NewGormCollection[models.MedicalTest](db, MedicalTestEntity)
}

// NewMemoryMedicalTestRepo returns an in-memory catalog collection
func NewMemoryMedicalTestRepo() *MemoryCollection[models.MedicalTest, *models.MedicalTest] {
	return NewMemoryCollection[models.MedicalTest](MedicalTestEntity)
}
