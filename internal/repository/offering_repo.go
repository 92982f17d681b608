package repository

import (
	"fmt"

	"gorm.io/gorm"

	"hospital-directory/internal/models"
)

// NewOfferingRepo returns the hospital_tests table as a collection.
// idx_offering_hospital_test makes (hospital_id, test_id) unique.
func NewOfferingRepo(db *gorm.DB) *GormCollection[models.HospitalTestOffering] {
	return NewGormCollection[models.HospitalTestOffering](db, OfferingEntity)
}

// NewMemoryOfferingRepo returns an in-memory offering collection with
// (hospital_id, test_id) kept unique
func NewMemoryOfferingRepo() *MemoryCollection[models.HospitalTestOffering, *models.HospitalTestOffering] {
	return NewMemoryCollection[models.HospitalTestOffering](OfferingEntity, offeringKey)
}

func offeringKey(o *models.HospitalTestOffering) string {
	return fmt.Sprintf("%d:%d", o.HospitalID, o.TestID)
}
