package models

import "time"

// The methods below let the in-memory store assign identifiers and
// timestamps the way the database does.

func (h *Hospital) GetID() uint   { return h.ID }
func (h *Hospital) SetID(id uint) { h.ID = id }
func (h *Hospital) Touch(now time.Time) {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
}

func (t *MedicalTest) GetID() uint   { return t.ID }
func (t *MedicalTest) SetID(id uint) { t.ID = id }
func (t *MedicalTest) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

func (o *HospitalTestOffering) GetID() uint   { return o.ID }
func (o *HospitalTestOffering) SetID(id uint) { o.ID = id }
func (o *HospitalTestOffering) Touch(now time.Time) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

func (u *User) GetID() uint   { return u.ID }
func (u *User) SetID(id uint) { u.ID = id }
func (u *User) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
}

func (r *RefreshToken) GetID() uint   { return r.ID }
func (r *RefreshToken) SetID(id uint) { r.ID = id }
func (r *RefreshToken) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
}

func (a *AuditLog) GetID() uint   { return a.ID }
func (a *AuditLog) SetID(id uint) { a.ID = id }
func (a *AuditLog) Touch(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
}

func unixMilli(t time.Time) float64 {
	return float64(t.UnixMilli())
}
