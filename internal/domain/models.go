package domain

import (
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Specialty is reference data, seeded once and never mutated by patients.
type Specialty struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex" json:"name"`
}

// Practitioner belongs to exactly one specialty.
type Practitioner struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `json:"name"`
	SpecialtyID string `gorm:"index" json:"specialtyId"`
}

// Appointment is the only persisted booking record. Rows are never deleted,
// only status-transitioned, so the past view keeps its history.
type Appointment struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	AccountID      string    `gorm:"index" json:"accountId"`
	PractitionerID string    `gorm:"index:idx_practitioner_instant" json:"practitionerId"`
	SpecialtyID    string    `json:"specialtyId"`
	Instant        time.Time `gorm:"index:idx_practitioner_instant" json:"dateTime"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Slot is a derived value, recomputed per query and never stored.
type Slot struct {
	PractitionerID string    `json:"practitionerId"`
	Instant        time.Time `json:"dateTime"`
	IsAvailable    bool      `json:"isAvailable"`
}

type AppointmentEvent struct {
	AppointmentID  string    `json:"appointmentId"`
	AccountID      string    `json:"accountId"`
	PractitionerID string    `json:"practitionerId"`
	SpecialtyID    string    `json:"specialtyId"`
	Instant        time.Time `json:"dateTime"`
	Type           string    `json:"type"`
}

const (
	EventBooked    = "appointment.booked"
	EventCancelled = "appointment.cancelled"
)
