package config

import (
	"log"
	"os"

	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitDatabase opens the postgres connection, migrates the schema and seeds
// the reference catalog.
func InitDatabase() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Specialty{}, &domain.Practitioner{}, &domain.Appointment{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Partial unique index enforcing at most one scheduled appointment per
	// practitioner per instant, across all replicas.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_scheduled_slot
		ON appointments (practitioner_id, instant) WHERE status = 'scheduled'`).Error
	if err != nil {
		log.Fatalf("Failed to create scheduled slot index: %v", err)
	}

	seedCatalog(db)
	return db
}

// seedCatalog upserts the reference lists so a fresh database starts with a
// bookable catalog. Idempotent across restarts.
func seedCatalog(db *gorm.DB) {
	specialties := []domain.Specialty{
		{ID: "1", Name: "Cardiología"},
		{ID: "2", Name: "Dermatología"},
		{ID: "3", Name: "Pediatría"},
		{ID: "4", Name: "Ginecología"},
		{ID: "5", Name: "Oftalmología"},
		{ID: "6", Name: "Traumatología"},
	}
	practitioners := []domain.Practitioner{
		{ID: "1", Name: "Dr. Carlos Gutiérrez", SpecialtyID: "1"},
		{ID: "2", Name: "Dra. Laura Martínez", SpecialtyID: "1"},
		{ID: "3", Name: "Dr. Miguel Sánchez", SpecialtyID: "2"},
		{ID: "4", Name: "Dra. Ana López", SpecialtyID: "3"},
		{ID: "5", Name: "Dr. Roberto Fernández", SpecialtyID: "4"},
		{ID: "6", Name: "Dra. Julia García", SpecialtyID: "5"},
		{ID: "7", Name: "Dr. Eduardo Torres", SpecialtyID: "6"},
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&specialties).Error; err != nil {
		log.Fatalf("Failed to seed specialties: %v", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&practitioners).Error; err != nil {
		log.Fatalf("Failed to seed practitioners: %v", err)
	}
}
