package model

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	Base
	PatientID    uuid.UUID `json:"patient" db:"patient_id"`
	DoctorID     uuid.UUID `json:"doctor" db:"doctor_id"`
	Date         time.Time `json:"date" db:"date"`
	Prescription string    `json:"prescription" db:"prescription"`
}

// MedicalRecord documents symptoms and a diagnosis under a prescription.
// Deleting the prescription cascades to its records.
type MedicalRecord struct {
	Base
	PrescriptionID uuid.UUID `json:"prescription" db:"prescription_id"`
	Symptoms       string    `json:"symptoms" db:"symptoms"`
	Diagnosis      string    `json:"diagnosis" db:"diagnosis"`
}

type CreatePrescriptionRequest struct {
	Patient      uuid.UUID `json:"patient" binding:"required"`
	Date         string    `json:"date" binding:"required,datetime=2006-01-02"`
	Prescription string    `json:"prescription" binding:"required"`
}

type CreateMedicalRecordRequest struct {
	Symptoms  string `json:"symptoms" binding:"required"`
	Diagnosis string `json:"diagnosis" binding:"required"`
}
