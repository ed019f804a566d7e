package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a patient's rating of a doctor. Date is server-assigned at
// creation and immutable afterwards.
type Review struct {
	Base
	PatientID uuid.UUID `json:"patient" db:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor" db:"doctor_id"`
	Rating    int       `json:"rating" db:"rating"`
	Review    string    `json:"review" db:"review"`
	Date      time.Time `json:"date" db:"date"`
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review" binding:"required,max=255"`
}
