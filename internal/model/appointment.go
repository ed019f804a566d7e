package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment books a doctor for a patient at a slot. Two store-level
// uniqueness rules back the booking engine: no two appointments may share
// (doctor, date, time), and a patient may hold at most one appointment with a
// given doctor per calendar date.
type Appointment struct {
	Base
	PatientID uuid.UUID      `json:"patient" db:"patient_id"`
	DoctorID  uuid.UUID      `json:"doctor" db:"doctor_id"`
	Date      time.Time      `json:"date" db:"date"`
	Time      string         `json:"time" db:"time"`
	Approval  ApprovalStatus `json:"approval" db:"approval"`
}

// CreateAppointmentRequest is the booking payload. Patient is optional: the
// acting patient always comes from the session, and a client-supplied id is
// only cross-checked against it.
type CreateAppointmentRequest struct {
	Patient *uuid.UUID `json:"patient"`
	Doctor  uuid.UUID  `json:"doctor" binding:"required"`
	Date    string     `json:"date" binding:"required,datetime=2006-01-02"`
	Time    string     `json:"time" binding:"required,datetime=15:04"`
}

type Payment struct {
	Base
	AppointmentID uuid.UUID `json:"appointment" db:"appointment_id"`
	Amount        float64   `json:"amount" db:"amount"`
	Paid          string    `json:"paid" db:"paid"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
}

const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

type CreatePaymentRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Paid          string  `json:"paid" binding:"omitempty,oneof=paid unpaid"`
	PaymentMethod string  `json:"payment_method" binding:"required,max=255"`
}
