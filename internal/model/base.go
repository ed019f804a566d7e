package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ApprovalStatus is the administrative moderation state shared by doctor
// listings and appointments. Same vocabulary, distinct state machines.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Gender values accepted at registration
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// TimeFormat is the wire format for appointment slots.
const TimeFormat = "15:04"
