package model

import "github.com/google/uuid"

// Doctor holds the role record for a doctor account. The practice location is
// owned one-to-one; deleting the doctor cascades to it.
type Doctor struct {
	Base
	AccountID      uuid.UUID      `json:"account_id" db:"account_id"`
	Specialization string         `json:"specialization" db:"specialization"`
	Charges        float64        `json:"charges" db:"charges"`
	LocationID     uuid.UUID      `json:"location_id" db:"location_id"`
	ApprovalStatus ApprovalStatus `json:"approval_status" db:"approval_status"`
}

type Location struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Lat     float64   `json:"lat" db:"lat"`
	Lng     float64   `json:"lng" db:"lng"`
	Address string    `json:"address" db:"address"`
	City    string    `json:"city" db:"city"`
	State   string    `json:"state" db:"state"`
}

type LocationRequest struct {
	Lat     float64 `json:"lat" binding:"min=-90,max=90"`
	Lng     float64 `json:"lng" binding:"min=-180,max=180"`
	Address string  `json:"address" binding:"required,max=255"`
	City    string  `json:"city" binding:"required,max=255"`
	State   string  `json:"state" binding:"required,max=255"`
}

type RegisterDoctorRequest struct {
	Identity
	Specialization string          `json:"specialization" binding:"required,max=255"`
	Charges        float64         `json:"charges" binding:"required,gte=1"`
	Location       LocationRequest `json:"location" binding:"required"`
}

// DoctorListing is the directory read model: doctor joined with its identity
// and practice location.
type DoctorListing struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	FirstName      string         `json:"first_name" db:"first_name"`
	LastName       string         `json:"last_name" db:"last_name"`
	Email          string         `json:"email" db:"email"`
	PhoneNumber    string         `json:"phone_number" db:"phone_number"`
	Gender         string         `json:"gender" db:"gender"`
	Specialization string         `json:"specialization" db:"specialization"`
	Charges        float64        `json:"charges" db:"charges"`
	ApprovalStatus ApprovalStatus `json:"approval_status" db:"approval_status"`
	Location       Location       `json:"location" db:"location"`
}

// DoctorFilters carries the directory query parameters.
type DoctorFilters struct {
	Specialization string  `form:"specialization"`
	ChargesMin     float64 `form:"charges_min"`
	ChargesMax     float64 `form:"charges_max"`
	Search         string  `form:"search"`
	Ordering       string  `form:"ordering"`
	Page           int     `form:"page"`
}
