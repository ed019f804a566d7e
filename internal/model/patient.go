package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	AccountID uuid.UUID `json:"account_id" db:"account_id"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
}

type RegisterPatientRequest struct {
	Identity
	BirthDate string `json:"birth_date" binding:"required,datetime=2006-01-02"`
}
