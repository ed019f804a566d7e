package model

import "github.com/google/uuid"

// ProfileImage holds one image URI per account. Uploads replace the previous
// image via upsert, never delete-then-create.
type ProfileImage struct {
	AccountID uuid.UUID `json:"account_id" db:"account_id"`
	Image     string    `json:"image" db:"image"`
}

// Profile is the role-shaped "who am I" representation. Identity fields are
// always present; the doctor and patient sections are populated per role.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Gender      string    `json:"gender"`
	Role        Role      `json:"role"`
	Active      bool      `json:"active"`

	Specialization *string         `json:"specialization,omitempty"`
	Charges        *float64        `json:"charges,omitempty"`
	ApprovalStatus *ApprovalStatus `json:"approval_status,omitempty"`
	Location       *Location       `json:"location,omitempty"`

	BirthDate *string `json:"birth_date,omitempty"`
	Age       *string `json:"age,omitempty"`

	Image *string `json:"image"`
}

// UpdateProfileRequest carries a partial profile update. Which fields are
// accepted depends on the resolved role; identity credentials (email, phone,
// password) are immutable after registration and rejected here.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,max=255"`
	Gender    *string `json:"gender" binding:"omitempty,oneof=male female other"`

	Specialization *string  `json:"specialization" binding:"omitempty,max=255"`
	Charges        *float64 `json:"charges" binding:"omitempty,gte=1"`

	BirthDate *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`

	// Immutable post-registration; any attempt to set them is a validation
	// error and nothing persists.
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password"`
}

type UpdateProfileImageRequest struct {
	Image string `json:"image" binding:"required,max=512"`
}
