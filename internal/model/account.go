package model

// Role determines which profile shape and permissions apply to an account.
// It is assigned at registration time, never inferred from linked records.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Account is the canonical identity record, one per user regardless of role.
// All other entities hold a reference to it, never a copy.
type Account struct {
	Base
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	PhoneNumber  string `json:"phone_number" db:"phone_number"`
	Gender       string `json:"gender" db:"gender"`
	Role         Role   `json:"role" db:"role"`
	Active       bool   `json:"active" db:"active"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// identity carries the shared registration fields for both roles.
type Identity struct {
	FirstName   string `json:"first_name" binding:"required,max=255"`
	LastName    string `json:"last_name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Gender      string `json:"gender" binding:"required,oneof=male female other"`
	Password    string `json:"password" binding:"required,min=8"`
}
