package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/internal/repository"
	"github.com/clinichq/clinic-api/pkg/errors"
)

type Service struct {
	accounts     repository.AccountRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	images       repository.ProfileImageRepository
	mediaBaseURL string
}

func NewService(
	accounts repository.AccountRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	images repository.ProfileImageRepository,
	mediaBaseURL string,
) *Service {
	return &Service{
		accounts:     accounts,
		doctors:      doctors,
		patients:     patients,
		images:       images,
		mediaBaseURL: mediaBaseURL,
	}
}

// Get returns the role-shaped profile for an account: identity fields always,
// plus the doctor or patient section depending on the account's role.
func (s *Service) Get(ctx context.Context, accountID uuid.UUID) (*model.Profile, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile := s.identityProfile(account)

	switch account.Role {
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		location, err := s.doctors.GetLocation(ctx, doctor.LocationID)
		if err != nil {
			return nil, err
		}
		profile.Specialization = &doctor.Specialization
		profile.Charges = &doctor.Charges
		profile.ApprovalStatus = &doctor.ApprovalStatus
		profile.Location = location
	case model.RolePatient:
		patient, err := s.patients.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		birthDate := patient.BirthDate.Format(model.DateFormat)
		age := FormatAge(patient.BirthDate, time.Now())
		profile.BirthDate = &birthDate
		profile.Age = &age
	}

	profile.Image = s.imageURL(ctx, accountID)
	return profile, nil
}

// Update applies a partial profile update. Email, phone number and password
// are immutable after registration: any attempt to set them fails validation
// and nothing persists. Which other fields are accepted depends on the role;
// the identity record is always re-saved in full (last write wins).
func (s *Service) Update(ctx context.Context, accountID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	if req.Email != nil {
		return nil, errors.NewFieldValidation("email", "cannot be changed after registration")
	}
	if req.PhoneNumber != nil {
		return nil, errors.NewFieldValidation("phone_number", "cannot be changed after registration")
	}
	if req.Password != nil {
		return nil, errors.NewFieldValidation("password", "cannot be changed after registration")
	}

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Gender != nil {
		account.Gender = *req.Gender
	}
	account.UpdatedAt = time.Now().UTC()

	switch account.Role {
	case model.RoleDoctor:
		if req.BirthDate != nil {
			return nil, errors.NewFieldValidation("birth_date", "not a doctor profile field")
		}
		doctor, err := s.doctors.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if req.Specialization != nil {
			doctor.Specialization = *req.Specialization
		}
		if req.Charges != nil {
			doctor.Charges = *req.Charges
		}
		doctor.UpdatedAt = account.UpdatedAt
		if err := s.doctors.UpdateProfile(ctx, account, doctor); err != nil {
			return nil, err
		}
	case model.RolePatient:
		if req.Specialization != nil {
			return nil, errors.NewFieldValidation("specialization", "not a patient profile field")
		}
		if req.Charges != nil {
			return nil, errors.NewFieldValidation("charges", "not a patient profile field")
		}
		patient, err := s.patients.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if req.BirthDate != nil {
			birthDate, err := time.Parse(model.DateFormat, *req.BirthDate)
			if err != nil {
				return nil, errors.NewFieldValidation("birth_date", "must be a valid date in YYYY-MM-DD format")
			}
			patient.BirthDate = birthDate
		}
		patient.UpdatedAt = account.UpdatedAt
		if err := s.patients.UpdateProfile(ctx, account, patient); err != nil {
			return nil, err
		}
	default:
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, accountID)
}

// UpdateImage replaces the account's profile image in place.
func (s *Service) UpdateImage(ctx context.Context, accountID uuid.UUID, req *model.UpdateProfileImageRequest) (*model.Profile, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	image := &model.ProfileImage{AccountID: accountID, Image: req.Image}
	if err := s.images.Upsert(ctx, image); err != nil {
		return nil, err
	}
	return s.Get(ctx, accountID)
}

func (s *Service) identityProfile(account *model.Account) *model.Profile {
	return &model.Profile{
		ID:          account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		PhoneNumber: account.PhoneNumber,
		Gender:      account.Gender,
		Role:        account.Role,
		Active:      account.Active,
	}
}

func (s *Service) imageURL(ctx context.Context, accountID uuid.UUID) *string {
	image, err := s.images.Get(ctx, accountID)
	if err != nil {
		return nil
	}
	url := image.Image
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = strings.TrimSuffix(s.mediaBaseURL, "/") + "/" + strings.TrimPrefix(url, "/")
	}
	return &url
}

// FormatAge renders an age the way the mobile clients already expect it.
// Whole years when at least one birthday has passed; otherwise a months
// estimate from the wrapped month difference; otherwise a days estimate from
// the day-of-month difference mod 30. The fallbacks are deliberately rough
// and must stay as they are for client compatibility.
func FormatAge(birthDate, today time.Time) string {
	years := today.Year() - birthDate.Year()
	if today.Month() < birthDate.Month() ||
		(today.Month() == birthDate.Month() && today.Day() < birthDate.Day()) {
		years--
	}
	if years >= 1 {
		return fmt.Sprintf("%d years", years)
	}

	months := (int(today.Month()) - int(birthDate.Month())) % 12
	if months < 0 {
		months += 12
	}
	if months >= 1 {
		return fmt.Sprintf("%d months", months)
	}

	days := (today.Day() - birthDate.Day()) % 30
	if days < 0 {
		days += 30
	}
	return fmt.Sprintf("%d days", days)
}
