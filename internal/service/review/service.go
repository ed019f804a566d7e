package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/internal/repository"
	"github.com/clinichq/clinic-api/pkg/errors"
)

type Service struct {
	reviews  repository.ReviewRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func NewService(
	reviews repository.ReviewRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
) *Service {
	return &Service{reviews: reviews, doctors: doctors, patients: patients}
}

// Create stores a patient's review of a doctor. The doctor comes from the
// route, the patient from the session, and the review date is assigned here;
// none of the three can be supplied by the client.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, role model.Role, doctorID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error) {
	if role != model.RolePatient {
		return nil, errors.NewPermission("only patients can review doctors")
	}

	patient, err := s.patients.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := &model.Review{
		Base:      model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PatientID: patient.ID,
		DoctorID:  doctorID,
		Rating:    req.Rating,
		Review:    req.Review,
		Date:      now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListForDoctor returns a doctor's reviews, newest first. Public read.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Review, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.reviews.ListForDoctor(ctx, doctorID)
}
