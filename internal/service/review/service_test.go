package review

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/errors"
)

type fakeReviewRepo struct {
	reviews []*model.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Review, error) {
	var out []*model.Review
	for _, review := range r.reviews {
		if review.DoctorID == doctorID {
			out = append(out, review)
		}
	}
	return out, nil
}

type fakeDoctorRepo struct {
	listing *model.DoctorListing
}

func (r *fakeDoctorRepo) Register(context.Context, *model.Account, *model.Location, *model.Doctor) error {
	return nil
}

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.DoctorListing, error) {
	if r.listing != nil && r.listing.ID == id {
		return r.listing, nil
	}
	return nil, errors.NewNotFound("doctor not found")
}

func (r *fakeDoctorRepo) GetByAccount(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, errors.NewNotFound("doctor not found")
}

func (r *fakeDoctorRepo) GetLocation(context.Context, uuid.UUID) (*model.Location, error) {
	return nil, errors.NewNotFound("location not found")
}

func (r *fakeDoctorRepo) List(context.Context, *model.DoctorFilters, int) ([]*model.DoctorListing, int, error) {
	return nil, 0, nil
}

func (r *fakeDoctorRepo) UpdateProfile(context.Context, *model.Account, *model.Doctor) error {
	return nil
}

type fakePatientRepo struct {
	patient *model.Patient
}

func (r *fakePatientRepo) Register(context.Context, *model.Account, *model.Patient) error { return nil }

func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if r.patient != nil && r.patient.ID == id {
		return r.patient, nil
	}
	return nil, errors.NewNotFound("patient not found")
}

func (r *fakePatientRepo) GetByAccount(_ context.Context, accountID uuid.UUID) (*model.Patient, error) {
	if r.patient != nil && r.patient.AccountID == accountID {
		return r.patient, nil
	}
	return nil, errors.NewNotFound("patient not found")
}

func (r *fakePatientRepo) UpdateProfile(context.Context, *model.Account, *model.Patient) error {
	return nil
}

func TestCreateReview(t *testing.T) {
	doctorID := uuid.New()
	accountID := uuid.New()
	svc := NewService(
		&fakeReviewRepo{},
		&fakeDoctorRepo{listing: &model.DoctorListing{ID: doctorID}},
		&fakePatientRepo{patient: &model.Patient{Base: model.Base{ID: uuid.New()}, AccountID: accountID}},
	)

	before := time.Now().UTC()
	review, err := svc.Create(context.Background(), accountID, model.RolePatient, doctorID, &model.CreateReviewRequest{
		Rating: 4,
		Review: "Thorough and on time.",
	})
	require.NoError(t, err)

	assert.Equal(t, doctorID, review.DoctorID)
	assert.Equal(t, 4, review.Rating)
	assert.False(t, review.Date.Before(before), "date is server-assigned at creation")
}

func TestCreateReviewPatientOnly(t *testing.T) {
	doctorID := uuid.New()
	svc := NewService(
		&fakeReviewRepo{},
		&fakeDoctorRepo{listing: &model.DoctorListing{ID: doctorID}},
		&fakePatientRepo{},
	)

	for _, role := range []model.Role{model.RoleDoctor, model.RoleStaff} {
		_, err := svc.Create(context.Background(), uuid.New(), role, doctorID, &model.CreateReviewRequest{
			Rating: 5, Review: "ok",
		})
		assert.True(t, errors.IsCode(err, errors.CodePermission), "role %s", role)
	}
}

func TestCreateReviewUnknownDoctor(t *testing.T) {
	accountID := uuid.New()
	svc := NewService(
		&fakeReviewRepo{},
		&fakeDoctorRepo{},
		&fakePatientRepo{patient: &model.Patient{Base: model.Base{ID: uuid.New()}, AccountID: accountID}},
	)

	_, err := svc.Create(context.Background(), accountID, model.RolePatient, uuid.New(), &model.CreateReviewRequest{
		Rating: 5, Review: "ok",
	})
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestListForDoctor(t *testing.T) {
	doctorID := uuid.New()
	accountID := uuid.New()
	reviews := &fakeReviewRepo{}
	svc := NewService(
		reviews,
		&fakeDoctorRepo{listing: &model.DoctorListing{ID: doctorID}},
		&fakePatientRepo{patient: &model.Patient{Base: model.Base{ID: uuid.New()}, AccountID: accountID}},
	)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), accountID, model.RolePatient, doctorID, &model.CreateReviewRequest{
			Rating: i + 1, Review: "fine",
		})
		require.NoError(t, err)
	}

	listed, err := svc.ListForDoctor(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}
