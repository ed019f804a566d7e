package profile

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

func TestFormatAge(t *testing.T) {
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate time.Time
		want      string
	}{
		{"five years exactly", time.Date(2021, 8, 30, 0, 0, 0, 0, time.UTC), "5 years"},
		{"birthday not yet passed", time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC), "4 years"},
		{"three months", time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC), "3 months"},
		{"months wrap across new year", time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), "9 months"},
		{"ten days", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), "10 days"},
		{"born today", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), "0 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(tt.birthDate, today))
		})
	}
}

type fakeStore struct {
	accounts map[uuid.UUID]*model.Account
	doctors  map[uuid.UUID]*model.Doctor
	patients map[uuid.UUID]*model.Patient
	location *model.Location
	images   map[uuid.UUID]*model.ProfileImage

	accountWrites int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[uuid.UUID]*model.Account),
		doctors:  make(map[uuid.UUID]*model.Doctor),
		patients: make(map[uuid.UUID]*model.Patient),
		images:   make(map[uuid.UUID]*model.ProfileImage),
	}
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, errors.NewNotFound("account not found")
	}
	copied := *account
	return &copied, nil
}

func (s *fakeStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, errors.NewNotFound("account not found")
}

func (s *fakeStore) Create(_ context.Context, account *model.Account) error {
	s.accounts[account.ID] = account
	return nil
}

func (s *fakeStore) Update(_ context.Context, account *model.Account) error {
	s.accountWrites++
	copied := *account
	s.accounts[account.ID] = &copied
	return nil
}

func (s *fakeStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	s.accounts[id].Active = active
	return nil
}

func (s *fakeStore) Register(_ context.Context, account *model.Account, location *model.Location, doctor *model.Doctor) error {
	s.accounts[account.ID] = account
	s.location = location
	s.doctors[doctor.ID] = doctor
	return nil
}

func (s *fakeStore) GetDoctor(_ context.Context, id uuid.UUID) (*model.DoctorListing, error) {
	return nil, errors.NewNotFound("doctor not found")
}

func (s *fakeStore) GetByAccount(_ context.Context, accountID uuid.UUID) (*model.Doctor, error) {
	for _, doctor := range s.doctors {
		if doctor.AccountID == accountID {
			copied := *doctor
			return &copied, nil
		}
	}
	return nil, errors.NewNotFound("doctor not found")
}

func (s *fakeStore) GetLocation(_ context.Context, id uuid.UUID) (*model.Location, error) {
	if s.location == nil || s.location.ID != id {
		return nil, errors.NewNotFound("location not found")
	}
	return s.location, nil
}

func (s *fakeStore) List(_ context.Context, _ *model.DoctorFilters, _ int) ([]*model.DoctorListing, int, error) {
	return nil, 0, nil
}

func (s *fakeStore) UpdateProfile(ctx context.Context, account *model.Account, doctor *model.Doctor) error {
	if err := s.Update(ctx, account); err != nil {
		return err
	}
	copied := *doctor
	s.doctors[doctor.ID] = &copied
	return nil
}

// doctorRepo and patientRepo adapt fakeStore to the two repository
// interfaces, whose method sets collide on Go method names.
type doctorRepo struct{ *fakeStore }

func (r doctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.DoctorListing, error) {
	return r.GetDoctor(ctx, id)
}

type patientRepo struct{ *fakeStore }

func (r patientRepo) Register(_ context.Context, account *model.Account, patient *model.Patient) error {
	r.accounts[account.ID] = account
	r.patients[patient.ID] = patient
	return nil
}

func (r patientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, ok := r.patients[id]
	if !ok {
		return nil, errors.NewNotFound("patient not found")
	}
	return patient, nil
}

func (r patientRepo) GetByAccount(_ context.Context, accountID uuid.UUID) (*model.Patient, error) {
	for _, patient := range r.patients {
		if patient.AccountID == accountID {
			copied := *patient
			return &copied, nil
		}
	}
	return nil, errors.NewNotFound("patient not found")
}

func (r patientRepo) UpdateProfile(ctx context.Context, account *model.Account, patient *model.Patient) error {
	if err := r.Update(ctx, account); err != nil {
		return err
	}
	copied := *patient
	r.patients[patient.ID] = &copied
	return nil
}

type imageRepo struct{ *fakeStore }

func (r imageRepo) Upsert(_ context.Context, image *model.ProfileImage) error {
	copied := *image
	r.images[image.AccountID] = &copied
	return nil
}

func (r imageRepo) Get(_ context.Context, accountID uuid.UUID) (*model.ProfileImage, error) {
	image, ok := r.images[accountID]
	if !ok {
		return nil, errors.NewNotFound("profile image not found")
	}
	return image, nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, doctorRepo{store}, patientRepo{store}, imageRepo{store}, "http://localhost:8080/media")
}

func seedDoctor(store *fakeStore) uuid.UUID {
	accountID := uuid.New()
	store.accounts[accountID] = &model.Account{
		Base:        model.Base{ID: accountID},
		Email:       "omar@example.com",
		FirstName:   "Omar",
		LastName:    "Siddiqui",
		PhoneNumber: "+10005550102",
		Gender:      model.GenderMale,
		Role:        model.RoleDoctor,
		Active:      true,
	}
	locationID := uuid.New()
	store.location = &model.Location{ID: locationID, Address: "12 Canal Road", City: "Lahore", State: "Punjab"}
	doctorID := uuid.New()
	store.doctors[doctorID] = &model.Doctor{
		Base:           model.Base{ID: doctorID},
		AccountID:      accountID,
		Specialization: "Cardiology",
		Charges:        120,
		LocationID:     locationID,
		ApprovalStatus: model.ApprovalPending,
	}
	return accountID
}

func seedPatient(store *fakeStore, birthDate time.Time) uuid.UUID {
	accountID := uuid.New()
	store.accounts[accountID] = &model.Account{
		Base:        model.Base{ID: accountID},
		Email:       "ada@example.com",
		FirstName:   "Ada",
		LastName:    "Khan",
		PhoneNumber: "+10005550101",
		Gender:      model.GenderFemale,
		Role:        model.RolePatient,
		Active:      true,
	}
	patientID := uuid.New()
	store.patients[patientID] = &model.Patient{
		Base:      model.Base{ID: patientID},
		AccountID: accountID,
		BirthDate: birthDate,
	}
	return accountID
}

func TestGetDoctorProfile(t *testing.T) {
	store := newFakeStore()
	accountID := seedDoctor(store)
	svc := newTestService(store)

	profile, err := svc.Get(context.Background(), accountID)
	require.NoError(t, err)

	assert.Equal(t, model.RoleDoctor, profile.Role)
	require.NotNil(t, profile.Specialization)
	assert.Equal(t, "Cardiology", *profile.Specialization)
	require.NotNil(t, profile.Location)
	assert.Equal(t, "Lahore", profile.Location.City)
	assert.Nil(t, profile.BirthDate)
	assert.Nil(t, profile.Age)
	assert.Nil(t, profile.Image, "no image uploaded yet")
}

func TestGetPatientProfile(t *testing.T) {
	store := newFakeStore()
	accountID := seedPatient(store, time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC))
	svc := newTestService(store)

	profile, err := svc.Get(context.Background(), accountID)
	require.NoError(t, err)

	assert.Equal(t, model.RolePatient, profile.Role)
	require.NotNil(t, profile.BirthDate)
	assert.Equal(t, "1990-04-12", *profile.BirthDate)
	require.NotNil(t, profile.Age)
	assert.Contains(t, *profile.Age, "years")
	assert.Nil(t, profile.Specialization)
}

func TestUpdateRejectsImmutableFields(t *testing.T) {
	store := newFakeStore()
	accountID := seedDoctor(store)
	svc := newTestService(store)

	newEmail := "new@example.com"
	newName := "Changed"
	_, err := svc.Update(context.Background(), accountID, &model.UpdateProfileRequest{
		FirstName: &newName,
		Email:     &newEmail,
	})
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	// Nothing may persist, not even the otherwise-valid name change.
	assert.Zero(t, store.accountWrites)
	assert.Equal(t, "Omar", store.accounts[accountID].FirstName)
}

func TestUpdateDoctorProfile(t *testing.T) {
	store := newFakeStore()
	accountID := seedDoctor(store)
	svc := newTestService(store)

	newName := "Umar"
	newCharges := 150.0
	profile, err := svc.Update(context.Background(), accountID, &model.UpdateProfileRequest{
		FirstName: &newName,
		Charges:   &newCharges,
	})
	require.NoError(t, err)

	assert.Equal(t, "Umar", profile.FirstName)
	require.NotNil(t, profile.Charges)
	assert.Equal(t, 150.0, *profile.Charges)
	assert.Equal(t, 1, store.accountWrites, "identity record re-saved once")
}

func TestUpdateRejectsFieldsOfOtherRole(t *testing.T) {
	store := newFakeStore()
	patientAccount := seedPatient(store, time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC))
	svc := newTestService(store)

	charges := 99.0
	_, err := svc.Update(context.Background(), patientAccount, &model.UpdateProfileRequest{Charges: &charges})
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	doctorAccount := seedDoctor(store)
	birthDate := "1980-01-01"
	_, err = svc.Update(context.Background(), doctorAccount, &model.UpdateProfileRequest{BirthDate: &birthDate})
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
}

func TestUpdatePatientBirthDate(t *testing.T) {
	store := newFakeStore()
	accountID := seedPatient(store, time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC))
	svc := newTestService(store)

	birthDate := "1991-06-01"
	profile, err := svc.Update(context.Background(), accountID, &model.UpdateProfileRequest{BirthDate: &birthDate})
	require.NoError(t, err)
	require.NotNil(t, profile.BirthDate)
	assert.Equal(t, "1991-06-01", *profile.BirthDate)
}

func TestUpdateImage(t *testing.T) {
	store := newFakeStore()
	accountID := seedPatient(store, time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC))
	svc := newTestService(store)

	profile, err := svc.UpdateImage(context.Background(), accountID, &model.UpdateProfileImageRequest{
		Image: "avatars/ada.png",
	})
	require.NoError(t, err)
	require.NotNil(t, profile.Image)
	assert.Equal(t, "http://localhost:8080/media/avatars/ada.png", *profile.Image)

	// A second upload replaces the first.
	profile, err = svc.UpdateImage(context.Background(), accountID, &model.UpdateProfileImageRequest{
		Image: "https://cdn.example.com/ada-2.png",
	})
	require.NoError(t, err)
	require.NotNil(t, profile.Image)
	assert.Equal(t, "https://cdn.example.com/ada-2.png", *profile.Image)
}
