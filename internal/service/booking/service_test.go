package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/errors"
	"github.com/clinichq/clinic-api/pkg/metrics"
)

var testMetrics = metrics.New("booking_service_test")

// fakeAppointmentRepo enforces the same two uniqueness rules the store does,
// under a mutex, so concurrency tests exercise the real guarantee.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []*model.Appointment
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	date := appointment.Date.Format(model.DateFormat)
	for _, existing := range r.appointments {
		existingDate := existing.Date.Format(model.DateFormat)
		if existing.PatientID == appointment.PatientID && existing.DoctorID == appointment.DoctorID && existingDate == date {
			return errors.NewDuplicate("an appointment with this doctor already exists on this date")
		}
		if existing.DoctorID == appointment.DoctorID && existingDate == date && existing.Time == appointment.Time {
			return errors.NewUnavailable("the requested slot is no longer available")
		}
	}
	r.appointments = append(r.appointments, appointment)
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appointment := range r.appointments {
		if appointment.ID == id {
			return appointment, nil
		}
	}
	return nil, errors.NewNotFound("appointment not found")
}

func (r *fakeAppointmentRepo) ExistsForPatientDoctorDate(_ context.Context, patientID, doctorID uuid.UUID, date string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appointment := range r.appointments {
		if appointment.PatientID == patientID && appointment.DoctorID == doctorID && appointment.Date.Format(model.DateFormat) == date {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) ExistsForSlot(_ context.Context, doctorID uuid.UUID, date, slot string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, appointment := range r.appointments {
		if appointment.DoctorID == doctorID && appointment.Date.Format(model.DateFormat) == date && appointment.Time == slot {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) ListForPatient(_ context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, appointment := range r.appointments {
		if appointment.PatientID == patientID {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, appointment := range r.appointments {
		if appointment.DoctorID == doctorID {
			out = append(out, appointment)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	byAccount map[uuid.UUID]*model.Patient
}

func (r *fakePatientRepo) Register(context.Context, *model.Account, *model.Patient) error { return nil }

func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	for _, patient := range r.byAccount {
		if patient.ID == id {
			return patient, nil
		}
	}
	return nil, errors.NewNotFound("patient not found")
}

func (r *fakePatientRepo) GetByAccount(_ context.Context, accountID uuid.UUID) (*model.Patient, error) {
	patient, ok := r.byAccount[accountID]
	if !ok {
		return nil, errors.NewNotFound("patient not found")
	}
	return patient, nil
}

func (r *fakePatientRepo) UpdateProfile(context.Context, *model.Account, *model.Patient) error {
	return nil
}

type fakeDoctorRepo struct {
	listings map[uuid.UUID]*model.DoctorListing
}

func (r *fakeDoctorRepo) Register(context.Context, *model.Account, *model.Location, *model.Doctor) error {
	return nil
}

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.DoctorListing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NewNotFound("doctor not found")
	}
	return listing, nil
}

func (r *fakeDoctorRepo) GetByAccount(_ context.Context, accountID uuid.UUID) (*model.Doctor, error) {
	return nil, errors.NewNotFound("doctor not found")
}

func (r *fakeDoctorRepo) GetLocation(_ context.Context, id uuid.UUID) (*model.Location, error) {
	return nil, errors.NewNotFound("location not found")
}

func (r *fakeDoctorRepo) List(context.Context, *model.DoctorFilters, int) ([]*model.DoctorListing, int, error) {
	return nil, 0, nil
}

func (r *fakeDoctorRepo) UpdateProfile(context.Context, *model.Account, *model.Doctor) error {
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*model.Payment
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.payments[payment.AppointmentID]; exists {
		return errors.NewDuplicate("a payment for this appointment already exists")
	}
	r.payments[payment.AppointmentID] = payment
	return nil
}

func (r *fakePaymentRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[appointmentID]
	if !ok {
		return nil, errors.NewNotFound("payment not found")
	}
	return payment, nil
}

type fixture struct {
	svc      *Service
	patients *fakePatientRepo
	doctorID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doctorID := uuid.New()
	patients := &fakePatientRepo{byAccount: make(map[uuid.UUID]*model.Patient)}
	doctors := &fakeDoctorRepo{listings: map[uuid.UUID]*model.DoctorListing{
		doctorID: {ID: doctorID, FirstName: "Omar", LastName: "Siddiqui"},
	}}
	svc := NewService(
		&fakeAppointmentRepo{},
		patients,
		doctors,
		&fakePaymentRepo{payments: make(map[uuid.UUID]*model.Payment)},
		nil, testMetrics, zerolog.Nop(),
	)
	return &fixture{svc: svc, patients: patients, doctorID: doctorID}
}

func (f *fixture) addPatient() (accountID uuid.UUID, patientID uuid.UUID) {
	accountID = uuid.New()
	patientID = uuid.New()
	f.patients.byAccount[accountID] = &model.Patient{
		Base:      model.Base{ID: patientID},
		AccountID: accountID,
		BirthDate: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
	}
	return accountID, patientID
}

func TestBook(t *testing.T) {
	f := newFixture(t)
	accountID, patientID := f.addPatient()

	appointment, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID,
		Date:   "2026-09-15",
		Time:   "10:30",
	})
	require.NoError(t, err)

	assert.Equal(t, patientID, appointment.PatientID)
	assert.Equal(t, f.doctorID, appointment.DoctorID)
	assert.Equal(t, "10:30", appointment.Time)
	assert.Equal(t, model.ApprovalPending, appointment.Approval)
}

func TestBookRejectsNonPatientRoles(t *testing.T) {
	f := newFixture(t)
	for _, role := range []model.Role{model.RoleDoctor, model.RoleStaff, model.RoleAdmin} {
		_, err := f.svc.Book(context.Background(), uuid.New(), role, &model.CreateAppointmentRequest{
			Doctor: f.doctorID,
			Date:   "2026-09-15",
			Time:   "10:30",
		})
		assert.True(t, errors.IsCode(err, errors.CodePermission), "role %s", role)
	}
}

func TestBookRejectsForeignPatientID(t *testing.T) {
	f := newFixture(t)
	accountID, _ := f.addPatient()
	_, otherPatientID := f.addPatient()

	_, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Patient: &otherPatientID,
		Doctor:  f.doctorID,
		Date:    "2026-09-15",
		Time:    "10:30",
	})
	assert.True(t, errors.IsCode(err, errors.CodePermission))
}

func TestBookDuplicateSamePatientDoctorDate(t *testing.T) {
	f := newFixture(t)
	accountID, _ := f.addPatient()

	_, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-15", Time: "10:30",
	})
	require.NoError(t, err)

	// Same doctor, same date, different time: still a duplicate.
	_, err = f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-15", Time: "11:30",
	})
	assert.True(t, errors.IsCode(err, errors.CodeDuplicate))

	// Next day is fine.
	_, err = f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-16", Time: "10:30",
	})
	assert.NoError(t, err)
}

func TestBookSlotUnavailable(t *testing.T) {
	f := newFixture(t)
	firstAccount, _ := f.addPatient()
	secondAccount, _ := f.addPatient()

	_, err := f.svc.Book(context.Background(), firstAccount, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-15", Time: "10:30",
	})
	require.NoError(t, err)

	_, err = f.svc.Book(context.Background(), secondAccount, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-15", Time: "10:30",
	})
	assert.True(t, errors.IsCode(err, errors.CodeUnavailable))
}

func TestBookDuplicateCheckedBeforeAvailability(t *testing.T) {
	f := newFixture(t)
	accountID, _ := f.addPatient()

	_, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-15", Time: "10:30",
	})
	require.NoError(t, err)

	// Retrying the exact same booking trips both rules; duplicate wins.
	_, err = f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-15", Time: "10:30",
	})
	assert.True(t, errors.IsCode(err, errors.CodeDuplicate))
}

func TestBookUnknownDoctor(t *testing.T) {
	f := newFixture(t)
	accountID, _ := f.addPatient()

	_, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: uuid.New(), Date: "2026-09-15", Time: "10:30",
	})
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestBookConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)

	const contenders = 16
	accounts := make([]uuid.UUID, contenders)
	for i := range accounts {
		accounts[i], _ = f.addPatient()
	}

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(accountID uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
				Doctor: f.doctorID, Date: "2026-09-15", Time: "10:30",
			})
			results <- err
		}(accounts[i])
	}
	wg.Wait()
	close(results)

	var booked int
	for err := range results {
		if err == nil {
			booked++
		} else {
			assert.True(t, errors.IsCode(err, errors.CodeUnavailable), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, booked, "exactly one contender can win the slot")
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	accountID, _ := f.addPatient()

	appointment, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-15", Time: "10:30",
	})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), model.RolePatient, appointment.ID, &model.CreatePaymentRequest{
		Amount: 120, PaymentMethod: "cash",
	})
	assert.True(t, errors.IsCode(err, errors.CodePermission))

	payment, err := f.svc.RecordPayment(context.Background(), model.RoleStaff, appointment.ID, &model.CreatePaymentRequest{
		Amount: 120, PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentUnpaid, payment.Paid, "paid defaults to unpaid")

	_, err = f.svc.RecordPayment(context.Background(), model.RoleStaff, appointment.ID, &model.CreatePaymentRequest{
		Amount: 120, PaymentMethod: "card",
	})
	assert.True(t, errors.IsCode(err, errors.CodeDuplicate), "one payment per appointment")

	settled, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-16", Time: "10:30",
	})
	require.NoError(t, err)
	payment, err = f.svc.RecordPayment(context.Background(), model.RoleStaff, settled.ID, &model.CreatePaymentRequest{
		Amount: 120, Paid: model.PaymentPaid, PaymentMethod: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, payment.Paid)
}

func TestGetPaymentVisibility(t *testing.T) {
	f := newFixture(t)
	accountID, _ := f.addPatient()
	strangerAccount, _ := f.addPatient()

	appointment, err := f.svc.Book(context.Background(), accountID, model.RolePatient, &model.CreateAppointmentRequest{
		Doctor: f.doctorID, Date: "2026-09-15", Time: "10:30",
	})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), model.RoleStaff, appointment.ID, &model.CreatePaymentRequest{
		Amount: 120, PaymentMethod: "cash",
	})
	require.NoError(t, err)

	payment, err := f.svc.GetPayment(context.Background(), accountID, model.RolePatient, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(120), payment.Amount)

	_, err = f.svc.GetPayment(context.Background(), strangerAccount, model.RolePatient, appointment.ID)
	assert.True(t, errors.IsCode(err, errors.CodePermission))
}
