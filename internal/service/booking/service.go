package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/internal/repository"
	"github.com/clinichq/clinic-api/pkg/errors"
	"github.com/clinichq/clinic-api/pkg/messaging"
	"github.com/clinichq/clinic-api/pkg/metrics"
)

const channelBooked = "appointment.booked"

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	doctors      repository.DoctorRepository
	payments     repository.PaymentRepository
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	payments repository.PaymentRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		payments:     payments,
		broker:       broker,
		metrics:      m,
		logger:       logger,
	}
}

// Book creates an appointment for the signed-in patient. Only patient
// accounts may book. The acting patient is resolved from the session; a
// client-supplied patient id is only cross-checked, never trusted.
//
// Two conflicts are checked in order: a duplicate booking with the same
// doctor on the same date, then an occupied slot. The read checks give
// friendly errors; the store's uniqueness rules are the actual guarantee, so
// two concurrent requests for the last free slot cannot both succeed.
func (s *Service) Book(ctx context.Context, accountID uuid.UUID, role model.Role, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if role != model.RolePatient {
		s.metrics.BookingAttempts.WithLabelValues("forbidden").Inc()
		return nil, errors.NewPermission("only patients can book appointments")
	}

	patient, err := s.patients.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Patient != nil && *req.Patient != patient.ID {
		s.metrics.BookingAttempts.WithLabelValues("forbidden").Inc()
		return nil, errors.NewPermission("cannot book an appointment for another patient")
	}

	if _, err := s.doctors.Get(ctx, req.Doctor); err != nil {
		return nil, err
	}

	date, err := time.Parse(model.DateFormat, req.Date)
	if err != nil {
		return nil, errors.NewFieldValidation("date", "must be a valid date in YYYY-MM-DD format")
	}

	duplicate, err := s.appointments.ExistsForPatientDoctorDate(ctx, patient.ID, req.Doctor, req.Date)
	if err != nil {
		return nil, err
	}
	if duplicate {
		s.metrics.BookingAttempts.WithLabelValues("conflict").Inc()
		s.metrics.BookingConflicts.WithLabelValues("duplicate").Inc()
		return nil, errors.NewDuplicate("an appointment with this doctor already exists on this date")
	}

	taken, err := s.appointments.ExistsForSlot(ctx, req.Doctor, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if taken {
		s.metrics.BookingAttempts.WithLabelValues("conflict").Inc()
		s.metrics.BookingConflicts.WithLabelValues("unavailable").Inc()
		return nil, errors.NewUnavailable("the requested slot is no longer available")
	}

	now := time.Now().UTC()
	appointment := &model.Appointment{
		Base:      model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PatientID: patient.ID,
		DoctorID:  req.Doctor,
		Date:      date,
		Time:      req.Time,
		Approval:  model.ApprovalPending,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		if errors.IsCode(err, errors.CodeDuplicate) || errors.IsCode(err, errors.CodeUnavailable) {
			s.metrics.BookingAttempts.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	s.metrics.BookingAttempts.WithLabelValues("booked").Inc()
	s.publishBooked(ctx, appointment)
	return appointment, nil
}

// Get returns an appointment visible to the caller: the booking patient, the
// booked doctor, or staff.
func (s *Service) Get(ctx context.Context, accountID uuid.UUID, role model.Role, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, accountID, role, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// List returns the caller's appointments: a patient sees their bookings, a
// doctor their schedule. Staff get nothing here; they read per-appointment.
func (s *Service) List(ctx context.Context, accountID uuid.UUID, role model.Role) ([]*model.Appointment, error) {
	switch role {
	case model.RolePatient:
		patient, err := s.patients.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return s.appointments.ListForPatient(ctx, patient.ID)
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return s.appointments.ListForDoctor(ctx, doctor.ID)
	default:
		return nil, errors.NewPermission("no appointment listing for this role")
	}
}

// RecordPayment attaches the payment to an appointment. At most one payment
// per appointment; staff only.
func (s *Service) RecordPayment(ctx context.Context, role model.Role, appointmentID uuid.UUID, req *model.CreatePaymentRequest) (*model.Payment, error) {
	if role != model.RoleStaff && role != model.RoleAdmin {
		return nil, errors.NewPermission("only staff can record payments")
	}

	if _, err := s.appointments.Get(ctx, appointmentID); err != nil {
		return nil, err
	}

	paid := req.Paid
	if paid == "" {
		paid = model.PaymentUnpaid
	}

	now := time.Now().UTC()
	payment := &model.Payment{
		Base:          model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		AppointmentID: appointmentID,
		Amount:        req.Amount,
		Paid:          paid,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayment returns the payment for an appointment the caller may see.
func (s *Service) GetPayment(ctx context.Context, accountID uuid.UUID, role model.Role, appointmentID uuid.UUID) (*model.Payment, error) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, accountID, role, appointment); err != nil {
		return nil, err
	}
	return s.payments.GetByAppointment(ctx, appointmentID)
}

func (s *Service) authorize(ctx context.Context, accountID uuid.UUID, role model.Role, appointment *model.Appointment) error {
	switch role {
	case model.RoleStaff, model.RoleAdmin:
		return nil
	case model.RolePatient:
		patient, err := s.patients.GetByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if patient.ID == appointment.PatientID {
			return nil
		}
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if doctor.ID == appointment.DoctorID {
			return nil
		}
	}
	return errors.NewPermission("not allowed to view this appointment")
}

func (s *Service) publishBooked(ctx context.Context, appointment *model.Appointment) {
	if s.broker == nil {
		return
	}
	payload := map[string]interface{}{
		"appointment_id": appointment.ID,
		"patient_id":     appointment.PatientID,
		"doctor_id":      appointment.DoctorID,
		"date":           appointment.Date.Format(model.DateFormat),
		"time":           appointment.Time,
	}
	if err := s.broker.Publish(ctx, channelBooked, payload); err != nil {
		s.metrics.EventsFailed.WithLabelValues(channelBooked).Inc()
		s.logger.Warn().Err(err).Str("channel", channelBooked).Msg("failed to publish event")
		return
	}
	s.metrics.EventsPublished.WithLabelValues(channelBooked).Inc()
}
