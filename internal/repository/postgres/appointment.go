package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/errors"
)

// Constraint names in the appointments table. The pre-checks in the booking
// service are a UX nicety; these constraints are the actual guarantee that
// two concurrent requests for the same slot cannot both win.
const (
	constraintDoctorSlot        = "appointments_doctor_slot_key"
	constraintPatientDoctorDate = "appointments_patient_doctor_date_key"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, date, time, approval,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.Date,
		appointment.Time,
		appointment.Approval,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		switch uniqueConstraint(err) {
		case constraintPatientDoctorDate:
			return errors.NewDuplicate("an appointment with this doctor already exists on this date")
		case constraintDoctorSlot:
			return errors.NewUnavailable("the requested slot is no longer available")
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, time, approval,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, notFoundOr(err, "appointment")
	}
	return &appointment, nil
}

func (r *appointmentRepository) ExistsForPatientDoctorDate(ctx context.Context, patientID, doctorID uuid.UUID, date string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE patient_id = $1 AND doctor_id = $2 AND date = $3
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, patientID, doctorID, date); err != nil {
		return false, fmt.Errorf("failed to check duplicate appointment: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) ExistsForSlot(ctx context.Context, doctorID uuid.UUID, date, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND date = $2 AND time = $3
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, doctorID, date, slot); err != nil {
		return false, fmt.Errorf("failed to check slot availability: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, time, approval,
			   created_at, updated_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date ASC, time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, time, approval,
			   created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY date ASC, time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
