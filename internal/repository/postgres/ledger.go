package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/errors"
)

// Review, prescription, medical record and payment repositories.

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, patient_id, doctor_id, rating, review, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	review.Date = review.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.PatientID,
		review.DoctorID,
		review.Rating,
		review.Review,
		review.Date,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Review, error) {
	query := `
		SELECT id, patient_id, doctor_id, rating, review, date, created_at, updated_at
		FROM reviews
		WHERE doctor_id = $1
		ORDER BY date DESC
	`
	var reviews []*model.Review
	if err := r.db.SelectContext(ctx, &reviews, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (id, patient_id, doctor_id, date, prescription, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	prescription.ID = uuid.New()
	prescription.CreatedAt = time.Now()
	prescription.UpdatedAt = prescription.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		prescription.ID,
		prescription.PatientID,
		prescription.DoctorID,
		prescription.Date,
		prescription.Prescription,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, prescription, created_at, updated_at
		FROM prescriptions
		WHERE id = $1
	`
	var prescription model.Prescription
	if err := r.db.GetContext(ctx, &prescription, query, id); err != nil {
		return nil, notFoundOr(err, "prescription")
	}
	return &prescription, nil
}

func (r *prescriptionRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, prescription, created_at, updated_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY date DESC
	`
	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) AddRecord(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (id, prescription_id, symptoms, diagnosis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PrescriptionID,
		record.Symptoms,
		record.Diagnosis,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) ListRecords(ctx context.Context, prescriptionID uuid.UUID) ([]*model.MedicalRecord, error) {
	query := `
		SELECT id, prescription_id, symptoms, diagnosis, created_at, updated_at
		FROM medical_records
		WHERE prescription_id = $1
		ORDER BY created_at ASC
	`
	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, prescriptionID); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, appointment_id, amount, paid, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.AppointmentID,
		payment.Amount,
		payment.Paid,
		payment.PaymentMethod,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if uniqueConstraint(err) == "payments_appointment_id_key" {
			return errors.NewDuplicate("a payment already exists for this appointment")
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Payment, error) {
	query := `
		SELECT id, appointment_id, amount, paid, payment_method, created_at, updated_at
		FROM payments
		WHERE appointment_id = $1
	`
	var payment model.Payment
	if err := r.db.GetContext(ctx, &payment, query, appointmentID); err != nil {
		return nil, notFoundOr(err, "payment")
	}
	return &payment, nil
}

// Upsert replaces the account's image in place.
func (r *profileImageRepository) Upsert(ctx context.Context, image *model.ProfileImage) error {
	query := `
		INSERT INTO profile_images (account_id, image)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET image = EXCLUDED.image
	`
	if _, err := r.db.ExecContext(ctx, query, image.AccountID, image.Image); err != nil {
		return fmt.Errorf("failed to upsert profile image: %w", err)
	}
	return nil
}

func (r *profileImageRepository) Get(ctx context.Context, accountID uuid.UUID) (*model.ProfileImage, error) {
	query := `SELECT account_id, image FROM profile_images WHERE account_id = $1`
	var image model.ProfileImage
	if err := r.db.GetContext(ctx, &image, query, accountID); err != nil {
		return nil, notFoundOr(err, "profile image")
	}
	return &image, nil
}
