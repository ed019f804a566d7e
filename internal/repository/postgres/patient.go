package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/errors"
)

func (r *patientRepository) Register(ctx context.Context, account *model.Account, patient *model.Patient) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	account.ID = uuid.New()
	account.CreatedAt = now
	account.UpdatedAt = now
	if err := insertAccount(ctx, tx, account); err != nil {
		return err
	}

	patient.ID = uuid.New()
	patient.AccountID = account.ID
	patient.CreatedAt = now
	patient.UpdatedAt = now
	_, err = tx.ExecContext(ctx, `
		INSERT INTO patients (id, account_id, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		patient.ID,
		patient.AccountID,
		patient.BirthDate,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	return tx.Commit()
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, account_id, birth_date, created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, notFoundOr(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, account_id, birth_date, created_at, updated_at
		FROM patients
		WHERE account_id = $1
	`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, accountID); err != nil {
		return nil, notFoundOr(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) UpdateProfile(ctx context.Context, account *model.Account, patient *model.Patient) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	account.UpdatedAt = time.Now()
	if err := updateAccount(ctx, tx, account); err != nil {
		return err
	}

	patient.UpdatedAt = account.UpdatedAt
	result, err := tx.ExecContext(ctx,
		`UPDATE patients SET birth_date = $1, updated_at = $2 WHERE id = $3`,
		patient.BirthDate, patient.UpdatedAt, patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NewNotFound("patient not found")
	}

	return tx.Commit()
}
