package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/errors"
)

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name,
			   phone_number, gender, role, active, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, notFoundOr(err, "account")
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name,
			   phone_number, gender, role, active, created_at, updated_at
		FROM accounts
		WHERE lower(email) = lower($1)
	`
	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, notFoundOr(err, "account")
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	return insertAccount(ctx, r.db, account)
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	account.UpdatedAt = time.Now()
	return updateAccount(ctx, r.db, account)
}

func (r *accountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update account active flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFound("account not found")
	}
	return nil
}

// insertAccount is shared with the registration transactions in the doctor
// and patient repositories.
func insertAccount(ctx context.Context, q sqlx.ExtContext, account *model.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, first_name, last_name,
			phone_number, gender, role, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := q.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.PhoneNumber,
		account.Gender,
		account.Role,
		account.Active,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		switch uniqueConstraint(err) {
		case "accounts_email_key":
			return errors.NewFieldValidation("email", "an account with this email already exists")
		case "accounts_phone_number_key":
			return errors.NewFieldValidation("phone_number", "an account with this phone number already exists")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// updateAccount rewrites the full identity sub-record, unchanged fields
// included. Last write wins.
func updateAccount(ctx context.Context, q sqlx.ExtContext, account *model.Account) error {
	query := `
		UPDATE accounts
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4,
			phone_number = $5, gender = $6, role = $7, active = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := q.ExecContext(ctx, query,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.PhoneNumber,
		account.Gender,
		account.Role,
		account.Active,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return errors.NewNotFound("account not found")
	}
	return nil
}
