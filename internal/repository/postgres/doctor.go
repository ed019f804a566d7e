package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/errors"
)

const doctorListingColumns = `
	d.id, a.first_name, a.last_name, a.email, a.phone_number, a.gender,
	d.specialization, d.charges, d.approval_status,
	l.id AS "location.id", l.lat AS "location.lat", l.lng AS "location.lng",
	l.address AS "location.address", l.city AS "location.city", l.state AS "location.state"
`

func (r *doctorRepository) Register(ctx context.Context, account *model.Account, location *model.Location, doctor *model.Doctor) error {
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

	location.ID = uuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO locations (id, lat, lng, address, city, state) VALUES ($1, $2, $3, $4, $5, $6)`,
		location.ID, location.Lat, location.Lng, location.Address, location.City, location.State,
	)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	doctor.ID = uuid.New()
	doctor.AccountID = account.ID
	doctor.LocationID = location.ID
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	_, err = tx.ExecContext(ctx, `
		INSERT INTO doctors (
			id, account_id, specialization, charges, location_id,
			approval_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doctor.ID,
		doctor.AccountID,
		doctor.Specialization,
		doctor.Charges,
		doctor.LocationID,
		doctor.ApprovalStatus,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	return tx.Commit()
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorListing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM doctors d
		JOIN accounts a ON a.id = d.account_id
		JOIN locations l ON l.id = d.location_id
		WHERE d.id = $1
	`, doctorListingColumns)

	var listing model.DoctorListing
	if err := r.db.GetContext(ctx, &listing, query, id); err != nil {
		return nil, notFoundOr(err, "doctor")
	}
	return &listing, nil
}

func (r *doctorRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, account_id, specialization, charges, location_id,
			   approval_status, created_at, updated_at
		FROM doctors
		WHERE account_id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, accountID); err != nil {
		return nil, notFoundOr(err, "doctor")
	}
	return &doctor, nil
}

func (r *doctorRepository) GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var location model.Location
	err := r.db.GetContext(ctx, &location,
		`SELECT id, lat, lng, address, city, state FROM locations WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "location")
	}
	return &location, nil
}

// orderings whitelists the client-facing sort keys.
var orderings = map[string]string{
	"first_name": "a.first_name",
	"last_name":  "a.last_name",
	"charges":    "d.charges",
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters, pageSize int) ([]*model.DoctorListing, int, error) {
	where := []string{"TRUE"}
	args := []interface{}{}

	if filters.Specialization != "" {
		args = append(args, filters.Specialization)
		where = append(where, fmt.Sprintf("lower(d.specialization) = lower($%d)", len(args)))
	}
	if filters.ChargesMin > 0 {
		args = append(args, filters.ChargesMin)
		where = append(where, fmt.Sprintf("d.charges >= $%d", len(args)))
	}
	if filters.ChargesMax > 0 {
		args = append(args, filters.ChargesMax)
		where = append(where, fmt.Sprintf("d.charges <= $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(a.first_name ILIKE $%d OR a.last_name ILIKE $%d OR l.address ILIKE $%d OR l.city ILIKE $%d OR l.state ILIKE $%d)",
			n, n, n, n, n,
		))
	}

	from := `
		FROM doctors d
		JOIN accounts a ON a.id = d.account_id
		JOIN locations l ON l.id = d.location_id
		WHERE ` + strings.Join(where, " AND ")

	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) "+from, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	orderBy := "a.first_name ASC, a.last_name ASC"
	if filters.Ordering != "" {
		field := strings.TrimPrefix(filters.Ordering, "-")
		if col, ok := orderings[field]; ok {
			dir := "ASC"
			if strings.HasPrefix(filters.Ordering, "-") {
				dir = "DESC"
			}
			orderBy = col + " " + dir
		}
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		doctorListingColumns, from, orderBy, len(args)-1, len(args))

	var listings []*model.DoctorListing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	return listings, count, nil
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, account *model.Account, doctor *model.Doctor) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	account.UpdatedAt = time.Now()
	if err := updateAccount(ctx, tx, account); err != nil {
		return err
	}

	doctor.UpdatedAt = account.UpdatedAt
	result, err := tx.ExecContext(ctx,
		`UPDATE doctors SET specialization = $1, charges = $2, updated_at = $3 WHERE id = $4`,
		doctor.Specialization, doctor.Charges, doctor.UpdatedAt, doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NewNotFound("doctor not found")
	}

	return tx.Commit()
}
