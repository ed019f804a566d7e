package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// AccountRepository owns the canonical identity records.
	AccountRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		Create(ctx context.Context, account *model.Account) error
		Update(ctx context.Context, account *model.Account) error
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
	}

	// DoctorRepository handles doctor role records and the joined directory
	// read path. Registration writes account, location and doctor in one
	// transaction: a failure partway rolls everything back.
	DoctorRepository interface {
		Register(ctx context.Context, account *model.Account, location *model.Location, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.DoctorListing, error)
		GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.Doctor, error)
		GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error)
		List(ctx context.Context, filters *model.DoctorFilters, pageSize int) ([]*model.DoctorListing, int, error)
		UpdateProfile(ctx context.Context, account *model.Account, doctor *model.Doctor) error
	}

	PatientRepository interface {
		Register(ctx context.Context, account *model.Account, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByAccount(ctx context.Context, accountID uuid.UUID) (*model.Patient, error)
		UpdateProfile(ctx context.Context, account *model.Account, patient *model.Patient) error
	}

	// AppointmentRepository persists bookings. Create relies on the two
	// uniqueness constraints and reports which one fired, so concurrent
	// attempts for the same slot can never both succeed.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		ExistsForPatientDoctorDate(ctx context.Context, patientID, doctorID uuid.UUID, date string) (bool, error)
		ExistsForSlot(ctx context.Context, doctorID uuid.UUID, date, slot string) (bool, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
	}

	ReviewRepository interface {
		Create(ctx context.Context, review *model.Review) error
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Review, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error)
		AddRecord(ctx context.Context, record *model.MedicalRecord) error
		ListRecords(ctx context.Context, prescriptionID uuid.UUID) ([]*model.MedicalRecord, error)
	}

	PaymentRepository interface {
		Create(ctx context.Context, payment *model.Payment) error
		GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Payment, error)
	}

	ProfileImageRepository interface {
		Upsert(ctx context.Context, image *model.ProfileImage) error
		Get(ctx context.Context, accountID uuid.UUID) (*model.ProfileImage, error)
	}
)
