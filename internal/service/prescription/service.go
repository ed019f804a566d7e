package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/internal/repository"
	"github.com/clinichq/clinic-api/pkg/errors"
)

type Service struct {
	prescriptions repository.PrescriptionRepository
	doctors       repository.DoctorRepository
	patients      repository.PatientRepository
}

func NewService(
	prescriptions repository.PrescriptionRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
) *Service {
	return &Service{prescriptions: prescriptions, doctors: doctors, patients: patients}
}

// Create issues a prescription. The prescribing doctor comes from the
// session; the target patient from the payload.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, role model.Role, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if role != model.RoleDoctor {
		return nil, errors.NewPermission("only doctors can issue prescriptions")
	}

	doctor, err := s.doctors.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.patients.Get(ctx, req.Patient); err != nil {
		return nil, err
	}

	date, err := time.Parse(model.DateFormat, req.Date)
	if err != nil {
		return nil, errors.NewFieldValidation("date", "must be a valid date in YYYY-MM-DD format")
	}

	now := time.Now().UTC()
	prescription := &model.Prescription{
		Base:         model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PatientID:    req.Patient,
		DoctorID:     doctor.ID,
		Date:         date,
		Prescription: req.Prescription,
	}
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, err
	}
	return prescription, nil
}

// ListForCaller returns prescriptions visible to the caller: patients read
// their own history, doctors and staff read any patient's by id.
func (s *Service) ListForCaller(ctx context.Context, accountID uuid.UUID, role model.Role, patientID uuid.UUID) ([]*model.Prescription, error) {
	switch role {
	case model.RolePatient:
		patient, err := s.patients.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if patientID != uuid.Nil && patientID != patient.ID {
			return nil, errors.NewPermission("cannot read another patient's prescriptions")
		}
		return s.prescriptions.ListForPatient(ctx, patient.ID)
	case model.RoleDoctor, model.RoleStaff, model.RoleAdmin:
		if patientID == uuid.Nil {
			return nil, errors.NewFieldValidation("patient", "required")
		}
		return s.prescriptions.ListForPatient(ctx, patientID)
	default:
		return nil, errors.NewPermission("no prescription access for this role")
	}
}

// AddRecord documents symptoms and a diagnosis under one of the caller's own
// prescriptions.
func (s *Service) AddRecord(ctx context.Context, accountID uuid.UUID, role model.Role, prescriptionID uuid.UUID, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if role != model.RoleDoctor {
		return nil, errors.NewPermission("only doctors can add medical records")
	}

	doctor, err := s.doctors.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	prescription, err := s.prescriptions.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	if prescription.DoctorID != doctor.ID {
		return nil, errors.NewPermission("cannot add records to another doctor's prescription")
	}

	now := time.Now().UTC()
	record := &model.MedicalRecord{
		Base:           model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PrescriptionID: prescriptionID,
		Symptoms:       req.Symptoms,
		Diagnosis:      req.Diagnosis,
	}
	if err := s.prescriptions.AddRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecords returns the records under a prescription the caller may see.
func (s *Service) ListRecords(ctx context.Context, accountID uuid.UUID, role model.Role, prescriptionID uuid.UUID) ([]*model.MedicalRecord, error) {
	prescription, err := s.prescriptions.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	switch role {
	case model.RoleStaff, model.RoleAdmin:
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if prescription.DoctorID != doctor.ID {
			return nil, errors.NewPermission("cannot read another doctor's prescription records")
		}
	case model.RolePatient:
		patient, err := s.patients.GetByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if prescription.PatientID != patient.ID {
			return nil, errors.NewPermission("cannot read another patient's prescription records")
		}
	default:
		return nil, errors.NewPermission("no medical record access for this role")
	}

	return s.prescriptions.ListRecords(ctx, prescriptionID)
}
