package prescription

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/middleware"
	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/pkg/errors"
	"github.com/clinichq/clinic-api/pkg/httputil"
)

type Service interface {
	Create(ctx context.Context, accountID uuid.UUID, role model.Role, req *model.CreatePrescriptionRequest) (*model.Prescription, error)
	ListForCaller(ctx context.Context, accountID uuid.UUID, role model.Role, patientID uuid.UUID) ([]*model.Prescription, error)
	AddRecord(ctx context.Context, accountID uuid.UUID, role model.Role, prescriptionID uuid.UUID, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error)
	ListRecords(ctx context.Context, accountID uuid.UUID, role model.Role, prescriptionID uuid.UUID) ([]*model.MedicalRecord, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	accountID, role, ok := session(c)
	if !ok {
		return
	}

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	prescription, err := h.service.Create(c.Request.Context(), accountID, role, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, prescription)
}

func (h *Handler) List(c *gin.Context) {
	accountID, role, ok := session(c)
	if !ok {
		return
	}

	patientID := uuid.Nil
	if raw := c.Query("patient"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, errors.NewFieldValidation("patient", "must be a valid uuid"))
			return
		}
		patientID = parsed
	}

	prescriptions, err := h.service.ListForCaller(c.Request.Context(), accountID, role, patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescriptions)
}

func (h *Handler) AddRecord(c *gin.Context) {
	accountID, role, ok := session(c)
	if !ok {
		return
	}
	prescriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewFieldValidation("id", "must be a valid uuid"))
		return
	}

	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	record, err := h.service.AddRecord(c.Request.Context(), accountID, role, prescriptionID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, record)
}

func (h *Handler) ListRecords(c *gin.Context) {
	accountID, role, ok := session(c)
	if !ok {
		return
	}
	prescriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewFieldValidation("id", "must be a valid uuid"))
		return
	}

	records, err := h.service.ListRecords(c.Request.Context(), accountID, role, prescriptionID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, records)
}

func session(c *gin.Context) (uuid.UUID, model.Role, bool) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewAuth("authentication required"))
		return uuid.Nil, "", false
	}
	role, ok := middleware.RoleFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewAuth("authentication required"))
		return uuid.Nil, "", false
	}
	return accountID, role, true
}
