package appointment

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
	Book(ctx context.Context, accountID uuid.UUID, role model.Role, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, accountID uuid.UUID, role model.Role, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, accountID uuid.UUID, role model.Role) ([]*model.Appointment, error)
	RecordPayment(ctx context.Context, role model.Role, appointmentID uuid.UUID, req *model.CreatePaymentRequest) (*model.Payment, error)
	GetPayment(ctx context.Context, accountID uuid.UUID, role model.Role, appointmentID uuid.UUID) (*model.Payment, error)
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

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), accountID, role, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, appointment)
}

func (h *Handler) Get(c *gin.Context) {
	accountID, role, ok := session(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewFieldValidation("id", "must be a valid uuid"))
		return
	}

	appointment, err := h.service.Get(c.Request.Context(), accountID, role, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) List(c *gin.Context) {
	accountID, role, ok := session(c)
	if !ok {
		return
	}

	appointments, err := h.service.List(c.Request.Context(), accountID, role)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) CreatePayment(c *gin.Context) {
	_, role, ok := session(c)
	if !ok {
		return
	}
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewFieldValidation("id", "must be a valid uuid"))
		return
	}

	var req model.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	payment, err := h.service.RecordPayment(c.Request.Context(), role, appointmentID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, payment)
}

func (h *Handler) GetPayment(c *gin.Context) {
	accountID, role, ok := session(c)
	if !ok {
		return
	}
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewFieldValidation("id", "must be a valid uuid"))
		return
	}

	payment, err := h.service.GetPayment(c.Request.Context(), accountID, role, appointmentID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, payment)
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
