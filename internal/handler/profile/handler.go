package profile

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
	Get(ctx context.Context, accountID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, accountID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error)
	UpdateImage(ctx context.Context, accountID uuid.UUID, req *model.UpdateProfileImageRequest) (*model.Profile, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Me(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewAuth("authentication required"))
		return
	}

	profile, err := h.service.Get(c.Request.Context(), accountID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewAuth("authentication required"))
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	profile, err := h.service.Update(c.Request.Context(), accountID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) UpdateImage(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewAuth("authentication required"))
		return
	}

	var req model.UpdateProfileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	profile, err := h.service.UpdateImage(c.Request.Context(), accountID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}
