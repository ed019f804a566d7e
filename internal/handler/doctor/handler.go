package doctor

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-api/internal/middleware"
	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/internal/service/directory"
	"github.com/clinichq/clinic-api/pkg/errors"
	"github.com/clinichq/clinic-api/pkg/httputil"
)

type DirectoryService interface {
	List(ctx context.Context, filters *model.DoctorFilters) (*directory.Page, error)
	Get(ctx context.Context, id uuid.UUID) (*model.DoctorListing, error)
}

type ReviewService interface {
	Create(ctx context.Context, accountID uuid.UUID, role model.Role, doctorID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Review, error)
}

type Handler struct {
	directory DirectoryService
	reviews   ReviewService
}

func NewHandler(directoryService DirectoryService, reviewService ReviewService) *Handler {
	return &Handler{directory: directoryService, reviews: reviewService}
}

func (h *Handler) List(c *gin.Context) {
	var filters model.DoctorFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	page, err := h.directory.List(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPage(c, page.Results, page.Count, filters.Page, directory.PageSize)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewFieldValidation("id", "must be a valid uuid"))
		return
	}

	listing, err := h.directory.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, listing)
}

// CreateReview posts a review under the doctor named by the route. The
// doctor id never comes from the payload.
func (h *Handler) CreateReview(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewFieldValidation("id", "must be a valid uuid"))
		return
	}

	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.NewAuth("authentication required"))
		return
	}
	role, _ := middleware.RoleFromContext(c)

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), accountID, role, doctorID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, review)
}

func (h *Handler) ListReviews(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewFieldValidation("id", "must be a valid uuid"))
		return
	}

	reviews, err := h.reviews.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, reviews)
}
