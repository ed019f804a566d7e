package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinichq/clinic-api/internal/model"
	"github.com/clinichq/clinic-api/internal/repository"
	"github.com/clinichq/clinic-api/pkg/errors"
)

// PageSize is the fixed directory page size.
const PageSize = 10

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Page is one directory page plus the total match count, for the paginated
// response envelope.
type Page struct {
	Results []*model.DoctorListing
	Count   int
}

type Service struct {
	doctors repository.DoctorRepository
	cache   *gocache.Cache
}

func NewService(doctors repository.DoctorRepository) *Service {
	return &Service{
		doctors: doctors,
		cache:   gocache.New(cacheTTL, cacheCleanup),
	}
}

// List searches the directory. Listings are returned regardless of approval
// status; callers render approval_status and decide what to do with it.
func (s *Service) List(ctx context.Context, filters *model.DoctorFilters) (*Page, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Ordering != "" && !validOrdering(filters.Ordering) {
		return nil, errors.NewFieldValidation("ordering", "must be one of first_name, last_name, charges, optionally prefixed with -")
	}
	if filters.ChargesMin < 0 || filters.ChargesMax < 0 {
		return nil, errors.NewValidation("charge bounds must not be negative")
	}
	if filters.ChargesMax > 0 && filters.ChargesMin > filters.ChargesMax {
		return nil, errors.NewValidation("charges_min must not exceed charges_max")
	}

	results, count, err := s.doctors.List(ctx, filters, PageSize)
	if err != nil {
		return nil, err
	}
	return &Page{Results: results, Count: count}, nil
}

// Get returns a single listing, served from a short-lived cache. Directory
// detail pages are read-heavy and tolerate slightly stale data.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.DoctorListing, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cached.(*model.DoctorListing), nil
	}

	listing, err := s.doctors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id.String(), listing, gocache.DefaultExpiration)
	return listing, nil
}

// Invalidate drops a listing from the cache, for use after profile updates.
func (s *Service) Invalidate(id uuid.UUID) {
	s.cache.Delete(id.String())
}

func validOrdering(ordering string) bool {
	if len(ordering) > 0 && ordering[0] == '-' {
		ordering = ordering[1:]
	}
	switch ordering {
	case "first_name", "last_name", "charges":
		return true
	}
	return false
}
