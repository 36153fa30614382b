package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/core/ports"
	"github.com/ecoruta/ecoruta/internal/pkg/geospatial"
)

const pointsCacheKey = "points:all"

// PointService owns the recycling-point store: structural validation,
// listing, and coordinate- or id-keyed deletion.
type PointService struct {
	points ports.PointRepository
	cache  ports.CacheService
	eps    float64 // coordinate match tolerance in degrees
}

// NewPointService creates a new PointService. eps <= 0 falls back to the
// default coordinate tolerance.
func NewPointService(points ports.PointRepository, cache ports.CacheService, eps float64) *PointService {
	if eps <= 0 {
		eps = geospatial.CoordEpsilon
	}
	return &PointService{points: points, cache: cache, eps: eps}
}

// Create validates and persists a new point owned by ownerID. It does not
// deduplicate; placing two markers on the same spot is the caller's call.
func (s *PointService) Create(ctx context.Context, lat, lng float64, ownerID string) (*domain.RecyclePoint, error) {
	loc := domain.GeoPoint{Lat: lat, Lng: lng}
	if !loc.Valid() {
		return nil, fmt.Errorf("%w: lat must be in [-90,90] and lng in [-180,180]", domain.ErrValidation)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: point needs a resolved owner", domain.ErrUnauthorized)
	}

	p := &domain.RecyclePoint{
		ID:       uuid.NewString(),
		Location: loc,
		OwnerID:  ownerID,
	}
	if err := s.points.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// ListAll returns every point with owner names resolved. Order is
// unspecified; callers that need an ordering use the route planner.
func (s *PointService) ListAll(ctx context.Context) ([]domain.RecyclePoint, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, pointsCacheKey); err == nil {
			var pts []domain.RecyclePoint
			if err := json.Unmarshal(data, &pts); err == nil {
				return pts, nil
			}
		}
	}

	pts, err := s.points.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(pts); err == nil {
			_ = s.cache.Set(ctx, pointsCacheKey, data, 30)
		}
	}

	return pts, nil
}

// DeleteByCoordinate removes at most one point matching (lat, lng) within
// the configured tolerance and returns it. The contract stays "match or not
// found"; only the float comparison is softened against serialization
// round-trips.
func (s *PointService) DeleteByCoordinate(ctx context.Context, lat, lng float64) (*domain.RecyclePoint, error) {
	loc := domain.GeoPoint{Lat: lat, Lng: lng}
	if !loc.Valid() {
		return nil, fmt.Errorf("%w: lat must be in [-90,90] and lng in [-180,180]", domain.ErrValidation)
	}

	p, err := s.points.DeleteByCoordinate(ctx, lat, lng, s.eps)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// DeleteByID removes one point by its persisted identifier and returns it.
func (s *PointService) DeleteByID(ctx context.Context, id string) (*domain.RecyclePoint, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: point id is required", domain.ErrValidation)
	}

	p, err := s.points.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// DeleteAllByOwner removes every point owned by ownerID and returns the
// count. An owner with zero points gets 0, not an error.
func (s *PointService) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("%w: owner id is required", domain.ErrValidation)
	}

	n, err := s.points.DeleteAllByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate(ctx)
	}
	return n, nil
}

func (s *PointService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, pointsCacheKey)
}
