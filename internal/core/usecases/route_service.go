package usecases

import (
	"context"
	"fmt"

	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/pkg/geospatial"
)

// RouteService turns an unordered set of recycling points plus a starting
// location into a visiting sequence. Distances are Haversine ground
// distances; see geospatial.NearestNeighborRoute.
type RouteService struct {
	points *PointService
}

// NewRouteService creates a new RouteService.
func NewRouteService(points *PointService) *RouteService {
	return &RouteService{points: points}
}

// Plan orders the given coordinates by the greedy nearest-neighbor
// heuristic. The output visits every input exactly once; an empty input
// yields an empty plan, not an error.
func (s *RouteService) Plan(ctx context.Context, start domain.GeoPoint, pts []domain.GeoPoint) (*domain.RoutePlan, error) {
	if !start.Valid() {
		return nil, fmt.Errorf("%w: start must be a valid coordinate", domain.ErrValidation)
	}
	for _, p := range pts {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: point (%v, %v) out of range", domain.ErrValidation, p.Lat, p.Lng)
		}
	}

	coords := make([][2]float64, len(pts))
	for i, p := range pts {
		coords[i] = [2]float64{p.Lat, p.Lng}
	}

	order := geospatial.NearestNeighborRoute(start.Lat, start.Lng, coords)

	plan := &domain.RoutePlan{
		Start: start,
		Order: make([]domain.GeoPoint, len(order)),
	}
	ordered := make([][2]float64, len(order))
	for i, idx := range order {
		plan.Order[i] = pts[idx]
		ordered[i] = coords[idx]
	}
	plan.DistanceMeters = geospatial.PathDistance(start.Lat, start.Lng, ordered)

	return plan, nil
}

// PlanAll plans a visiting order over every stored point on the map.
func (s *RouteService) PlanAll(ctx context.Context, start domain.GeoPoint) (*domain.RoutePlan, error) {
	stored, err := s.points.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	pts := make([]domain.GeoPoint, len(stored))
	for i, p := range stored {
		pts[i] = p.Location
	}
	return s.Plan(ctx, start, pts)
}
