package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/core/usecases"
)

func newRouteFixture(points *mockPointRepo) *usecases.RouteService {
	return usecases.NewRouteService(usecases.NewPointService(points, nil, 0))
}

func TestRouteService_Plan_OrdersByProximity(t *testing.T) {
	svc := newRouteFixture(&mockPointRepo{})

	start := domain.GeoPoint{Lat: 0, Lng: 0}
	pts := []domain.GeoPoint{
		{Lat: 1, Lng: 1},
		{Lat: 2, Lng: 2},
		{Lat: 0.1, Lng: 0.1},
	}

	plan, err := svc.Plan(context.Background(), start, pts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Order) != 3 {
		t.Fatalf("expected 3 points, got %d", len(plan.Order))
	}
	if plan.Order[0].Lat != 0.1 {
		t.Errorf("expected the nearest point first, got %+v", plan.Order[0])
	}
	if plan.Order[2].Lat != 2 {
		t.Errorf("expected the farthest point last, got %+v", plan.Order[2])
	}
	if plan.DistanceMeters <= 0 {
		t.Errorf("expected a positive total distance, got %v", plan.DistanceMeters)
	}
}

func TestRouteService_Plan_EmptyInput(t *testing.T) {
	svc := newRouteFixture(&mockPointRepo{})

	plan, err := svc.Plan(context.Background(), domain.GeoPoint{Lat: 1, Lng: 2}, nil)
	if err != nil {
		t.Fatalf("empty input must not error, got %v", err)
	}
	if len(plan.Order) != 0 {
		t.Errorf("expected empty order, got %v", plan.Order)
	}
	if plan.DistanceMeters != 0 {
		t.Errorf("expected zero distance, got %v", plan.DistanceMeters)
	}
}

func TestRouteService_Plan_InvalidStart(t *testing.T) {
	svc := newRouteFixture(&mockPointRepo{})

	_, err := svc.Plan(context.Background(), domain.GeoPoint{Lat: 999, Lng: 0}, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRouteService_Plan_InvalidPoint(t *testing.T) {
	svc := newRouteFixture(&mockPointRepo{})

	_, err := svc.Plan(context.Background(), domain.GeoPoint{}, []domain.GeoPoint{{Lat: 0, Lng: 200}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRouteService_PlanAll_UsesStoredPoints(t *testing.T) {
	points := &mockPointRepo{
		listAllFn: func(ctx context.Context) ([]domain.RecyclePoint, error) {
			return []domain.RecyclePoint{
				{ID: "far", Location: domain.GeoPoint{Lat: 5, Lng: 5}},
				{ID: "near", Location: domain.GeoPoint{Lat: 0.01, Lng: 0.01}},
			}, nil
		},
	}

	svc := newRouteFixture(points)
	plan, err := svc.PlanAll(context.Background(), domain.GeoPoint{Lat: 0, Lng: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Order) != 2 {
		t.Fatalf("expected 2 points, got %d", len(plan.Order))
	}
	if plan.Order[0].Lat != 0.01 {
		t.Errorf("expected the near point first, got %+v", plan.Order[0])
	}
}
