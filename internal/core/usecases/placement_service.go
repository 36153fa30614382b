package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/core/ports"
	"github.com/ecoruta/ecoruta/internal/pkg/metrics"
)

// PlacementService orchestrates "place a recycling point" as one logical
// operation: persist the point, then credit the owner's score. The two
// writes are individually atomic but not transactional across stores, so a
// failed credit after a persisted point is surfaced as a partial success and
// queued for reconciliation rather than silently swallowed.
type PlacementService struct {
	points *PointService
	users  *UserService
	events ports.EventPublisher
	award  int64
}

// NewPlacementService creates a new PlacementService. award is the score
// credited per placed point.
func NewPlacementService(points *PointService, users *UserService, events ports.EventPublisher, award int64) *PlacementService {
	if award <= 0 {
		award = 1
	}
	return &PlacementService{points: points, users: users, events: events, award: award}
}

// PlacePoint persists a point for the acting user and credits their score.
//
// Failure policy:
//   - no resolved identity → domain.ErrUnauthorized, nothing written
//   - point persist fails → error surfaced, score untouched
//   - credit fails after persist → result carries the point plus a warning,
//     and a pending-credit event is published so the reconciler can retry
//     the idempotent credit later
func (s *PlacementService) PlacePoint(ctx context.Context, actor *domain.Identity, lat, lng float64) (*domain.PlacementResult, error) {
	if actor == nil || actor.UserID == "" {
		return nil, fmt.Errorf("%w: placing a point requires a session", domain.ErrUnauthorized)
	}

	point, err := s.points.Create(ctx, lat, lng, actor.UserID)
	if err != nil {
		return nil, err
	}
	metrics.PointsPlaced.Inc()

	user, err := s.users.CreditForPoint(ctx, point.ID, actor.Name, s.award)
	if err != nil {
		metrics.PartialFailures.Inc()
		slog.Warn("point persisted but score credit failed",
			"point_id", point.ID, "user", actor.Name, "error", err)

		credit := &domain.ScoreCredit{PointID: point.ID, UserName: actor.Name, Amount: s.award}
		if s.events != nil {
			if pubErr := s.events.PublishScorePending(ctx, credit); pubErr != nil {
				slog.Error("pending credit event lost", "point_id", point.ID, "error", pubErr)
			}
		}

		return &domain.PlacementResult{
			Point:   point,
			Warning: fmt.Sprintf("point saved but score credit pending: %v", err),
		}, nil
	}
	metrics.ScoreCredited.Add(float64(s.award))

	if s.events != nil {
		_ = s.events.PublishPointPlaced(ctx, point)
	}

	return &domain.PlacementResult{Point: point, User: user}, nil
}

// RemoveByCoordinate deletes the acting user's marker at (lat, lng).
func (s *PlacementService) RemoveByCoordinate(ctx context.Context, actor *domain.Identity, lat, lng float64) (*domain.RecyclePoint, error) {
	if actor == nil || actor.UserID == "" {
		return nil, fmt.Errorf("%w: deleting a point requires a session", domain.ErrUnauthorized)
	}

	point, err := s.points.DeleteByCoordinate(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	metrics.PointsDeleted.Inc()

	if s.events != nil {
		_ = s.events.PublishPointDeleted(ctx, point)
	}
	return point, nil
}

// RemoveByID deletes one point by its persisted identifier.
func (s *PlacementService) RemoveByID(ctx context.Context, actor *domain.Identity, id string) (*domain.RecyclePoint, error) {
	if actor == nil || actor.UserID == "" {
		return nil, fmt.Errorf("%w: deleting a point requires a session", domain.ErrUnauthorized)
	}

	point, err := s.points.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.PointsDeleted.Inc()

	if s.events != nil {
		_ = s.events.PublishPointDeleted(ctx, point)
	}
	return point, nil
}

// ClearOwn removes every point owned by the acting user and returns the
// count.
func (s *PlacementService) ClearOwn(ctx context.Context, actor *domain.Identity) (int64, error) {
	if actor == nil || actor.UserID == "" {
		return 0, fmt.Errorf("%w: clearing points requires a session", domain.ErrUnauthorized)
	}

	n, err := s.points.DeleteAllByOwner(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	metrics.PointsDeleted.Add(float64(n))

	// Bulk deletion has no per-point events; tell map clients to refetch.
	if n > 0 && s.events != nil {
		msg, _ := json.Marshal(map[string]any{
			"event": "points_cleared",
			"owner": actor.Name,
			"count": n,
		})
		_ = s.events.PublishBroadcast(ctx, msg)
	}
	return n, nil
}
