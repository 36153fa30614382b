package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/core/ports"
	"github.com/ecoruta/ecoruta/internal/pkg/metrics"
)

// ReconcileActivities holds the activity implementations for the score
// reconciliation workflow.
type ReconcileActivities struct {
	Users  ports.UserRepository
	Points ports.PointRepository
}

// CreditScoreForPoint applies the pending credit. The ledger keys credits by
// point ID, so re-running this activity after a partial failure or a worker
// crash cannot double-credit.
func (a *ReconcileActivities) CreditScoreForPoint(ctx context.Context, input ReconcileInput) error {
	_, err := a.Users.CreditForPoint(ctx, input.PointID, input.UserName, input.Amount)
	if err != nil {
		return fmt.Errorf("credit %d to %s for point %s: %w", input.Amount, input.UserName, input.PointID, err)
	}
	metrics.CreditsReconciled.Inc()
	return nil
}

// RemoveOrphanedPoint deletes a point whose credit could not be applied. A
// point already deleted by its owner counts as success.
func (a *ReconcileActivities) RemoveOrphanedPoint(ctx context.Context, pointID string) error {
	_, err := a.Points.DeleteByID(ctx, pointID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("orphaned point already gone", "point_id", pointID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove orphaned point %s: %w", pointID, err)
	}
	return nil
}
