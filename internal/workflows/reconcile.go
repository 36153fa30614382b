package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ScoreReconcileQueue is the Temporal task queue the reconciler worker polls.
const ScoreReconcileQueue = "score-reconcile-queue"

// ReconcileInput identifies one pending score credit: a point that persisted
// while its score credit failed.
type ReconcileInput struct {
	PointID  string
	UserName string
	Amount   int64
}

// ScoreReconcileWorkflow repairs a partial placement. It retries the
// idempotent credit (keyed by point ID, so replays can never double-count);
// if the credit still fails after all attempts, it compensates by deleting
// the orphaned point so the map and the ledger agree again (saga).
func ScoreReconcileWorkflow(ctx workflow.Context, input ReconcileInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Reconciling pending score credit", "pointID", input.PointID, "user", input.UserName)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 5 * time.Second,
			MaximumAttempts: 5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	err := workflow.ExecuteActivity(ctx, "CreditScoreForPoint", input).Get(ctx, nil)
	if err != nil {
		logger.Warn("credit unrecoverable, removing orphaned point", "pointID", input.PointID, "error", err)
		// Compensate: delete the point that was never paid for
		if delErr := workflow.ExecuteActivity(ctx, "RemoveOrphanedPoint", input.PointID).Get(ctx, nil); delErr != nil {
			logger.Error("compensation failed, point left unpaid", "pointID", input.PointID, "error", delErr)
		}
		return err
	}

	logger.Info("Pending credit repaired", "pointID", input.PointID)
	return nil
}
