package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/ecoruta/ecoruta/internal/adapters/nats"
	"github.com/ecoruta/ecoruta/internal/adapters/postgres"
	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/pkg/config"
	"github.com/ecoruta/ecoruta/internal/pkg/logging"
	"github.com/ecoruta/ecoruta/internal/workflows"
)

// The reconciler listens for pending-credit events left behind when the API
// persisted a point but could not credit its owner, and drives each one
// through a Temporal workflow that retries the idempotent credit.
func main() {
	cfg, err := config.Load("ecoruta-reconciler")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("ecoruta-reconciler", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: "localhost:7233",
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, workflows.ScoreReconcileQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.ScoreReconcileWorkflow)
	w.RegisterActivity(&workflows.ReconcileActivities{
		Users:  postgres.NewUserRepo(db),
		Points: postgres.NewPointRepo(db),
	})

	// Pending-credit events feed workflow executions. The workflow ID is
	// derived from the point ID so redelivered events dedupe.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeScorePending(ctx, func(ctx context.Context, credit *domain.ScoreCredit) error {
		opts := client.StartWorkflowOptions{
			ID:        "score-reconcile-" + credit.PointID,
			TaskQueue: workflows.ScoreReconcileQueue,
		}
		run, err := c.ExecuteWorkflow(ctx, opts, workflows.ScoreReconcileWorkflow, workflows.ReconcileInput{
			PointID:  credit.PointID,
			UserName: credit.UserName,
			Amount:   credit.Amount,
		})
		if err != nil {
			return err
		}
		slog.Info("reconcile workflow started",
			"workflow_id", run.GetID(), "point_id", credit.PointID, "user", credit.UserName)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("reconciler worker started", "queue", workflows.ScoreReconcileQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
