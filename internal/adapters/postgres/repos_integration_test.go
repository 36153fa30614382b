//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoruta/ecoruta/internal/adapters/postgres"
	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/pkg/config"
)

// setupTestDB connects to the test database and returns a clean DB instance.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("ecoruta-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	db := &postgres.DB{Pool: pool}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	return db
}

// testName returns a unique user name so runs never collide.
func testName(prefix string) string {
	return prefix + "_" + time.Now().Format("150405") + "_" + uuid.NewString()[:8]
}

// cleanupUser removes a test user and everything hanging off it.
func cleanupUser(t *testing.T, db *postgres.DB, name string) {
	t.Helper()
	ctx := context.Background()
	if _, err := db.Pool.Exec(ctx, `DELETE FROM score_credits WHERE user_name = $1`, name); err != nil {
		t.Logf("cleanup credits: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE name = $1`, name); err != nil {
		t.Logf("cleanup user: %v", err)
	}
}

// TestFindOrCreate_Concurrent verifies that racing upserts for the same name
// all land on a single user row.
func TestFindOrCreate_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	repo := postgres.NewUserRepo(db)
	name := testName("test_race")
	defer cleanupUser(t, db, name)

	const workers = 16
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := repo.FindOrCreate(context.Background(), name)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = u.ID
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}
	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("worker %d got id %s, worker 0 got %s", i, ids[i], ids[0])
		}
	}

	var count int
	if err := db.Pool.QueryRow(context.Background(),
		`SELECT count(*) FROM users WHERE name = $1`, name).Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row for %s, got %d", name, count)
	}
}

// TestIncrementScore_Concurrent verifies that parallel increments sum without
// lost updates.
func TestIncrementScore_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	repo := postgres.NewUserRepo(db)
	name := testName("test_incr")
	defer cleanupUser(t, db, name)

	if _, err := repo.Create(context.Background(), name); err != nil {
		t.Fatalf("create user: %v", err)
	}

	const workers = 20
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.IncrementScore(context.Background(), name, 1)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}

	u, err := repo.GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Score != workers {
		t.Errorf("expected score %d, got %d", workers, u.Score)
	}
}

// TestCreditForPoint_Replay verifies that a replayed credit for the same
// point ID adds zero.
func TestCreditForPoint_Replay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	repo := postgres.NewUserRepo(db)
	name := testName("test_credit")
	defer cleanupUser(t, db, name)

	if _, err := repo.Create(context.Background(), name); err != nil {
		t.Fatalf("create user: %v", err)
	}

	pointID := uuid.NewString()
	u, err := repo.CreditForPoint(context.Background(), pointID, name, 5)
	if err != nil {
		t.Fatalf("first credit: %v", err)
	}
	if u.Score != 5 {
		t.Fatalf("expected score 5 after first credit, got %d", u.Score)
	}

	u, err = repo.CreditForPoint(context.Background(), pointID, name, 5)
	if err != nil {
		t.Fatalf("replayed credit: %v", err)
	}
	if u.Score != 5 {
		t.Errorf("expected score 5 after replay, got %d", u.Score)
	}
}

// TestDeleteByCoordinate_Twice verifies that the first delete returns the
// point and the second reports not found.
func TestDeleteByCoordinate_Twice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	users := postgres.NewUserRepo(db)
	points := postgres.NewPointRepo(db)
	name := testName("test_delete")
	defer cleanupUser(t, db, name)

	owner, err := users.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}

	// Unique coordinates so leftovers from an aborted run never match.
	lat := 43.2 + float64(time.Now().UnixNano()%100000)*1e-6
	lng := -2.9 - float64(time.Now().UnixNano()%100000)*1e-6

	p := &domain.RecyclePoint{
		ID:       uuid.NewString(),
		Location: domain.GeoPoint{Lat: lat, Lng: lng},
		OwnerID:  owner.ID,
	}
	if err := points.Insert(context.Background(), p); err != nil {
		t.Fatalf("insert point: %v", err)
	}

	got, err := points.DeleteByCoordinate(context.Background(), lat, lng, 1e-7)
	if err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("expected point %s, got %s", p.ID, got.ID)
	}

	_, err = points.DeleteByCoordinate(context.Background(), lat, lng, 1e-7)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
