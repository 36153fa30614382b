package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

// UserRepo implements ports.UserRepository with pgx. Every score mutation is
// a single SQL statement so increments stay atomic under concurrent requests
// for the same name.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, score, created_at, last_seen_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Score, &u.CreatedAt, &u.LastSeenAt); err != nil {
		return nil, err
	}
	u.Level = domain.LevelForScore(u.Score)
	return &u, nil
}

// Create inserts a user with score 0, or reports a conflict.
func (r *UserRepo) Create(ctx context.Context, name string) (*domain.User, error) {
	row := r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING `+userColumns,
		name)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", name, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByName returns a user by normalized name.
func (r *UserRepo) GetByName(ctx context.Context, name string) (*domain.User, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE name = $1`, name)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// FindOrCreate returns the existing user or creates one atomically. The
// upsert also bumps last_seen_at for returning users.
func (r *UserRepo) FindOrCreate(ctx context.Context, name string) (*domain.User, error) {
	row := r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET last_seen_at = now()
		RETURNING `+userColumns,
		name)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}
	return u, nil
}

// IncrementScore adds amount to the user's score in one atomic upsert,
// creating the user with score = amount when absent.
func (r *UserRepo) IncrementScore(ctx context.Context, name string, amount int64) (*domain.User, error) {
	row := r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, score)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET score = users.score + EXCLUDED.score
		RETURNING `+userColumns,
		name, amount)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("increment score: %w", err)
	}
	return u, nil
}

// CreditForPoint records the credit in the ledger keyed by point ID and
// bumps the score only when the ledger row is new. A replayed credit adds 0.
func (r *UserRepo) CreditForPoint(ctx context.Context, pointID, name string, amount int64) (*domain.User, error) {
	row := r.db.Pool.QueryRow(ctx, `
		WITH credit AS (
			INSERT INTO score_credits (point_id, user_name, amount)
			VALUES ($1, $2, $3)
			ON CONFLICT (point_id) DO NOTHING
			RETURNING amount
		)
		UPDATE users
		SET score = score + COALESCE((SELECT amount FROM credit), 0)
		WHERE name = $2
		RETURNING `+userColumns,
		pointID, name, amount)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("credit for point: %w", err)
	}
	return u, nil
}

// Top returns users ranked by score descending; ties rank the older account
// first.
func (r *UserRepo) Top(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY score DESC, created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Score, &u.CreatedAt, &u.LastSeenAt); err != nil {
			return nil, err
		}
		u.Level = domain.LevelForScore(u.Score)
		users = append(users, u)
	}
	return users, rows.Err()
}
