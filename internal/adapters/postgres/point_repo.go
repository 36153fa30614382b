package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

// PointRepo implements ports.PointRepository with pgx.
type PointRepo struct {
	db *DB
}

// NewPointRepo creates a new PointRepo.
func NewPointRepo(db *DB) *PointRepo {
	return &PointRepo{db: db}
}

// Insert persists a point and stamps its creation time.
func (r *PointRepo) Insert(ctx context.Context, p *domain.RecyclePoint) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO points (id, lat, lng, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, p.ID, p.Location.Lat, p.Location.Lng, p.OwnerID).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert point: %w", err)
	}
	return nil
}

// ListAll returns every point joined with its owner's display name.
func (r *PointRepo) ListAll(ctx context.Context) ([]domain.RecyclePoint, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT p.id, p.lat, p.lng, p.owner_id, u.name, p.created_at
		FROM points p
		JOIN users u ON u.id = p.owner_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	defer rows.Close()

	var points []domain.RecyclePoint
	for rows.Next() {
		var p domain.RecyclePoint
		if err := rows.Scan(&p.ID, &p.Location.Lat, &p.Location.Lng,
			&p.OwnerID, &p.OwnerName, &p.CreatedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// DeleteByID removes one point by identifier, returning the removed row.
func (r *PointRepo) DeleteByID(ctx context.Context, id string) (*domain.RecyclePoint, error) {
	row := r.db.Pool.QueryRow(ctx, `
		DELETE FROM points
		WHERE id = $1
		RETURNING id, lat, lng, owner_id, created_at
	`, id)

	p, err := scanPoint(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("point %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete point: %w", err)
	}
	return p, nil
}

// DeleteByCoordinate removes the oldest point within eps degrees of
// (lat, lng). The subselect pins the delete to a single row even when
// markers coincide.
func (r *PointRepo) DeleteByCoordinate(ctx context.Context, lat, lng, eps float64) (*domain.RecyclePoint, error) {
	row := r.db.Pool.QueryRow(ctx, `
		DELETE FROM points
		WHERE id = (
			SELECT id FROM points
			WHERE abs(lat - $1) <= $3 AND abs(lng - $2) <= $3
			ORDER BY created_at
			LIMIT 1
		)
		RETURNING id, lat, lng, owner_id, created_at
	`, lat, lng, eps)

	p, err := scanPoint(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("point at (%v, %v): %w", lat, lng, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete point by coordinate: %w", err)
	}
	return p, nil
}

// DeleteAllByOwner removes every point owned by ownerID.
func (r *PointRepo) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM points WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete points by owner: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanPoint(row pgx.Row) (*domain.RecyclePoint, error) {
	var p domain.RecyclePoint
	if err := row.Scan(&p.ID, &p.Location.Lat, &p.Location.Lng, &p.OwnerID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
