package domain

import (
	"time"
)

// User is a registered map user. Name is stored normalized (trimmed,
// lowercased) and is unique. Level is derived from Score on every read and
// never persisted.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Score      int64      `json:"score"`
	Level      string     `json:"level"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// RecyclePoint is a user-placed recycling point on the shared map.
type RecyclePoint struct {
	ID        string    `json:"id"`
	Location  GeoPoint  `json:"location"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name,omitempty"` // resolved on listing
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the resolved acting user behind a session token. Core
// operations take it as an explicit parameter, never from ambient state.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// ScoreCredit is one gamification credit, keyed by the point that earned it.
// The point_id key makes a retried credit idempotent.
type ScoreCredit struct {
	PointID   string    `json:"point_id"`
	UserName  string    `json:"user_name"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// PlacementResult is the outcome of placing a point. User is nil and Warning
// is set when the point persisted but the score credit failed.
type PlacementResult struct {
	Point   *RecyclePoint `json:"point"`
	User    *User         `json:"user,omitempty"`
	Warning string        `json:"warning,omitempty"`
}

// RoutePlan is an ordered visiting sequence over recycling points.
type RoutePlan struct {
	Start          GeoPoint   `json:"start"`
	Order          []GeoPoint `json:"order"`
	DistanceMeters float64    `json:"distance_meters"`
}
