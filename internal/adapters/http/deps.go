package http

import (
	"github.com/nats-io/nats.go"

	"github.com/ecoruta/ecoruta/internal/adapters/postgres"
	"github.com/ecoruta/ecoruta/internal/adapters/valkey"
	"github.com/ecoruta/ecoruta/internal/core/ports"
	"github.com/ecoruta/ecoruta/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Users      *usecases.UserService
	Points     *usecases.PointService
	Routes     *usecases.RouteService
	Placements *usecases.PlacementService
	Sessions   ports.SessionStore
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
