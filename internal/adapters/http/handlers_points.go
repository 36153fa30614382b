package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecoruta/ecoruta/internal/core/domain"
	"github.com/ecoruta/ecoruta/internal/pkg/metrics"
)

type coordinateRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// ListPointsHandler returns every recycling point with owner names resolved.
func ListPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := deps.Points.ListAll(c.Context())
		if err != nil {
			return fromDomainError(c, err)
		}

		// Apply offset/limit pagination on the full list
		offset, limit := PageQuery(c)

		total := len(points)
		if offset >= total {
			points = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			points = points[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: points, Pagination: pg})
	}
}

// PlacePointHandler persists a point for the acting user and credits their
// score. A partial success (point saved, credit pending) returns 200 with a
// warning instead of 201, so clients can tell the two apart.
func PlacePointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req coordinateRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "body must be JSON with lat and lng fields")
		}
		if req.Lat == nil || req.Lng == nil {
			return errBadRequest(c, "lat and lng are required")
		}

		result, err := deps.Placements.PlacePoint(c.Context(), identityFrom(c), *req.Lat, *req.Lng)
		if err != nil {
			return fromDomainError(c, err)
		}

		if result.Warning != "" {
			return c.Status(200).JSON(result)
		}
		return c.Status(201).JSON(result)
	}
}

// DeletePointByCoordinateHandler removes the single point matching the given
// coordinates, or 404s. Kept for compatibility with older map clients;
// DELETE /v1/points/:id is the successor.
func DeletePointByCoordinateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req coordinateRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "body must be JSON with lat and lng fields")
		}
		if req.Lat == nil || req.Lng == nil {
			return errBadRequest(c, "lat and lng are required")
		}

		point, err := deps.Placements.RemoveByCoordinate(c.Context(), identityFrom(c), *req.Lat, *req.Lng)
		if err != nil {
			return fromDomainError(c, err)
		}
		return c.JSON(point)
	}
}

// DeletePointByIDHandler removes one point by its persisted identifier.
func DeletePointByIDHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "point id is required")
		}

		point, err := deps.Placements.RemoveByID(c.Context(), identityFrom(c), id)
		if err != nil {
			return fromDomainError(c, err)
		}
		return c.JSON(point)
	}
}

// ClearOwnPointsHandler bulk-deletes the acting user's points.
func ClearOwnPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := deps.Placements.ClearOwn(c.Context(), identityFrom(c))
		if err != nil {
			return fromDomainError(c, err)
		}
		return c.JSON(fiber.Map{"deleted": count})
	}
}

type planRouteRequest struct {
	Start  *domain.GeoPoint  `json:"start"`
	Points []domain.GeoPoint `json:"points"`
}

// PlanRouteHandler orders points into a visiting sequence from a start
// location. When the request carries no points, the whole stored map is
// planned.
func PlanRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req planRouteRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "body must be JSON with a start coordinate")
		}
		if req.Start == nil {
			return errBadRequest(c, "start is required")
		}

		var (
			plan *domain.RoutePlan
			err  error
		)
		if req.Points == nil {
			plan, err = deps.Routes.PlanAll(c.Context(), *req.Start)
		} else {
			plan, err = deps.Routes.Plan(c.Context(), *req.Start, req.Points)
		}
		if err != nil {
			return fromDomainError(c, err)
		}

		metrics.RoutesPlanned.Inc()
		metrics.RoutePlanSize.Observe(float64(len(plan.Order)))
		return c.JSON(plan)
	}
}

// StatsHandler returns row counts from the core tables.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats struct {
			Users   int `json:"users"`
			Points  int `json:"points"`
			Credits int `json:"credits"`
		}
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM users),
				(SELECT count(*) FROM points),
				(SELECT count(*) FROM score_credits)
		`)
		if err := row.Scan(&stats.Users, &stats.Points, &stats.Credits); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}
