package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricPointsPlaced     = "business.points_placed"
	MetricScoreCredits     = "business.score_credits"
	MetricPartialFailures  = "business.partial_failures"
	MetricRoutesPlanned    = "business.routes_planned"
	MetricCreditsRepaired  = "business.credits_repaired"
	MetricActiveMapViewers = "realtime.active_map_viewers"
)
