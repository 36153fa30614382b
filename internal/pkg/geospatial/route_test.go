package geospatial_test

import (
	"math"
	"testing"

	"github.com/ecoruta/ecoruta/internal/pkg/geospatial"
)

func TestNearestNeighborRoute_Ordering(t *testing.T) {
	// From the origin, the closest point is visited first even though it
	// appears last in the input.
	points := [][2]float64{
		{1, 1},
		{2, 2},
		{0.1, 0.1},
	}

	order := geospatial.NearestNeighborRoute(0, 0, points)

	want := []int{2, 0, 1}
	if len(order) != len(want) {
		t.Fatalf("expected %d indices, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestNearestNeighborRoute_Permutation(t *testing.T) {
	points := [][2]float64{
		{43.263, -2.935},
		{43.270, -2.940},
		{43.255, -2.920},
		{43.260, -2.950},
		{43.280, -2.930},
	}

	order := geospatial.NearestNeighborRoute(43.26, -2.93, points)

	if len(order) != len(points) {
		t.Fatalf("expected %d indices, got %d", len(points), len(order))
	}
	seen := make(map[int]bool)
	for _, idx := range order {
		if idx < 0 || idx >= len(points) {
			t.Fatalf("index %d out of range", idx)
		}
		if seen[idx] {
			t.Fatalf("index %d visited twice", idx)
		}
		seen[idx] = true
	}
}

func TestNearestNeighborRoute_Empty(t *testing.T) {
	order := geospatial.NearestNeighborRoute(0, 0, nil)
	if len(order) != 0 {
		t.Fatalf("expected empty order, got %v", order)
	}
}

func TestNearestNeighborRoute_Single(t *testing.T) {
	order := geospatial.NearestNeighborRoute(10, 10, [][2]float64{{20, 20}})
	if len(order) != 1 || order[0] != 0 {
		t.Fatalf("expected [0], got %v", order)
	}
}

func TestNearestNeighborRoute_CoincidentTieBreak(t *testing.T) {
	// Two points at the same spot: input order decides.
	points := [][2]float64{
		{5, 5},
		{5, 5},
	}

	order := geospatial.NearestNeighborRoute(0, 0, points)
	if order[0] != 0 || order[1] != 1 {
		t.Fatalf("expected tie broken by input order, got %v", order)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Bilbao to Madrid, roughly 323 km great-circle.
	d := geospatial.Haversine(43.263, -2.935, 40.416, -3.703)
	if d < 310_000 || d > 340_000 {
		t.Errorf("expected ~323km, got %.0fm", d)
	}
}

func TestHaversine_ZeroForSamePoint(t *testing.T) {
	d := geospatial.Haversine(43.263, -2.935, 43.263, -2.935)
	if d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestPathDistance(t *testing.T) {
	points := [][2]float64{
		{0, 1},
		{0, 2},
	}

	got := geospatial.PathDistance(0, 0, points)
	want := geospatial.Haversine(0, 0, 0, 1) + geospatial.Haversine(0, 1, 0, 2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSameCoordinate(t *testing.T) {
	if !geospatial.SameCoordinate(1.0000001, 2.0, 1.0, 2.0, 1e-6) {
		t.Error("expected match within epsilon")
	}
	if geospatial.SameCoordinate(1.001, 2.0, 1.0, 2.0, 1e-6) {
		t.Error("expected mismatch beyond epsilon")
	}
}
