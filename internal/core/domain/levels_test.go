package domain_test

import (
	"testing"

	"github.com/ecoruta/ecoruta/internal/core/domain"
)

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score int64
		want  string
	}{
		{0, "beginner"},
		{99, "beginner"},
		{100, "intermediate"},
		{499, "intermediate"},
		{500, "advanced"},
		{999, "advanced"},
		{1000, "expert"},
		{50000, "expert"},
	}

	for _, c := range cases {
		if got := domain.LevelForScore(c.score); got != c.want {
			t.Errorf("LevelForScore(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestGeoPointValid(t *testing.T) {
	valid := []domain.GeoPoint{
		{Lat: 0, Lng: 0},
		{Lat: 90, Lng: 180},
		{Lat: -90, Lng: -180},
		{Lat: 43.263, Lng: -2.935},
	}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("expected (%v, %v) to be valid", p.Lat, p.Lng)
		}
	}

	invalid := []domain.GeoPoint{
		{Lat: 90.0001, Lng: 0},
		{Lat: -90.0001, Lng: 0},
		{Lat: 0, Lng: 180.0001},
		{Lat: 0, Lng: -180.0001},
	}
	for _, p := range invalid {
		if p.Valid() {
			t.Errorf("expected (%v, %v) to be invalid", p.Lat, p.Lng)
		}
	}
}
