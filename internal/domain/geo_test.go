package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"service-delivery/internal/domain"
)

func TestHaversineKm_SamePointIsZero(t *testing.T) {
	t.Parallel()

	p := domain.Point{Lat: 48.8566, Lon: 2.3522}
	require.Zero(t, domain.HaversineKm(p, p))
}

func TestHaversineKm_OneDegreeLatitudeAtEquator(t *testing.T) {
	t.Parallel()

	a := domain.Point{Lat: 0, Lon: 0}
	b := domain.Point{Lat: 1, Lon: 0}

	// one degree of latitude is ~111 km
	require.InDelta(t, 111.19, domain.HaversineKm(a, b), 0.5)
}

func TestHaversineKm_Symmetric(t *testing.T) {
	t.Parallel()

	a := domain.Point{Lat: 52.52, Lon: 13.405}
	b := domain.Point{Lat: 48.1351, Lon: 11.582}

	require.InDelta(t, domain.HaversineKm(a, b), domain.HaversineKm(b, a), 1e-9)
	require.Greater(t, domain.HaversineKm(a, b), 500.0)
	require.Less(t, domain.HaversineKm(a, b), 520.0)
}

func TestValidCoordinates(t *testing.T) {
	t.Parallel()

	require.True(t, domain.ValidCoordinates(0, 0))
	require.True(t, domain.ValidCoordinates(-90, 180))
	require.False(t, domain.ValidCoordinates(91, 0))
	require.False(t, domain.ValidCoordinates(0, -181))
}
