package engine_test

import (
	"hotel/internal/engine"
	"hotel/shared/failure"
	"math/rand/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{name: "adjacent ranges do not overlap", aStart: jan(1), aEnd: jan(3), bStart: jan(3), bEnd: jan(5), want: false},
		{name: "strictly overlapping", aStart: jan(1), aEnd: jan(5), bStart: jan(3), bEnd: jan(7), want: true},
		{name: "contained", aStart: jan(1), aEnd: jan(10), bStart: jan(3), bEnd: jan(4), want: true},
		{name: "identical", aStart: jan(2), aEnd: jan(3), bStart: jan(2), bEnd: jan(3), want: true},
		{name: "disjoint", aStart: jan(1), aEnd: jan(2), bStart: jan(5), bEnd: jan(6), want: false},
		{name: "other ends where this starts", aStart: jan(5), aEnd: jan(8), bStart: jan(1), bEnd: jan(5), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlaps_InvalidRange(t *testing.T) {
	_, err := engine.Overlaps(jan(3), jan(3), jan(1), jan(5))
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)

	_, err = engine.Overlaps(jan(1), jan(5), jan(6), jan(2))
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestOverlaps_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for range 500 {
		a := jan(1).AddDate(0, 0, rng.IntN(40))
		b := a.AddDate(0, 0, 1+rng.IntN(10))
		c := jan(1).AddDate(0, 0, rng.IntN(40))
		d := c.AddDate(0, 0, 1+rng.IntN(10))

		ab, err := engine.Overlaps(a, b, c, d)
		require.NoError(t, err)

		ba, err := engine.Overlaps(c, d, a, b)
		require.NoError(t, err)

		assert.Equal(t, ab, ba, "[%s,%s) vs [%s,%s)", a, b, c, d)
	}
}

func TestOverlaps_IgnoresTimeOfDay(t *testing.T) {
	lateCheckOut := time.Date(2024, 1, 3, 23, 0, 0, 0, time.FixedZone("CET", 3600))
	earlyCheckIn := time.Date(2024, 1, 3, 6, 0, 0, 0, time.UTC)

	got, err := engine.Overlaps(jan(1), lateCheckOut, earlyCheckIn, jan(5))

	require.NoError(t, err)
	assert.False(t, got)
}

func TestDateRange(t *testing.T) {
	r, err := engine.NewDateRange(jan(1), jan(4))
	require.NoError(t, err)

	assert.Equal(t, 3, r.Nights())
	assert.True(t, r.Contains(jan(1)))
	assert.True(t, r.Contains(jan(3).Add(20*time.Hour)))
	assert.False(t, r.Contains(jan(4)))

	_, err = engine.NewDateRange(jan(4), jan(1))
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
}

func TestSingleDay(t *testing.T) {
	day := engine.SingleDay(jan(31).Add(15 * time.Hour))

	assert.Equal(t, jan(31), day.Start)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), day.End)
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, engine.Nights(jan(1), jan(4)))
	assert.Equal(t, 0, engine.Nights(jan(4), jan(4)))
	assert.Equal(t, -2, engine.Nights(jan(4), jan(2)))
	assert.Equal(t, 29, engine.Nights(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 146097, engine.Nights(time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(1400, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3652058, engine.Nights(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)))
}
