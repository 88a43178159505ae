package engine_test

import (
	"hotel/internal/engine"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotalPrice(t *testing.T) {
	tests := []struct {
		name     string
		rate     decimal.Decimal
		checkIn  time.Time
		checkOut time.Time
		want     string
		wantErr  error
	}{
		{name: "three nights", rate: decimal.NewFromInt(100), checkIn: jan(1), checkOut: jan(4), want: "300"},
		{name: "fractional rate", rate: decimal.RequireFromString("89.90"), checkIn: jan(1), checkOut: jan(3), want: "179.8"},
		{
			name:     "four centuries",
			rate:     decimal.NewFromInt(1),
			checkIn:  time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC),
			checkOut: time.Date(1400, 1, 1, 0, 0, 0, 0, time.UTC),
			want:     "146097",
		},
		{name: "free room", rate: decimal.Zero, checkIn: jan(1), checkOut: jan(2), want: "0"},
		{name: "same day", rate: decimal.NewFromInt(100), checkIn: jan(4), checkOut: jan(4), wantErr: engine.ErrInvalidDateRange},
		{name: "reversed", rate: decimal.NewFromInt(100), checkIn: jan(4), checkOut: jan(1), wantErr: engine.ErrInvalidDateRange},
		{name: "negative rate", rate: decimal.NewFromInt(-1), checkIn: jan(1), checkOut: jan(2), wantErr: engine.ErrNegativeRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CalculateTotalPrice(tt.rate, tt.checkIn, tt.checkOut)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsZero())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
