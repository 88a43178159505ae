package shared_test

import (
	"context"
	"errors"
	"fmt"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/failure"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cacheMocks "hotel/shared/cache/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestQueryInt64(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int64
		wantErr bool
	}{
		{name: "absent", query: "", want: 0},
		{name: "present", query: "exclude_reservation_id=42", want: 42},
		{name: "malformed", query: "exclude_reservation_id=abc", wantErr: true},
		{name: "overflow", query: "exclude_reservation_id=99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/rooms/available?"+tt.query, nil)

			got, err := shared.QueryInt64(req, constant.RequestParamExcludeReservationID)
			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations?with_details=true&flag=maybe", nil)

	got, err := shared.QueryBool(req, constant.RequestParamWithDetails)
	assert.NoError(t, err)
	assert.True(t, *got)

	got, err = shared.QueryBool(req, "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = shared.QueryBool(req, "flag")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int64
		wantErr bool
	}{
		{name: "valid", id: "15", want: 15},
		{name: "zero", id: "0", wantErr: true},
		{name: "negative", id: "-3", wantErr: true},
		{name: "not a number", id: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/rooms/"+tt.id, nil)
			routeCtx := chi.NewRouteContext()
			routeCtx.URLParams.Add(constant.RequestParamID, tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

			got, err := shared.ParseID(req)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 10, limit: 0, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRoom struct {
		RoomNumber  string           `db:"room_number"`
		Capacity    int              `db:"capacity"`
		Price       *decimal.Decimal `db:"price_per_night"`
		IsAvailable *bool            `db:"is_available"`
		Description string           `db:"description"`
		Ignored     string           `db:"-"`
		NoTag       string
	}

	price := decimal.NewFromInt(95)
	unavailable := false

	result := shared.TransformFields(updateRoom{
		RoomNumber:  "305",
		Price:       &price,
		IsAvailable: &unavailable,
		Ignored:     "x",
		NoTag:       "y",
	}, "reception")

	assert.Equal(t, "305", result["room_number"])
	assert.Equal(t, price, result["price_per_night"])
	assert.Equal(t, false, result["is_available"])
	assert.NotContains(t, result, "capacity")
	assert.NotContains(t, result, "description")
	assert.NotContains(t, result, "-")
	assert.Equal(t, "reception", result[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, result[constant.FieldModifiedAt])
	assert.Len(t, result, 5)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID(int64(7), "id", "rooms")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(rooms.id = :id)", where)
	assert.Equal(t, map[string]any{"id": int64(7)}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "room:get:12", shared.BuildCacheKey("room", "get", int64(12)))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "room_number", SortDir: "ASC"}

	key := shared.BuildCacheKeyWithQuery("room:list", params, map[string]string{"type": "suite", "available": "true"})

	assert.Equal(t, "room:list:2:10:room_number:ASC::available=true:type=suite", key)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "room:*").Return(nil)
	mockCache.EXPECT().Clear(gomock.Any(), "occupancy:*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), mockCache, "room:", "occupancy:")
}

func TestIsPqError(t *testing.T) {
	uniqueErr := fmt.Errorf("insert room: %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation})

	assert.True(t, shared.IsPqError(uniqueErr, constant.PqErrorCodeUniqueViolation))
	assert.False(t, shared.IsPqError(uniqueErr, constant.PqErrorCodeFkViolation))
	assert.False(t, shared.IsPqError(errors.New("boom"), constant.PqErrorCodeUniqueViolation))
}
