package service_test

import (
	"context"
	"errors"
	"hotel/config"
	"hotel/infras/otel/mocks"
	reservationMocks "hotel/internal/domains/reservation/mocks"
	roomMocks "hotel/internal/domains/room/mocks"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/service"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo            *roomMocks.MockRoom
	reservationRepo *reservationMocks.MockReservation
	cache           *cacheMocks.MockRedisCache
	svc             service.Room
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:            roomMocks.NewMockRoom(ctrl),
		reservationRepo: reservationMocks.NewMockReservation(ctrl),
		cache:           cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.reservationRepo, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func suite() model.Room {
	return model.Room{
		ID:            201,
		RoomNumber:    "201",
		RoomType:      model.TypeSuite,
		Capacity:      3,
		PricePerNight: decimal.NewFromInt(200),
		IsAvailable:   true,
		Metadata:      gModel.NewMetadata(timezone.Now(), "1"),
	}
}

func TestRoomService_Create(t *testing.T) {
	price := decimal.NewFromInt(80)
	req := dto.CreateRoomRequest{
		RoomNumber:    "101",
		RoomType:      model.TypeSingle,
		Capacity:      1,
		PricePerNight: &price,
	}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantID    int64
		wantCode  int
	}{
		{
			name: "created and available by default",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) (int64, error) {
						assert.True(t, room.IsAvailable)
						assert.Equal(t, "7", room.CreatedBy)
						assert.True(t, room.PricePerNight.Equal(price))

						return 101, nil
					})
			},
			wantID: 101,
		},
		{
			name: "room number taken",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unique violation from a concurrent insert",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(int64(0), &pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "7")
			id, err := f.svc.Create(ctx, req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	available := true

	tests := []struct {
		name      string
		params    gDto.QueryParams
		filter    dto.Filter
		setupMock func(f fixture)
		wantErr   bool
		wantTotal int
		wantPages int
	}{
		{
			name:   "cache miss loads from store",
			params: gDto.QueryParams{Page: 1, Limit: 1, SortBy: "nope"},
			filter: dto.Filter{RoomType: model.TypeSuite, IsAvailable: &available},
			setupMock: func(f fixture) {
				f.repo.EXPECT().SortableColumns().Return([]string{"id", "room_number"})
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Room, error) {
						assert.Equal(t, model.FieldRoomNumber, params.SortBy)
						assert.Equal(t, gDto.SortDirAsc, params.SortDir)
						assert.Len(t, filter.Filters, 2)

						return []model.Room{suite()}, nil
					})
			},
			wantTotal: 2,
			wantPages: 2,
		},
		{
			name:   "count error",
			params: gDto.QueryParams{Page: 1, Limit: 10},
			setupMock: func(f fixture) {
				f.repo.EXPECT().SortableColumns().Return([]string{"id"})
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("count error"))
			},
			wantErr: true,
		},
		{
			name:   "get all error",
			params: gDto.QueryParams{Page: 1, Limit: 10},
			setupMock: func(f fixture) {
				f.repo.EXPECT().SortableColumns().Return([]string{"id"})
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("get all error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			result, err := f.svc.GetAll(context.Background(), tt.params, tt.filter)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.TotalData)
			assert.Equal(t, tt.wantPages, result.TotalPage)
			assert.Len(t, result.Rooms, 1)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "cache hit",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "room:get:201", gomock.Any()).Return(nil)
			},
		},
		{
			name: "cache miss",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(suite(), nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Get(context.Background(), 201)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	capacity := 4
	disabled := false

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "partial update",
			req:  dto.UpdateRoomRequest{Capacity: &capacity, IsAvailable: &disabled, RoomNumber: "201"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(suite(), nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, 4, fields[model.FieldCapacity])
						assert.Equal(t, false, fields[model.FieldIsAvailable])
						assert.NotContains(t, fields, model.FieldRoomNumber)

						return nil
					})
			},
		},
		{
			name: "not found",
			req:  dto.UpdateRoomRequest{Capacity: &capacity},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "renumber onto a taken number",
			req:  dto.UpdateRoomRequest{RoomNumber: "101"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(suite(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "update error",
			req:  dto.UpdateRoomRequest{Capacity: &capacity},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(suite(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.req, 201)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "deleted",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.reservationRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "referenced by a reservation",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.reservationRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
						where, args := filter.GetWhereClause()
						assert.Equal(t, "(reservations.room_id = :room_id)", where)
						assert.Equal(t, int64(201), args["room_id"])

						return true, nil
					})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "foreign key violation",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.reservationRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), 201)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
