package service_test

import (
	"context"
	"errors"
	"hotel/config"
	"hotel/infras/otel/mocks"
	"hotel/internal/domains/availability/model/dto"
	"hotel/internal/domains/availability/service"
	reservationMocks "hotel/internal/domains/reservation/mocks"
	reservationModel "hotel/internal/domains/reservation/model"
	roomMocks "hotel/internal/domains/room/mocks"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared/failure"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func june(day int) time.Time {
	return time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC)
}

func rooms() []roomModel.Room {
	all := make([]roomModel.Room, 0, 5)
	for id := int64(1); id <= 5; id++ {
		all = append(all, roomModel.Room{ID: id, PricePerNight: decimal.NewFromInt(100), IsAvailable: true})
	}

	all[3].IsAvailable = false

	return all
}

func ids(res dto.AvailableRoomsResponse) []int64 {
	out := make([]int64, 0, len(res.Rooms))
	for _, room := range res.Rooms {
		out = append(out, room.ID)
	}

	return out
}

func TestAvailabilityService_FindAvailableRooms(t *testing.T) {
	held := []reservationModel.Reservation{
		{ID: 7, RoomID: 2, CheckInDate: june(2), CheckOutDate: june(6), Status: reservationModel.StatusConfirmed},
		{ID: 8, RoomID: 3, CheckInDate: june(1), CheckOutDate: june(9), Status: reservationModel.StatusCheckedIn},
	}

	tests := []struct {
		name      string
		policy    string
		req       dto.AvailableRoomsRequest
		setupMock func(room *roomMocks.MockRoom, reservation *reservationMocks.MockReservation)
		wantIDs   []int64
		wantCode  int
	}{
		{
			name: "booked and disabled rooms are left out",
			req:  dto.AvailableRoomsRequest{CheckInDate: "2025-06-03", CheckOutDate: "2025-06-05"},
			setupMock: func(room *roomMocks.MockRoom, reservation *reservationMocks.MockReservation) {
				room.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rooms(), nil)
				reservation.EXPECT().GetOverlapping(gomock.Any(), june(3), june(5)).Return(held, nil)
			},
			wantIDs: []int64{1, 5},
		},
		{
			name: "editing a reservation offers its own room back",
			req:  dto.AvailableRoomsRequest{CheckInDate: "2025-06-03", CheckOutDate: "2025-06-05", ExcludeReservationID: 7},
			setupMock: func(room *roomMocks.MockRoom, reservation *reservationMocks.MockReservation) {
				reservation.EXPECT().Get(gomock.Any(), gomock.Any()).Return(held[0], nil)
				room.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rooms(), nil)
				reservation.EXPECT().GetOverlapping(gomock.Any(), gomock.Any(), gomock.Any()).Return(held, nil)
			},
			wantIDs: []int64{1, 2, 5},
		},
		{
			name:   "if_free re-adds a disabled assigned room",
			policy: "if_free",
			req:    dto.AvailableRoomsRequest{CheckInDate: "2025-06-03", CheckOutDate: "2025-06-05", ExcludeReservationID: 9},
			setupMock: func(room *roomMocks.MockRoom, reservation *reservationMocks.MockReservation) {
				reservation.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{ID: 9, RoomID: 4}, nil)
				room.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rooms(), nil)
				reservation.EXPECT().GetOverlapping(gomock.Any(), gomock.Any(), gomock.Any()).Return(held, nil)
			},
			wantIDs: []int64{1, 4, 5},
		},
		{
			name:   "none keeps a disabled assigned room out",
			policy: "none",
			req:    dto.AvailableRoomsRequest{CheckInDate: "2025-06-03", CheckOutDate: "2025-06-05", ExcludeReservationID: 9},
			setupMock: func(room *roomMocks.MockRoom, reservation *reservationMocks.MockReservation) {
				reservation.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{ID: 9, RoomID: 4}, nil)
				room.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rooms(), nil)
				reservation.EXPECT().GetOverlapping(gomock.Any(), gomock.Any(), gomock.Any()).Return(held, nil)
			},
			wantIDs: []int64{1, 5},
		},
		{
			name: "unknown excluded reservation",
			req:  dto.AvailableRoomsRequest{CheckInDate: "2025-06-03", CheckOutDate: "2025-06-05", ExcludeReservationID: 99},
			setupMock: func(_ *roomMocks.MockRoom, reservation *reservationMocks.MockReservation) {
				reservation.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservationModel.Reservation{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "invalid range",
			req:       dto.AvailableRoomsRequest{CheckInDate: "2025-06-05", CheckOutDate: "2025-06-05"},
			setupMock: func(*roomMocks.MockRoom, *reservationMocks.MockReservation) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "store error",
			req:  dto.AvailableRoomsRequest{CheckInDate: "2025-06-03", CheckOutDate: "2025-06-05"},
			setupMock: func(room *roomMocks.MockRoom, _ *reservationMocks.MockReservation) {
				room.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			roomRepo := roomMocks.NewMockRoom(ctrl)
			reservationRepo := reservationMocks.NewMockReservation(ctrl)

			cfg := &config.Config{}
			cfg.App.AssignedRoomPolicy = tt.policy

			svc := service.New(roomRepo, reservationRepo, cfg, mocks.NewOtel())
			tt.setupMock(roomRepo, reservationRepo)

			res, err := svc.FindAvailableRooms(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(res))
			assert.Equal(t, 2, res.Nights)

			for _, room := range res.Rooms {
				assert.Equal(t, "200", room.TotalPrice.String())
			}
		})
	}
}

func TestAvailabilityService_TracesErrors(t *testing.T) {
	const span = "service.availability.FindAvailableRooms"

	ctrl := gomock.NewController(t)
	recorder := mocks.NewRecorder()

	svc := service.New(roomMocks.NewMockRoom(ctrl), reservationMocks.NewMockReservation(ctrl), &config.Config{}, recorder)

	_, err := svc.FindAvailableRooms(context.Background(), dto.AvailableRoomsRequest{CheckInDate: "2025-06-05", CheckOutDate: "2025-06-03"})
	require.Error(t, err)

	traced := recorder.Errors(span)
	require.Len(t, traced, 1)
	assert.ErrorIs(t, traced[0], err)
}
