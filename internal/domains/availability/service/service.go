package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/availability/model/dto"
	reservationModel "hotel/internal/domains/reservation/model"
	reservationDto "hotel/internal/domains/reservation/model/dto"
	reservationRepository "hotel/internal/domains/reservation/repository"
	roomModel "hotel/internal/domains/room/model"
	roomDto "hotel/internal/domains/room/model/dto"
	roomRepository "hotel/internal/domains/room/repository"
	"hotel/internal/engine"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	FindAvailableRooms(ctx context.Context, req dto.AvailableRoomsRequest) (dto.AvailableRoomsResponse, error)
}

type serviceImpl struct {
	roomRepo        roomRepository.Room
	reservationRepo reservationRepository.Reservation
	policy          engine.AssignedRoomPolicy
	otel            otel.Otel
}

func New(roomRepo roomRepository.Room, reservationRepo reservationRepository.Reservation, cfg *config.Config, otel otel.Otel) Availability {
	policy, err := engine.ParseAssignedRoomPolicy(cfg.App.AssignedRoomPolicy)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to assigned room policy none")
	}

	return &serviceImpl{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		policy:          policy,
		otel:            otel,
	}
}

// FindAvailableRooms loads every room and the active reservations intersecting the stay,
// then lets the engine pick the free ones. With ExcludeReservationID set the edited
// reservation never conflicts with itself and its current room follows the configured policy.
func (s *serviceImpl) FindAvailableRooms(ctx context.Context, req dto.AvailableRoomsRequest) (res dto.AvailableRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.FindAvailableRooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	stay, err := reservationDto.Stay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return res, err
	}

	var opts []engine.Option

	if req.ExcludeReservationID != 0 {
		edited, err := s.reservationRepo.Get(ctx, shared.FilterByID(req.ExcludeReservationID, reservationModel.FieldID, reservationModel.TableName))
		if err != nil {
			return res, fmt.Errorf("failed to get reservation: %w", err)
		}

		if edited.ID == 0 {
			return res, failure.NotFound("reservation not found") //nolint:wrapcheck
		}

		opts = append(opts, engine.WithAssignedRoom(edited.RoomID, s.policy))
	}

	filter := roomDto.Filter{RoomType: req.RoomType, MinCapacity: req.MinCapacity}
	params := gDto.QueryParams{SortBy: roomModel.FieldRoomNumber, SortDir: gDto.SortDirAsc}

	rooms, err := s.roomRepo.GetAll(ctx, params, filter.ToFilterGroup(constant.Empty))
	if err != nil {
		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	reservations, err := s.reservationRepo.GetOverlapping(ctx, stay.Start, stay.End)
	if err != nil {
		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	available, err := engine.FindAvailableRooms(rooms, reservations, stay.Start, stay.End, req.ExcludeReservationID, opts...)
	if err != nil {
		return res, err
	}

	scope.SetAttributes(map[string]any{
		"stay.check_in":  stay.Start,
		"stay.check_out": stay.End,
		"rooms.total":    len(rooms),
		"rooms.free":     len(available),
	})

	log.Debug().
		Str("check_in", req.CheckInDate).
		Str("check_out", req.CheckOutDate).
		Int("rooms", len(rooms)).
		Int("available", len(available)).
		Msg("resolved available rooms")

	err = res.FromRooms(available, stay)

	return res, err
}
