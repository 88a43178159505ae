package availability

import (
	"hotel/infras/otel"
	"hotel/internal/domains/availability/model/dto"
	"hotel/internal/domains/availability/service"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router registers /rooms/available on the parent so it is matched before /rooms/{id}.
func (handler *Handler) Router(router chi.Router) {
	router.Get("/rooms/available", handler.GetAvailableRooms)
}

// GetAvailableRooms lists the rooms that can take a stay from check_in to check_out.
// @Summary Find available rooms
// @Tags Availability
// @Produce json
// @Param check_in query string true "First night (YYYY-MM-DD)"
// @Param check_out query string true "Departure day (YYYY-MM-DD)"
// @Param exclude_reservation_id query integer false "Reservation being edited"
// @Param room_type query string false "Room type"
// @Param capacity query integer false "Minimum capacity"
// @Success 200 {object} response.Data[dto.AvailableRoomsResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/available [get]
// @Security BearerAuth
func (handler *Handler) GetAvailableRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRooms")
	defer scope.End()

	query := r.URL.Query()

	req := dto.AvailableRoomsRequest{
		CheckInDate:  query.Get(constant.RequestParamCheckIn),
		CheckOutDate: query.Get(constant.RequestParamCheckOut),
		RoomType:     roomModel.Type(query.Get(roomModel.FieldRoomType)),
	}

	exclude, err := shared.QueryInt64(r, constant.RequestParamExcludeReservationID)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	capacity, err := shared.QueryInt64(r, roomModel.FieldCapacity)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req.ExcludeReservationID = exclude
	req.MinCapacity = int(capacity)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.FindAvailableRooms(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("check_in", req.CheckInDate).Str("check_out", req.CheckOutDate).Msg("failed to find available rooms")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("rooms.available", len(res.Rooms))

	response.WithJSON(w, http.StatusOK, res)
}
