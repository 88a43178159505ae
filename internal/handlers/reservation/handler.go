package reservation

import (
	"hotel/infras/otel"
	"hotel/internal/domains/reservation/model"
	"hotel/internal/domains/reservation/model/dto"
	"hotel/internal/domains/reservation/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/quote", handler.QuoteReservation)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Patch("/{id}", handler.UpdateReservation)
		routerGroup.Patch("/{id}/status", handler.UpdateReservationStatus)
		routerGroup.Delete("/{id}", handler.DeleteReservation)
	})
}

// int64Queries reads the named integer query parameters, stopping at the first malformed one.
func int64Queries(r *http.Request, names ...string) ([]int64, error) {
	values := make([]int64, len(names))

	for i, name := range names {
		value, err := shared.QueryInt64(r, name)
		if err != nil {
			return nil, err
		}

		values[i] = value
	}

	return values, nil
}

// CreateReservation books a room. The room is locked while its calendar is checked.
// @Summary Create a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Reservation"
// @Success 201 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("room_id", req.RoomID).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation created by staff " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetReservations lists reservations, newest check-in first.
// @Summary Get all reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query integer false "Room"
// @Param customer_id query integer false "Customer"
// @Param status query string false "Status"
// @Param with_details query boolean false "Include room and customer"
// @Success 200 {object} response.Data[dto.GetReservationsResponse]
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	ids, err := int64Queries(r, constant.RequestParamRoomID, constant.RequestParamCustomerID)
	if err != nil {
		response.WithError(w, err)

		return
	}

	filter := dto.Filter{
		RoomID:     ids[0],
		CustomerID: ids[1],
		Status:     model.Status(r.URL.Query().Get(constant.RequestParamStatus)),
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		response.WithError(w, failure.BadRequestf("unknown status %q", filter.Status))

		return
	}

	withDetails, err := shared.QueryBool(r, constant.RequestParamWithDetails)
	if err != nil {
		response.WithError(w, err)

		return
	}

	if withDetails != nil {
		filter.WithDetails = *withDetails
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// QuoteReservation previews the price of a stay and whether the room is free for it.
// @Summary Quote a stay
// @Tags Reservation
// @Produce json
// @Param room_id query integer true "Room"
// @Param check_in query string true "First night (YYYY-MM-DD)"
// @Param check_out query string true "Departure day (YYYY-MM-DD)"
// @Param exclude_reservation_id query integer false "Reservation being edited"
// @Success 200 {object} response.Data[dto.QuoteResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reservations/quote [get]
// @Security BearerAuth
func (handler *Handler) QuoteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".QuoteReservation")
	defer scope.End()

	ids, err := int64Queries(r, constant.RequestParamRoomID, constant.RequestParamExcludeReservationID)
	if err != nil {
		response.WithError(w, err)

		return
	}

	roomID, excludeReservationID := ids[0], ids[1]
	if roomID <= 0 {
		response.WithError(w, failure.BadRequestFromString("room_id is required"))

		return
	}

	query := r.URL.Query()

	res, err := handler.service.Quote(
		ctx,
		roomID,
		query.Get(constant.RequestParamCheckIn),
		query.Get(constant.RequestParamCheckOut),
		excludeReservationID,
	)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	id, err := shared.ParseID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateReservation moves a stay to other dates or another room and reprices it.
// @Summary Update a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Changes"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservation")
	defer scope.End()

	id, err := shared.ParseID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateReservationStatus moves a reservation through its lifecycle.
// @Summary Change reservation status
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body dto.UpdateStatusRequest true "Status"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservationStatus")
	defer scope.End()

	id, err := shared.ParseID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateStatus(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Str("status", string(req.Status)).Msg("failed to change reservation status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// @Summary Delete a reservation
// @Tags Reservation
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReservation")
	defer scope.End()

	id, err := shared.ParseID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation deleted by staff " + user)

	response.WithMessage(w, http.StatusOK, "Reservation deleted successfully")
}
