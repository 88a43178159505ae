package occupancy

import (
	"hotel/infras/otel"
	"hotel/internal/domains/occupancy/model/dto"
	"hotel/internal/domains/occupancy/service"
	"hotel/shared/constant"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Occupancy
	otel    otel.Otel
}

func New(service service.Occupancy, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/occupancy", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetOccupancy)
		routerGroup.Get("/current", handler.GetCurrentOccupancy)
		routerGroup.Get("/range", handler.GetRangeOccupancy)
		routerGroup.Get("/series", handler.GetOccupancySeries)
		routerGroup.Post("/series/export", handler.ExportOccupancySeries)
	})
}

func rangeFromQuery(r *http.Request) (dto.RangeRequest, error) {
	req := dto.RangeRequest{
		Start: r.URL.Query().Get(constant.RequestParamStart),
		End:   r.URL.Query().Get(constant.RequestParamEnd),
	}

	return req, validator.ValidateStruct(&req)
}

// @Summary Occupancy today
// @Tags Occupancy
// @Produce json
// @Success 200 {object} response.Data[dto.OccupancyResponse]
// @Router /v1/occupancy/current [get]
// @Security BearerAuth
func (handler *Handler) GetCurrentOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCurrentOccupancy")
	defer scope.End()

	res, err := handler.service.Current(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute current occupancy")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetOccupancy reports the rooms held on the night of date.
// @Summary Occupancy on a date
// @Tags Occupancy
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.OccupancyResponse]
// @Failure 400 {object} response.Error
// @Router /v1/occupancy [get]
// @Security BearerAuth
func (handler *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancy")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)

	if err := validator.ValidateVar(date, "required,date"); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.OnDate(ctx, date)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// @Summary Occupancy over a range
// @Tags Occupancy
// @Produce json
// @Param start query string true "First day (YYYY-MM-DD)"
// @Param end query string true "Day after the last (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.RangeResponse]
// @Failure 400 {object} response.Error
// @Router /v1/occupancy/range [get]
// @Security BearerAuth
func (handler *Handler) GetRangeOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRangeOccupancy")
	defer scope.End()

	req, err := rangeFromQuery(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Range(ctx, req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// @Summary Daily occupancy series
// @Tags Occupancy
// @Produce json
// @Param start query string true "First day (YYYY-MM-DD)"
// @Param end query string true "Last day, inclusive (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.SeriesResponse]
// @Failure 400 {object} response.Error
// @Router /v1/occupancy/series [get]
// @Security BearerAuth
func (handler *Handler) GetOccupancySeries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancySeries")
	defer scope.End()

	req, err := rangeFromQuery(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Series(ctx, req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ExportOccupancySeries uploads the daily series as CSV to object storage.
// @Summary Export occupancy series
// @Tags Occupancy
// @Accept json
// @Produce json
// @Param request body dto.RangeRequest true "Range"
// @Success 201 {object} response.Data[dto.ExportResponse]
// @Failure 400 {object} response.Error
// @Router /v1/occupancy/series/export [post]
// @Security BearerAuth
func (handler *Handler) ExportOccupancySeries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportOccupancySeries")
	defer scope.End()

	req := dto.RangeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.ExportSeries(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("start", req.Start).Str("end", req.End).Msg("failed to export occupancy series")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Occupancy report uploaded: " + res.ObjectName)

	response.WithJSON(w, http.StatusCreated, res)
}
