package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	"hotel/internal/domains/occupancy/model/dto"
	reservationModel "hotel/internal/domains/reservation/model"
	reservationDto "hotel/internal/domains/reservation/model/dto"
	reservationRepository "hotel/internal/domains/reservation/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	"hotel/internal/engine"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheDay    = constant.CachePrefixOccupancy + ":day"
	cacheRange  = constant.CachePrefixOccupancy + ":range"
	cacheSeries = constant.CachePrefixOccupancy + ":series"

	reportDirectory = "reports/occupancy"
)

type Occupancy interface {
	Current(ctx context.Context) (dto.OccupancyResponse, error)
	OnDate(ctx context.Context, date string) (dto.OccupancyResponse, error)
	Range(ctx context.Context, req dto.RangeRequest) (dto.RangeResponse, error)
	Series(ctx context.Context, req dto.RangeRequest) (dto.SeriesResponse, error)
	ExportSeries(ctx context.Context, req dto.RangeRequest) (dto.ExportResponse, error)
}

type serviceImpl struct {
	roomRepo        roomRepository.Room
	reservationRepo reservationRepository.Reservation
	cfg             *config.Config
	cache           cache.RedisCache
	s3              s3.S3
	otel            otel.Otel
}

func New(
	roomRepo roomRepository.Room,
	reservationRepo reservationRepository.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	s3 s3.S3,
	otel otel.Otel,
) Occupancy {
	return &serviceImpl{
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
		cache:           cache,
		s3:              s3,
		otel:            otel,
	}
}

// snapshot loads every room and the active reservations intersecting [start, end).
func (s *serviceImpl) snapshot(ctx context.Context, start, end time.Time) ([]roomModel.Room, []reservationModel.Reservation, error) {
	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	reservations, err := s.reservationRepo.GetOverlapping(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get reservations: %w", err)
	}

	return rooms, reservations, nil
}

func (s *serviceImpl) cached(ctx context.Context, key string, value any) bool {
	if err := s.cache.Get(ctx, key, value); err != nil {
		return false
	}

	log.Info().Str("cacheKey", key).Msg("cache hit for occupancy")

	return true
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if err := s.cache.Save(ctx, key, value, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save occupancy to cache")
	}
}

func (s *serviceImpl) Current(ctx context.Context) (dto.OccupancyResponse, error) {
	return s.OnDate(ctx, timezone.Today().Format(constant.DateFormat))
}

func (s *serviceImpl) OnDate(ctx context.Context, date string) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.OnDate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := timezone.ParseDate(date)
	if err != nil {
		return res, failure.BadRequestf("invalid date %q", date) //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheDay, date)
	if s.cached(ctx, cacheKey, &res) {
		return res, nil
	}

	period := engine.SingleDay(day)

	rooms, reservations, err := s.snapshot(ctx, period.Start, period.End)
	if err != nil {
		return res, err
	}

	res.FromStats(engine.ComputeOccupancy(rooms, reservations, day))
	s.save(ctx, cacheKey, res)

	return res, nil
}

// Range counts the rooms held at any point of [start, end).
func (s *serviceImpl) Range(ctx context.Context, req dto.RangeRequest) (res dto.RangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.Range")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	period, err := reservationDto.Stay(req.Start, req.End)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheRange, req.Start, req.End)
	if s.cached(ctx, cacheKey, &res) {
		return res, nil
	}

	rooms, reservations, err := s.snapshot(ctx, period.Start, period.End)
	if err != nil {
		return res, err
	}

	stats, err := engine.ComputeRangeOccupancy(rooms, reservations, period.Start, period.End)
	if err != nil {
		return res, err
	}

	res.FromStats(stats)
	res.End = period.End.Format(constant.DateFormat)
	s.save(ctx, cacheKey, res)

	return res, nil
}

// Series returns one entry per day from start to end inclusive.
func (s *serviceImpl) Series(ctx context.Context, req dto.RangeRequest) (res dto.SeriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.Series")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	start, errStart := timezone.ParseDate(req.Start)
	end, errEnd := timezone.ParseDate(req.End)

	if errStart != nil || errEnd != nil || end.Before(start) {
		return res, engine.ErrInvalidDateRange
	}

	if days := engine.Nights(start, end) + 1; s.cfg.App.MaxSeriesDays > 0 && days > s.cfg.App.MaxSeriesDays {
		return res, failure.BadRequestf("occupancy series is limited to %d days", s.cfg.App.MaxSeriesDays) //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheSeries, req.Start, req.End)
	if s.cached(ctx, cacheKey, &res) {
		return res, nil
	}

	rooms, reservations, err := s.snapshot(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return res, err
	}

	series, err := engine.ComputeOccupancySeries(rooms, reservations, start, end)
	if err != nil {
		return res, err
	}

	res.FromStats(series)
	s.save(ctx, cacheKey, res)

	return res, nil
}

// ExportSeries uploads the series as a CSV report and returns where it can be downloaded.
func (s *serviceImpl) ExportSeries(ctx context.Context, req dto.RangeRequest) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".occupancy.ExportSeries")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	series, err := s.Series(ctx, req)
	if err != nil {
		return res, err
	}

	data, err := series.CSV()
	if err != nil {
		return res, err
	}

	objectName := fmt.Sprintf("occupancy_%s_%s_%s.csv", req.Start, req.End, uuid.NewString())

	url, err := s.s3.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, reportDirectory, objectName, constant.ContentTypeCSV, data)
	if err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("failed to upload occupancy report")

		return res, fmt.Errorf("failed to upload occupancy report: %w", err)
	}

	return dto.ExportResponse{URL: url, ObjectName: objectName, Days: len(series.Days)}, nil
}
