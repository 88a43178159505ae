package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/customer/model"
	"hotel/internal/domains/customer/model/dto"
	"hotel/internal/domains/customer/repository"
	reservationModel "hotel/internal/domains/reservation/model"
	reservationRepository "hotel/internal/domains/reservation/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCustomer    = constant.CachePrefixCustomer + ":get"
	cacheGetAllCustomer = constant.CachePrefixCustomer + ":gets"
)

type Customer interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (int64, error)
	GetAll(ctx context.Context, req gDto.QueryParams) (dto.GetCustomersResponse, error)
	Get(ctx context.Context, id int64) (dto.CustomerResponse, error)
	Update(ctx context.Context, req dto.UpdateCustomerRequest, id int64) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo            repository.Customer
	reservationRepo reservationRepository.Reservation
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.Customer,
	reservationRepo reservationRepository.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Customer {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCustomerRequest) (id int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".customer.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	id, err = s.repo.Insert(ctx, req.ToModel(user))
	if err != nil {
		log.Error().Err(err).Msg("failed to create customer")

		return 0, fmt.Errorf("failed to create customer: %w", err)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllCustomer)

	return id, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams) (res dto.GetCustomersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".customer.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(s.repo.SortableColumns()...)
	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = model.FieldLastName, gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCustomer, req, nil)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for customers")

		return res, nil
	}

	filter := dto.SearchFilter(req.Search)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count customers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get customers")

		return res, fmt.Errorf("failed to get customers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save customers to cache")
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".customer.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetCustomer, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	customer, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get customer: %w", err)
	}

	if customer.ID == 0 {
		return res, failure.NotFound("customer not found") //nolint:wrapcheck
	}

	res.FromModel(customer)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save customer to cache")
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCustomerRequest, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".customer.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check customer existence: %w", err)
	}

	if !exist {
		return failure.NotFound("customer not found") //nolint:wrapcheck
	}

	req.Normalize()

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to update customer")

		return fmt.Errorf("failed to update customer: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete refuses to remove a customer that any reservation still references.
func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".customer.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check if customer exists: %w", err)
	}

	if !exist {
		return failure.NotFound("customer not found") //nolint:wrapcheck
	}

	referenced, err := s.reservationRepo.Exist(ctx, shared.FilterByID(id, reservationModel.FieldCustomerID, reservationModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check customer reservations: %w", err)
	}

	if referenced {
		return failure.Conflict("customer has reservations and cannot be deleted") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict("customer has reservations and cannot be deleted") //nolint:wrapcheck
		}

		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// invalidate also drops reservation listings, which embed the customer's name.
func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetCustomer, id)); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete customer cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllCustomer, constant.CachePrefixReservation)
}
