//go:build wireinject
// +build wireinject

package di

import (
	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/infras/redis"
	"hotel/infras/s3"
	"hotel/permissions"
	"hotel/shared/cache"
	"hotel/transport/http"
	"hotel/transport/http/middleware"
	"hotel/transport/http/router"

	"github.com/google/wire"

	authService "hotel/internal/domains/auth/service"
	availabilityService "hotel/internal/domains/availability/service"
	customerRepository "hotel/internal/domains/customer/repository"
	customerService "hotel/internal/domains/customer/service"
	occupancyService "hotel/internal/domains/occupancy/service"
	reservationRepository "hotel/internal/domains/reservation/repository"
	reservationService "hotel/internal/domains/reservation/service"
	roomRepository "hotel/internal/domains/room/repository"
	roomService "hotel/internal/domains/room/service"
	staffRepository "hotel/internal/domains/staff/repository"
	staffService "hotel/internal/domains/staff/service"

	authHandler "hotel/internal/handlers/auth"
	availabilityHandler "hotel/internal/handlers/availability"
	customerHandler "hotel/internal/handlers/customer"
	healthHandler "hotel/internal/handlers/health"
	occupancyHandler "hotel/internal/handlers/occupancy"
	reservationHandler "hotel/internal/handlers/reservation"
	roomHandler "hotel/internal/handlers/room"
	staffHandler "hotel/internal/handlers/staff"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var repositories = wire.NewSet(
	roomRepository.New,
	customerRepository.New,
	reservationRepository.New,
	staffRepository.New,
)

var domains = wire.NewSet(
	roomService.New,
	customerService.New,
	reservationService.New,
	availabilityService.New,
	occupancyService.New,
	staffService.New,
	authService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	staffHandler.New,
	roomHandler.New,
	availabilityHandler.New,
	customerHandler.New,
	reservationHandler.New,
	occupancyHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
