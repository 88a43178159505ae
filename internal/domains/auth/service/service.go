package service

import (
	"context"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/otel"
	"hotel/internal/domains/auth/model/dto"
	staffModel "hotel/internal/domains/staff/model"
	staffDto "hotel/internal/domains/staff/model/dto"
	staffRepo "hotel/internal/domains/staff/repository"
	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/password"
	"hotel/shared/timezone"
	"strconv"

	"github.com/rs/zerolog/log"
)

var (
	errInvalidCredentials = failure.Unauthorized("invalid email or password")
	errInvalidRefresh     = failure.Unauthorized("invalid refresh token")
	errDeactivated        = failure.Forbidden("staff account is deactivated")
)

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, staffID int64) error
}

type serviceImpl struct {
	staffRepo  staffRepo.Staff
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(staffRepo staffRepo.Staff, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		staffRepo:  staffRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func subjectOf(staff staffModel.Staff) jwt.Subject {
	return jwt.Subject{StaffID: staff.ID, Email: staff.Email, Role: staff.Role}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := staffDto.EmailFilter(req.Email)

	staff, err := s.staffRepo.Get(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == 0 {
		log.Warn().Str("email", req.Email).Msg("login attempt with unknown email")

		return res, errInvalidCredentials
	}

	if err := password.Verify(req.Password, staff.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, errInvalidCredentials
	}

	if !staff.Active {
		return res, errDeactivated
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(subjectOf(staff))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()
	lastLogin := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now}, strconv.FormatInt(staff.ID, 10))

	if err := s.staffRepo.Update(ctx, lastLogin, filter); err != nil {
		log.Warn().Err(err).Int64("staff_id", staff.ID).Msg("failed to update last login")
	} else {
		staff.LastLogin = &now
	}

	res.FromTokenPair(tokenPair)
	res.Staff.FromModel(staff)

	return res, nil
}

// RefreshToken issues a new pair for a valid refresh token, re-reading the staff record
// so role changes and deactivation take effect.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, errInvalidRefresh
	}

	subject, err := claims.Identity()
	if err != nil {
		return res, errInvalidRefresh
	}

	staff, err := s.staffRepo.Get(ctx, shared.FilterByID(subject.StaffID, staffModel.FieldID, staffModel.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == 0 {
		return res, errInvalidRefresh
	}

	if !staff.Active {
		return res, errDeactivated
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(subjectOf(staff))
	if err != nil {
		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, staffID int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(staffID, staffModel.FieldID, staffModel.TableName)

	staff, err := s.staffRepo.Get(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == 0 {
		return failure.NotFound("staff not found") //nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, staff.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return failure.BadRequest(err) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	fields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, strconv.FormatInt(staffID, 10))

	if err = s.staffRepo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
