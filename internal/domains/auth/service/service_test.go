package service_test

import (
	"context"
	"errors"
	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel/mocks"
	"hotel/internal/domains/auth/model/dto"
	"hotel/internal/domains/auth/service"
	staffMocks "hotel/internal/domains/staff/mocks"
	staffModel "hotel/internal/domains/staff/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/password"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const secret = "front-desk-1"

type fixture struct {
	repo *staffMocks.MockStaff
	jwt  *jwtMocks.MockJWT
	svc  service.Auth
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo: staffMocks.NewMockStaff(ctrl),
		jwt:  jwtMocks.NewMockJWT(ctrl),
	}

	f.svc = service.New(f.repo, &config.Config{}, mocks.NewOtel(), f.jwt)

	return f
}

func receptionist(t *testing.T) staffModel.Staff {
	t.Helper()

	hash, err := password.Hash(secret)
	require.NoError(t, err)

	return staffModel.Staff{
		ID:       4,
		Email:    "desk@hotel.test",
		Password: hash,
		FullName: "Eva Novakova",
		Role:     constant.RoleReceptionist,
		Active:   true,
	}
}

func pair() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}
}

func TestAuthService_Login(t *testing.T) {
	staff := receptionist(t)

	inactive := staff
	inactive.Active = false

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "Desk@Hotel.test", Password: secret},
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (staffModel.Staff, error) {
						assert.Equal(t, "desk@hotel.test", filter.Filters[0].(gDto.Filter).Value)

						return staff, nil
					})
				f.jwt.EXPECT().
					GenerateTokenPair(jwt.Subject{StaffID: 4, Email: staff.Email, Role: constant.RoleReceptionist}).
					Return(pair(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login failure does not block login",
			req:  dto.LoginRequest{Email: staff.Email, Password: secret},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(pair(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@hotel.test", Password: secret},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffModel.Staff{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: staff.Email, Password: "wrong-password"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: staff.Email, Password: secret},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation failure",
			req:  dto.LoginRequest{Email: staff.Email, Password: secret},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(nil, errors.New("no secret"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, int64(4), res.Staff.ID)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	staff := receptionist(t)
	claims := &jwt.Claims{StaffID: "4", Email: staff.Email, Role: constant.RoleReceptionist, Type: jwt.RefreshToken}

	demoted := staff
	demoted.Active = false

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "rotates the pair",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(claims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(pair(), nil)
			},
		},
		{
			name: "expired token",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "malformed subject",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(&jwt.Claims{StaffID: "abc"}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "staff removed",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(claims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffModel.Staff{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "staff deactivated",
			setupMock: func(f fixture) {
				f.jwt.EXPECT().ValidateToken(gomock.Any(), gomock.Any()).Return(claims, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(demoted, nil)
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "refresh", res.RefreshToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	staff := receptionist(t)

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "changed",
			req:  dto.ChangePasswordRequest{CurrentPassword: secret, NewPassword: "night-shift-2"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						hash, ok := fields[staffModel.FieldPassword].(string)
						assert.True(t, ok)
						assert.NoError(t, password.Verify("night-shift-2", hash))
						assert.Equal(t, "4", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "night-shift-2"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staff, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "staff not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: secret, NewPassword: "night-shift-2"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(staffModel.Staff{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.ChangePassword(context.Background(), tt.req, 4)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
