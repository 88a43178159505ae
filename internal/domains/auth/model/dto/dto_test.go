package dto_test

import (
	"hotel/infras/jwt"
	"hotel/internal/domains/auth/model/dto"
	"hotel/shared"
	"hotel/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var res dto.LoginResponse
	res.FromTokenPair(tokenPair)

	assert.Equal(t, "access", res.AccessToken)
	assert.Equal(t, "refresh", res.RefreshToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(900), res.ExpiresIn)
}

func TestUpdatePasswordRequest_OnlyTouchesPassword(t *testing.T) {
	fields := shared.TransformFields(dto.UpdatePasswordRequest{Password: "hash"}, "7")

	assert.Equal(t, "hash", fields["password"])
	assert.Equal(t, "7", fields[constant.FieldModifiedBy])
	assert.Len(t, fields, 3)
}
