package permissions_test

import (
	"hotel/permissions"
	"hotel/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_EmbeddedPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name      string
		path      string
		method    string
		wantSkip  bool
		wantRoles []string
	}{
		{name: "login is public", path: "/v1/auth/login", method: "POST", wantSkip: true},
		{name: "health is public", path: "/health", method: "GET", wantSkip: true},
		{name: "staff admin only", path: "/v1/staff", method: "GET", wantRoles: []string{constant.RoleAdmin}},
		{
			name:      "availability for the desk",
			path:      "/v1/rooms/available",
			method:    "GET",
			wantRoles: []string{constant.RoleAdmin, constant.RoleReceptionist},
		},
		{name: "room delete admin only", path: "/v1/rooms/{id}", method: "delete", wantRoles: []string{constant.RoleAdmin}},
		{name: "unknown route", path: "/v1/unknown", method: "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantSkip, permission.Skip)
			assert.Equal(t, tt.wantRoles, permission.Permissions)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := permissions.Parse([]byte("{"))

	assert.Error(t, err)
}
