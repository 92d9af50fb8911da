package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	user := &User{ID: 1, Name: "Ann", Email: "ann@example.com", PasswordHash: "secret-hash", Role: RoleStudent, IsActive: true}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret-hash")
	assert.Equal(t, UserResponse{ID: 1, Name: "Ann", Email: "ann@example.com", Role: RoleStudent, IsActive: true}, user.ToResponse())
}

func TestUpdateCourseRequest_IsEmpty(t *testing.T) {
	var req UpdateCourseRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.True(t, req.IsEmpty())

	require.NoError(t, json.Unmarshal([]byte(`{"is_active": false}`), &req))
	assert.False(t, req.IsEmpty())
	require.NotNil(t, req.IsActive)
	assert.False(t, *req.IsActive)
	assert.Nil(t, req.Title)
	assert.Nil(t, req.Capacity)
}

func TestPrincipal_IsAdmin(t *testing.T) {
	assert.True(t, (&Principal{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&Principal{Role: RoleStudent}).IsAdmin())
}
