package integration

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_Registration(t *testing.T) {
	requireDB(t)

	w := doJSON(t, http.MethodPost, "/users/register", "", map[string]string{
		"name": "root", "email": "root@example.com", "password": "pw", "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.MsgInvalidRole, errorMessage(t, w))

	registerUser(t, "ann", "ann@example.com", models.RoleStudent)

	w = doJSON(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "ann", "email": "ann@example.com", "password": "pw", "role": "student",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.MsgEmailTaken, errorMessage(t, w))
}

func TestIntegration_LoginWrongPassword(t *testing.T) {
	requireDB(t)

	registerUser(t, "ann", "ann@example.com", models.RoleStudent)

	w := doForm(t, "/users/login", "ann@example.com", "wrong")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.MsgInvalidLogin, errorMessage(t, w))

	w = doForm(t, "/auth/login", "ann@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doForm(t, "/auth/login", "ann@example.com", "password-ann")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIntegration_DeactivationRevokesToken(t *testing.T) {
	requireDB(t)

	admin := newAccount(t, "admin", models.RoleAdmin)
	student := newAccount(t, "student", models.RoleStudent)

	w := doJSON(t, http.MethodGet, "/users/me", student.token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, http.MethodPatch, "/users/"+strconv.Itoa(student.ID)+"/active", admin.token, map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, http.MethodGet, "/users/me", student.token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.MsgInvalidCredentials, errorMessage(t, w))

	w = doJSON(t, http.MethodPost, "/auth/login-json", "", map[string]string{"email": student.Email, "password": "password-student"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doForm(t, "/users/login", student.Email, "password-student")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.MsgInactiveUser, errorMessage(t, w))
}

func TestIntegration_Maintenance(t *testing.T) {
	requireDB(t)

	w := doJSON(t, http.MethodGet, "/admin/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := doJSONWithHeader(t, http.MethodPost, "/admin/migrate", "X-Migrate-Token", testConfig.Migration.Secret)
	assert.Equal(t, http.StatusOK, req.Code, req.Body.String())

	req = doJSONWithHeader(t, http.MethodGet, "/admin/tables", "X-Migrate-Token", testConfig.Migration.Secret)
	require.Equal(t, http.StatusOK, req.Code)
	assert.Contains(t, req.Body.String(), "enrollments")
}
