package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/courseenroll/backend/internal/models"
	"github.com/stretchr/testify/require"
)

// doJSON sends a request with an optional JSON body and bearer token
func doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

// doForm sends a form-encoded login request
func doForm(t *testing.T, path, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

// errorMessage returns the "error" field of a JSON error body
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

// registerUser registers an account and returns it
func registerUser(t *testing.T, name, email string, role models.Role) models.UserResponse {
	t.Helper()

	w := doJSON(t, http.MethodPost, "/users/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password-" + name,
		"role":     string(role),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user models.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	return user
}

// loginUser logs in through the JSON endpoint and returns the access token
func loginUser(t *testing.T, name, email string) string {
	t.Helper()

	w := doJSON(t, http.MethodPost, "/auth/login-json", "", map[string]string{
		"email":    email,
		"password": "password-" + name,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	require.Equal(t, models.TokenTypeBearer, token.TokenType)
	return token.AccessToken
}

// account is a registered user with a live token
type account struct {
	models.UserResponse
	token string
}

func newAccount(t *testing.T, name string, role models.Role) account {
	t.Helper()
	email := name + "@example.com"
	user := registerUser(t, name, email, role)
	return account{UserResponse: user, token: loginUser(t, name, email)}
}

// createCourse creates a course as the given admin
func createCourse(t *testing.T, admin account, title, code string, capacity int) models.Course {
	t.Helper()

	w := doJSON(t, http.MethodPost, "/courses/", admin.token, map[string]any{
		"title":    title,
		"code":     code,
		"capacity": capacity,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))
	return course
}

// enrollmentCount counts the stored enrollments of a course
func enrollmentCount(t *testing.T, courseID int) int {
	t.Helper()
	var count int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM enrollments WHERE course_id = ?", courseID).Scan(&count))
	return count
}

// doJSONWithHeader sends a bodiless request carrying one extra header
func doJSONWithHeader(t *testing.T, method, path, header, value string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(header, value)

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}
