package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_CourseLifecycle(t *testing.T) {
	requireDB(t)

	admin := newAccount(t, "admin", models.RoleAdmin)
	student := newAccount(t, "student", models.RoleStudent)
	student2 := newAccount(t, "student2", models.RoleStudent)

	course := createCourse(t, admin, "Python", "PY101", 1)
	coursePath := "/courses/" + strconv.Itoa(course.ID)

	w := doJSON(t, http.MethodPost, "/enrollments/", student.token, map[string]int{"course_id": course.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, http.MethodPost, "/enrollments/", student2.token, map[string]int{"course_id": course.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.MsgCourseFull, errorMessage(t, w))

	w = doJSON(t, http.MethodDelete, coursePath, admin.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.MsgCourseHasEnrollments, errorMessage(t, w))

	w = doJSON(t, http.MethodDelete, "/enrollments/"+strconv.Itoa(course.ID), student.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, http.MethodDelete, coursePath, admin.token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, http.MethodGet, coursePath, student.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_EnrollRules(t *testing.T) {
	requireDB(t)

	admin := newAccount(t, "admin", models.RoleAdmin)
	student := newAccount(t, "student", models.RoleStudent)
	other := newAccount(t, "other", models.RoleStudent)
	course := createCourse(t, admin, "Go", "GO101", 5)

	t.Run("admin cannot enroll", func(t *testing.T) {
		w := doJSON(t, http.MethodPost, "/enrollments/", admin.token, map[string]int{"course_id": course.ID})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("student cannot enroll another user", func(t *testing.T) {
		w := doJSON(t, http.MethodPost, "/enrollments/", student.token, map[string]int{"course_id": course.ID, "user_id": other.ID})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperrors.MsgEnrollAnotherUser, errorMessage(t, w))
		assert.Equal(t, 0, enrollmentCount(t, course.ID))
	})

	t.Run("inactive course", func(t *testing.T) {
		closed := createCourse(t, admin, "Closed", "CL101", 5)
		w := doJSON(t, http.MethodPut, "/courses/"+strconv.Itoa(closed.ID), admin.token, map[string]bool{"is_active": false})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(t, http.MethodPost, "/enrollments/", student.token, map[string]int{"course_id": closed.ID})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.MsgCourseUnavailable, errorMessage(t, w))
	})

	t.Run("enroll deregister enroll", func(t *testing.T) {
		enrollPath := "/enrollments/" + strconv.Itoa(course.ID)
		for i := 0; i < 2; i++ {
			w := doJSON(t, http.MethodPost, "/enrollments/", student.token, map[string]int{"course_id": course.ID, "user_id": student.ID})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = doJSON(t, http.MethodDelete, enrollPath, student.token, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}

		w := doJSON(t, http.MethodDelete, enrollPath, student.token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestIntegration_ConcurrentEnrollSamePair(t *testing.T) {
	requireDB(t)

	admin := newAccount(t, "admin", models.RoleAdmin)
	student := newAccount(t, "student", models.RoleStudent)
	course := createCourse(t, admin, "Go", "GO101", 10)

	const attempts = 8
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = doJSON(t, http.MethodPost, "/enrollments/", student.token, map[string]int{"course_id": course.ID}).Code
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, code := range codes {
		if code == http.StatusOK {
			succeeded++
		} else {
			assert.Equal(t, http.StatusBadRequest, code)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, enrollmentCount(t, course.ID))
}

func TestIntegration_ConcurrentEnrollCapacity(t *testing.T) {
	requireDB(t)

	const capacity = 3
	const students = 8

	admin := newAccount(t, "admin", models.RoleAdmin)
	course := createCourse(t, admin, "Go", "GO101", capacity)

	accounts := make([]account, students)
	for i := range accounts {
		accounts[i] = newAccount(t, fmt.Sprintf("student%d", i), models.RoleStudent)
	}

	codes := make([]int, students)
	var wg sync.WaitGroup
	for i := range accounts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = doJSON(t, http.MethodPost, "/enrollments/", accounts[i].token, map[string]int{"course_id": course.ID}).Code
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, code := range codes {
		if code == http.StatusOK {
			succeeded++
		}
	}
	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, capacity, enrollmentCount(t, course.ID))
}

func TestIntegration_BulkRemove(t *testing.T) {
	requireDB(t)

	admin := newAccount(t, "admin", models.RoleAdmin)
	course := createCourse(t, admin, "Go", "GO101", 10)

	userIDs := make([]int, 0, 4)
	for i := 0; i < 3; i++ {
		student := newAccount(t, fmt.Sprintf("student%d", i), models.RoleStudent)
		w := doJSON(t, http.MethodPost, "/enrollments/", student.token, map[string]int{"course_id": course.ID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		userIDs = append(userIDs, student.ID)
	}
	userIDs = append(userIDs, 999999)

	path := "/enrollments/admin/" + strconv.Itoa(course.ID)
	w := doJSON(t, http.MethodDelete, path, admin.token, map[string][]int{"user_ids": userIDs})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.BulkRemoveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Removed)
	assert.Equal(t, 0, enrollmentCount(t, course.ID))

	w = doJSON(t, http.MethodDelete, path, admin.token, map[string][]int{"user_ids": userIDs})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.MsgNoEnrollmentsForUsers, errorMessage(t, w))
}

func TestIntegration_AdminViews(t *testing.T) {
	requireDB(t)

	admin := newAccount(t, "admin", models.RoleAdmin)
	student := newAccount(t, "student", models.RoleStudent)
	course := createCourse(t, admin, "Go", "GO101", 10)

	w := doJSON(t, http.MethodPost, "/enrollments/", student.token, map[string]int{"course_id": course.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, http.MethodGet, "/courses/"+strconv.Itoa(course.ID)+"/students", admin.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var withStudents models.CourseWithStudentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &withStudents))
	require.Len(t, withStudents.Students, 1)
	assert.Equal(t, student.ID, withStudents.Students[0].ID)

	w = doJSON(t, http.MethodGet, "/enrollments/all", admin.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Enrollment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	w = doJSON(t, http.MethodDelete, "/enrollments/admin/"+strconv.Itoa(course.ID)+"/user/"+strconv.Itoa(student.ID), admin.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, http.MethodDelete, "/users/"+strconv.Itoa(student.ID), admin.token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, http.MethodDelete, "/users/"+strconv.Itoa(admin.ID), admin.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.MsgOnlyStudentsDeletable, errorMessage(t, w))
}
