package models

import "time"

// Enrollment links a user to a course
type Enrollment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	CourseID  int       `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrollRequest represents a self-enrollment request.
// UserID is optional and must match the caller when present.
type EnrollRequest struct {
	CourseID int `json:"course_id" validate:"gt=0"`
	UserID   int `json:"user_id,omitempty" validate:"gte=0"`
}

// BulkRemoveRequest represents an admin bulk removal request
type BulkRemoveRequest struct {
	UserIDs []int `json:"user_ids" validate:"required,min=1,dive,gt=0"`
}

// BulkRemoveResponse reports how many enrollments a bulk removal deleted
type BulkRemoveResponse struct {
	Message string `json:"message"`
	Removed int    `json:"removed"`
}
