package models

// Course represents a course in the catalog
type Course struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Code     string `json:"code"`
	Capacity int    `json:"capacity"`
	IsActive bool   `json:"is_active"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title    string `json:"title" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Capacity int    `json:"capacity" validate:"gt=0"`
}

// UpdateCourseRequest represents a request to update a course (partial update).
// A nil field is left unchanged.
type UpdateCourseRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitnil,min=1"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitnil,gt=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// IsEmpty reports whether the request changes nothing
func (r *UpdateCourseRequest) IsEmpty() bool {
	return r.Title == nil && r.Capacity == nil && r.IsActive == nil
}

// CourseWithStudentsResponse is a course together with its enrolled students
type CourseWithStudentsResponse struct {
	Course
	Students []UserResponse `json:"students"`
}
