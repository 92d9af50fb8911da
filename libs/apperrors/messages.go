package apperrors

// Client-facing messages
const (
	MsgDatabaseUnavailable   = "database error, ensure migrations have been applied"
	MsgTransactionAborted    = "request conflicted with a concurrent change, please retry"
	MsgInvalidCredentials    = "could not validate credentials"
	MsgInvalidLogin          = "invalid email or password"
	MsgInactiveUser          = "inactive user"
	MsgInactiveAccount       = "user account is inactive"
	MsgInvalidRole           = "invalid role"
	MsgEmailTaken            = "email already registered"
	MsgUserNotFound          = "user not found"
	MsgOnlyStudentsDeletable = "can only delete student accounts"
	MsgCourseNotFound        = "course not found"
	MsgCourseCodeTaken       = "course code already exists"
	MsgCourseHasEnrollments  = "cannot delete course with active enrollments"
	MsgAlreadyEnrolled       = "student is already enrolled in this course"
	MsgCourseUnavailable     = "course does not exist or is inactive"
	MsgCourseFull            = "course is full"
	MsgEnrollmentNotFound    = "enrollment not found"
	MsgNoEnrollmentsForUsers = "no enrollments found for the specified users"
	MsgEnrollAnotherUser     = "cannot enroll another user"
	MsgAdminRequired         = "admin privileges required"
	MsgStudentRequired       = "student privileges required"
)

// Sentinels for errors.Is checks
var (
	ErrAlreadyEnrolled       = Conflict(MsgAlreadyEnrolled)
	ErrCourseUnavailable     = Conflict(MsgCourseUnavailable)
	ErrCourseFull            = Conflict(MsgCourseFull)
	ErrCourseHasEnrollments  = Conflict(MsgCourseHasEnrollments)
	ErrCourseCodeTaken       = Conflict(MsgCourseCodeTaken)
	ErrEmailTaken            = Conflict(MsgEmailTaken)
	ErrCourseNotFound        = NotFound(MsgCourseNotFound)
	ErrUserNotFound          = NotFound(MsgUserNotFound)
	ErrEnrollmentNotFound    = NotFound(MsgEnrollmentNotFound)
	ErrNoEnrollmentsForUsers = NotFound(MsgNoEnrollmentsForUsers)
	ErrOnlyStudentsDeletable = Validation(MsgOnlyStudentsDeletable)
	ErrInvalidRole           = Validation(MsgInvalidRole)
)
