package handlers

const (
	RunningMessage = "Smart Lio server is running"
	StatusOK       = "ok"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrInvalidFamilyID     = "Invalid family id"
	ErrInvalidMemberID     = "Invalid member id"
	ErrInvalidShare        = "share must be an integer"
	ErrFamilyNotFound      = "Family not found"
	ErrMemberNotFound      = "Member not found"
	ErrMapNotFound         = "map.html not found"
	ErrDatabaseUnavailable = "Database unavailable"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
)
