package utils

import "errors"

// Pagination bounds shared by handlers and services.
const (
	MaxPage     = 1000
	MaxPageSize = 100
)

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")

	// accounts
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")

	// trips
	ErrTripNotFound        = errors.New("trip not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrTripFull            = errors.New("no spots available")
	ErrAlreadyRequested    = errors.New("join request already exists")
	ErrCannotJoinOwnTrip   = errors.New("creator cannot join own trip")

	// experiences and uploads
	ErrExperienceNotFound = errors.New("experience not found")
	ErrInvalidFile        = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrStorageError       = errors.New("storage error")

	// chat
	ErrChatNotFound   = errors.New("chat not found")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = errors.New("message too long")
	ErrNotChatMember  = errors.New("not a chat member")

	// social
	ErrCannotFollowSelf = errors.New("cannot follow yourself")

	// geocoding
	ErrGeocodingError = errors.New("geocoding error")
)
