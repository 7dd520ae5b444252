package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	id, _ := c.Get("trace_id")
	s, _ := id.(string)
	return s
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// serviceErrors maps sentinel errors to the status and message sent to clients.
var serviceErrors = []struct {
	err     error
	code    int
	message string
}{
	{ErrInvalidPage, http.StatusBadRequest, "Page must be between 1 and 1000"},
	{ErrInvalidPageSize, http.StatusBadRequest, "Page size must be between 1 and 100"},
	{ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{ErrForbidden, http.StatusForbidden, "Forbidden: insufficient permissions"},
	{ErrNotChatMember, http.StatusForbidden, "You are not a member of this chat"},
	{ErrUserNotFound, http.StatusNotFound, "User not found"},
	{ErrTripNotFound, http.StatusNotFound, "Trip not found"},
	{ErrParticipantNotFound, http.StatusNotFound, "Participant not found"},
	{ErrExperienceNotFound, http.StatusNotFound, "Experience not found"},
	{ErrChatNotFound, http.StatusNotFound, "Chat not found"},
	{ErrEmailAlreadyExists, http.StatusConflict, "Email already registered"},
	{ErrUsernameTaken, http.StatusConflict, "Username already taken"},
	{ErrAlreadyRequested, http.StatusConflict, "You already requested to join this trip"},
	{ErrTripFull, http.StatusConflict, "No spots available on this trip"},
	{ErrCannotJoinOwnTrip, http.StatusBadRequest, "You cannot join your own trip"},
	{ErrCannotFollowSelf, http.StatusBadRequest, "You cannot follow yourself"},
	{ErrEmptyMessage, http.StatusBadRequest, "Message cannot be empty"},
	{ErrMessageTooLong, http.StatusBadRequest, "Message is too long"},
	{ErrInvalidFile, http.StatusBadRequest, "Unsupported file type"},
	{ErrFileTooLarge, http.StatusRequestEntityTooLarge, "File is too large"},
	{ErrGeocodingError, http.StatusBadGateway, "Geocoding service unavailable"},
}

func HandleServiceError(c *gin.Context, err error) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			RespondError(c, se.code, se.message)
			return
		}
	}

	zap.L().Error("unhandled service error",
		zap.Error(err),
		zap.String("trace_id", traceID(c)),
		zap.String("path", c.FullPath()))
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
