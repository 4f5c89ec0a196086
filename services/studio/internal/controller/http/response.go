package http

import (
	"errors"
	"net/http"

	"face-animation/pkg/logger"
	"face-animation/services/studio/internal/usecase"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

var errorStatus = map[error]int{
	usecase.ErrAllFieldsRequired:     http.StatusBadRequest,
	usecase.ErrEmailExists:           http.StatusBadRequest,
	usecase.ErrCredentialsRequired:   http.StatusBadRequest,
	usecase.ErrNoFileSelected:        http.StatusBadRequest,
	usecase.ErrInvalidFileType:       http.StatusBadRequest,
	usecase.ErrExpressionRequired:    http.StatusBadRequest,
	usecase.ErrAvatarAndExpression:   http.StatusBadRequest,
	usecase.ErrAvatarAndVideo:        http.StatusBadRequest,
	usecase.ErrPlanRequired:          http.StatusBadRequest,
	usecase.ErrNoActiveSubscription:  http.StatusBadRequest,
	usecase.ErrUnknownAction:         http.StatusBadRequest,
	usecase.ErrInvalidCredentials:    http.StatusUnauthorized,
	usecase.ErrAccountSuspended:      http.StatusForbidden,
	usecase.ErrCannotModifySelf:      http.StatusForbidden,
	usecase.ErrUserNotFound:          http.StatusNotFound,
	usecase.ErrAvatarNotFound:        http.StatusNotFound,
	usecase.ErrExpressionNotFound:    http.StatusNotFound,
	usecase.ErrAnimationNotFound:     http.StatusNotFound,
	usecase.ErrMediaNotFound:         http.StatusNotFound,
	usecase.ErrExpressionExists:      http.StatusConflict,
	usecase.ErrAnimationAlreadySaved: http.StatusConflict,
}

func success(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func failure(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// fail answers with the status of a known usecase error, or 500.
func fail(c *gin.Context, log *logger.Logger, action string, err error) {
	for known, status := range errorStatus {
		if errors.Is(err, known) {
			failure(c, status, known.Error())
			return
		}
	}
	log.Error("Failed to %s: %v", action, err)
	failure(c, http.StatusInternalServerError, "Failed to "+action)
}
