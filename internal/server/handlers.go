package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artem-evko/docker-Linux/internal/users"
)

const internalErrorDetail = "Internal Server Error"

var errRequestTooLarge = errors.New("request body too large")

type userHandlers struct {
	service users.UserService
	logger  *zap.Logger
}

func (h *userHandlers) createUser(c *gin.Context) {
	payload, err := bindUserPayload(c)
	if err != nil {
		h.respondError(c, "create", err)
		return
	}

	req, err := users.NewCreateUserRequest(payload)
	if err != nil {
		h.respondError(c, "create", err)
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "create", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *userHandlers) listUsers(c *gin.Context) {
	req, err := users.NewListUsersRequest(c.Request.URL.Query())
	if err != nil {
		h.respondError(c, "list", err)
		return
	}

	result, err := h.service.ListUsers(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "list", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *userHandlers) getUser(c *gin.Context) {
	userID, err := users.ParseUserID(c.Param("user_id"))
	if err != nil {
		h.respondError(c, "get", err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, "get", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *userHandlers) updateUser(c *gin.Context) {
	userID, idErr := users.ParseUserID(c.Param("user_id"))

	var req *users.UpdateUserRequest
	payload, bodyErr := bindUserPayload(c)
	if bodyErr == nil {
		req, bodyErr = users.NewUpdateUserRequest(userID, payload)
	}

	// path and body problems are reported together
	if err := mergeValidationErrors(idErr, bodyErr); err != nil {
		h.respondError(c, "update", err)
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *userHandlers) deleteUser(c *gin.Context) {
	userID, err := users.ParseUserID(c.Param("user_id"))
	if err != nil {
		h.respondError(c, "delete", err)
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		h.respondError(c, "delete", err)
		return
	}

	c.JSON(http.StatusOK, users.DeleteUserResponse{Detail: users.DeletedDetail})
}

func bindUserPayload(c *gin.Context) (*users.UserPayload, error) {
	var payload users.UserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, errRequestTooLarge
		}
		return nil, users.BodyDecodeError(err)
	}
	return &payload, nil
}

// mergeValidationErrors folds validation errors into one. Any other error wins as is.
func mergeValidationErrors(errs ...error) error {
	merged := &users.ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *users.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		merged.Fields = append(merged.Fields, verr.Fields...)
	}
	return merged.OrNil()
}

// respondError maps service errors onto status codes. Unexpected errors are
// logged with their cause and answered with a generic body.
func (h *userHandlers) respondError(c *gin.Context, operation string, err error) {
	var verr *users.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": verr.Fields})
	case users.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"detail": users.NotFoundDetail})
	case errors.Is(err, errRequestTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "Request Entity Too Large"})
	default:
		h.logger.Error("Failed to "+operation+" user",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": internalErrorDetail})
	}
}
