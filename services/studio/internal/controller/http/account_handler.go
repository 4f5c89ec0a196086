package http

import (
	"net/http"

	"face-animation/pkg/logger"
	"face-animation/pkg/middleware"
	"face-animation/services/studio/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	subscriptionUseCase usecase.SubscriptionUseCase
	adminUseCase        usecase.AdminUseCase
	cookie              CookieConfig
	logger              *logger.Logger
}

func NewAccountHandler(
	subscriptionUseCase usecase.SubscriptionUseCase,
	adminUseCase usecase.AdminUseCase,
	cookie CookieConfig,
	logger *logger.Logger,
) *AccountHandler {
	return &AccountHandler{
		subscriptionUseCase: subscriptionUseCase,
		adminUseCase:        adminUseCase,
		cookie:              cookie,
		logger:              logger,
	}
}

type SubscriptionRequest struct {
	Plan string `json:"plan"`
}

type CreateUserRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

type UserActionRequest struct {
	Action string `json:"action"`
}

// UpdateSubscription godoc
// @Summary      Subscribe to a plan
// @Description  Makes the caller a subscriber and renews the session cookie
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        request body SubscriptionRequest true "Plan"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Router       /subscription/update [post]
func (h *AccountHandler) UpdateSubscription(c *gin.Context) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, usecase.ErrPlanRequired.Error())
		return
	}

	user, token, err := h.subscriptionUseCase.Update(c.Request.Context(), middleware.SessionClaims(c), req.Plan)
	if err != nil {
		fail(c, h.logger, "update subscription", err)
		return
	}

	h.cookie.set(c, token)
	success(c, http.StatusOK, "Subscription updated", gin.H{"role": user.Role, "plan": user.Plan})
}

// CancelSubscription godoc
// @Summary      Cancel the subscription
// @Tags         subscription
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  Response
// @Router       /subscription/cancel [post]
func (h *AccountHandler) CancelSubscription(c *gin.Context) {
	user, token, err := h.subscriptionUseCase.Cancel(c.Request.Context(), middleware.SessionClaims(c))
	if err != nil {
		fail(c, h.logger, "cancel subscription", err)
		return
	}

	h.cookie.set(c, token)
	success(c, http.StatusOK, "Subscription cancelled", gin.H{"role": user.Role})
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  Response
// @Router       /admin/users [get]
func (h *AccountHandler) ListUsers(c *gin.Context) {
	users, err := h.adminUseCase.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, h.logger, "fetch users", err)
		return
	}

	success(c, http.StatusOK, "", gin.H{"users": users})
}

// CreateUser godoc
// @Summary      Create a user
// @Description  The generated password is returned once
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        request body CreateUserRequest true "User"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  Response
// @Router       /admin/users [post]
func (h *AccountHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, usecase.ErrAllFieldsRequired.Error())
		return
	}

	user, password, err := h.adminUseCase.CreateUser(c.Request.Context(), req.Fullname, req.Email)
	if err != nil {
		fail(c, h.logger, "create user", err)
		return
	}

	success(c, http.StatusCreated, "User created", gin.H{"user": user, "temporary_password": password})
}

// UpdateUser godoc
// @Summary      Suspend or activate a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id path string true "User ID"
// @Param        request body UserActionRequest true "suspend or activate"
// @Success      200  {object}  Response
// @Failure      400  {object}  Response
// @Failure      404  {object}  Response
// @Router       /admin/user/{id} [put]
func (h *AccountHandler) UpdateUser(c *gin.Context) {
	var req UserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, usecase.ErrUnknownAction.Error())
		return
	}

	if _, err := h.adminUseCase.SetUserStatus(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Action); err != nil {
		fail(c, h.logger, "update user", err)
		return
	}

	success(c, http.StatusOK, "User updated", nil)
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id path string true "User ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  Response
// @Failure      404  {object}  Response
// @Router       /admin/user/{id} [delete]
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	if err := h.adminUseCase.DeleteUser(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		fail(c, h.logger, "delete user", err)
		return
	}

	success(c, http.StatusOK, "User deleted", nil)
}
