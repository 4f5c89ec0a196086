package http

import (
	"net/http"

	"face-animation/pkg/jwt"
	"face-animation/pkg/logger"
	"face-animation/pkg/middleware"
	"face-animation/services/studio/internal/usecase"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

func (cc CookieConfig) set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.Name, token, int(jwt.TokenTTL.Seconds()), "/", "", cc.Secure, true)
}

func (cc CookieConfig) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.Name, "", -1, "/", "", cc.Secure, true)
}

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	cookie      CookieConfig
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, cookie CookieConfig, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		cookie:      cookie,
		logger:      logger,
	}
}

type SignupRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

type ProfileRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// Signup godoc
// @Summary      Create an account
// @Description  Registers a plain user; the account starts without a subscription
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Account data"
// @Success      201  {object}  Response
// @Failure      400  {object}  Response
// @Failure      500  {object}  Response
// @Router       /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, usecase.ErrAllFieldsRequired.Error())
		return
	}

	if _, err := h.authUseCase.Signup(c.Request.Context(), req.Fullname, req.Email, req.Password); err != nil {
		fail(c, h.logger, "create account", err)
		return
	}

	success(c, http.StatusCreated, "Account created successfully", nil)
}

// Login godoc
// @Summary      Log in
// @Description  Checks the credentials and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Failure      403  {object}  Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, usecase.ErrCredentialsRequired.Error())
		return
	}

	user, token, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.logger, "log in", err)
		return
	}

	h.cookie.set(c, token)
	c.JSON(http.StatusOK, LoginResponse{
		Success:  true,
		Message:  "Login successful",
		Role:     string(user.Role),
		Redirect: user.Redirect(),
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Ends the current session, if any, and clears the cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Response
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUseCase.Logout(c.Request.Context(), middleware.SessionClaims(c)); err != nil {
		h.logger.Warn("Session not revoked on logout: %v", err)
	}
	h.cookie.clear(c)
	success(c, http.StatusOK, "Logged out successfully", nil)
}

// GetProfile godoc
// @Summary      Current profile
// @Tags         profile
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  Response
// @Failure      404  {object}  Response
// @Router       /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authUseCase.GetProfile(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		fail(c, h.logger, "load profile", err)
		return
	}

	success(c, http.StatusOK, "", gin.H{"user": user})
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Blank fields keep their current value
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        request body ProfileRequest true "Profile fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Router       /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := h.authUseCase.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserID), req.Fullname, req.Email)
	if err != nil {
		fail(c, h.logger, "update profile", err)
		return
	}

	success(c, http.StatusOK, "Profile updated", gin.H{"user": user})
}
