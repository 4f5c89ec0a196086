package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"face-animation/pkg/logger"
	"face-animation/pkg/middleware"
	"face-animation/services/studio/internal/entity"
	"face-animation/services/studio/internal/usecase"

	"github.com/gin-gonic/gin"
)

type StudioHandler struct {
	studioUseCase  usecase.StudioUseCase
	maxUploadBytes int64
	logger         *logger.Logger
}

func NewStudioHandler(studioUseCase usecase.StudioUseCase, maxUploadBytes int64, logger *logger.Logger) *StudioHandler {
	return &StudioHandler{
		studioUseCase:  studioUseCase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type GenerateRequest struct {
	AvatarID     string `json:"avatar_id"`
	ExpressionID string `json:"expression_id"`
}

type ExpressionRequest struct {
	ExpressionName string `json:"expression_name"`
}

func role(c *gin.Context) entity.UserRole {
	return entity.UserRole(c.GetString(middleware.ContextRole))
}

// limitBody caps multipart uploads; the form is parsed lazily by FormFile.
func (h *StudioHandler) limitBody(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
}

// formFile opens an uploaded file, answering the request itself when it cannot.
func (h *StudioHandler) formFile(c *gin.Context, field string) (usecase.Upload, multipart.File, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			failure(c, http.StatusRequestEntityTooLarge, "File too large")
			return usecase.Upload{}, nil, false
		}
		failure(c, http.StatusBadRequest, "No file provided")
		return usecase.Upload{}, nil, false
	}
	if header.Filename == "" {
		failure(c, http.StatusBadRequest, usecase.ErrNoFileSelected.Error())
		return usecase.Upload{}, nil, false
	}

	src, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open upload: %v", err)
		failure(c, http.StatusInternalServerError, "Failed to process file")
		return usecase.Upload{}, nil, false
	}

	return usecase.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        src,
	}, src, true
}

// UploadAvatar godoc
// @Summary      Upload an avatar
// @Description  Accepts png, jpg, jpeg and gif images
// @Tags         avatars
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionCookie
// @Param        avatar formData file true "Avatar image"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  Response
// @Failure      401  {object}  Response
// @Failure      413  {object}  Response
// @Failure      500  {object}  Response
// @Router       /avatar/upload [post]
func (h *StudioHandler) UploadAvatar(c *gin.Context) {
	h.limitBody(c)
	file, src, ok := h.formFile(c, "avatar")
	if !ok {
		return
	}
	defer src.Close()

	avatar, err := h.studioUseCase.UploadAvatar(c.Request.Context(), c.GetString(middleware.ContextUserID), file)
	if err != nil {
		fail(c, h.logger, "upload avatar", err)
		return
	}

	success(c, http.StatusOK, "Avatar uploaded successfully", gin.H{
		"avatar_id":   avatar.ID,
		"avatar_path": avatar.Path,
	})
}

// ListAvatars godoc
// @Summary      List avatars
// @Description  Newest first; admins see every avatar
// @Tags         avatars
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  Response
// @Router       /avatars [get]
func (h *StudioHandler) ListAvatars(c *gin.Context) {
	avatars, err := h.studioUseCase.ListAvatars(c.Request.Context(), c.GetString(middleware.ContextUserID), role(c))
	if err != nil {
		fail(c, h.logger, "fetch avatars", err)
		return
	}

	success(c, http.StatusOK, "", gin.H{"avatars": avatars})
}

// DeleteAvatar godoc
// @Summary      Delete an avatar
// @Description  Owners delete their own avatars, admins any; animations made from it go too
// @Tags         avatars
// @Produce      json
// @Security     SessionCookie
// @Param        id path string true "Avatar ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /avatar/{id} [delete]
func (h *StudioHandler) DeleteAvatar(c *gin.Context) {
	if err := h.studioUseCase.DeleteAvatar(c.Request.Context(), c.GetString(middleware.ContextUserID), role(c), c.Param("id")); err != nil {
		fail(c, h.logger, "delete avatar", err)
		return
	}

	success(c, http.StatusOK, "Avatar deleted", nil)
}

// ListExpressions godoc
// @Summary      List expressions
// @Tags         expressions
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /expressions [get]
func (h *StudioHandler) ListExpressions(c *gin.Context) {
	expressions, err := h.studioUseCase.ListExpressions(c.Request.Context())
	if err != nil {
		fail(c, h.logger, "fetch expressions", err)
		return
	}

	success(c, http.StatusOK, "", gin.H{"expressions": expressions})
}

// AddExpression godoc
// @Summary      Add an expression
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        request body ExpressionRequest true "Expression"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  Response
// @Failure      409  {object}  Response
// @Router       /admin/expressions [post]
func (h *StudioHandler) AddExpression(c *gin.Context) {
	var req ExpressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, usecase.ErrExpressionRequired.Error())
		return
	}

	expression, err := h.studioUseCase.AddExpression(c.Request.Context(), req.ExpressionName)
	if err != nil {
		fail(c, h.logger, "add expression", err)
		return
	}

	success(c, http.StatusCreated, "Expression added", gin.H{"expression": expression})
}

// DeleteExpression godoc
// @Summary      Delete an expression
// @Description  Saved animations that used it are kept as custom animations
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id path string true "Expression ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /admin/expression/{id} [delete]
func (h *StudioHandler) DeleteExpression(c *gin.Context) {
	if err := h.studioUseCase.DeleteExpression(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.logger, "delete expression", err)
		return
	}

	success(c, http.StatusOK, "Expression deleted", nil)
}

func animationFields(a *entity.Animation) gin.H {
	return gin.H{
		"animation_id":    a.ID,
		"animation_path":  a.Path,
		"expression_name": a.ExpressionName,
		"status":          a.Status,
		"created_at":      a.CreatedAt,
	}
}

// GenerateAnimation godoc
// @Summary      Generate an expression animation
// @Description  Stages a new animation; it is listed only after it is saved
// @Tags         animations
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        request body GenerateRequest true "Avatar and expression"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  Response
// @Failure      404  {object}  Response
// @Router       /animation/generate [post]
func (h *StudioHandler) GenerateAnimation(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, usecase.ErrAvatarAndExpression.Error())
		return
	}

	animation, err := h.studioUseCase.GenerateAnimation(c.Request.Context(), c.GetString(middleware.ContextUserID), role(c), req.AvatarID, req.ExpressionID)
	if err != nil {
		fail(c, h.logger, "generate animation", err)
		return
	}

	success(c, http.StatusOK, "Animation generated", animationFields(animation))
}

// DriveAnimation godoc
// @Summary      Generate an animation from a driving video
// @Description  Subscribers only. Accepts mp4, avi and mov videos
// @Tags         animations
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionCookie
// @Param        avatar_id formData string true "Avatar ID"
// @Param        video formData file true "Driving video"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  Response
// @Failure      413  {object}  Response
// @Router       /animation/drive [post]
func (h *StudioHandler) DriveAnimation(c *gin.Context) {
	h.limitBody(c)
	video, src, ok := h.formFile(c, "video")
	if !ok {
		return
	}
	defer src.Close()

	animation, err := h.studioUseCase.DriveAnimation(c.Request.Context(), c.GetString(middleware.ContextUserID), role(c), c.PostForm("avatar_id"), video)
	if err != nil {
		fail(c, h.logger, "generate animation", err)
		return
	}

	success(c, http.StatusOK, "Animation generated", animationFields(animation))
}

// SaveAnimation godoc
// @Summary      Save a staged animation
// @Tags         animations
// @Produce      json
// @Security     SessionCookie
// @Param        id path string true "Animation ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Failure      409  {object}  Response
// @Router       /animation/{id}/save [post]
func (h *StudioHandler) SaveAnimation(c *gin.Context) {
	if err := h.studioUseCase.SaveAnimation(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		fail(c, h.logger, "save animation", err)
		return
	}

	success(c, http.StatusOK, "Animation saved", nil)
}

// DeleteAnimation godoc
// @Summary      Delete or discard an animation
// @Tags         animations
// @Produce      json
// @Security     SessionCookie
// @Param        id path string true "Animation ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /animation/{id} [delete]
func (h *StudioHandler) DeleteAnimation(c *gin.Context) {
	if err := h.studioUseCase.DeleteAnimation(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		fail(c, h.logger, "delete animation", err)
		return
	}

	success(c, http.StatusOK, "Animation deleted", nil)
}

// ListAnimations godoc
// @Summary      List saved animations
// @Description  Newest first, with the avatar path and expression name
// @Tags         animations
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]interface{}
// @Router       /animations [get]
func (h *StudioHandler) ListAnimations(c *gin.Context) {
	animations, err := h.studioUseCase.ListAnimations(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		fail(c, h.logger, "fetch animations", err)
		return
	}

	success(c, http.StatusOK, "", gin.H{"animations": animations})
}

// ServeMedia streams a stored file from /static/<path>.
func (h *StudioHandler) ServeMedia(c *gin.Context) {
	obj, err := h.studioUseCase.OpenMedia(c.Request.Context(), c.Param("path"))
	if err != nil {
		fail(c, h.logger, "load file", err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	length := obj.ContentLength
	if length <= 0 {
		length = -1
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.DataFromReader(http.StatusOK, length, contentType, obj.Body, nil)
}
