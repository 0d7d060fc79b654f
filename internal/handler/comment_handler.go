package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
	userService    service.UserService
}

// NewCommentHandler sets up the routing dependencies for comment endpoints
func NewCommentHandler(commentService service.CommentService, userService service.UserService) *CommentHandler {
	return &CommentHandler{commentService: commentService, userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/api/requests/:id/comments", middleware.RequireAuth())
	{
		comments.GET("", h.GetComments)
		comments.POST("", h.AddComment)
	}
}

// GetComments handles GET /api/requests/:id/comments
// @Summary      List request comments
// @Description  Returns the request's comments in creation order
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=[]model.RequestComment}
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id}/comments [get]
func (h *CommentHandler) GetComments(c *gin.Context) {
	comments, err := h.commentService.GetCommentsByRequestID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, comments))
}

// AddComment handles POST /api/requests/:id/comments
// @Summary      Add comment
// @Description  Appends a comment to the request and records a timeline event
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Request ID"
// @Param        payload  body      service.AddCommentDTO  true  "Comment payload"
// @Success      201      {object}  response.Response{data=model.RequestComment}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/requests/{id}/comments [post]
func (h *CommentHandler) AddComment(c *gin.Context) {
	user, err := h.userService.GetUserEntity(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authenticated user not found"))
		return
	}

	var dto service.AddCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), c.Param("id"), actorFor(user), dto)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, comment))
}
