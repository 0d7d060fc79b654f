package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	permissionService service.PermissionService
	userService       service.UserService
}

// NewPermissionHandler sets up the routing dependencies for permission endpoints
func NewPermissionHandler(permissionService service.PermissionService, userService service.UserService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService, userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *PermissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	perms := router.Group("/api/permissions", middleware.RequireAuth())
	{
		perms.GET("/check", h.CheckPermission)
	}
}

// CheckPermission handles GET /api/permissions/check — lets the UI ask the
// same permission authority the workflow endpoints enforce, so role checks
// are never re-implemented client-side
// @Summary      Check action permission
// @Description  Returns whether the authenticated user may perform the given action
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        action  query     string  true  "Action: approve, reject, disburse, view, create"
// @Success      200     {object}  response.Response{data=service.PermissionCheck}
// @Failure      400     {object}  response.Response
// @Router       /api/permissions/check [get]
func (h *PermissionHandler) CheckPermission(c *gin.Context) {
	user, err := h.userService.GetUserEntity(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authenticated user not found"))
		return
	}

	action := c.Query("action")
	if action == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "action query parameter is required"))
		return
	}

	var check service.PermissionCheck
	if action == "create" {
		check = h.permissionService.CanCreateRequest(user)
	} else {
		check = h.permissionService.CanPerformAction(user, model.ActionType(action), nil)
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, check))
}
