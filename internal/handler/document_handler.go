package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
	userService     service.UserService
}

// NewDocumentHandler sets up the routing dependencies for document endpoints
func NewDocumentHandler(documentService service.DocumentService, userService service.UserService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/api/requests/:id/documents", middleware.RequireAuth())
	{
		docs.GET("", h.GetDocuments)
		docs.POST("", h.AddDocument)
	}

	// Verification is restricted to the teams that review requests
	router.PUT("/api/documents/:id/verify",
		middleware.RequireRole(model.RoleOperationsTeam, model.RoleCoreBankingTeam, model.RoleAdmin),
		h.VerifyDocument)
}

// GetDocuments handles GET /api/requests/:id/documents
func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	docs, err := h.documentService.GetDocumentsByRequestID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, docs))
}

// AddDocument handles POST /api/requests/:id/documents
// @Summary      Attach document metadata
// @Description  Records a supporting document reference and its timeline event
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Request ID"
// @Param        payload  body      service.AddDocumentDTO  true  "Document metadata"
// @Success      201      {object}  response.Response{data=model.RequestDocument}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/requests/{id}/documents [post]
func (h *DocumentHandler) AddDocument(c *gin.Context) {
	user, err := h.userService.GetUserEntity(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authenticated user not found"))
		return
	}

	var dto service.AddDocumentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.AddDocument(c.Request.Context(), c.Param("id"), actorFor(user), dto)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// VerifyDocument handles PUT /api/documents/:id/verify
func (h *DocumentHandler) VerifyDocument(c *gin.Context) {
	user, err := h.userService.GetUserEntity(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authenticated user not found"))
		return
	}

	doc, err := h.documentService.VerifyDocument(c.Request.Context(), c.Param("id"), actorFor(user))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}
