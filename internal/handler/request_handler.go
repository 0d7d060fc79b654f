package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService    service.RequestService
	timelineService   service.TimelineService
	permissionService service.PermissionService
	userService       service.UserService
}

// NewRequestHandler sets up the routing dependencies for withdrawal request endpoints
func NewRequestHandler(
	requestService service.RequestService,
	timelineService service.TimelineService,
	permissionService service.PermissionService,
	userService service.UserService,
) *RequestHandler {
	return &RequestHandler{
		requestService:    requestService,
		timelineService:   timelineService,
		permissionService: permissionService,
		userService:       userService,
	}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests", middleware.RequireAuth())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListRequests)
		requests.GET("/search", h.SearchRequests)
		requests.GET("/:id", h.GetRequest)
		requests.PUT("/:id/submit", h.SubmitRequest)
		requests.PUT("/:id/approve", h.ApproveRequest)
		requests.PUT("/:id/reject", h.RejectRequest)
		requests.PUT("/:id/disburse", h.DisburseRequest)
		requests.GET("/:id/timeline", h.GetTimeline)
		requests.GET("/:id/timeline/stats", h.GetTimelineStats)
	}
}

// currentUser loads the authenticated user's full record so capability flags
// and role feed the same permission authority the UI consults
func (h *RequestHandler) currentUser(c *gin.Context) (*model.User, bool) {
	user, err := h.userService.GetUserEntity(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authenticated user not found"))
		return nil, false
	}
	return user, true
}

func actorFor(user *model.User) service.Actor {
	return service.Actor{ID: user.ID.String(), Name: user.Name}
}

// CreateRequest handles POST /api/requests
// @Summary      Create withdrawal request
// @Description  Creates a new withdrawal request in the initial review stage
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "Request payload"
// @Success      201      {object}  response.Response{data=model.WithdrawalRequest}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if check := h.permissionService.CanCreateRequest(user); !check.CanPerform {
		writeServiceError(c, &service.PermissionDeniedError{Reason: check.Reason})
		return
	}

	var dto service.CreateRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), dto, actorFor(user))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// ListRequests handles GET /api/requests with search and filters
// @Summary      List withdrawal requests
// @Description  Retrieves withdrawal requests filtered by stage, country, priority or a search term
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        search    query  string  false  "Substring match over ref number, project number, beneficiary"
// @Param        stage     query  string  false  "Filter by stage"
// @Param        country   query  string  false  "Filter by country"
// @Param        priority  query  string  false  "Filter by priority"
// @Param        page      query  int     false  "Page number (default 1)"
// @Param        limit     query  int     false  "Items per page (default 20)"
// @Success      200  {object}  response.Response
// @Router       /api/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.RequestFilter{
		Stage:    model.RequestStage(c.Query("stage")),
		Country:  c.Query("country"),
		Priority: model.Priority(c.Query("priority")),
		Search:   c.Query("search"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	requests, total, err := h.requestService.ListRequests(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requests, total, params.Page, params.Limit))
}

// SearchRequests handles GET /api/requests/search
// @Summary      Search withdrawal requests
// @Description  Substring search over reference number, project number and beneficiary name
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search term"
// @Success      200  {object}  response.Response{data=[]model.WithdrawalRequest}
// @Router       /api/requests/search [get]
func (h *RequestHandler) SearchRequests(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "q query parameter is required"))
		return
	}

	requests, err := h.requestService.SearchRequests(c.Request.Context(), term)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// GetRequest handles GET /api/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	request, err := h.requestService.GetRequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// SubmitRequest handles PUT /api/requests/:id/submit — forwards an
// initial-review request to the operations team
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	// Forwarding out of the archive queue is part of intake, so it follows
	// the same capability gate as creation
	if check := h.permissionService.CanCreateRequest(user); !check.CanPerform {
		writeServiceError(c, &service.PermissionDeniedError{Reason: check.Reason})
		return
	}

	request, err := h.requestService.SubmitForTechnicalReview(c.Request.Context(), c.Param("id"), actorFor(user))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ApproveRequest handles PUT /api/requests/:id/approve
// @Summary      Approve withdrawal request
// @Description  Moves a technical-review request to the core banking stage
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true   "Request ID"
// @Param        payload  body      service.TransitionDTO  false  "Optional comment"
// @Success      200      {object}  response.Response{data=model.WithdrawalRequest}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/approve [put]
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	h.transition(c, model.ActionApprove, func(user *model.User, comment string) (*model.WithdrawalRequest, error) {
		return h.requestService.ApproveRequest(c.Request.Context(), c.Param("id"), actorFor(user), comment)
	})
}

// RejectRequest handles PUT /api/requests/:id/reject
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	h.transition(c, model.ActionReject, func(user *model.User, comment string) (*model.WithdrawalRequest, error) {
		return h.requestService.RejectRequest(c.Request.Context(), c.Param("id"), actorFor(user), comment)
	})
}

// DisburseRequest handles PUT /api/requests/:id/disburse
func (h *RequestHandler) DisburseRequest(c *gin.Context) {
	h.transition(c, model.ActionDisburse, func(user *model.User, _ string) (*model.WithdrawalRequest, error) {
		return h.requestService.DisburseRequest(c.Request.Context(), c.Param("id"), actorFor(user))
	})
}

// transition runs the shared permission-check-then-apply flow for workflow actions
func (h *RequestHandler) transition(c *gin.Context, action model.ActionType, apply func(user *model.User, comment string) (*model.WithdrawalRequest, error)) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if check := h.permissionService.CanPerformAction(user, action, nil); !check.CanPerform {
		writeServiceError(c, &service.PermissionDeniedError{Reason: check.Reason})
		return
	}

	var dto service.TransitionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		// Allow empty body — comment is optional
		dto.Comment = ""
	}

	request, err := apply(user, dto.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// GetTimeline handles GET /api/requests/:id/timeline
// @Summary      Get request timeline
// @Description  Returns the request's audit events ordered oldest first
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=[]model.TimelineEvent}
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id}/timeline [get]
func (h *RequestHandler) GetTimeline(c *gin.Context) {
	events, err := h.timelineService.GetTimelineByRequestID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, events))
}

// GetTimelineStats handles GET /api/requests/:id/timeline/stats
func (h *RequestHandler) GetTimelineStats(c *gin.Context) {
	stats, err := h.timelineService.GetTimelineStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
