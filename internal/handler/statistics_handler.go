package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics", middleware.RequireAuth())
	{
		statsGroup.GET("/dashboard", h.GetDashboardStats)
	}
}

// GetDashboardStats handles GET /api/statistics/dashboard
// @Summary      Get dashboard statistics
// @Description  Recomputes request totals, stage and priority breakdowns, average processing time and the due-soon count
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.DashboardStats}
// @Failure      500  {object}  response.Response
// @Router       /api/statistics/dashboard [get]
func (h *StatisticsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statisticsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
