package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/TalineFS/Dashboards/internal/services"
	"github.com/TalineFS/Dashboards/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns the filtered aggregates, chart payloads and detail table
// GET /api/datasets/:id/dashboard
func (h *DashboardHandler) GetStats(c *gin.Context) {
	var req services.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.dashboardService.GetStats(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, services.ErrDatasetNotFound) {
			response.NotFound(c, "dataset not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// Export downloads the filtered view as CSV
// GET /api/datasets/:id/export
func (h *DashboardHandler) Export(c *gin.Context) {
	var req services.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	data, filename, err := h.dashboardService.Export(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, services.ErrDatasetNotFound) {
			response.NotFound(c, "dataset not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "text/csv; charset=utf-8", data)
}
