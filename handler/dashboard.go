package handler

import (
	"net/http"

	"github.com/AnTengye/legalintel/model"
	"github.com/AnTengye/legalintel/pkg/logger"
	"github.com/AnTengye/legalintel/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	engine *service.Engine
}

func NewDashboardHandler(engine *service.Engine) *DashboardHandler {
	return &DashboardHandler{engine: engine}
}

// Dashboard returns the aggregate view of every stored document
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	data := h.engine.Dashboard()
	logger.Debug(c.Request.Context(), "dashboard generated", "documents", data.TotalDocuments)
	c.JSON(http.StatusOK, data)
}

// Summary renders the portfolio report for dashboard data posted by the client
func (h *DashboardHandler) Summary(c *gin.Context) {
	var data model.DashboardData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": h.engine.Summary(data)})
}
