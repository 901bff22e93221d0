package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type statsHandler struct {
	balanceService portssvc.BalanceSvc
}

func registerStatsRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := &statsHandler{balanceService: balanceService}

	stats := rg.Group("/stats")
	{
		stats.GET("/balances", h.getBalances)
		stats.GET("/user/:userId", h.getUserStats)
		stats.GET("/admin/dashboard", middleware.RequireAdmin(), h.getAdminDashboard)
	}
}

// getBalances godoc
// @Summary Balances of all active members
// @Tags stats
// @Produce  json
// @Success 200 {object} dto.BalancesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Security BearerAuth
// @Router /stats/balances [get]
func (h *statsHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	balances, err := h.balanceService.GetBalances(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, dto.BalancesResponse{Balances: balances})
}

// getUserStats godoc
// @Summary Statistics for one member
// @Description Members may only view their own statistics
// @Tags stats
// @Produce  json
// @Param   userId path string true "Member ID"
// @Success 200 {object} domain.UserStats
// @Failure 403 {object} map[string]string "Not your statistics"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to compute statistics"
// @Security BearerAuth
// @Router /stats/user/{userId} [get]
func (h *statsHandler) getUserStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	stats, err := h.balanceService.GetUserStats(c.Request.Context(), actor, c.Param("userId"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getAdminDashboard godoc
// @Summary Household dashboard
// @Tags stats
// @Produce  json
// @Success 200 {object} domain.AdminDashboard
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to compute dashboard"
// @Security BearerAuth
// @Router /stats/admin/dashboard [get]
func (h *statsHandler) getAdminDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	dashboard, err := h.balanceService.GetAdminDashboard(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
