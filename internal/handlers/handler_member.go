package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/dto"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type memberHandler struct {
	memberService portssvc.MemberReaderSvc
}

func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberReaderSvc) {
	h := &memberHandler{memberService: memberService}
	rg.GET("/members", h.listMembers)
}

// listMembers godoc
// @Summary List household members
// @Tags members
// @Produce  json
// @Success 200 {object} dto.ListMembersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list members"
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}
