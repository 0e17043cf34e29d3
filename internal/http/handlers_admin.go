// README: Admin handlers: platform stats and driver approval.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) HandleAdminStats(c *gin.Context) {
	st, err := s.stats.AdminStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, st)
}

type approvalReq struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (s *Server) HandleDriverApproval(c *gin.Context) {
	id, ok := pathID(c, "driverId")
	if !ok {
		return
	}
	var req approvalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.driver.Approve(c.Request.Context(), id, *req.Approved); err != nil {
		respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driverId": id, "approved": *req.Approved})
}
