package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cashflow/internal/dashboard"
	"cashflow/internal/lifecycle"
	"cashflow/pkg/models"
)

type networksRequest struct {
	Action     string      `json:"action"`
	Networks   []string    `json:"networks"`
	Network    string      `json:"network"`
	PeriodEnd  string      `json:"periodEnd"`
	DashAmount interface{} `json:"dashAmount"`
}

func (s *Server) postNetworks(c *gin.Context) {
	var req networksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case lifecycle.ActionPushToBeInvoiced:
		if len(req.Networks) == 0 {
			abortInvalidRequest(c, "networks is required")
			return
		}
		result, err := s.engine.PushToBeInvoiced(ctx, req.Networks, s.engine.Now())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"updatedNetworks": result.UpdatedNetworks,
			"skipped":         result.Skipped,
		})

	case lifecycle.ActionUpdateDashAmount:
		network := strings.TrimSpace(req.Network)
		periodEnd := strings.TrimSpace(req.PeriodEnd)
		if network == "" || periodEnd == "" || req.DashAmount == nil {
			abortInvalidRequest(c, "network, periodEnd and dashAmount are required")
			return
		}
		if err := s.engine.UpdateDashAmount(ctx, network, periodEnd, models.ParseAmount(req.DashAmount)); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	default:
		abortWithError(c, lifecycle.InvalidAction(req.Action))
	}
}

// getNetworks returns a fresh read of every table.
func (s *Server) getNetworks(c *gin.Context) {
	snap, err := s.engine.Snapshot(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) getDashboard(c *gin.Context) {
	snap, err := s.engine.Snapshot(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	now := s.engine.Now()
	c.JSON(http.StatusOK, gin.H{
		"summary":     dashboard.BuildSummary(snap, now),
		"outstanding": dashboard.BuildOutstanding(snap, now),
	})
}

func (s *Server) getTodo(c *gin.Context) {
	snap, err := s.engine.Snapshot(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.BuildTodo(snap, s.engine.Now()))
}

func (s *Server) getPendingJournal(c *gin.Context) {
	pending, err := s.engine.Journal().Pending(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if pending == nil {
		pending = []lifecycle.JournalEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}
