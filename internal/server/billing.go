package server

import (
	"errors"
	"net/http"

	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// LedgerHandlerDeps bundles what the billing handlers need beyond the runner.
type LedgerHandlerDeps struct {
	fx.In

	Ledger billingdomain.Service
}

type runRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// triggerRun is the manual billing trigger. The scheduled cron run goes
// through the exact same runner.
func (s *Server) triggerRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := s.runner.RunForMonth(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		if errors.Is(err, billingdomain.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("billing run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "billing run failed"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) getPaymentHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	record, err := s.ledger.Ledger.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, billingdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment history not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// downloadInvoice serves the rendered document. Bytes are identical to the
// mail attachment for the same record.
func (s *Server) downloadInvoice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rendered, err := s.invoices.RenderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, billingdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment history not found"})
			return
		}
		s.log.Error("invoice render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invoice render failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+rendered.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", rendered.Bytes)
}

type setPaidRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

func (s *Server) setPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req setPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.ledger.Ledger.SetPaid(c.Request.Context(), id, *req.Paid); err != nil {
		if errors.Is(err, billingdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment history not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
