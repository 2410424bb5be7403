package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cashflow/internal/lifecycle"
	"cashflow/pkg/models"
)

// invoicePayload is the invoice as the dashboard sends it. Amounts arrive as
// JSON numbers or as "$1,234.56" strings.
type invoicePayload struct {
	Network    string      `json:"network"`
	Amount     interface{} `json:"amount"`
	DueDate    string      `json:"dueDate"`
	DatePaid   string      `json:"datePaid"`
	AmountPaid interface{} `json:"amountPaid"`
	Notes      string      `json:"notes"`
}

func (p invoicePayload) invoice() (models.Invoice, error) {
	paid, err := optionalAmount(p.AmountPaid)
	if err != nil {
		return models.Invoice{}, err
	}
	return models.Invoice{
		Network:    strings.TrimSpace(p.Network),
		Amount:     models.ParseAmount(p.Amount),
		DueDate:    strings.TrimSpace(p.DueDate),
		DatePaid:   strings.TrimSpace(p.DatePaid),
		AmountPaid: paid,
		Notes:      p.Notes,
	}, nil
}

type invoiceRequest struct {
	Action     string          `json:"action"`
	Invoice    *invoicePayload `json:"invoice"`
	DatePaid   string          `json:"datePaid"`
	AmountPaid interface{}     `json:"amountPaid"`
}

// optionalAmount returns nil for an absent or blank amount and an error for
// one that is not a number.
func optionalAmount(v interface{}) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	amount, err := models.ParseAmountStrict(v)
	if err != nil {
		return nil, fmt.Errorf("amountPaid: %w", err)
	}
	return models.AmountPtr(amount), nil
}

func (s *Server) postInvoices(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err.Error())
		return
	}
	if req.Invoice == nil {
		abortInvalidRequest(c, "invoice is required")
		return
	}

	invoice, err := req.Invoice.invoice()
	if err != nil {
		abortInvalidRequest(c, err.Error())
		return
	}
	paid, err := optionalAmount(req.AmountPaid)
	if err != nil {
		abortInvalidRequest(c, err.Error())
		return
	}

	transition, err := lifecycle.ParseTransition(req.Action, invoice, strings.TrimSpace(req.DatePaid), paid)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := s.engine.Apply(c.Request.Context(), transition); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
