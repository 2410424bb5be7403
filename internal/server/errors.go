package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cashflow/internal/lifecycle"
	"cashflow/internal/logger"
)

// KindInvalidRequest marks a body that could not be decoded or lacks a
// required field.
const KindInvalidRequest = "InvalidRequest"

type errorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Details string `json:"details,omitempty"`
}

var kindStatus = map[lifecycle.Kind]int{
	lifecycle.KindNotFound:              http.StatusNotFound,
	lifecycle.KindMissingPaymentDetails: http.StatusBadRequest,
	lifecycle.KindInvalidAction:         http.StatusBadRequest,
	lifecycle.KindStoreUnavailable:      http.StatusInternalServerError,
}

var kindMessage = map[lifecycle.Kind]string{
	lifecycle.KindNotFound:              "Invoice not found",
	lifecycle.KindMissingPaymentDetails: "Payment details required",
	lifecycle.KindInvalidAction:         "Invalid action",
	lifecycle.KindStoreUnavailable:      "Failed to update spreadsheet",
}

// abortWithError maps a lifecycle error onto its HTTP status and body.
func abortWithError(c *gin.Context, err error) {
	kind := lifecycle.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", string(kind)).Msg("request failed")
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Error:   kindMessage[kind],
		Kind:    string(kind),
		Details: lifecycle.DetailsOf(err),
	})
}

func abortInvalidRequest(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error:   "Invalid request",
		Kind:    KindInvalidRequest,
		Details: details,
	})
}
