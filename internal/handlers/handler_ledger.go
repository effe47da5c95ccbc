package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/dto"
	"github.com/utilikit/gl_posting_app/internal/middleware"
)

// ledgerHandler serves the read-only posted ledger stream.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

func (h *ledgerHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListLedgerEntriesParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.ListLedgerEntries(c.Request.Context(), params)
	if err != nil {
		respondLifecycleError(c, logger, err, "list ledger entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerLedgerRoutes registers ledger read routes.
func registerLedgerRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := group.Group("/ledger")
	{
		ledger.GET("/entries", h.listLedgerEntries)
	}
}
