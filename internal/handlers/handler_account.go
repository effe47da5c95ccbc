package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/dto"
	"github.com/utilikit/gl_posting_app/internal/middleware"
)

// accountHandler serves read-only chart-of-accounts lookups.
type accountHandler struct {
	accountService portssvc.ChartOfAccountsSvcFacade
}

func newAccountHandler(accountService portssvc.ChartOfAccountsSvcFacade) *accountHandler {
	return &accountHandler{accountService: accountService}
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondLifecycleError(c, logger, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), limit, offset)
	if err != nil {
		respondLifecycleError(c, logger, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToAccountResponses(accounts)})
}

// registerAccountRoutes registers chart-of-accounts read routes.
func registerAccountRoutes(group *gin.RouterGroup, accountService portssvc.ChartOfAccountsSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := group.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
	}
}
