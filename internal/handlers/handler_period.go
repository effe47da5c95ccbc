package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/middleware"
)

// periodHandler serves read-only accounting period lookups.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(periodService portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: periodService}
}

func (h *periodHandler) checkPeriodOpen(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	open, err := h.periodService.IsOpen(c.Request.Context(), date)
	if err != nil {
		respondLifecycleError(c, logger, err, "check period")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": dateStr, "open": open})
}

func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fiscalYear, err := strconv.Atoi(c.Query("fiscalYear"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fiscalYear is required"})
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), fiscalYear)
	if err != nil {
		respondLifecycleError(c, logger, err, "list periods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"fiscalYear": fiscalYear, "periods": periods})
}

// registerPeriodRoutes registers accounting period read routes.
func registerPeriodRoutes(group *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := group.Group("/periods")
	{
		periods.GET("/open", h.checkPeriodOpen)
		periods.GET("", h.listPeriods)
	}
}
