package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/dto"
	"github.com/utilikit/gl_posting_app/internal/middleware"
)

// recurringHandler handles HTTP requests for recurring entry templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newRecurringHandler(recurringService portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{recurringService: recurringService}
}

func (h *recurringHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateTemplateRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTemplate", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	template, err := h.recurringService.CreateTemplate(c.Request.Context(), req, userID)
	if err != nil {
		respondLifecycleError(c, logger, err, "create template")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTemplateResponse(template))
}

func (h *recurringHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	template, err := h.recurringService.GetTemplateByID(c.Request.Context(), templateID)
	if err != nil {
		respondLifecycleError(c, logger, err, "retrieve template")
		return
	}
	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

func (h *recurringHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	templates, err := h.recurringService.ListTemplates(c.Request.Context(), limit, offset)
	if err != nil {
		respondLifecycleError(c, logger, err, "list templates")
		return
	}

	resp := dto.ListTemplatesResponse{Templates: make([]dto.TemplateResponse, len(templates))}
	for i := range templates {
		resp.Templates[i] = dto.ToTemplateResponse(&templates[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *recurringHandler) suspendTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.recurringService.SuspendTemplate(c.Request.Context(), templateID, userID); err != nil {
		respondLifecycleError(c, logger, err, "suspend template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templateID": templateID, "status": "SUSPENDED"})
}

func (h *recurringHandler) reactivateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.recurringService.ReactivateTemplate(c.Request.Context(), templateID, userID); err != nil {
		respondLifecycleError(c, logger, err, "reactivate template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templateID": templateID, "status": "ACTIVE"})
}

func (h *recurringHandler) generateBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	req := dto.GenerateBatchRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asOfDate is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	batch, err := h.recurringService.GenerateBatch(c.Request.Context(), templateID, req.AsOfDate, userID)
	if err != nil {
		respondLifecycleError(c, logger, err, "generate batch from template")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBatchResponse(batch))
}

func (h *recurringHandler) generateDue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.GenerateBatchRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asOfDate is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	batches, err := h.recurringService.GenerateDue(c.Request.Context(), req.AsOfDate, userID)
	if err != nil {
		respondLifecycleError(c, logger, err, "run recurring sweep")
		return
	}

	responses := make([]dto.BatchResponse, len(batches))
	for i := range batches {
		responses[i] = dto.ToBatchResponse(&batches[i])
	}
	c.JSON(http.StatusOK, gin.H{"generated": responses})
}

// registerRecurringRoutes registers recurring template routes.
func registerRecurringRoutes(group *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	templates := group.Group("/recurring-templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:templateID", h.getTemplate)
		templates.POST("/:templateID/suspend", h.suspendTemplate)
		templates.POST("/:templateID/reactivate", h.reactivateTemplate)
		templates.POST("/:templateID/generate", h.generateBatch)
		templates.POST("/generate-due", h.generateDue)
	}
}
