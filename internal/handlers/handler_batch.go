package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/utilikit/gl_posting_app/internal/apperrors"
	portssvc "github.com/utilikit/gl_posting_app/internal/core/ports/services"
	"github.com/utilikit/gl_posting_app/internal/dto"
	"github.com/utilikit/gl_posting_app/internal/middleware"
)

// batchHandler handles HTTP requests for the posting batch lifecycle.
type batchHandler struct {
	batchService  portssvc.BatchSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

// newBatchHandler creates a new batchHandler.
func newBatchHandler(batchService portssvc.BatchSvcFacade, ledgerService portssvc.LedgerSvcFacade) *batchHandler {
	return &batchHandler{
		batchService:  batchService,
		ledgerService: ledgerService,
	}
}

// respondLifecycleError maps service errors from the batch lifecycle onto
// HTTP statuses. Validation problems are the caller's fault (400), lifecycle
// conflicts and lost CAS races are 409, a closed period is 422.
func respondLifecycleError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
	case errors.Is(err, apperrors.ErrPeriodClosed):
		logger.Warn("Period closed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrAlreadyReversed),
		errors.Is(err, apperrors.ErrNotPosted),
		errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrConcurrentModification),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Lifecycle conflict", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Unexpected error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

func (h *batchHandler) createBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateBatchRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	batch, err := h.batchService.CreateBatch(c.Request.Context(), createReq, creatorUserID)
	if err != nil {
		respondLifecycleError(c, logger, err, "create batch")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBatchResponse(batch))
}

func (h *batchHandler) listBatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListBatchesParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.batchService.ListBatches(c.Request.Context(), params)
	if err != nil {
		respondLifecycleError(c, logger, err, "list batches")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *batchHandler) getBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	batch, err := h.batchService.GetBatchByID(c.Request.Context(), batchID)
	if err != nil {
		respondLifecycleError(c, logger, err, "retrieve batch")
		return
	}
	c.JSON(http.StatusOK, dto.ToBatchResponse(batch))
}

func (h *batchHandler) replaceEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	req := dto.ReplaceEntriesRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for replaceEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	batch, err := h.batchService.ReplaceEntries(c.Request.Context(), batchID, req, userID)
	if err != nil {
		respondLifecycleError(c, logger, err, "replace batch entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToBatchResponse(batch))
}

func (h *batchHandler) submitBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.batchService.SubmitBatch(c.Request.Context(), batchID, userID); err != nil {
		respondLifecycleError(c, logger, err, "submit batch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"batchID": batchID, "status": "PENDING_APPROVAL"})
}

func (h *batchHandler) approveBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.batchService.ApproveBatch(c.Request.Context(), batchID, approverID); err != nil {
		respondLifecycleError(c, logger, err, "approve batch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"batchID": batchID, "status": "APPROVED"})
}

func (h *batchHandler) rejectBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	req := dto.RejectBatchRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection reason is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.batchService.RejectBatch(c.Request.Context(), batchID, req.Reason, userID); err != nil {
		respondLifecycleError(c, logger, err, "reject batch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"batchID": batchID, "status": "REJECTED"})
}

func (h *batchHandler) postBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.batchService.PostBatch(c.Request.Context(), batchID, userID); err != nil {
		respondLifecycleError(c, logger, err, "post batch")
		return
	}

	logger.Info("Batch posted", slog.String("batch_id", batchID))
	c.JSON(http.StatusOK, gin.H{"batchID": batchID, "status": "POSTED"})
}

func (h *batchHandler) reverseBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	req := dto.ReverseBatchRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reversal reason is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.batchService.ReverseBatch(c.Request.Context(), batchID, req.Reason, userID)
	if err != nil {
		respondLifecycleError(c, logger, err, "reverse batch")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBatchResponse(reversal))
}

func (h *batchHandler) deleteBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.batchService.DeleteBatch(c.Request.Context(), batchID, userID); err != nil {
		respondLifecycleError(c, logger, err, "delete batch")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *batchHandler) getBatchLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	entries, err := h.ledgerService.GetBatchLedgerEntries(c.Request.Context(), batchID)
	if err != nil {
		respondLifecycleError(c, logger, err, "retrieve batch ledger entries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": dto.ToLedgerEntryResponses(entries)})
}

// registerBatchRoutes registers posting batch lifecycle routes.
func registerBatchRoutes(group *gin.RouterGroup, batchService portssvc.BatchSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newBatchHandler(batchService, ledgerService)

	batches := group.Group("/batches")
	{
		batches.POST("", h.createBatch)
		batches.GET("", h.listBatches)
		batches.GET("/:batchID", h.getBatch)
		batches.PUT("/:batchID/entries", h.replaceEntries)
		batches.POST("/:batchID/submit", h.submitBatch)
		batches.POST("/:batchID/approve", h.approveBatch)
		batches.POST("/:batchID/reject", h.rejectBatch)
		batches.POST("/:batchID/post", h.postBatch)
		batches.POST("/:batchID/reverse", h.reverseBatch)
		batches.DELETE("/:batchID", h.deleteBatch)
		batches.GET("/:batchID/ledger", h.getBatchLedgerEntries)
	}
}
