package http

import (
	"errors"
	"net/http"

	"agency-pulse/internal/entity"
	"agency-pulse/internal/usecase"
	"agency-pulse/pkg/logger"

	"github.com/gin-gonic/gin"
)

type QuotaHandler struct {
	quotaUseCase usecase.QuotaUseCase
	logger       *logger.Logger
}

func NewQuotaHandler(quotaUseCase usecase.QuotaUseCase, logger *logger.Logger) *QuotaHandler {
	return &QuotaHandler{
		quotaUseCase: quotaUseCase,
		logger:       logger,
	}
}

// GetQuota godoc
// @Summary      Get quota status
// @Description  Get the authenticated subscriber's remaining allowance for the current cycle
// @Tags         quota
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.QuotaStatus
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /quota [get]
func (h *QuotaHandler) GetQuota(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	status, err := h.quotaUseCase.GetStatus(c.Request.Context(), subscriberID)
	if err != nil {
		if errors.Is(err, entity.ErrLedgerFrozen) {
			c.JSON(http.StatusConflict, gin.H{"error": "Quota ledger is frozen pending reconciliation"})
			return
		}
		h.logger.Error("Failed to get quota status for %s: %v", subscriberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quota status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// CreateSnapshot godoc
// @Summary      Snapshot quota state
// @Description  Record the current cycle's usage so a later bulk operation can be rolled back to this point
// @Tags         quota
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  entity.QuotaSnapshot
// @Failure      500  {object}  map[string]string
// @Router       /quota/snapshots [post]
func (h *QuotaHandler) CreateSnapshot(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	snapshot, err := h.quotaUseCase.Snapshot(c.Request.Context(), subscriberID)
	if err != nil {
		h.logger.Error("Failed to snapshot quota for %s: %v", subscriberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create snapshot"})
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// RestoreSnapshot godoc
// @Summary      Restore quota from a snapshot
// @Description  Release the units consumed since the snapshot was taken. Snapshots from a previous cycle are a no-op.
// @Tags         quota
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Snapshot ID"
// @Success      200  {object}  entity.QuotaStatus
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /quota/snapshots/{id}/restore [post]
func (h *QuotaHandler) RestoreSnapshot(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	status, err := h.quotaUseCase.RestoreSnapshot(c.Request.Context(), subscriberID, c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrSnapshotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Snapshot not found"})
			return
		}
		h.logger.Error("Failed to restore snapshot for %s: %v", subscriberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore snapshot"})
		return
	}

	c.JSON(http.StatusOK, status)
}
