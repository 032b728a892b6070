package http

import (
	"net/http"

	"agency-pulse/internal/usecase"
	"agency-pulse/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewConnectionHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

// ListConnections godoc
// @Summary      List platform connections
// @Description  List the authenticated subscriber's platform connections. Tokens are never returned.
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /connections [get]
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	connections, err := h.postUseCase.ListConnections(c.Request.Context(), subscriberID)
	if err != nil {
		h.logger.Error("Failed to list connections for %s: %v", subscriberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch connections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connections": connections, "count": len(connections)})
}
