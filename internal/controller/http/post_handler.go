package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"agency-pulse/internal/entity"
	"agency-pulse/internal/usecase"
	"agency-pulse/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase    usecase.PostUseCase
	publishUseCase usecase.PublishUseCase
	logger         *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, publishUseCase usecase.PublishUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase:    postUseCase,
		publishUseCase: publishUseCase,
		logger:         logger,
	}
}

type CreatePostRequest struct {
	Platform     string `form:"platform" binding:"required,oneof=facebook instagram linkedin x youtube"`
	Content      string `form:"content" binding:"required"`
	ScheduledFor string `form:"scheduled_for"`
}

// CreatePost godoc
// @Summary      Create a draft post
// @Description  Create a draft post for one platform. Optional media file is stored and attached to the draft. Creating a draft never consumes quota.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        platform formData string true "Target platform" Enums(facebook, instagram, linkedin, x, youtube)
// @Param        content formData string true "Post content"
// @Param        scheduled_for formData string false "RFC3339 time to publish at (defaults to now)"
// @Param        media formData file false "Media file to attach"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	var req CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.CreateDraftInput{
		SubscriberID: subscriberID,
		Platform:     entity.Platform(req.Platform),
		Content:      req.Content,
	}

	if req.ScheduledFor != "" {
		scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_for must be RFC3339"})
			return
		}
		input.ScheduledFor = scheduledFor
	}

	if fileHeader, err := c.FormFile("media"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read media file"})
			return
		}
		defer file.Close()
		input.Media = file
		input.MediaName = fileHeader.Filename
		input.MediaType = fileHeader.Header.Get("Content-Type")
	}

	post, err := h.postUseCase.CreateDraft(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, entity.ErrSubscriberInactive) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Subscription is not active"})
			return
		}
		h.logger.Error("Failed to create draft: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary      Get post by ID
// @Description  Get one of the authenticated subscriber's posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	post, err := h.postUseCase.GetPost(c.Request.Context(), subscriberID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary      List posts
// @Description  List the authenticated subscriber's posts, newest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of posts to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	limit := 50
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	posts, err := h.postUseCase.ListPosts(c.Request.Context(), subscriberID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts), "offset": offset})
}

// ListAttempts godoc
// @Summary      List publish attempts
// @Description  List delivery attempts recorded for a post, newest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id}/attempts [get]
func (h *PostHandler) ListAttempts(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	attempts, err := h.postUseCase.ListAttempts(c.Request.Context(), subscriberID, c.Param("id"), 20)
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("Failed to list attempts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attempts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "count": len(attempts)})
}

// ApprovePost godoc
// @Summary      Approve a draft
// @Description  Move a draft to approved so it becomes eligible for publishing. Approving an already approved post is a no-op.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /posts/{id}/approve [post]
func (h *PostHandler) ApprovePost(c *gin.Context) {
	subscriberID := c.GetString("user_id")
	postID := c.Param("id")

	if _, err := h.postUseCase.GetPost(c.Request.Context(), subscriberID, postID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	post, err := h.publishUseCase.Approve(c.Request.Context(), postID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, entity.ErrSubscriberInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Subscription is not active"})
		default:
			h.logger.Error("Failed to approve post %s: %v", postID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve post"})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// PublishPost godoc
// @Summary      Publish a post
// @Description  Publish an approved post to its platform immediately. The response always carries the outcome, the error class on failure and the remaining quota.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.PublishResult
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  entity.PublishResult
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id}/publish [post]
func (h *PostHandler) PublishPost(c *gin.Context) {
	subscriberID := c.GetString("user_id")
	postID := c.Param("id")

	if _, err := h.postUseCase.GetPost(c.Request.Context(), subscriberID, postID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	result, err := h.publishUseCase.Publish(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, entity.ErrLedgerFrozen) {
			c.JSON(http.StatusConflict, gin.H{"error": "Quota ledger is frozen pending reconciliation"})
			return
		}
		h.logger.Error("Failed to publish post %s: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish post"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

type PublishBatchRequest struct {
	PostIDs []string `json:"post_ids" binding:"required,min=1,max=5"`
}

// PublishBatch godoc
// @Summary      Publish a group of posts
// @Description  Publish several approved posts as one multi-platform action. Each post charges its own quota unit; the aggregate status is published, partial or failed.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PublishBatchRequest true "Posts to publish together"
// @Success      200  {object}  entity.GroupResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/publish-batch [post]
func (h *PostHandler) PublishBatch(c *gin.Context) {
	subscriberID := c.GetString("user_id")

	var req PublishBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Ownership check up front so the group either runs entirely against
	// the caller's posts or not at all.
	for _, postID := range req.PostIDs {
		if _, err := h.postUseCase.GetPost(c.Request.Context(), subscriberID, postID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found: " + postID})
			return
		}
	}

	result, err := h.publishUseCase.PublishGroup(c.Request.Context(), req.PostIDs)
	if err != nil {
		h.logger.Error("Failed to publish batch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish posts"})
		return
	}

	c.JSON(http.StatusOK, result)
}
