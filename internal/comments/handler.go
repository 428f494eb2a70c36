package comments

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/middleware"
	"github.com/pulse-polls/backend/internal/realtime"
	"github.com/pulse-polls/backend/pkg/response"
)

// CreateRequest is the body for POST /polls/:id/comments.
type CreateRequest struct {
	Content         string `json:"content"`
	ParentCommentID string `json:"parent_comment_id"`
}

// UpdateRequest is the body for PATCH /comments/:id.
type UpdateRequest struct {
	Content string `json:"content"`
}

// Handler handles comment HTTP endpoints.
type Handler struct {
	repo   *Repository
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates a comments handler.
func NewHandler(repo *Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, hub: hub, logger: logger}
}

// currentUserID returns the authenticated user's ID, or uuid.Nil when the
// request is anonymous (OptionalJWT route).
func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(middleware.ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// ListByPoll handles GET /polls/:id/comments (public; ownership annotations
// need a token). Returns the comments already threaded.
func (h *Handler) ListByPoll(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}

	list, err := h.repo.ListByPoll(c.Request.Context(), pollID)
	if err != nil {
		h.logger.Error("list comments", zap.Error(err))
		response.Internal(c, "failed to fetch comments")
		return
	}

	userID := currentUserID(c)
	for i := range list {
		owns := userID != uuid.Nil && list[i].UserID == userID
		list[i].CanEdit = owns
		list[i].CanDelete = owns
	}

	response.OK(c, BuildThread(list))
}

// Create handles POST /polls/:id/comments (authenticated).
func (h *Handler) Create(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if errs := commentSchema.Evaluate(map[string]string{
		"content":           req.Content,
		"parent_comment_id": req.ParentCommentID,
	}); errs != nil {
		response.FieldErrors(c, errs)
		return
	}

	var parentID *uuid.UUID
	if req.ParentCommentID != "" {
		id, _ := uuid.Parse(req.ParentCommentID)
		parentID = &id
	}

	cm, err := h.repo.Insert(c.Request.Context(), pollID, userID, parentID, req.Content)
	if err != nil {
		h.logger.Error("insert comment", zap.Error(err))
		response.FieldErrors(c, map[string][]string{"db": {"failed to post comment"}})
		return
	}

	h.hub.BroadcastToPollAndPublish(pollID, realtime.EventCommentCreated, cm)
	response.Created(c, cm)
}

// Update handles PATCH /comments/:id (author only).
func (h *Handler) Update(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if errs := commentSchema.Evaluate(map[string]string{"content": req.Content}); errs != nil {
		response.FieldErrors(c, errs)
		return
	}

	cm, err := h.repo.Update(c.Request.Context(), commentID, userID, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrNotOwner) {
			response.Forbidden(c, "comment not found or not yours")
			return
		}
		h.logger.Error("update comment", zap.Error(err))
		response.FieldErrors(c, map[string][]string{"db": {"failed to update comment"}})
		return
	}

	h.hub.BroadcastToPollAndPublish(cm.PollID, realtime.EventCommentUpdated, cm)
	response.OK(c, cm)
}

// Delete handles DELETE /comments/:id (author only).
func (h *Handler) Delete(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	pollID, err := h.repo.Delete(c.Request.Context(), commentID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotOwner) {
			response.Forbidden(c, "comment not found or not yours")
			return
		}
		h.logger.Error("delete comment", zap.Error(err))
		response.FieldErrors(c, map[string][]string{"db": {"failed to delete comment"}})
		return
	}

	h.hub.BroadcastToPollAndPublish(pollID, realtime.EventCommentDeleted, gin.H{"id": commentID})
	response.NoContent(c)
}
