package polls

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/middleware"
	"github.com/pulse-polls/backend/internal/realtime"
	"github.com/pulse-polls/backend/pkg/response"
)

// Handler handles poll HTTP endpoints.
type Handler struct {
	repo   *Repository
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates a polls handler.
func NewHandler(repo *Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, hub: hub, logger: logger}
}

// Create handles POST /polls (authenticated).
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if errs := in.Validate(time.Now()); errs != nil {
		response.FieldErrors(c, errs)
		return
	}

	p, err := h.repo.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.logger.Error("create poll", zap.Error(err))
		response.Internal(c, "failed to create poll")
		return
	}
	response.Created(c, p)
}

// List handles GET /polls (public).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list polls", zap.Error(err))
		response.Internal(c, "failed to list polls")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /polls/:id (public).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "poll not found")
			return
		}
		h.logger.Error("get poll", zap.Error(err))
		response.Internal(c, "failed to fetch poll")
		return
	}
	response.OK(c, p)
}

// Update handles PATCH /polls/:id (owner only). A missing poll and a poll
// owned by someone else produce the same 403 so existence is not leaked.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if errs := in.Validate(time.Now()); errs != nil {
		response.FieldErrors(c, errs)
		return
	}

	p, err := h.repo.Update(c.Request.Context(), id, userID, in)
	if err != nil {
		if errors.Is(err, domain.ErrNotOwner) {
			response.Forbidden(c, "poll not found or not yours")
			return
		}
		h.logger.Error("update poll", zap.Error(err))
		response.Internal(c, "failed to update poll")
		return
	}

	h.hub.BroadcastToPollAndPublish(id, realtime.EventPollUpdated, p)
	response.OK(c, p)
}

// Delete handles DELETE /polls/:id (owner only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	if err := h.repo.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrNotOwner) {
			response.Forbidden(c, "poll not found or not yours")
			return
		}
		h.logger.Error("delete poll", zap.Error(err))
		response.Internal(c, "failed to delete poll")
		return
	}

	h.hub.BroadcastToPollAndPublish(id, realtime.EventPollDeleted, gin.H{"id": id})
	response.NoContent(c)
}
