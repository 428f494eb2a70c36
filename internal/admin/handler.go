package admin

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/middleware"
	"github.com/pulse-polls/backend/pkg/response"
)

// Handler handles admin role-management endpoints. All routes sit behind
// RequireRole("admin").
type Handler struct {
	store  UserStore
	logger *zap.Logger
}

// NewHandler creates an admin handler.
func NewHandler(store UserStore, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}

// Promote handles POST /admin/users/:id/promote.
func (h *Handler) Promote(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.store.Promote(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("promote user", zap.Error(err))
		response.Internal(c, "failed to promote user")
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	h.logger.Info("user promoted to admin",
		zap.String("user_id", targetID.String()), zap.String("by", actorID.String()))
	response.OK(c, gin.H{"id": targetID, "role": "admin"})
}

// Demote handles POST /admin/users/:id/demote. Self-demotion is forbidden
// and the last admin can never be demoted.
func (h *Handler) Demote(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if actorID == targetID {
		response.Forbidden(c, domain.ErrSelfDemotion.Error())
		return
	}

	if err := h.store.Demote(c.Request.Context(), targetID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, domain.ErrNotAdmin):
			response.BadRequest(c, domain.ErrNotAdmin.Error())
		case errors.Is(err, domain.ErrLastAdmin):
			response.Conflict(c, domain.ErrLastAdmin.Error())
		default:
			h.logger.Error("demote user", zap.Error(err))
			response.Internal(c, "failed to demote user")
		}
		return
	}

	h.logger.Info("user demoted to regular user",
		zap.String("user_id", targetID.String()), zap.String("by", actorID.String()))
	response.OK(c, gin.H{"id": targetID, "role": "user"})
}
