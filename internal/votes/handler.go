package votes

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/polls"
	"github.com/pulse-polls/backend/internal/realtime"
	"github.com/pulse-polls/backend/pkg/response"
)

// CastRequest is the body for POST /polls/:id/votes.
type CastRequest struct {
	Option string `json:"option"`
}

// Handler handles vote HTTP endpoints.
type Handler struct {
	repo     *Repository
	pollRepo *polls.Repository
	hub      *realtime.Hub
	logger   *zap.Logger
}

// NewHandler creates a votes handler.
func NewHandler(repo *Repository, pollRepo *polls.Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, pollRepo: pollRepo, hub: hub, logger: logger}
}

// Cast handles POST /polls/:id/votes. Voting is anonymous and failures come
// back as field errors so the form can render them inline. Nothing prevents
// the same browser from voting twice; that is a recorded product decision,
// not an oversight.
func (h *Handler) Cast(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}

	var req CastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Option == "" {
		response.FieldErrors(c, map[string][]string{"option": {"option is required"}})
		return
	}

	poll, err := h.pollRepo.GetByID(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "poll not found")
			return
		}
		h.logger.Error("get poll for vote", zap.Error(err))
		response.Internal(c, "failed to record vote")
		return
	}
	if poll.Expired(time.Now()) {
		response.FieldErrors(c, map[string][]string{"option": {"poll is closed"}})
		return
	}
	if !poll.HasOption(req.Option) {
		response.FieldErrors(c, map[string][]string{"option": {"option does not belong to this poll"}})
		return
	}

	v, err := h.repo.Insert(c.Request.Context(), pollID, req.Option)
	if err != nil {
		h.logger.Error("insert vote", zap.Error(err))
		response.Internal(c, "failed to record vote")
		return
	}

	h.hub.BroadcastToPollAndPublish(pollID, realtime.EventVoteCast, gin.H{
		"poll_id": pollID, "option": v.Option,
	})
	response.Created(c, gin.H{"ok": true, "vote_id": v.ID})
}
