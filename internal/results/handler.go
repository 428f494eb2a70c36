package results

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/polls"
	"github.com/pulse-polls/backend/internal/votes"
	"github.com/pulse-polls/backend/pkg/response"
	"github.com/pulse-polls/backend/pkg/storage"
)

// Handler handles result HTTP endpoints.
type Handler struct {
	pollRepo *polls.Repository
	voteRepo *votes.Repository
	snapRepo *SnapshotRepository
	s3       *storage.S3 // nil when exports are disabled
	logger   *zap.Logger
}

// NewHandler creates a results handler.
func NewHandler(pollRepo *polls.Repository, voteRepo *votes.Repository, snapRepo *SnapshotRepository, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{pollRepo: pollRepo, voteRepo: voteRepo, snapRepo: snapRepo, s3: s3, logger: logger}
}

// GetByPoll handles GET /polls/:id/results (public). Fetches the option
// list and the raw vote rows, then aggregates synchronously.
func (h *Handler) GetByPoll(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}

	poll, err := h.pollRepo.GetByID(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "poll not found")
			return
		}
		h.logger.Error("get poll for results", zap.Error(err))
		response.Internal(c, "failed to fetch results")
		return
	}

	voteRows, err := h.voteRepo.ListByPoll(c.Request.Context(), pollID)
	if err != nil {
		h.logger.Error("list votes", zap.Error(err))
		response.Internal(c, "failed to fetch results")
		return
	}

	summary := Aggregate(poll.Options, voteRows)
	if summary.Unmatched > 0 {
		h.logger.Warn("votes reference unknown options",
			zap.String("poll_id", pollID.String()), zap.Int("unmatched", summary.Unmatched))
	}
	response.OK(c, summary)
}

// GetSnapshot handles GET /polls/:id/snapshot (public): the archived final
// tally of an expired poll, with a fresh pre-signed export URL when an
// export was uploaded.
func (h *Handler) GetSnapshot(c *gin.Context) {
	pollID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poll id")
		return
	}

	snap, err := h.snapRepo.GetByPoll(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "no snapshot for this poll")
			return
		}
		h.logger.Error("get snapshot", zap.Error(err))
		response.Internal(c, "failed to fetch snapshot")
		return
	}

	body := gin.H{
		"poll_id":     snap.PollID,
		"totals":      json.RawMessage(snap.Totals),
		"total_votes": snap.TotalVotes,
		"created_at":  snap.CreatedAt,
	}
	if h.s3 != nil && snap.ExportURL != "" {
		if url, err := h.s3.PresignDownload(c.Request.Context(), storage.ExportKey(pollID.String())); err == nil {
			body["export_url"] = url
		}
	}
	response.OK(c, body)
}
