// Package worker finalizes expired polls: a sweeper enqueues snapshot jobs
// and a processor computes the final tally, archives it, and tells every
// open viewer the poll closed.
package worker

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/polls"
	"github.com/pulse-polls/backend/internal/realtime"
	"github.com/pulse-polls/backend/internal/results"
	"github.com/pulse-polls/backend/internal/votes"
	"github.com/pulse-polls/backend/pkg/queue"
	"github.com/pulse-polls/backend/pkg/storage"
)

// sweepBatch caps how many expired polls one sweep enqueues.
const sweepBatch = 100

// Sweeper periodically finds polls whose expiry passed without a snapshot
// and enqueues snapshot jobs. Snapshot inserts are idempotent, so a poll
// picked up by two overlapping sweeps is finalized once.
type Sweeper struct {
	pollRepo *polls.Repository
	queue    *queue.Queue
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper creates an expiry sweeper.
func NewSweeper(pollRepo *polls.Repository, q *queue.Queue, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{pollRepo: pollRepo, queue: q, interval: interval, logger: logger}
}

// Run sweeps on a ticker until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.pollRepo.ListExpiredWithoutSnapshot(ctx, sweepBatch)
	if err != nil {
		s.logger.Warn("expiry sweep failed", zap.Error(err))
		return
	}
	for _, p := range expired {
		if err := s.queue.EnqueueSnapshot(ctx, queue.SnapshotPayload{PollID: p.ID}); err != nil {
			s.logger.Warn("enqueue snapshot failed",
				zap.String("poll_id", p.ID.String()), zap.Error(err))
		}
	}
	if len(expired) > 0 {
		s.logger.Info("expired polls enqueued", zap.Int("count", len(expired)))
	}
}

// SnapshotProcessor consumes snapshot jobs: aggregate the final tally,
// optionally upload a CSV export, persist the snapshot, announce closure.
type SnapshotProcessor struct {
	pollRepo *polls.Repository
	voteRepo *votes.Repository
	snapRepo *results.SnapshotRepository
	s3       *storage.S3 // nil when exports are disabled
	queue    *queue.Queue
	pub      realtime.RedisPublisher
	logger   *zap.Logger
}

// NewSnapshotProcessor creates a snapshot job processor.
func NewSnapshotProcessor(pollRepo *polls.Repository, voteRepo *votes.Repository, snapRepo *results.SnapshotRepository,
	s3 *storage.S3, q *queue.Queue, pub realtime.RedisPublisher, logger *zap.Logger) *SnapshotProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotProcessor{
		pollRepo: pollRepo, voteRepo: voteRepo, snapRepo: snapRepo,
		s3: s3, queue: q, pub: pub, logger: logger,
	}
}

// Process executes one snapshot job.
func (p *SnapshotProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeResultSnapshot {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.SnapshotPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	poll, err := p.pollRepo.GetByID(ctx, payload.PollID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted between sweep and processing; nothing to finalize.
			p.logger.Info("poll gone before snapshot", zap.String("poll_id", payload.PollID.String()))
			return nil
		}
		return fmt.Errorf("get poll: %w", err)
	}

	voteRows, err := p.voteRepo.ListByPoll(ctx, payload.PollID)
	if err != nil {
		return fmt.Errorf("list votes: %w", err)
	}
	summary := results.Aggregate(poll.Options, voteRows)

	totals, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	exportURL := ""
	if p.s3 != nil {
		key := storage.ExportKey(payload.PollID.String())
		url, err := p.s3.UploadExport(ctx, key, bytes.NewReader(ExportCSV(summary)))
		if err != nil {
			// Export is best effort; the snapshot row is the durable record.
			p.logger.Warn("export upload failed",
				zap.String("poll_id", payload.PollID.String()), zap.Error(err))
		} else {
			exportURL = url
		}
	} else {
		p.logger.Debug("exports disabled, skipping upload",
			zap.String("poll_id", payload.PollID.String()))
	}

	if err := p.snapRepo.Insert(ctx, payload.PollID, totals, summary.TotalVotes, exportURL); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if p.pub != nil {
		closed, _ := json.Marshal(map[string]interface{}{
			"poll_id": payload.PollID, "total_votes": summary.TotalVotes,
		})
		_ = p.pub.PublishPollEvent(payload.PollID, realtime.EventPollClosed, closed)
	}

	p.logger.Info("poll snapshot recorded",
		zap.String("poll_id", payload.PollID.String()), zap.Int("total_votes", summary.TotalVotes))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *SnapshotProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("snapshot worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
		}
	}
}

// ExportCSV renders a result summary as a CSV document:
// option,count,percentage rows preceded by a header.
func ExportCSV(summary results.Summary) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"option", "count", "percentage"})
	for _, o := range summary.Options {
		_ = w.Write([]string{
			o.Text,
			strconv.Itoa(o.Count),
			strconv.FormatFloat(o.Percentage, 'f', 2, 64),
		})
	}
	w.Flush()
	return buf.Bytes()
}
