package results

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-polls/backend/internal/models"
)

func votesFor(pollID uuid.UUID, options ...string) []models.Vote {
	out := make([]models.Vote, 0, len(options))
	for _, o := range options {
		out = append(out, models.Vote{ID: uuid.New(), PollID: pollID, Option: o})
	}
	return out
}

func TestAggregate_NoVotes(t *testing.T) {
	s := Aggregate([]string{"Go", "Rust", "Zig"}, nil)

	assert.Equal(t, 0, s.TotalVotes)
	require.Len(t, s.Options, 3)
	for _, o := range s.Options {
		assert.Equal(t, 0, o.Count)
		assert.Equal(t, 0.0, o.Percentage)
	}
}

func TestAggregate_CountsAndPercentages(t *testing.T) {
	pollID := uuid.New()
	votes := votesFor(pollID, "Go", "Go", "Go", "Rust")

	s := Aggregate([]string{"Go", "Rust", "Zig"}, votes)

	assert.Equal(t, 4, s.TotalVotes)
	require.Len(t, s.Options, 3)
	assert.Equal(t, OptionResult{Text: "Go", Count: 3, Percentage: 75}, s.Options[0])
	assert.Equal(t, OptionResult{Text: "Rust", Count: 1, Percentage: 25}, s.Options[1])
	assert.Equal(t, OptionResult{Text: "Zig", Count: 0, Percentage: 0}, s.Options[2])
}

func TestAggregate_PreservesDeclaredOptionOrder(t *testing.T) {
	pollID := uuid.New()
	// "b" has more votes but "a" was declared first.
	votes := votesFor(pollID, "b", "b", "a")

	s := Aggregate([]string{"a", "b"}, votes)

	require.Len(t, s.Options, 2)
	assert.Equal(t, "a", s.Options[0].Text)
	assert.Equal(t, "b", s.Options[1].Text)
}

func TestAggregate_PercentagesSumToHundred(t *testing.T) {
	pollID := uuid.New()
	votes := votesFor(pollID, "x", "y", "z", "x", "y", "x", "z")

	s := Aggregate([]string{"x", "y", "z"}, votes)

	sum := 0.0
	count := 0
	for _, o := range s.Options {
		sum += o.Percentage
		count += o.Count
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.Equal(t, s.TotalVotes, count)
}

func TestAggregate_UnmatchedVotesFlagged(t *testing.T) {
	pollID := uuid.New()
	votes := votesFor(pollID, "Go", "COBOL")

	s := Aggregate([]string{"Go", "Rust"}, votes)

	assert.Equal(t, 2, s.TotalVotes)
	assert.Equal(t, 1, s.Unmatched)
	// The stray vote still counts toward the total, so Go holds 50%.
	assert.Equal(t, 1, s.Options[0].Count)
	assert.Equal(t, 50.0, s.Options[0].Percentage)
}
