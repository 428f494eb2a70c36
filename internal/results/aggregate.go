// Package results computes per-option tallies from raw vote rows. There is
// no incremental counter anywhere: every read recomputes from the rows,
// which trades a little read cost for the absence of an entire class of
// counter-drift bugs.
package results

import "github.com/pulse-polls/backend/internal/models"

// OptionResult is the tally for one option. Option text is the option's
// identity, so it serves as both label and key.
type OptionResult struct {
	Text       string  `json:"text"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Summary is the aggregated result of a poll.
type Summary struct {
	TotalVotes int            `json:"total_votes"`
	Options    []OptionResult `json:"options"`
	// Unmatched counts votes whose option matches none of the poll's
	// options. The store's FK cascade makes this impossible in normal
	// operation (options are text, not FK-checked), so a nonzero value is
	// flagged to the caller rather than silently folded in.
	Unmatched int `json:"unmatched,omitempty"`
}

// Aggregate computes per-option counts and percentages. Option order in the
// output preserves the poll's declared order, never vote count. With zero
// votes every percentage is 0 rather than a division by zero.
func Aggregate(options []string, votes []models.Vote) Summary {
	counts := make(map[string]int, len(options))
	for _, o := range options {
		counts[o] = 0
	}

	unmatched := 0
	for _, v := range votes {
		if _, ok := counts[v.Option]; ok {
			counts[v.Option]++
		} else {
			unmatched++
		}
	}

	total := len(votes)
	out := make([]OptionResult, 0, len(options))
	for _, o := range options {
		r := OptionResult{Text: o, Count: counts[o]}
		if total > 0 {
			r.Percentage = float64(r.Count) / float64(total) * 100
		}
		out = append(out, r)
	}
	return Summary{TotalVotes: total, Options: out, Unmatched: unmatched}
}
