package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulse-polls/backend/internal/results"
)

func TestExportCSV(t *testing.T) {
	summary := results.Summary{
		TotalVotes: 4,
		Options: []results.OptionResult{
			{Text: "Go", Count: 3, Percentage: 75},
			{Text: "Rust", Count: 1, Percentage: 25},
		},
	}

	got := string(ExportCSV(summary))
	assert.Equal(t, "option,count,percentage\nGo,3,75.00\nRust,1,25.00\n", got)
}

func TestExportCSV_QuotesSpecialCharacters(t *testing.T) {
	summary := results.Summary{
		TotalVotes: 1,
		Options: []results.OptionResult{
			{Text: `Yes, "definitely"`, Count: 1, Percentage: 100},
		},
	}

	got := string(ExportCSV(summary))
	assert.Equal(t, "option,count,percentage\n\"Yes, \"\"definitely\"\"\",1,100.00\n", got)
}

func TestExportCSV_EmptySummary(t *testing.T) {
	got := string(ExportCSV(results.Summary{}))
	assert.Equal(t, "option,count,percentage\n", got)
}
