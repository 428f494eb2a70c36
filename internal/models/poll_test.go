package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollExpired(t *testing.T) {
	now := time.Now()

	open := Poll{ExpiresAt: nil}
	assert.False(t, open.Expired(now), "a poll without expiry never expires")

	future := now.Add(time.Hour)
	assert.False(t, (&Poll{ExpiresAt: &future}).Expired(now))

	past := now.Add(-time.Hour)
	assert.True(t, (&Poll{ExpiresAt: &past}).Expired(now))

	// The boundary instant counts as expired.
	exactly := now
	assert.True(t, (&Poll{ExpiresAt: &exactly}).Expired(now))
}

func TestPollHasOption(t *testing.T) {
	p := Poll{Options: []string{"Go", "Rust"}}

	assert.True(t, p.HasOption("Go"))
	assert.False(t, p.HasOption("go"), "option match is exact, not case-folded")
	assert.False(t, p.HasOption("Zig"))
	assert.False(t, p.HasOption(""))
}
