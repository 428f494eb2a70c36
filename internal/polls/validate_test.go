package polls

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		Title:   "Favorite backend language?",
		Options: []string{"Go", "Rust"},
	}
}

func TestValidate_OK(t *testing.T) {
	in := validInput()
	assert.Nil(t, in.Validate(time.Now()))
}

func TestValidate_TitleBounds(t *testing.T) {
	now := time.Now()

	in := validInput()
	in.Title = "abcd"
	errs := in.Validate(now)
	require.Contains(t, errs, "title")

	in = validInput()
	in.Title = strings.Repeat("x", 256)
	errs = in.Validate(now)
	require.Contains(t, errs, "title")

	in = validInput()
	in.Title = strings.Repeat("x", 255)
	assert.Nil(t, in.Validate(now))
}

func TestValidate_TitleTrimmedBeforeCheck(t *testing.T) {
	in := validInput()
	in.Title = "   ab   "
	errs := in.Validate(time.Now())
	require.Contains(t, errs, "title")
	assert.Equal(t, "ab", in.Title)
}

func TestValidate_DescriptionTooLong(t *testing.T) {
	in := validInput()
	in.Description = strings.Repeat("d", 1001)
	errs := in.Validate(time.Now())
	require.Contains(t, errs, "description")
}

func TestValidate_SingleOptionRejected(t *testing.T) {
	in := validInput()
	in.Options = []string{"Go"}
	errs := in.Validate(time.Now())
	require.Contains(t, errs, "options")
	// Rejected before anything else runs: the rest of the input is fine.
	assert.Len(t, errs, 1)
}

func TestValidate_DuplicateOptions(t *testing.T) {
	in := validInput()
	in.Options = []string{"Go", "go ", "Go"}
	errs := in.Validate(time.Now())
	require.Contains(t, errs, "options")
}

func TestValidate_EmptyOptionAfterTrim(t *testing.T) {
	in := validInput()
	in.Options = []string{"Go", "   "}
	errs := in.Validate(time.Now())
	require.Contains(t, errs, "options")
}

func TestValidate_ExpiryMustBeFuture(t *testing.T) {
	now := time.Now()

	in := validInput()
	past := now.Add(-time.Minute)
	in.ExpiresAt = &past
	errs := in.Validate(now)
	require.Contains(t, errs, "expires_at")

	in = validInput()
	exactly := now
	in.ExpiresAt = &exactly
	errs = in.Validate(now)
	require.Contains(t, errs, "expires_at")

	in = validInput()
	future := now.Add(time.Hour)
	in.ExpiresAt = &future
	assert.Nil(t, in.Validate(now))
}

func TestValidate_NilExpiryAllowed(t *testing.T) {
	in := validInput()
	in.ExpiresAt = nil
	assert.Nil(t, in.Validate(time.Now()))
}
