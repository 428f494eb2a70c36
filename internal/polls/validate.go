package polls

import (
	"strings"
	"time"
)

// Input is the validated shape for poll create/update.
type Input struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Options     []string   `json:"options"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// Validate checks the poll invariants and returns per-field messages.
// An empty map means the input is valid. Option and title text is trimmed
// in place so the stored values match what was validated.
func (in *Input) Validate(now time.Time) map[string][]string {
	errs := make(map[string][]string)

	in.Title = strings.TrimSpace(in.Title)
	if len(in.Title) < 5 || len(in.Title) > 255 {
		errs["title"] = append(errs["title"], "title must be between 5 and 255 characters")
	}

	if len(in.Description) > 1000 {
		errs["description"] = append(errs["description"], "description cannot exceed 1000 characters")
	}

	for i := range in.Options {
		in.Options[i] = strings.TrimSpace(in.Options[i])
	}
	if len(in.Options) < 2 {
		errs["options"] = append(errs["options"], "provide at least two options")
	}
	seen := make(map[string]struct{}, len(in.Options))
	for _, opt := range in.Options {
		if len(opt) < 1 || len(opt) > 255 {
			errs["options"] = append(errs["options"], "each option must be between 1 and 255 characters")
			break
		}
	}
	for _, opt := range in.Options {
		if _, dup := seen[opt]; dup {
			errs["options"] = append(errs["options"], "options must be unique")
			break
		}
		seen[opt] = struct{}{}
	}

	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		errs["expires_at"] = append(errs["expires_at"], "expiration must be in the future")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
