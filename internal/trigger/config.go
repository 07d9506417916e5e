package trigger

import (
	"context"
	"time"
)

// DefaultResumeDelay is how long the host must have been inactive before a
// resume triggers a fetch.
const DefaultResumeDelay = 5 * time.Minute

// FetchFunc refreshes the owner's data. Its errors and retries are the owner's
// business.
type FetchFunc func(ctx context.Context)

// Config configures a Controller. It is copied at construction.
type Config struct {
	Fetch FetchFunc // nil makes every trigger a no-op

	// IgnoreAppState disables the lifecycle listener entirely.
	IgnoreAppState bool

	// ResumeDelay is the minimum inactivity before a resume fetches. Zero uses
	// DefaultResumeDelay; negative fetches on every resume.
	ResumeDelay time.Duration
}

// HandleAppState reports whether lifecycle events are observed.
func (c Config) HandleAppState() bool {
	return !c.IgnoreAppState
}

// EffectiveResumeDelay resolves the zero and negative conventions.
func (c Config) EffectiveResumeDelay() time.Duration {
	switch {
	case c.ResumeDelay == 0:
		return DefaultResumeDelay
	case c.ResumeDelay < 0:
		return 0
	default:
		return c.ResumeDelay
	}
}
