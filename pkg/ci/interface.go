// Package ci abstracts the CI platform surface the reporter writes to:
// the conversation thread, the job summary, and the step outputs.
package ci

import (
	"context"

	log "github.com/charmbracelet/log"
)

// Provider name constants. Only providers with actual implementations
// are listed.
const (
	GitHub  = "github"
	Unknown = "unknown"
)

// Integration is the main CI integration interface.
type Integration interface {
	// Core functionality.
	DetectContext() (Context, error)
	CreateCommentManager(ctx Context, logger *log.Logger) CommentManager

	// Optional capabilities - return nil if not supported.
	GetJobSummaryWriter() JobSummaryWriter
	GetOutputWriter() OutputWriter

	// Metadata.
	Provider() string
	IsAvailable() bool
}

// Context provides CI-specific context information.
type Context interface {
	GetOwner() string
	GetRepo() string
	GetPRNumber() int
	GetToken() string
	GetEventName() string
	IsSupported() bool
	Provider() string
	String() string
}

// CommentManager handles conversation-thread operations. Upserts are
// keyed by a fixed marker in the rendered body, so a thread never ends
// up with more than one report entry.
type CommentManager interface {
	PostOrUpdateComment(ctx context.Context, ciCtx Context, content string) error
	FindExistingComment(ctx context.Context, ciCtx Context, marker string) (interface{}, error)
}

// JobSummaryWriter appends content to the run summary (optional
// capability). Summaries are per-run; no deduplication applies.
type JobSummaryWriter interface {
	WriteJobSummary(content string) (string, error)
	IsJobSummarySupported() bool
	GetJobSummaryPath() string
}

// OutputWriter publishes key/value results for downstream steps
// (optional capability).
type OutputWriter interface {
	WriteOutput(key, value string) error
}
