package ci

import "errors"

// Common CI errors that apply across all providers.
var (
	// Integration errors.
	ErrNoIntegrationDetected   = errors.New("no CI integration detected")
	ErrIntegrationNotSupported = errors.New("CI provider not supported")

	// Context errors.
	ErrContextNotDetected  = errors.New("CI context could not be detected")
	ErrContextNotSupported = errors.New("current CI context does not support this operation")

	// Comment errors.
	ErrNoPullRequestContext = errors.New("conversation reporting requires a pull request number in context")
	ErrCommentUpdateFailed  = errors.New("failed to update existing comment")
	ErrCommentCreateFailed  = errors.New("failed to create new comment")

	// Job summary errors.
	ErrJobSummaryNotSupported = errors.New("job summaries not supported for this CI provider")
	ErrJobSummaryWriteFailed  = errors.New("failed to write job summary")
)
