package github

import (
	"context"
	"fmt"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/google/go-github/v59/github"

	"github.com/patzick/explore-openapi-snapshot/internal/markdown"
	"github.com/patzick/explore-openapi-snapshot/pkg/ci"
)

// CommentsPerPage is the number of comments to fetch per API call.
const CommentsPerPage = 100

// maxCommentPages bounds the marker search on very long threads.
const maxCommentPages = 1000

// CommentManager handles GitHub PR comment operations.
type CommentManager struct {
	client Client
	logger *log.Logger
}

// NewCommentManager creates a new comment manager.
func NewCommentManager(client Client, logger *log.Logger) *CommentManager {
	return &CommentManager{
		client: client,
		logger: logger,
	}
}

// FindExistingComment searches for the first comment containing the
// marker string, paging through all comments on the PR. Returns nil when
// no marked comment exists.
func (m *CommentManager) FindExistingComment(ctx context.Context, owner, repo string, prNumber int, marker string) (*github.IssueComment, error) {
	if prNumber <= 0 {
		return nil, ci.ErrNoPullRequestContext
	}

	page := 1
	m.logger.Debug("Searching for existing report comment",
		"owner", owner,
		"repo", repo,
		"pr", prNumber)

	for {
		opts := &github.IssueListCommentsOptions{
			ListOptions: github.ListOptions{
				Page:    page,
				PerPage: CommentsPerPage,
			},
		}

		comments, resp, err := m.client.ListIssueComments(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments (page %d): %w", page, err)
		}

		for _, comment := range comments {
			if comment.Body != nil && strings.Contains(*comment.Body, marker) {
				m.logger.Debug("Found existing report comment",
					"comment_id", comment.GetID(),
					"page", page)
				return comment, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage

		if page > maxCommentPages {
			m.logger.Warn("Reached maximum page limit while searching for comment", "page", page)
			break
		}
	}

	m.logger.Debug("No existing report comment found")
	return nil, nil
}

// PostOrUpdateComment upserts the report comment: updates the first
// marker-tagged comment in place, or creates one when none exists. This
// keeps at most one report entry per conversation across reruns.
func (m *CommentManager) PostOrUpdateComment(ctx context.Context, ghCtx ci.Context, body string) error {
	if ghCtx == nil {
		return ci.ErrContextNotDetected
	}
	if !ghCtx.IsSupported() {
		return fmt.Errorf("%w: event %q", ci.ErrContextNotSupported, ghCtx.GetEventName())
	}

	if len(body) > markdown.CommentSizeLimit {
		// Rendering should have sized the body already; guard anyway.
		m.logger.Warn("Comment content exceeds GitHub limit",
			"size", len(body),
			"limit", markdown.CommentSizeLimit)
		body = markdown.Truncate(body, markdown.CommentSizeLimit)
	}

	existing, err := m.FindExistingComment(ctx, ghCtx.GetOwner(), ghCtx.GetRepo(), ghCtx.GetPRNumber(), markdown.Marker)
	if err != nil {
		return fmt.Errorf("failed to search for existing comment: %w", err)
	}

	comment := &github.IssueComment{Body: github.String(body)}

	if existing != nil {
		m.logger.Info("Updating existing report comment",
			"comment_id", existing.GetID(),
			"pr", ghCtx.GetPRNumber())

		if _, _, err := m.client.UpdateComment(ctx, ghCtx.GetOwner(), ghCtx.GetRepo(), existing.GetID(), comment); err != nil {
			return fmt.Errorf("%w: %w", ci.ErrCommentUpdateFailed, err)
		}
		return nil
	}

	m.logger.Info("Creating report comment", "pr", ghCtx.GetPRNumber())
	created, _, err := m.client.CreateComment(ctx, ghCtx.GetOwner(), ghCtx.GetRepo(), ghCtx.GetPRNumber(), comment)
	if err != nil {
		return fmt.Errorf("%w: %w", ci.ErrCommentCreateFailed, err)
	}
	m.logger.Info("Report comment created", "comment_id", created.GetID())
	return nil
}
