package github

import (
	"context"
	"io"
	"testing"

	log "github.com/charmbracelet/log"
	"github.com/google/go-github/v59/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patzick/explore-openapi-snapshot/internal/markdown"
	"github.com/patzick/explore-openapi-snapshot/pkg/ci"
	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

// fakeClient records comment operations in memory.
type fakeClient struct {
	comments []*github.IssueComment
	nextID   int64

	created []string
	updated map[int64]string
	listErr error
}

func newFakeClient(existing ...string) *fakeClient {
	c := &fakeClient{updated: map[int64]string{}, nextID: 1}
	for _, body := range existing {
		b := body
		c.comments = append(c.comments, &github.IssueComment{
			ID:   github.Int64(c.nextID),
			Body: github.String(b),
		})
		c.nextID++
	}
	return c
}

func (c *fakeClient) ListIssueComments(_ context.Context, _, _ string, _ int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error) {
	if c.listErr != nil {
		return nil, nil, c.listErr
	}
	if opts.Page > 1 {
		return nil, &github.Response{NextPage: 0}, nil
	}
	return c.comments, &github.Response{NextPage: 0}, nil
}

func (c *fakeClient) CreateComment(_ context.Context, _, _ string, _ int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error) {
	created := &github.IssueComment{
		ID:   github.Int64(c.nextID),
		Body: comment.Body,
	}
	c.nextID++
	c.comments = append(c.comments, created)
	c.created = append(c.created, comment.GetBody())
	return created, &github.Response{}, nil
}

func (c *fakeClient) UpdateComment(_ context.Context, _, _ string, commentID int64, comment *github.IssueComment) (*github.IssueComment, *github.Response, error) {
	c.updated[commentID] = comment.GetBody()
	for _, existing := range c.comments {
		if existing.GetID() == commentID {
			existing.Body = comment.Body
		}
	}
	return &github.IssueComment{ID: github.Int64(commentID), Body: comment.Body}, &github.Response{}, nil
}

func (c *fakeClient) markedCount() int {
	count := 0
	for _, comment := range c.comments {
		if comment.Body != nil && containsMarker(*comment.Body) {
			count++
		}
	}
	return count
}

func containsMarker(body string) bool {
	return len(body) >= len(markdown.Marker) && body[:len(markdown.Marker)] == markdown.Marker
}

func prReportContext() ci.Context {
	return &gitHubContext{
		underlying: &ghctx.Context{
			EventName: "pull_request",
			Owner:     "acme",
			Repo:      "petstore",
			PRNumber:  123,
		},
		token: "gh-token",
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestPostOrUpdateCreatesWhenNoneExists(t *testing.T) {
	client := newFakeClient("an unrelated comment")
	manager := NewCommentManager(client, discardLogger())

	body := markdown.Marker + "\n\nreport body"
	require.NoError(t, manager.PostOrUpdateComment(context.Background(), prReportContext(), body))

	assert.Len(t, client.created, 1)
	assert.Empty(t, client.updated)
	assert.Equal(t, 1, client.markedCount())
}

func TestPostOrUpdateUpdatesExistingMarkedComment(t *testing.T) {
	client := newFakeClient(
		"an unrelated comment",
		markdown.Marker+"\n\nold report",
	)
	manager := NewCommentManager(client, discardLogger())

	body := markdown.Marker + "\n\nnew report"
	require.NoError(t, manager.PostOrUpdateComment(context.Background(), prReportContext(), body))

	assert.Empty(t, client.created, "must update in place, not create")
	assert.Equal(t, body, client.updated[2])
	assert.Equal(t, 1, client.markedCount())
}

func TestPostOrUpdateIdempotentAcrossReruns(t *testing.T) {
	client := newFakeClient()
	manager := NewCommentManager(client, discardLogger())
	ctx := prReportContext()

	for i := 0; i < 3; i++ {
		body := markdown.Marker + "\n\nrun body"
		require.NoError(t, manager.PostOrUpdateComment(context.Background(), ctx, body))
	}

	// Any sequence of reruns leaves exactly one marked comment.
	assert.Equal(t, 1, client.markedCount())
	assert.Len(t, client.created, 1)
}

func TestFindExistingCommentRequiresPRNumber(t *testing.T) {
	manager := NewCommentManager(newFakeClient(), discardLogger())

	_, err := manager.FindExistingComment(context.Background(), "acme", "petstore", 0, markdown.Marker)
	assert.ErrorIs(t, err, ci.ErrNoPullRequestContext)
}

func TestFindExistingCommentNoMatch(t *testing.T) {
	manager := NewCommentManager(newFakeClient("unrelated"), discardLogger())

	comment, err := manager.FindExistingComment(context.Background(), "acme", "petstore", 123, markdown.Marker)
	require.NoError(t, err)
	assert.Nil(t, comment)
}

func TestPostOrUpdateRejectsNonPREvents(t *testing.T) {
	manager := NewCommentManager(newFakeClient(), discardLogger())
	pushCtx := &gitHubContext{
		underlying: &ghctx.Context{
			EventName: "push",
			Owner:     "acme",
			Repo:      "petstore",
		},
	}

	err := manager.PostOrUpdateComment(context.Background(), pushCtx, markdown.Marker)
	assert.ErrorIs(t, err, ci.ErrContextNotSupported)
}
