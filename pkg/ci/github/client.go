package github

import (
	"context"

	"github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"
)

// Client is the narrow slice of the GitHub API the reporter needs.
// Kept as an interface so tests can substitute a fake.
type Client interface {
	ListIssueComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
	UpdateComment(ctx context.Context, owner, repo string, commentID int64, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

// apiClient implements Client against the real GitHub API.
type apiClient struct {
	gh *github.Client
}

// NewClient creates an authenticated GitHub API client.
func NewClient(token string) Client {
	httpClient := oauth2.NewClient(context.Background(),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	return &apiClient{gh: github.NewClient(httpClient)}
}

func (c *apiClient) ListIssueComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error) {
	return c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
}

func (c *apiClient) CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error) {
	return c.gh.Issues.CreateComment(ctx, owner, repo, number, comment)
}

func (c *apiClient) UpdateComment(ctx context.Context, owner, repo string, commentID int64, comment *github.IssueComment) (*github.IssueComment, *github.Response, error) {
	return c.gh.Issues.EditComment(ctx, owner, repo, commentID, comment)
}
