package github

import (
	"context"
	"fmt"

	log "github.com/charmbracelet/log"

	"github.com/patzick/explore-openapi-snapshot/pkg/ci"
	"github.com/patzick/explore-openapi-snapshot/pkg/config"
	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

func init() {
	// Register GitHub integration with the CI factory.
	ci.RegisterIntegration(ci.GitHub, NewGitHubIntegration)
}

// GitHubIntegration implements the CI Integration interface for GitHub
// Actions.
type GitHubIntegration struct {
	logger    *log.Logger
	newClient func(token string) Client
}

// NewGitHubIntegration creates a new GitHub CI integration.
func NewGitHubIntegration(logger *log.Logger) ci.Integration {
	return NewIntegrationWithClient(logger, NewClient)
}

// NewIntegrationWithClient creates an integration whose comment managers
// are backed by the given client constructor instead of the live API
// transport.
func NewIntegrationWithClient(logger *log.Logger, newClient func(token string) Client) ci.Integration {
	return &GitHubIntegration{
		logger:    logger,
		newClient: newClient,
	}
}

// DetectContext detects GitHub Actions context from environment.
func (g *GitHubIntegration) DetectContext() (ci.Context, error) {
	inv, err := ghctx.DetectContext()
	if err != nil {
		return nil, err
	}
	return &gitHubContext{underlying: inv, token: config.GetGitHubToken()}, nil
}

// CreateCommentManager creates a GitHub comment manager.
func (g *GitHubIntegration) CreateCommentManager(ctx ci.Context, logger *log.Logger) ci.CommentManager {
	if _, ok := ctx.(*gitHubContext); !ok {
		g.logger.Error("Invalid context type for GitHub integration")
		return nil
	}

	client := g.newClient(ctx.GetToken())
	return &gitHubCommentManager{
		manager: NewCommentManager(client, logger),
		logger:  logger,
	}
}

// GetJobSummaryWriter returns a GitHub job summary writer if available.
func (g *GitHubIntegration) GetJobSummaryWriter() ci.JobSummaryWriter {
	if config.GetGitHubStepSummary() != "" {
		return &GitHubJobSummaryWriter{}
	}
	return nil
}

// GetOutputWriter returns a writer for $GITHUB_OUTPUT if available.
func (g *GitHubIntegration) GetOutputWriter() ci.OutputWriter {
	if path := config.GetGitHubOutput(); path != "" {
		return ci.NewFileOutputWriter(path)
	}
	return &ci.NoopOutputWriter{}
}

// Provider returns the GitHub provider identifier.
func (g *GitHubIntegration) Provider() string {
	return ci.GitHub
}

// IsAvailable checks if GitHub Actions environment is available.
func (g *GitHubIntegration) IsAvailable() bool {
	return config.IsGitHubActions()
}

// gitHubContext wraps the detected invocation context to implement
// ci.Context.
type gitHubContext struct {
	underlying *ghctx.Context
	token      string
}

func (c *gitHubContext) GetOwner() string     { return c.underlying.Owner }
func (c *gitHubContext) GetRepo() string      { return c.underlying.Repo }
func (c *gitHubContext) GetPRNumber() int     { return c.underlying.PRNumber }
func (c *gitHubContext) GetToken() string     { return c.token }
func (c *gitHubContext) GetEventName() string { return c.underlying.EventName }
func (c *gitHubContext) IsSupported() bool    { return c.underlying.IsPullRequest() }
func (c *gitHubContext) Provider() string     { return ci.GitHub }
func (c *gitHubContext) String() string       { return c.underlying.String() }

// gitHubCommentManager wraps the GitHub CommentManager to implement
// ci.CommentManager.
type gitHubCommentManager struct {
	manager *CommentManager
	logger  *log.Logger
}

func (m *gitHubCommentManager) PostOrUpdateComment(ctx context.Context, ciCtx ci.Context, content string) error {
	if _, ok := ciCtx.(*gitHubContext); !ok {
		return ci.ErrContextNotSupported
	}
	return m.manager.PostOrUpdateComment(ctx, ciCtx, content)
}

func (m *gitHubCommentManager) FindExistingComment(ctx context.Context, ciCtx ci.Context, marker string) (interface{}, error) {
	ghc, ok := ciCtx.(*gitHubContext)
	if !ok {
		return nil, ci.ErrContextNotSupported
	}
	comment, err := m.manager.FindExistingComment(ctx, ghc.GetOwner(), ghc.GetRepo(), ghc.GetPRNumber(), marker)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, nil
	}
	return comment, nil
}

// GitHubJobSummaryWriter appends to the $GITHUB_STEP_SUMMARY file.
type GitHubJobSummaryWriter struct{}

// WriteJobSummary appends content to the job summary file and returns
// the path written to.
func (w *GitHubJobSummaryWriter) WriteJobSummary(content string) (string, error) {
	path := config.GetGitHubStepSummary()
	if path == "" {
		return "", ci.ErrJobSummaryNotSupported
	}
	if err := appendFile(path, content); err != nil {
		return "", fmt.Errorf("%w: %w", ci.ErrJobSummaryWriteFailed, err)
	}
	return path, nil
}

// IsJobSummarySupported reports whether the summary file is exposed.
func (w *GitHubJobSummaryWriter) IsJobSummarySupported() bool {
	return config.GetGitHubStepSummary() != ""
}

// GetJobSummaryPath returns the summary file path.
func (w *GitHubJobSummaryWriter) GetJobSummaryPath() string {
	return config.GetGitHubStepSummary()
}
