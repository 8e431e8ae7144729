// Package github detects the GitHub Actions invocation context from the
// workflow environment and the event payload file.
package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Static errors for context detection.
var (
	ErrNotGitHubActions  = errors.New("not running in GitHub Actions")
	ErrInvalidRepository = errors.New("GITHUB_REPOSITORY is not in owner/repo format")
)

// EventKind classifies the triggering event.
type EventKind string

const (
	EventPullRequest EventKind = "pull_request"
	EventPush        EventKind = "push"
	EventTag         EventKind = "tag"
	EventOther       EventKind = "other"
)

// Context captures the invocation context of a single run. It is built
// once at process start and never mutated, so every stage of the
// pipeline sees the same view of the triggering event.
type Context struct {
	EventName  string
	Owner      string
	Repo       string
	Ref        string
	SHA        string
	BaseRef    string
	PRNumber   int
	IsFork     bool
	HeadRepo   string // full name of the PR head repository
	RunID      string
	ServerURL  string
}

// eventPayload mirrors the subset of the Actions event payload we read.
type eventPayload struct {
	PullRequest *struct {
		Number int `json:"number"`
		Base   struct {
			Ref string `json:"ref"`
		} `json:"base"`
		Head struct {
			SHA  string `json:"sha"`
			Repo struct {
				FullName string `json:"full_name"`
				Fork     bool   `json:"fork"`
			} `json:"repo"`
		} `json:"head"`
	} `json:"pull_request"`
}

// DetectContext reads the GitHub Actions environment and event payload.
func DetectContext() (*Context, error) {
	if os.Getenv("GITHUB_ACTIONS") != "true" {
		return nil, ErrNotGitHubActions
	}

	repository := os.Getenv("GITHUB_REPOSITORY")
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRepository, repository)
	}

	ctx := &Context{
		EventName: os.Getenv("GITHUB_EVENT_NAME"),
		Owner:     owner,
		Repo:      repo,
		Ref:       os.Getenv("GITHUB_REF"),
		SHA:       os.Getenv("GITHUB_SHA"),
		BaseRef:   os.Getenv("GITHUB_BASE_REF"),
		RunID:     os.Getenv("GITHUB_RUN_ID"),
		ServerURL: os.Getenv("GITHUB_SERVER_URL"),
	}

	if path := os.Getenv("GITHUB_EVENT_PATH"); path != "" {
		// Payload enrichment is best effort: a missing or malformed
		// payload leaves the env-derived fields in place.
		if data, err := os.ReadFile(path); err == nil {
			var payload eventPayload
			if err := json.Unmarshal(data, &payload); err == nil && payload.PullRequest != nil {
				pr := payload.PullRequest
				ctx.PRNumber = pr.Number
				if pr.Base.Ref != "" {
					ctx.BaseRef = pr.Base.Ref
				}
				if pr.Head.SHA != "" {
					ctx.SHA = pr.Head.SHA
				}
				ctx.HeadRepo = pr.Head.Repo.FullName
				ctx.IsFork = pr.Head.Repo.Fork ||
					(pr.Head.Repo.FullName != "" && pr.Head.Repo.FullName != repository)
			}
		}
	}

	// refs/pull/<n>/merge is the fallback when no payload is available.
	if ctx.PRNumber == 0 {
		ctx.PRNumber = prNumberFromRef(ctx.Ref)
	}

	return ctx, nil
}

// prNumberFromRef extracts the PR number from a refs/pull/<n>/... ref.
func prNumberFromRef(ref string) int {
	rest, ok := strings.CutPrefix(ref, "refs/pull/")
	if !ok {
		return 0
	}
	num, _, _ := strings.Cut(rest, "/")
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0
	}
	return n
}

// Kind classifies the event for naming and report-target decisions.
func (c *Context) Kind() EventKind {
	switch {
	case strings.HasPrefix(c.EventName, "pull_request"):
		return EventPullRequest
	case c.EventName == "push" && strings.HasPrefix(c.Ref, "refs/tags/"):
		return EventTag
	case c.EventName == "push":
		return EventPush
	default:
		return EventOther
	}
}

// IsPullRequest reports whether the run was triggered by a PR event.
func (c *Context) IsPullRequest() bool {
	return c.Kind() == EventPullRequest
}

// Repository returns the owner/repo full name.
func (c *Context) Repository() string {
	return c.Owner + "/" + c.Repo
}

// RunURL returns the web URL of the workflow run, or "" when the run
// identifiers are not exposed.
func (c *Context) RunURL() string {
	if c.ServerURL == "" || c.RunID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/actions/runs/%s", c.ServerURL, c.Repository(), c.RunID)
}

func (c *Context) String() string {
	return fmt.Sprintf("%s@%s (event=%s pr=%d fork=%t)",
		c.Repository(), c.SHA, c.EventName, c.PRNumber, c.IsFork)
}
