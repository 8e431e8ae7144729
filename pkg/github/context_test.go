package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setActionsEnv(t *testing.T, env map[string]string) {
	t.Helper()
	base := map[string]string{
		"GITHUB_ACTIONS":    "true",
		"GITHUB_REPOSITORY": "acme/petstore",
		"GITHUB_REF":        "refs/heads/main",
		"GITHUB_SHA":        "abc1234",
		"GITHUB_EVENT_NAME": "push",
		"GITHUB_EVENT_PATH": "",
		"GITHUB_BASE_REF":   "",
		"GITHUB_RUN_ID":     "",
		"GITHUB_SERVER_URL": "",
	}
	for k, v := range env {
		base[k] = v
	}
	for k, v := range base {
		t.Setenv(k, v)
	}
}

func writeEventPayload(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func TestDetectContextOutsideActions(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "")
	_, err := DetectContext()
	assert.ErrorIs(t, err, ErrNotGitHubActions)
}

func TestDetectContextInvalidRepository(t *testing.T) {
	setActionsEnv(t, map[string]string{"GITHUB_REPOSITORY": "not-a-repo"})
	_, err := DetectContext()
	assert.ErrorIs(t, err, ErrInvalidRepository)
}

func TestDetectContextPush(t *testing.T) {
	setActionsEnv(t, nil)

	ctx, err := DetectContext()
	require.NoError(t, err)

	assert.Equal(t, "acme", ctx.Owner)
	assert.Equal(t, "petstore", ctx.Repo)
	assert.Equal(t, "acme/petstore", ctx.Repository())
	assert.Equal(t, "refs/heads/main", ctx.Ref)
	assert.Equal(t, EventPush, ctx.Kind())
	assert.False(t, ctx.IsPullRequest())
	assert.False(t, ctx.IsFork)
	assert.Zero(t, ctx.PRNumber)
}

func TestDetectContextTagPush(t *testing.T) {
	setActionsEnv(t, map[string]string{"GITHUB_REF": "refs/tags/v1.2.3"})

	ctx, err := DetectContext()
	require.NoError(t, err)
	assert.Equal(t, EventTag, ctx.Kind())
}

func TestDetectContextPullRequestPayload(t *testing.T) {
	payload := writeEventPayload(t, `{
		"pull_request": {
			"number": 123,
			"base": {"ref": "main"},
			"head": {
				"sha": "headsha",
				"repo": {"full_name": "acme/petstore", "fork": false}
			}
		}
	}`)
	setActionsEnv(t, map[string]string{
		"GITHUB_EVENT_NAME": "pull_request",
		"GITHUB_REF":        "refs/pull/123/merge",
		"GITHUB_EVENT_PATH": payload,
	})

	ctx, err := DetectContext()
	require.NoError(t, err)

	assert.Equal(t, EventPullRequest, ctx.Kind())
	assert.True(t, ctx.IsPullRequest())
	assert.Equal(t, 123, ctx.PRNumber)
	assert.Equal(t, "main", ctx.BaseRef)
	assert.Equal(t, "headsha", ctx.SHA)
	assert.False(t, ctx.IsFork)
}

func TestDetectContextForkPullRequest(t *testing.T) {
	payload := writeEventPayload(t, `{
		"pull_request": {
			"number": 55,
			"base": {"ref": "main"},
			"head": {
				"sha": "forksha",
				"repo": {"full_name": "contributor/petstore", "fork": true}
			}
		}
	}`)
	setActionsEnv(t, map[string]string{
		"GITHUB_EVENT_NAME": "pull_request_target",
		"GITHUB_REF":        "refs/pull/55/merge",
		"GITHUB_EVENT_PATH": payload,
	})

	ctx, err := DetectContext()
	require.NoError(t, err)

	assert.Equal(t, EventPullRequest, ctx.Kind())
	assert.True(t, ctx.IsFork)
	assert.Equal(t, "contributor/petstore", ctx.HeadRepo)
	assert.Equal(t, 55, ctx.PRNumber)
}

func TestDetectContextMalformedPayload(t *testing.T) {
	payload := writeEventPayload(t, `{not json`)
	setActionsEnv(t, map[string]string{
		"GITHUB_EVENT_NAME": "pull_request",
		"GITHUB_REF":        "refs/pull/77/merge",
		"GITHUB_EVENT_PATH": payload,
	})

	// Malformed payload falls back to env-derived values.
	ctx, err := DetectContext()
	require.NoError(t, err)
	assert.Equal(t, 77, ctx.PRNumber)
	assert.False(t, ctx.IsFork)
}

func TestPRNumberFromRef(t *testing.T) {
	tests := []struct {
		ref  string
		want int
	}{
		{"refs/pull/123/merge", 123},
		{"refs/pull/7/head", 7},
		{"refs/heads/main", 0},
		{"refs/pull/not-a-number/merge", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, prNumberFromRef(tt.ref), "ref %q", tt.ref)
	}
}

func TestEventKindClassification(t *testing.T) {
	tests := []struct {
		event string
		ref   string
		want  EventKind
	}{
		{"pull_request", "refs/pull/1/merge", EventPullRequest},
		{"pull_request_target", "refs/pull/1/merge", EventPullRequest},
		{"push", "refs/heads/main", EventPush},
		{"push", "refs/tags/v1.0.0", EventTag},
		{"workflow_dispatch", "refs/heads/main", EventOther},
		{"schedule", "refs/heads/main", EventOther},
	}

	for _, tt := range tests {
		ctx := &Context{EventName: tt.event, Ref: tt.ref}
		assert.Equal(t, tt.want, ctx.Kind(), "event=%s ref=%s", tt.event, tt.ref)
	}
}

func TestRunURL(t *testing.T) {
	ctx := &Context{
		Owner:     "acme",
		Repo:      "petstore",
		ServerURL: "https://github.example",
		RunID:     "777",
	}
	assert.Equal(t, "https://github.example/acme/petstore/actions/runs/777", ctx.RunURL())

	assert.Empty(t, (&Context{Owner: "acme", Repo: "petstore", RunID: "777"}).RunURL())
	assert.Empty(t, (&Context{Owner: "acme", Repo: "petstore", ServerURL: "https://github.example"}).RunURL())
}
