package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	log "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

type fakeProvider struct {
	name      string
	canSupply bool
	cred      *Credential
	err       error
	supplied  bool
}

func (p *fakeProvider) Name() string                      { return p.name }
func (p *fakeProvider) CanSupply(_ *ghctx.Context) bool   { return p.canSupply }
func (p *fakeProvider) Supply(_ context.Context, _ *ghctx.Context) (*Credential, error) {
	p.supplied = true
	return p.cred, p.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestChainTakesFirstApplicableProvider(t *testing.T) {
	first := &fakeProvider{name: "first", canSupply: false}
	second := &fakeProvider{name: "second", canSupply: true, cred: &Credential{Scheme: SchemeBearer, Token: "t2"}}
	third := &fakeProvider{name: "third", canSupply: true, cred: &Credential{Scheme: SchemeBearer, Token: "t3"}}

	chain := NewChain(testLogger(), first, second, third)
	cred, err := chain.Resolve(context.Background(), &ghctx.Context{})

	require.NoError(t, err)
	assert.Equal(t, "t2", cred.Token)
	assert.False(t, first.supplied)
	assert.True(t, second.supplied)
	assert.False(t, third.supplied, "chain must stop at the first applicable provider")
}

func TestChainSupplyFailureIsFatal(t *testing.T) {
	failing := &fakeProvider{name: "failing", canSupply: true, err: ErrIdentityTokenPermission}
	fallback := &fakeProvider{name: "fallback", canSupply: true, cred: &Credential{Scheme: SchemeBearer, Token: "t"}}

	chain := NewChain(testLogger(), failing, fallback)
	_, err := chain.Resolve(context.Background(), &ghctx.Context{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIdentityTokenPermission)
	assert.False(t, fallback.supplied, "a failed supply must not fall through")
}

func TestChainNoCredential(t *testing.T) {
	chain := NewChain(testLogger(), &fakeProvider{name: "none", canSupply: false})
	_, err := chain.Resolve(context.Background(), &ghctx.Context{})
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestForkProviderCanSupply(t *testing.T) {
	complete := &ghctx.Context{
		EventName: "pull_request",
		IsFork:    true,
		HeadRepo:  "contributor/petstore",
		PRNumber:  55,
		SHA:       "forksha",
	}

	tests := []struct {
		name     string
		inv      *ghctx.Context
		identity bool
		want     bool
	}{
		{"complete fork context without identity token", complete, false, true},
		{"identity token available wins over fork path", complete, true, false},
		{
			name: "not a fork",
			inv: &ghctx.Context{
				EventName: "pull_request",
				HeadRepo:  "acme/petstore",
				PRNumber:  55,
				SHA:       "sha",
			},
			want: false,
		},
		{
			name: "missing head repo",
			inv:  &ghctx.Context{IsFork: true, PRNumber: 55, SHA: "sha"},
			want: false,
		},
		{
			name: "missing pr number",
			inv:  &ghctx.Context{IsFork: true, HeadRepo: "c/p", SHA: "sha"},
			want: false,
		},
		{
			name: "missing commit",
			inv:  &ghctx.Context{IsFork: true, HeadRepo: "c/p", PRNumber: 55},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ForkProvider{identityAvailable: func() bool { return tt.identity }}
			assert.Equal(t, tt.want, p.CanSupply(tt.inv))
		})
	}
}

func TestForkProviderSupply(t *testing.T) {
	p := &ForkProvider{identityAvailable: func() bool { return false }}
	inv := &ghctx.Context{IsFork: true, HeadRepo: "contributor/petstore", PRNumber: 55, SHA: "forksha"}

	cred, err := p.Supply(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, SchemeFork, cred.Scheme)
	assert.Equal(t, "contributor/petstore", cred.Repository)
	assert.True(t, cred.Delegated())
	assert.Empty(t, cred.Token)
}

func TestStaticTokenProvider(t *testing.T) {
	t.Run("configured token", func(t *testing.T) {
		p := &StaticTokenProvider{token: func() string { return "legacy-token" }}
		assert.True(t, p.CanSupply(nil))

		cred, err := p.Supply(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, SchemeBearer, cred.Scheme)
		assert.Equal(t, "legacy-token", cred.Token)
		assert.False(t, cred.Delegated())
	})

	t.Run("no token configured", func(t *testing.T) {
		p := &StaticTokenProvider{token: func() string { return "" }}
		assert.False(t, p.CanSupply(nil))
	})
}

func TestCredentialApply(t *testing.T) {
	t.Run("bearer", func(t *testing.T) {
		req := newTestRequest(t)
		(&Credential{Scheme: SchemeBearer, Token: "abc"}).Apply(req)
		assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	})

	t.Run("fork", func(t *testing.T) {
		req := newTestRequest(t)
		(&Credential{Scheme: SchemeFork, Repository: "c/p"}).Apply(req)
		assert.Equal(t, "Fork c/p", req.Header.Get("Authorization"))
	})
}

func TestErrNoCredentialNamesRemediations(t *testing.T) {
	// The failure message must name every remediation path.
	msg := ErrNoCredential.Error()
	assert.Contains(t, msg, "auth token")
	assert.Contains(t, msg, "id-token: write")
	assert.Contains(t, msg, "fork context")
	assert.True(t, errors.Is(ErrNoCredential, ErrNoCredential))
}
