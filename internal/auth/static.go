package auth

import (
	"context"

	"github.com/patzick/explore-openapi-snapshot/pkg/config"
	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

// StaticTokenProvider supplies a long-lived configured token. Legacy
// path, lowest precedence among usable credentials.
type StaticTokenProvider struct {
	token func() string
}

// NewStaticTokenProvider creates the provider reading the configured
// auth token.
func NewStaticTokenProvider() *StaticTokenProvider {
	return &StaticTokenProvider{token: config.GetAuthToken}
}

func (p *StaticTokenProvider) Name() string { return "static-token" }

// CanSupply reports whether a token is configured.
func (p *StaticTokenProvider) CanSupply(_ *ghctx.Context) bool {
	return p.token() != ""
}

// Supply returns the configured token as a bearer credential.
func (p *StaticTokenProvider) Supply(_ context.Context, _ *ghctx.Context) (*Credential, error) {
	return &Credential{
		Scheme: SchemeBearer,
		Token:  p.token(),
		Source: p.Name(),
	}, nil
}
