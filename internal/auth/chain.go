package auth

import (
	"context"

	log "github.com/charmbracelet/log"

	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

// Chain evaluates credential providers in order and takes the first that
// can supply. A provider that can supply but fails is fatal; the chain
// does not fall through past it.
type Chain struct {
	providers []Provider
	logger    *log.Logger
}

// NewChain creates a chain over the given providers, evaluated in order.
func NewChain(logger *log.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// DefaultChain returns the standard precedence order: fork-delegated
// context, identity token, static token.
func DefaultChain(logger *log.Logger) *Chain {
	return NewChain(logger,
		NewForkProvider(),
		NewIdentityTokenProvider(),
		NewStaticTokenProvider(),
	)
}

// Resolve produces exactly one credential or fails with an actionable
// error.
func (c *Chain) Resolve(ctx context.Context, inv *ghctx.Context) (*Credential, error) {
	for _, p := range c.providers {
		if !p.CanSupply(inv) {
			c.logger.Debug("Credential provider not applicable", "provider", p.Name())
			continue
		}
		cred, err := p.Supply(ctx, inv)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Credential selected", "provider", p.Name(), "scheme", cred.Scheme)
		return cred, nil
	}
	return nil, ErrNoCredential
}
