package auth

import (
	"context"

	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

// ForkProvider handles runs from forked repositories. A forked
// contributor's workflow cannot be granted an identity token or a secret
// for the target repository, so the submission is delegated: the request
// carries the source repository in the authorization header and explicit
// repository/PR/commit identifiers in the body instead of a bearer token.
//
// The fork path applies only when the identity endpoint is unavailable;
// a run that can mint its own token never needs delegation.
type ForkProvider struct {
	identityAvailable func() bool
}

// NewForkProvider creates the provider probing the standard identity
// endpoint availability.
func NewForkProvider() *ForkProvider {
	return &ForkProvider{identityAvailable: IdentityTokenAvailable}
}

func (p *ForkProvider) Name() string { return "fork-delegated" }

// CanSupply requires a complete fork context (head repository, PR number
// and commit all known) and no identity token. A partial fork context
// behaves as absent.
func (p *ForkProvider) CanSupply(inv *ghctx.Context) bool {
	if inv == nil || !inv.IsFork || p.identityAvailable() {
		return false
	}
	return inv.HeadRepo != "" && inv.PRNumber > 0 && inv.SHA != ""
}

// Supply emits the fork-delegated credential.
func (p *ForkProvider) Supply(_ context.Context, inv *ghctx.Context) (*Credential, error) {
	return &Credential{
		Scheme:     SchemeFork,
		Repository: inv.HeadRepo,
		Source:     p.Name(),
	}, nil
}
