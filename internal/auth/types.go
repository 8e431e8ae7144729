// Package auth selects the credential attached to a snapshot submission.
//
// Providers are evaluated in a fixed precedence order: fork-delegated
// context, then a short-lived identity token, then a configured static
// token. The first provider that can supply a credential wins; a provider
// that can supply but fails to do so fails the whole run.
package auth

import (
	"context"
	"errors"
	"net/http"

	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

// Static errors with remediation guidance. These surface directly to the
// workflow log, so they name the fix rather than the internal condition.
var (
	ErrNoCredential = errors.New("no credential available: set an auth token, " +
		"grant the workflow 'id-token: write' permission, or run from a pull request " +
		"so a fork context can be supplied")
	ErrIdentityTokenPermission = errors.New("identity token request failed: " +
		"ensure the workflow job has 'permissions: id-token: write'")
)

// Scheme identifies how a credential is presented on the wire.
type Scheme string

const (
	// SchemeBearer presents a token as "Authorization: Bearer <token>".
	SchemeBearer Scheme = "bearer"
	// SchemeFork identifies the source repository instead of a token,
	// as "Authorization: Fork <repository>". Used when a forked run has
	// no usable credential for the target repository.
	SchemeFork Scheme = "fork"
)

// Credential is the single credential attached to the outbound request.
type Credential struct {
	Scheme     Scheme
	Token      string // bearer token; empty in fork mode
	Repository string // source repository; set only in fork mode
	Source     string // provider name, for logging
}

// Apply sets the authorization header on an outbound request.
func (c *Credential) Apply(req *http.Request) {
	switch c.Scheme {
	case SchemeFork:
		req.Header.Set("Authorization", "Fork "+c.Repository)
	default:
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}

// Delegated reports whether the credential uses the fork-delegated path.
func (c *Credential) Delegated() bool {
	return c.Scheme == SchemeFork
}

// Provider supplies one kind of credential.
type Provider interface {
	// Name identifies the provider in logs and error messages.
	Name() string

	// CanSupply probes whether this provider applies to the invocation
	// without performing any fallible work.
	CanSupply(inv *ghctx.Context) bool

	// Supply produces the credential. A failure here is fatal for the
	// run; later providers are not consulted.
	Supply(ctx context.Context, inv *ghctx.Context) (*Credential, error)
}
