package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/patzick/explore-openapi-snapshot/pkg/config"
	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

// Environment variables GitHub Actions sets when the job has the
// 'id-token: write' permission.
const (
	envIDTokenRequestURL   = "ACTIONS_ID_TOKEN_REQUEST_URL"
	envIDTokenRequestToken = "ACTIONS_ID_TOKEN_REQUEST_TOKEN" //nolint:gosec // env var name, not a credential
)

const identityTokenTimeout = 30 * time.Second

// IdentityTokenProvider obtains a short-lived, audience-scoped OIDC token
// from the GitHub Actions identity endpoint. No stored secret is needed.
type IdentityTokenProvider struct {
	httpClient *http.Client
	requestURL func() string
	requestTok func() string
	audience   func() string
}

// NewIdentityTokenProvider creates the provider reading the standard
// Actions environment.
func NewIdentityTokenProvider() *IdentityTokenProvider {
	return &IdentityTokenProvider{
		httpClient: &http.Client{Timeout: identityTokenTimeout},
		requestURL: func() string { return os.Getenv(envIDTokenRequestURL) },
		requestTok: func() string { return os.Getenv(envIDTokenRequestToken) },
		audience:   config.GetAudience,
	}
}

// IdentityTokenAvailable reports whether the identity endpoint is exposed
// to this run. The fork provider consults this to decide precedence.
func IdentityTokenAvailable() bool {
	return os.Getenv(envIDTokenRequestURL) != "" && os.Getenv(envIDTokenRequestToken) != ""
}

func (p *IdentityTokenProvider) Name() string { return "identity-token" }

// CanSupply reports whether the identity endpoint is exposed.
func (p *IdentityTokenProvider) CanSupply(_ *ghctx.Context) bool {
	return p.requestURL() != "" && p.requestTok() != ""
}

// Supply exchanges the request token for an audience-scoped JWT. Any
// failure here is fatal and carries the permission remediation.
func (p *IdentityTokenProvider) Supply(ctx context.Context, _ *ghctx.Context) (*Credential, error) {
	endpoint := p.requestURL()
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request URL: %w", ErrIdentityTokenPermission, err)
	}
	q := u.Query()
	q.Set("audience", p.audience())
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityTokenPermission, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.requestTok())
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIdentityTokenPermission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d: %s", ErrIdentityTokenPermission, resp.StatusCode, string(body))
	}

	var payload struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrIdentityTokenPermission, err)
	}
	if payload.Value == "" {
		return nil, fmt.Errorf("%w: empty token in response", ErrIdentityTokenPermission)
	}

	return &Credential{
		Scheme: SchemeBearer,
		Token:  payload.Value,
		Source: p.Name(),
	}, nil
}
