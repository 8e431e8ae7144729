package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/charmbracelet/log"

	"github.com/patzick/explore-openapi-snapshot/internal/auth"
)

// forkPathSuffix is appended to the endpoint for delegated submissions.
// This routes fork submissions through the service's fork-intake
// validation instead of the normal authenticated route.
const forkPathSuffix = "/fork"

// maxErrorBody caps how much of a rejection body is folded into the
// error message.
const maxErrorBody = 64 * 1024

// ErrEndpointRequired is returned when no service endpoint is configured.
var ErrEndpointRequired = errors.New("snapshot endpoint is required")

// StatusError is a remote rejection: any non-2xx response. The body is
// captured verbatim so the failure can be diagnosed without repeating
// the call.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Body)
}

// Client submits snapshots to the remote service. One request, one
// outcome; no retries and no backoff.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the given endpoint.
func NewClient(endpoint string, logger *log.Logger) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

// Submit performs the single POST and normalizes the response. Transport
// failures propagate as-is; remote rejections become *StatusError.
func (c *Client) Submit(ctx context.Context, req *Request, cred *auth.Credential) (*Result, error) {
	if c.endpoint == "" {
		return nil, ErrEndpointRequired
	}

	target := c.endpoint
	if req.Mode() == ModeFork {
		target += forkPathSuffix
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building submission request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	cred.Apply(httpReq)

	c.logger.Debug("Submitting snapshot",
		"endpoint", target,
		"project", req.Project,
		"name", req.Name,
		"permanent", req.Permanent,
		"mode", req.Mode())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var wire wireResult
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding snapshot response: %w", err)
	}

	result := wire.normalize(c.endpoint, req.Project)
	c.logger.Debug("Snapshot accepted",
		"id", result.ID,
		"name", result.Name,
		"sameAsBase", result.SameAsBase)
	return result, nil
}

// BaseSnapshotURL returns the viewable URL of the snapshot stored for
// the given name (used for "no changes" reports against the base).
func (c *Client) BaseSnapshotURL(project, name string) string {
	return viewURL(c.endpoint, project, name)
}

// CompareURL returns the URL comparing the base snapshot to this one.
func (c *Client) CompareURL(project, base, head string) string {
	return fmt.Sprintf("%s/projects/%s/compare/%s...%s", c.endpoint, project, base, head)
}

// wireResult absorbs the response-shape drift across service versions:
// flat id/url fields, a nested snapshot object, or a snapshotUrl field.
// It is the only place that knows about the variants.
type wireResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	SnapshotURL string `json:"snapshotUrl"`
	SameAsBase  bool   `json:"sameAsBase"`
	Message     string `json:"message"`
	Error       string `json:"error"`
	Snapshot    *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"snapshot"`
}

func (w *wireResult) normalize(endpoint, project string) *Result {
	r := &Result{
		ID:         w.ID,
		Name:       w.Name,
		URL:        w.URL,
		SameAsBase: w.SameAsBase,
		Message:    w.Message,
	}
	if w.Snapshot != nil {
		if r.ID == "" {
			r.ID = w.Snapshot.ID
		}
		if r.Name == "" {
			r.Name = w.Snapshot.Name
		}
		if r.URL == "" {
			r.URL = w.Snapshot.URL
		}
	}
	if r.URL == "" {
		r.URL = w.SnapshotURL
	}
	if r.URL == "" && r.Name != "" {
		r.URL = viewURL(endpoint, project, r.Name)
	}
	if r.Message == "" {
		r.Message = w.Error
	}
	return r
}

func viewURL(endpoint, project, name string) string {
	return fmt.Sprintf("%s/projects/%s/snapshots/%s", endpoint, project, name)
}
