// Package snapshot defines the snapshot submission request/response
// model and the HTTP client that performs the single outbound call.
package snapshot

import "encoding/json"

// Mode tags the shape of the outbound request so the fork-delegated
// variant cannot be mixed with the standard one.
type Mode string

const (
	// ModeStandard submits with a bearer credential.
	ModeStandard Mode = "standard"
	// ModeFork submits through the fork-intake route with explicit
	// repository/PR/commit identifiers instead of a bearer credential.
	ModeFork Mode = "fork"
)

// ForkContext identifies a delegated submission. All three fields are
// required together; a partially populated fork context is treated as
// absent.
type ForkContext struct {
	Repository string `json:"repository"`
	PRNumber   int    `json:"prNumber"`
	CommitSHA  string `json:"commitSha"`
}

// Complete reports whether every field is populated.
func (f *ForkContext) Complete() bool {
	return f != nil && f.Repository != "" && f.PRNumber > 0 && f.CommitSHA != ""
}

// Request is the submission sent to the snapshot service.
type Request struct {
	Schema     json.RawMessage
	Project    string
	Name       string
	Permanent  bool
	BaseBranch string       // only meaningful for pull-request runs
	Fork       *ForkContext // non-nil only in fork mode
}

// Mode returns the tagged request mode.
func (r *Request) Mode() Mode {
	if r.Fork.Complete() {
		return ModeFork
	}
	return ModeStandard
}

// wireRequest is the JSON body. Optional fields are omitted when empty
// so the standard and fork shapes stay distinct on the wire.
type wireRequest struct {
	Schema         json.RawMessage `json:"schema"`
	Project        string          `json:"project"`
	Name           string          `json:"name"`
	Permanent      bool            `json:"permanent"`
	BaseBranchName string          `json:"baseBranchName,omitempty"`
	ForkContext    *ForkContext    `json:"forkContext,omitempty"`
}

// MarshalJSON emits the wire shape for the request's mode.
func (r *Request) MarshalJSON() ([]byte, error) {
	w := wireRequest{
		Schema:         r.Schema,
		Project:        r.Project,
		Name:           r.Name,
		Permanent:      r.Permanent,
		BaseBranchName: r.BaseBranch,
	}
	if r.Mode() == ModeFork {
		w.ForkContext = r.Fork
	}
	return json.Marshal(w)
}

// Result is the canonical normalized outcome of a successful submission.
// Wire-format variance across service versions is absorbed at the decode
// boundary; nothing downstream sees the raw response shape.
type Result struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	SameAsBase bool   `json:"sameAsBase"`
	Message    string `json:"message,omitempty"`
}
