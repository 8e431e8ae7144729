// Package markdown renders snapshot reports for PR comments and job
// summaries.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/patzick/explore-openapi-snapshot/pkg/snapshot"
)

// Marker is the fixed magic comment prefixed to every rendered body. The
// reporter finds a previously posted comment by this marker and updates
// it in place, so a conversation never accumulates duplicates.
const Marker = "<!-- openapi-snapshot-report -->"

// CommentSizeLimit is GitHub's limit for comment body size.
const CommentSizeLimit = 65536

const heading = "## 📸 OpenAPI Snapshot"

// Report is everything the renderer needs for one invocation outcome.
// Exactly one of Result and Err is set.
type Report struct {
	Result *snapshot.Result
	Err    error

	Project    string
	Name       string
	BaseBranch string
	PRNumber   int

	ViewURL    string
	CompareURL string
	BaseURL    string
	RunURL     string
}

// Failed reports whether the submission failed.
func (r *Report) Failed() bool { return r.Err != nil }

// RenderComment produces the marker-prefixed PR comment body. The three
// top-level branches are mutually exclusive: failure, unchanged relative
// to base, and changed.
func RenderComment(r *Report) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n\n%s\n\n", Marker, heading)

	switch {
	case r.Failed():
		fmt.Fprintf(&b, "❌ Snapshot submission failed.\n")
		if msg := r.Err.Error(); msg != "" {
			fmt.Fprintf(&b, "\n**Error:** %s\n", msg)
		}

	case r.Result.SameAsBase:
		base := r.BaseBranch
		if base == "" {
			base = "the base snapshot"
		}
		fmt.Fprintf(&b, "ℹ️ No changes detected compared to `%s`.\n", base)
		if r.BaseURL != "" {
			fmt.Fprintf(&b, "\n[View base snapshot](%s)\n", r.BaseURL)
		}

	default:
		fmt.Fprintf(&b, "✅ Snapshot successfully created.\n\n")
		if r.PRNumber > 0 && r.BaseBranch != "" && r.CompareURL != "" {
			fmt.Fprintf(&b, "[Compare changes](%s)\n", r.CompareURL)
		}
		if r.ViewURL != "" {
			fmt.Fprintf(&b, "[View snapshot](%s)\n", r.ViewURL)
		}
		if r.Result.Message != "" {
			fmt.Fprintf(&b, "\n> %s\n", r.Result.Message)
		}
	}

	return Truncate(b.String(), CommentSizeLimit)
}

// RenderJobSummary produces the long-form report appended to the
// workflow run summary. Run summaries are per-run, so no marker-based
// deduplication applies; the marker is still included for consistency.
func RenderJobSummary(r *Report) string {
	var b bytes.Buffer
	b.WriteString(RenderComment(r))

	b.WriteString("\n---\n\n")
	switch {
	case r.Failed():
		b.WriteString("The snapshot service did not accept this submission. " +
			"The error above is reported verbatim; fix the cause and re-run the job.\n")
	case r.Result.SameAsBase:
		fmt.Fprintf(&b, "The submitted schema for `%s` is content-identical to the "+
			"snapshot already stored for the base reference, so no new artifact was created.\n",
			r.Project)
	default:
		fmt.Fprintf(&b, "Snapshot `%s` was stored for project `%s`.\n", r.Name, r.Project)
	}

	if r.RunURL != "" {
		fmt.Fprintf(&b, "\n[Workflow run](%s)\n", r.RunURL)
	}

	b.WriteString("\nIf no pull-request comment appeared alongside this summary, the " +
		"workflow token most likely cannot write comments (common for runs from " +
		"forked repositories); the summary above carries the same information.\n")

	return b.String()
}

// Truncate shortens content to fit within limit, cutting at a line break
// when one falls in the second half of the budget.
func Truncate(content string, limit int) string {
	if len(content) <= limit {
		return content
	}

	const note = "\n\n---\n*Report truncated due to size limits.*"
	if len(note) >= limit {
		return note[:limit]
	}

	available := limit - len(note)
	truncated := content[:available]
	if i := strings.LastIndexByte(truncated, '\n'); i > available/2 {
		truncated = truncated[:i]
	}
	return truncated + note
}
