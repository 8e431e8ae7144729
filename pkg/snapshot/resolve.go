package snapshot

import (
	"strconv"
	"strings"

	ghctx "github.com/patzick/explore-openapi-snapshot/pkg/github"
)

// Overrides carries the user-supplied naming and retention overrides.
// PermanentSet distinguishes an explicit false from "not provided".
type Overrides struct {
	Name         string
	Permanent    bool
	PermanentSet bool
}

// Resolved is the derived snapshot identity for an invocation.
type Resolved struct {
	Name       string
	Permanent  bool
	BaseBranch string
}

// Resolve derives the snapshot name, permanence and base branch from the
// invocation context and overrides. Deterministic and total: the same
// inputs always yield the same result, and there is no error path.
//
// Naming precedence: explicit override, PR number, branch name, tag
// name, raw ref.
func Resolve(inv *ghctx.Context, ov Overrides) Resolved {
	r := Resolved{
		Name:      deriveName(inv, ov.Name),
		Permanent: !inv.IsPullRequest(),
	}
	if ov.PermanentSet {
		r.Permanent = ov.Permanent
	}
	if inv.IsPullRequest() && inv.BaseRef != "" {
		r.BaseBranch = inv.BaseRef
	}
	return r
}

func deriveName(inv *ghctx.Context, override string) string {
	if override != "" {
		return override
	}
	if inv.IsPullRequest() && inv.PRNumber > 0 {
		return strconv.Itoa(inv.PRNumber)
	}
	if branch, ok := strings.CutPrefix(inv.Ref, "refs/heads/"); ok {
		return branch
	}
	if tag, ok := strings.CutPrefix(inv.Ref, "refs/tags/"); ok {
		return tag
	}
	return inv.Ref
}
