package policy

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/engagectl/internal/engage"
)

// updateDiff renders a unified diff between the current policy state and the
// state an update would leave behind, for dry-run output.
func updateDiff(current engage.Policy, change engage.UpdatePolicyRequest) string {
	desired := current
	if change.Enabled != nil {
		desired.Enabled = *change.Enabled
	}
	if change.UserControlEnabled != nil {
		desired.UserControlEnabled = *change.UserControlEnabled
	}
	if change.OptInByDefault != nil {
		desired.OptInByDefault = *change.OptInByDefault
	}
	return udiff.Unified("current", "desired", renderState(current), renderState(desired))
}

// renderState prints the mutable portion of a policy as stable key/value lines.
func renderState(p engage.Policy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "enabled: %t\n", p.Enabled)
	fmt.Fprintf(&b, "userControlEnabled: %t\n", p.UserControlEnabled)
	fmt.Fprintf(&b, "optInByDefault: %t\n", p.OptInByDefault)
	return b.String()
}
