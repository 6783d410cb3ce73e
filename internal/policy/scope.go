package policy

import (
	"strings"

	"github.com/conn-castle/engagectl/internal/engage"
	"github.com/conn-castle/engagectl/internal/faults"
	"github.com/conn-castle/engagectl/internal/messages"
)

// Scope is the population a policy applies to. Exactly one of the three
// kinds must be set.
type Scope struct {
	Everyone bool
	GroupIDs []string
	UserIDs  []string
}

// Validate rejects a scope with zero or more than one active kind. It runs
// before any remote call.
func (s Scope) Validate() error {
	kinds := 0
	if s.Everyone {
		kinds++
	}
	if len(s.GroupIDs) > 0 {
		kinds++
	}
	if len(s.UserIDs) > 0 {
		kinds++
	}
	switch {
	case kinds == 0:
		return faults.New(faults.KindInvalidArgument, "scope_required", messages.PolicyScopeRequired)
	case kinds > 1:
		return faults.New(faults.KindInvalidArgument, "scope_exclusive", messages.PolicyScopeExclusive)
	}
	return nil
}

// Describe returns the human-readable access list for summaries.
func (s Scope) Describe() string {
	switch {
	case s.Everyone:
		return "Everyone"
	case len(s.GroupIDs) > 0:
		return strings.Join(s.GroupIDs, ", ")
	default:
		return strings.Join(s.UserIDs, ", ")
	}
}

// accessOf derives the access description from a remote policy record.
func accessOf(p engage.Policy) string {
	return Scope{Everyone: p.Everyone, GroupIDs: p.GroupIDs, UserIDs: p.UserIDs}.Describe()
}
