package policy

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/conn-castle/engagectl/internal/engage"
	"github.com/conn-castle/engagectl/internal/faults"
	"github.com/conn-castle/engagectl/internal/messages"
	"github.com/conn-castle/engagectl/internal/names"
)

// Action reports what an upsert did (or, in dry-run mode, would do).
type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionUnchanged   Action = "unchanged"
	ActionSkipped     Action = "skipped"
	ActionWouldCreate Action = "would-create"
	ActionWouldUpdate Action = "would-update"
)

// ConfirmFunc asks the user to confirm a mutation. A nil ConfirmFunc means
// confirmation is suppressed and mutations proceed unconditionally.
type ConfirmFunc func(prompt string) (bool, error)

// UpsertRequest describes one desired policy state.
type UpsertRequest struct {
	FeatureID string
	Name      string
	Enabled   bool
	Scope     Scope
	// OptInByDefault is only meaningful when Enabled is true; supplying it
	// while disabling is ignored with a warning.
	OptInByDefault *bool
}

// Result is the outcome of one upsert. Policy is nil when nothing exists yet
// (skipped or would-create paths).
type Result struct {
	Action Action
	Policy *engage.Policy
	// Preview carries the dry-run change description.
	Preview string
}

// Upserter finds an existing policy by name and updates it in place, or
// creates one. Updates change enablement state only; scope is fixed at
// creation time.
type Upserter struct {
	API     API
	Module  string
	Confirm ConfirmFunc
	DryRun  bool
	Warn    io.Writer
	Verbose io.Writer
}

// nameFields are the candidate name-bearing fields on a remote policy record,
// tried in priority order. Matching is by exact string equality; the remote
// identifier cannot serve because it does not exist until creation.
var nameFields = []struct {
	name string
	get  func(engage.Policy) string
}{
	{"displayName", func(p engage.Policy) string { return p.DisplayName }},
	{"name", func(p engage.Policy) string { return p.Name }},
	{"identity", func(p engage.Policy) string { return p.Identity }},
}

// matchByName returns the first policy whose name-bearing field equals name,
// along with the field that matched.
func matchByName(policies []engage.Policy, name string) (*engage.Policy, string) {
	for i := range policies {
		for _, field := range nameFields {
			if field.get(policies[i]) == name {
				return &policies[i], field.name
			}
		}
	}
	return nil, ""
}

// Upsert normalizes the requested name, matches it against the feature's
// existing policies, and updates or creates accordingly.
func (u *Upserter) Upsert(ctx context.Context, req UpsertRequest) (Result, error) {
	name, err := names.Normalize(req.Name)
	if err != nil {
		return Result{}, faults.Wrap(faults.KindInvalidArgument, "policy_name_invalid", err, messages.PolicyNameRequired)
	}
	if err := req.Scope.Validate(); err != nil {
		return Result{}, err
	}

	optIn := req.OptInByDefault
	if optIn != nil && !req.Enabled {
		fprintf(u.Warn, messages.PolicyWarnOptInIgnored)
		optIn = nil
	}

	policies, err := u.API.ListPolicies(ctx, u.Module, req.FeatureID)
	if err != nil {
		return Result{}, fmt.Errorf(messages.PolicyListPoliciesErrFmt, req.FeatureID, err)
	}
	existing, matchedField := matchByName(policies, name)
	if existing != nil {
		fprintf(u.Verbose, messages.PolicyVerboseMatchedFmt, name, matchedField)
		return u.update(ctx, req, name, *existing, optIn)
	}
	fprintf(u.Verbose, messages.PolicyVerboseNoMatchFmt, name)
	return u.create(ctx, req, name, optIn)
}

func (u *Upserter) update(ctx context.Context, req UpsertRequest, name string, existing engage.Policy, optIn *bool) (Result, error) {
	change := engage.UpdatePolicyRequest{Enabled: &req.Enabled}
	if optIn != nil {
		enabled := true
		change.UserControlEnabled = &enabled
		change.OptInByDefault = optIn
	}

	if u.DryRun {
		preview := fmt.Sprintf(messages.PolicyWouldUpdateFmt, name, req.FeatureID, updateDiff(existing, change))
		return Result{Action: ActionWouldUpdate, Policy: &existing, Preview: preview}, nil
	}
	ok, err := u.confirm(fmt.Sprintf(messages.PolicyConfirmUpdateFmt, name, req.FeatureID, req.Enabled))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Action: ActionSkipped, Policy: &existing}, nil
	}

	if _, err := u.API.UpdatePolicy(ctx, existing.ID, change); err != nil {
		return Result{}, fmt.Errorf(messages.PolicyUpdateErrFmt, existing.ID, err)
	}
	updated, err := u.refetch(ctx, req.FeatureID, name)
	if err != nil {
		return Result{}, err
	}
	return Result{Action: ActionUpdated, Policy: updated}, nil
}

func (u *Upserter) create(ctx context.Context, req UpsertRequest, name string, optIn *bool) (Result, error) {
	change := engage.CreatePolicyRequest{
		DisplayName: name,
		FeatureID:   req.FeatureID,
		Enabled:     req.Enabled,
		Everyone:    req.Scope.Everyone,
		GroupIDs:    req.Scope.GroupIDs,
		UserIDs:     req.Scope.UserIDs,
	}
	if optIn != nil {
		enabled := true
		change.UserControlEnabled = &enabled
		change.OptInByDefault = optIn
	}

	if u.DryRun {
		preview := fmt.Sprintf(messages.PolicyWouldCreateFmt, name, req.FeatureID, req.Enabled, req.Scope.Describe())
		return Result{Action: ActionWouldCreate, Preview: preview}, nil
	}
	ok, err := u.confirm(fmt.Sprintf(messages.PolicyConfirmCreateFmt, name, req.FeatureID, req.Enabled, req.Scope.Describe()))
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Action: ActionSkipped}, nil
	}

	if _, err := u.API.CreatePolicy(ctx, u.Module, change); err != nil {
		if errors.Is(err, engage.ErrTenantPolicyExists) {
			// The service already enforces this state tenant-wide; reuse the
			// existing record instead of failing.
			fprintf(u.Verbose, messages.PolicyTenantConflictFmt, req.FeatureID)
			tenantPolicy, ferr := u.refetchTenantConflict(ctx, req.FeatureID, name)
			if ferr != nil {
				return Result{}, ferr
			}
			return Result{Action: ActionUnchanged, Policy: tenantPolicy}, nil
		}
		return Result{}, fmt.Errorf(messages.PolicyCreateErrFmt, name, err)
	}
	created, err := u.refetch(ctx, req.FeatureID, name)
	if err != nil {
		return Result{}, err
	}
	return Result{Action: ActionCreated, Policy: created}, nil
}

// refetch re-reads the policy after a mutation using the same name-match
// logic that drove the decision.
func (u *Upserter) refetch(ctx context.Context, featureID string, name string) (*engage.Policy, error) {
	policies, err := u.API.ListPolicies(ctx, u.Module, featureID)
	if err != nil {
		return nil, fmt.Errorf(messages.PolicyListPoliciesErrFmt, featureID, err)
	}
	found, _ := matchByName(policies, name)
	if found == nil {
		return nil, fmt.Errorf(messages.PolicyRefetchMissingFmt, name)
	}
	fprintf(u.Verbose, messages.PolicyVerboseRefetchedFmt, name, found.ID)
	return found, nil
}

// refetchTenantConflict returns the record behind a tolerated tenant-wide
// conflict: the name match when one exists, otherwise the feature's
// tenant-wide policy.
func (u *Upserter) refetchTenantConflict(ctx context.Context, featureID string, name string) (*engage.Policy, error) {
	policies, err := u.API.ListPolicies(ctx, u.Module, featureID)
	if err != nil {
		return nil, fmt.Errorf(messages.PolicyListPoliciesErrFmt, featureID, err)
	}
	if found, _ := matchByName(policies, name); found != nil {
		return found, nil
	}
	for i := range policies {
		if policies[i].Everyone {
			return &policies[i], nil
		}
	}
	return nil, fmt.Errorf(messages.PolicyRefetchMissingFmt, name)
}

func (u *Upserter) confirm(prompt string) (bool, error) {
	if u.Confirm == nil {
		return true, nil
	}
	return u.Confirm(prompt)
}

func fprintf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, format, args...)
}
