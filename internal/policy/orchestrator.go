package policy

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/conn-castle/engagectl/internal/connector"
	"github.com/conn-castle/engagectl/internal/engage"
	"github.com/conn-castle/engagectl/internal/faults"
	"github.com/conn-castle/engagectl/internal/messages"
)

// Mode is the desired enablement state.
type Mode string

const (
	ModeEnable  Mode = "enable"
	ModeDisable Mode = "disable"
)

// ErrAborted reports that the user declined the top-level confirmation. No
// policy was touched.
var ErrAborted = errors.New("aborted")

// Summary is the per-policy outcome reported to the caller.
type Summary struct {
	Name           string
	FeatureID      string
	Enabled        bool
	OptInByDefault *bool
	Access         string
	PolicyID       string
	Action         Action
	Preview        string
}

// RunOptions carries the parameters of one apply invocation.
type RunOptions struct {
	Mode           Mode
	Assistant      bool
	Summarization  bool
	Prefix         string
	Scope          Scope
	OptInByDefault *bool
	DryRun         bool
	// Confirm gates mutations. It is asked once for the whole run and once
	// per policy; these layers are deliberately independent. Nil suppresses
	// both.
	Confirm ConfirmFunc
}

// Orchestrator drives the full sequence: connector gatekeeping, session
// establishment, feature resolution, and the per-feature upserts.
type Orchestrator struct {
	// EnsureConnector runs the dependency gatekeeper.
	EnsureConnector func(ctx context.Context) (connector.Connector, error)
	// NewAPI builds the policy service client once the connector is loaded.
	NewAPI func(conn connector.Connector) (API, error)
	// Tenant names the target tenant in prompts and summaries.
	Tenant  string
	Warn    io.Writer
	Verbose io.Writer
}

// Run validates the request, prepares the environment, and applies one policy
// per selected feature. Features are processed in a fixed order (assistant,
// then summarization); a feature missing from the catalog aborts the run
// before that feature mutates anything, leaving earlier features applied.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) ([]Summary, error) {
	if !opts.Assistant && !opts.Summarization {
		return nil, faults.New(faults.KindInvalidArgument, "feature_not_selected", messages.PolicyNoFeatureSelected)
	}
	if err := opts.Scope.Validate(); err != nil {
		return nil, err
	}

	conn, err := o.EnsureConnector(ctx)
	if err != nil {
		return nil, err
	}
	fprintf(o.Verbose, messages.ApplyConnectorInfoFmt, conn.Version, conn.Path)

	api, err := o.NewAPI(conn)
	if err != nil {
		return nil, err
	}
	if err := api.EnsureConnected(ctx); err != nil {
		return nil, err
	}

	resolver := NewResolver(api, Module)
	features, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	requested := 0
	if opts.Assistant {
		requested++
	}
	if opts.Summarization {
		requested++
	}
	if !opts.DryRun && opts.Confirm != nil {
		ok, err := opts.Confirm(fmt.Sprintf(messages.ApplyConfirmRunFmt, requested, o.Tenant))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	upserter := &Upserter{
		API:     api,
		Module:  Module,
		Confirm: opts.Confirm,
		DryRun:  opts.DryRun,
		Warn:    o.Warn,
		Verbose: o.Verbose,
	}

	type target struct {
		requested bool
		feature   *engage.Feature
		id        string
		label     string
	}
	targets := []target{
		{opts.Assistant, features.Assistant, FeatureAssistantID, featureAssistantLabel},
		{opts.Summarization, features.Summarization, FeatureSummarizationID, featureSummarizationLabel},
	}

	summaries := make([]Summary, 0, requested)
	for _, t := range targets {
		if !t.requested {
			continue
		}
		if t.feature == nil {
			return summaries, faults.New(faults.KindObjectNotFound, "feature_not_found", messages.PolicyFeatureNotFoundFmt, t.id)
		}
		result, err := upserter.Upsert(ctx, UpsertRequest{
			FeatureID:      t.feature.ID,
			Name:           fmt.Sprintf("%s, %s", opts.Prefix, displayLabel(t.feature, t.label)),
			Enabled:        opts.Mode == ModeEnable,
			Scope:          opts.Scope,
			OptInByDefault: opts.OptInByDefault,
		})
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summarize(t.feature.ID, opts.Scope, result))
	}
	return summaries, nil
}

// summarize builds the per-policy summary from an upsert result, preferring
// the remote record over the request when one exists.
func summarize(featureID string, scope Scope, result Result) Summary {
	summary := Summary{
		FeatureID: featureID,
		Access:    scope.Describe(),
		Action:    result.Action,
		Preview:   result.Preview,
	}
	if p := result.Policy; p != nil {
		summary.Name = policyName(*p)
		summary.Enabled = p.Enabled
		summary.Access = accessOf(*p)
		summary.PolicyID = p.ID
		if p.UserControlEnabled {
			optIn := p.OptInByDefault
			summary.OptInByDefault = &optIn
		}
	}
	return summary
}

// policyName returns the record's name from the first populated name-bearing
// field, in the same priority order matching uses.
func policyName(p engage.Policy) string {
	for _, field := range nameFields {
		if v := field.get(p); v != "" {
			return v
		}
	}
	return p.ID
}
