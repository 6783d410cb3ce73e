// Package policy implements the create-or-update routine for tenant feature
// access policies: feature resolution, name-based idempotent matching, and
// the orchestration sequence that drives the connector, the session, and the
// per-feature upserts.
package policy

import (
	"context"
	"fmt"

	"github.com/conn-castle/engagectl/internal/engage"
	"github.com/conn-castle/engagectl/internal/messages"
)

// Module is the catalog module that owns the features this tool manages.
const Module = "engage"

// Remote identifiers of the two supported features.
const (
	FeatureAssistantID     = "ai-assistant"
	FeatureSummarizationID = "ai-summarization"
)

// Display labels used when the remote descriptor carries no display name.
const (
	featureAssistantLabel     = "AI Assistant"
	featureSummarizationLabel = "AI Summarization"
)

// API is the remote surface the policy package consumes. engage.Client
// implements it; tests supply fakes.
type API interface {
	EnsureConnected(ctx context.Context) error
	ListFeatures(ctx context.Context, module string) ([]engage.Feature, error)
	ListPolicies(ctx context.Context, module string, featureID string) ([]engage.Policy, error)
	CreatePolicy(ctx context.Context, module string, req engage.CreatePolicyRequest) (engage.Policy, error)
	UpdatePolicy(ctx context.Context, policyID string, req engage.UpdatePolicyRequest) (engage.Policy, error)
}

// Features holds the resolved descriptors for the supported features. A nil
// entry means the feature is absent from the tenant's catalog.
type Features struct {
	Assistant     *engage.Feature
	Summarization *engage.Feature
}

// Resolver looks up and caches the remote feature descriptors. Construct one
// per invocation and pass it to consumers; the cache is never invalidated,
// which is only correct because the process is short-lived.
type Resolver struct {
	api      API
	module   string
	features Features
	loaded   bool
}

// NewResolver returns a resolver bound to api and module.
func NewResolver(api API, module string) *Resolver {
	return &Resolver{api: api, module: module}
}

// Resolve lists the module's features on first use and filters for the two
// supported identifiers. Subsequent calls return the cached result.
func (r *Resolver) Resolve(ctx context.Context) (Features, error) {
	if r.loaded {
		return r.features, nil
	}
	catalog, err := r.api.ListFeatures(ctx, r.module)
	if err != nil {
		return Features{}, fmt.Errorf(messages.PolicyListFeaturesErrFmt, r.module, err)
	}
	for i := range catalog {
		feature := catalog[i]
		switch feature.ID {
		case FeatureAssistantID:
			r.features.Assistant = &feature
		case FeatureSummarizationID:
			r.features.Summarization = &feature
		}
	}
	r.loaded = true
	return r.features, nil
}

// displayLabel prefers the remote display name and falls back to the known label.
func displayLabel(feature *engage.Feature, fallback string) string {
	if feature != nil && feature.DisplayName != "" {
		return feature.DisplayName
	}
	return fallback
}
