// Package engage is the HTTP client for the policy management service. It
// covers the small administrative surface engagectl consumes: session
// establishment, the feature catalog, and policy CRUD.
package engage

// Feature is a remote-defined capability from the tenant's feature catalog.
type Feature struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Policy is a named rule binding a feature to an enabled state and a scope.
// Older service versions used different name-bearing fields; all three are
// retained so name matching can try them in priority order.
type Policy struct {
	ID                 string   `json:"id,omitempty"`
	DisplayName        string   `json:"displayName,omitempty"`
	Name               string   `json:"name,omitempty"`
	Identity           string   `json:"identity,omitempty"`
	FeatureID          string   `json:"featureId,omitempty"`
	Enabled            bool     `json:"enabled"`
	UserControlEnabled bool     `json:"userControlEnabled,omitempty"`
	OptInByDefault     bool     `json:"optInByDefault,omitempty"`
	Everyone           bool     `json:"everyone,omitempty"`
	GroupIDs           []string `json:"groupIds,omitempty"`
	UserIDs            []string `json:"userIds,omitempty"`
}

// CreatePolicyRequest creates a policy. Exactly one scope field set
// (Everyone, GroupIDs, or UserIDs) must be populated.
type CreatePolicyRequest struct {
	DisplayName        string   `json:"displayName"`
	FeatureID          string   `json:"featureId"`
	Enabled            bool     `json:"enabled"`
	Everyone           bool     `json:"everyone,omitempty"`
	GroupIDs           []string `json:"groupIds,omitempty"`
	UserIDs            []string `json:"userIds,omitempty"`
	UserControlEnabled *bool    `json:"userControlEnabled,omitempty"`
	OptInByDefault     *bool    `json:"optInByDefault,omitempty"`
}

// UpdatePolicyRequest updates a policy's enablement state. Scope is fixed at
// creation time and cannot be changed here.
type UpdatePolicyRequest struct {
	Enabled            *bool `json:"enabled,omitempty"`
	UserControlEnabled *bool `json:"userControlEnabled,omitempty"`
	OptInByDefault     *bool `json:"optInByDefault,omitempty"`
}
