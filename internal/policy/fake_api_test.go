package policy

import (
	"context"
	"fmt"

	"github.com/conn-castle/engagectl/internal/engage"
)

// fakeAPI is a scripted in-memory policy service for tests.
type fakeAPI struct {
	features []engage.Feature
	policies map[string][]engage.Policy

	connectErr      error
	listFeaturesErr error
	listPoliciesErr error
	createErr       error
	updateErr       error

	connectCalls      int
	listFeaturesCalls int
	listPoliciesCalls int
	creates           []engage.CreatePolicyRequest
	updates           []recordedUpdate
	nextID            int
}

type recordedUpdate struct {
	policyID string
	req      engage.UpdatePolicyRequest
}

func newFakeAPI(features ...engage.Feature) *fakeAPI {
	return &fakeAPI{features: features, policies: map[string][]engage.Policy{}}
}

func (f *fakeAPI) EnsureConnected(context.Context) error {
	f.connectCalls++
	return f.connectErr
}

func (f *fakeAPI) ListFeatures(context.Context, string) ([]engage.Feature, error) {
	f.listFeaturesCalls++
	if f.listFeaturesErr != nil {
		return nil, f.listFeaturesErr
	}
	return f.features, nil
}

func (f *fakeAPI) ListPolicies(_ context.Context, _ string, featureID string) ([]engage.Policy, error) {
	f.listPoliciesCalls++
	if f.listPoliciesErr != nil {
		return nil, f.listPoliciesErr
	}
	return append([]engage.Policy(nil), f.policies[featureID]...), nil
}

func (f *fakeAPI) CreatePolicy(_ context.Context, _ string, req engage.CreatePolicyRequest) (engage.Policy, error) {
	if f.createErr != nil {
		return engage.Policy{}, f.createErr
	}
	f.creates = append(f.creates, req)
	f.nextID++
	created := engage.Policy{
		ID:          fmt.Sprintf("p%d", f.nextID),
		DisplayName: req.DisplayName,
		FeatureID:   req.FeatureID,
		Enabled:     req.Enabled,
		Everyone:    req.Everyone,
		GroupIDs:    req.GroupIDs,
		UserIDs:     req.UserIDs,
	}
	if req.UserControlEnabled != nil {
		created.UserControlEnabled = *req.UserControlEnabled
	}
	if req.OptInByDefault != nil {
		created.OptInByDefault = *req.OptInByDefault
	}
	f.policies[req.FeatureID] = append(f.policies[req.FeatureID], created)
	return created, nil
}

func (f *fakeAPI) UpdatePolicy(_ context.Context, policyID string, req engage.UpdatePolicyRequest) (engage.Policy, error) {
	if f.updateErr != nil {
		return engage.Policy{}, f.updateErr
	}
	f.updates = append(f.updates, recordedUpdate{policyID: policyID, req: req})
	for featureID, list := range f.policies {
		for i := range list {
			if list[i].ID != policyID {
				continue
			}
			if req.Enabled != nil {
				list[i].Enabled = *req.Enabled
			}
			if req.UserControlEnabled != nil {
				list[i].UserControlEnabled = *req.UserControlEnabled
			}
			if req.OptInByDefault != nil {
				list[i].OptInByDefault = *req.OptInByDefault
			}
			f.policies[featureID] = list
			return list[i], nil
		}
	}
	return engage.Policy{}, fmt.Errorf("no policy %s", policyID)
}

func (f *fakeAPI) mutations() int {
	return len(f.creates) + len(f.updates)
}
