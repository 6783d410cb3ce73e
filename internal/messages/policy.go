package messages

// Policy messages cover feature resolution and the upsert path.
const (
	PolicyNoFeatureSelected = "at least one of --assistant or --summarization is required"
	PolicyScopeRequired     = "exactly one of --everyone, --group, or --user is required"
	PolicyScopeExclusive    = "--everyone, --group, and --user are mutually exclusive"
	PolicyNameRequired      = "policy name must not be empty"

	PolicyFeatureNotFoundFmt = "feature %q is not available in the tenant's feature catalog"

	PolicyWarnOptInIgnored = "Warning: --opt-in-default only applies when enabling a feature; ignoring it\n"

	PolicyConfirmCreateFmt = "Create policy %q (feature %s, enabled=%t, access: %s)?"
	PolicyConfirmUpdateFmt = "Update policy %q (feature %s, enabled=%t)?"

	PolicyTenantConflictFmt = "A tenant-wide policy for feature %s already exists; reusing it\n"

	PolicyListFeaturesErrFmt  = "list features for module %s: %w"
	PolicyListPoliciesErrFmt  = "list policies for feature %s: %w"
	PolicyCreateErrFmt        = "create policy %q: %w"
	PolicyUpdateErrFmt        = "update policy %s: %w"
	PolicyRefetchMissingFmt   = "policy %q was applied but could not be read back"
	PolicyWouldCreateFmt      = "Would create policy %q (feature %s, enabled=%t, access: %s)\n"
	PolicyWouldUpdateFmt      = "Would update policy %q (feature %s):\n%s"
	PolicyVerboseMatchedFmt   = "Matched existing policy %q by %s\n"
	PolicyVerboseNoMatchFmt   = "No existing policy named %q; creating\n"
	PolicyVerboseRefetchedFmt = "Re-read policy %q (id %s)\n"
)
