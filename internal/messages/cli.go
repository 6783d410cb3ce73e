package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "engagectl"
	// RootShort is the short description for the root command.
	RootShort = "Tenant feature access policy automation"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// ApplyUse is the apply command name.
	ApplyUse   = "apply"
	ApplyShort = "Create or update feature access policies for the tenant"
	ApplyLong  = "Apply enables or disables the selected features for the tenant, specific groups, or specific users.\n" +
		"Existing policies are matched by name and updated in place; missing policies are created."

	ApplyFlagMode          = "Desired enablement state: enable or disable"
	ApplyFlagAssistant     = "Apply to the AI assistant feature"
	ApplyFlagSummarization = "Apply to the AI summarization feature"
	ApplyFlagEveryone      = "Apply the policy tenant-wide"
	ApplyFlagGroups        = "Group id or resolvable email the policy applies to (repeatable)"
	ApplyFlagUsers         = "User principal name the policy applies to (repeatable)"
	ApplyFlagPrefix        = "Policy name prefix"
	ApplyFlagOptInDefault  = "Start users opted in when the feature is enabled with self-service control"
	ApplyFlagAutoInstall   = "Install the connector when it is missing"
	ApplyFlagAutoUpdate    = "Update the connector when a newer release is available"
	ApplyFlagYes           = "Answer yes to all confirmation prompts"
	ApplyFlagDryRun        = "Report the changes that would be made without making them"
	ApplyFlagVerbose       = "Enable verbose output"
	ApplyFlagConfig        = "Path to the engagectl config file"

	ApplyInvalidModeFmt = "invalid --mode %q (expected enable or disable)"

	ApplyConfirmRunFmt    = "Apply policy changes for %d feature(s) to tenant %q?"
	ApplyAborted          = "Aborted; no policies were changed."
	ApplyDryRunHeader     = "Dry run; no changes were made. The following changes would be applied:"
	ApplyNoChanges        = "No changes."
	ApplySummaryLineFmt   = "%s\n  feature:  %s\n  enabled:  %t\n  access:   %s\n  id:       %s\n"
	ApplySummaryOptInFmt  = "  opt-in:   %t\n"
	ApplyConnectorInfoFmt = "Using connector %s (%s)\n"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt   = "%s [Y/n]: "
	PromptNoDefaultFmt    = "%s [y/N]: "
	PromptRetryYesNo      = "Please answer y or n."
	PromptInvalidResponse = "invalid response %q"
)
