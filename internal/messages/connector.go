package messages

// Connector messages cover the dependency gatekeeper.
const (
	ConnectorMissingFmt = "connector %q is not installed; re-run with --auto-install to install it"

	ConnectorWarnUpdateAvailableFmt = "Warning: connector update available: %s (installed %s); re-run with --auto-update to update\n"
	ConnectorWarnBelowRecommendFmt  = "Warning: connector %s is below the recommended version %s\n"
	ConnectorWarnBelowMinimumFmt    = "Warning: connector %s is below the requested minimum %s; proceeding with the installed copy\n"

	ConnectorVerboseLatestFailedFmt = "Latest connector release check failed: %v\n"
	ConnectorVerboseInstalledFmt    = "Installed connector %s\n"

	ConnectorCreateRequestFmt   = "create release request: %w"
	ConnectorFetchLatestErrFmt  = "fetch latest connector release: %w"
	ConnectorLatestStatusFmt    = "latest connector release: unexpected status %s"
	ConnectorDecodeLatestErrFmt = "decode latest connector release: %w"
	ConnectorDownloadErrFmt     = "download connector %s: %w"
	ConnectorDownloadStatusFmt  = "download connector %s: unexpected status %s"
	ConnectorWriteArtifactFmt   = "write connector artifact: %w"
	ConnectorNotExecutableFmt   = "connector %s at %s is not executable"
	ConnectorTokenErrFmt        = "obtain session token from connector: %w"
	ConnectorTokenEmptyErr      = "connector returned an empty session token"
)
