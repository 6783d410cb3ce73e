package messages

// Engage messages cover the policy service client and session handling.
const (
	EngageConnectStatusFmt    = "connect to policy service at %s: unexpected status %s"
	EngageCreateRequestFmt    = "create request: %w"
	EngageEncodeBodyErrFmt    = "encode request body: %w"
	EngageDecodeErrFmt        = "decode %s response: %w"
	EngageRequestErrFmt       = "%s %s: %w"
	EngageSessionTokenMissing = "session response did not include a token"
)
