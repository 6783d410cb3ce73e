package messages

// Config messages cover loading and validating the engagectl config file.
const (
	ConfigReadErrFmt       = "read config %s: %w"
	ConfigParseErrFmt      = "parse config %s: %w"
	ConfigResolveHomeFmt   = "resolve home dir: %w"
	ConfigServiceURLErrFmt = "config: invalid service_url %q: %w"
	ConfigTenantRequired   = "config: tenant is required (set tenant in the config file or ENGAGECTL_TENANT)"
)
