// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Vidscout is the canonical application identifier used for filesystem paths and CLI branding.
	Vidscout = "vidscout"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent on manifest fetches and by the Lua http_tls module.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Logo is printed at the top of the root command help.
const Logo = `        _     __
 _   __(_)___/ /_____________  __  __/ /_
| | / / / __  / ___/ ___/ __ \/ / / / __/
| |/ / / /_/ (__  ) /__/ /_/ / /_/ / /_
|___/_/\__,_/____/\___/\____/\__,_/\__/`
