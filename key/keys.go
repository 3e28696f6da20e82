// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Detection Tuning - these keys govern classification, ranking and expiry of candidates.
const (
	DetectMinVideoSize   = "detect.min_video_size"
	DetectResultLimit    = "detect.result_limit"
	DetectTTL            = "detect.ttl"
	DetectHighConfidence = "detect.high_confidence"
)

// Manifest Expansion - these keys bound the fetch-and-parse of adaptive streaming indexes.
const (
	ManifestVariantLimit = "manifest.variant_limit"
	ManifestFetchTimeout = "manifest.fetch_timeout"
	ManifestMaxBody      = "manifest.max_body"
	ManifestRateLimit    = "manifest.rate_limit"
)

// Network - these keys configure the outbound HTTP client.
const (
	NetworkFingerprint = "network.fingerprint"
)

// Relay - these keys describe downstream fetch-proxying services.
const (
	RelayPatterns    = "relay.patterns"
	RelayHeaderParam = "relay.header_param"
)

// Navigation - these keys configure the location polling loop.
const (
	NavigationPollInterval = "navigation.poll_interval"
)

// Server - these keys configure the websocket message boundary.
const (
	ServerAddress        = "server.address"
	ServerAllowedOrigins = "server.allowed_origins"
)

// Extractors - these keys manage the per-site Lua extractors.
const (
	ExtractorsEnable = "extractors.enable"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the terminal output.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	IconsVariant    = "icons.variant"
)
