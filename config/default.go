package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/color"
	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/style"
)

// Field is one registered setting and its factory value.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Section is the key prefix before the first dot, e.g. "detect".
func (f Field) Section() string {
	section, _, _ := strings.Cut(f.Key, ".")
	return section
}

// Env is the variable that overrides the field, e.g. VIDSCOUT_DETECT_TTL.
func (f Field) Env() string {
	return strings.ToUpper(constant.Vidscout + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Kind names the type a value must parse to.
func (f Field) Kind() string {
	switch f.Value.(type) {
	case bool:
		return "bool"
	case int:
		return "int"
	case []string:
		return "[]string"
	case string:
		if _, isDuration := durationKeys[f.Key]; isDuration {
			return "duration"
		}
		return "string"
	default:
		return fmt.Sprintf("%T", f.Value)
	}
}

// Pretty renders the field for `config info`.
func (f Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"key":         f.Key,
		"env":         f.Env(),
		"type":        f.Kind(),
		"value":       viper.Get(f.Key),
		"default":     f.Value,
		"description": f.Description,
	})
}

// Default indexes every field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

// durationKeys hold Go duration strings; see Duration.
var durationKeys = map[string]struct{}{
	key.DetectTTL:              {},
	key.ManifestFetchTimeout:   {},
	key.NavigationPollInterval: {},
}

var fields = []Field{
	// detection
	{key.DetectMinVideoSize, 500_000, "Minimum declared size in bytes for a candidate to count as a full video.\nAbsent sizes never disqualify"},
	{key.DetectResultLimit, 5, "Number of ranked candidates returned per query"},
	{key.DetectTTL, "10m", "How long a candidate stays in a context after it was first seen.\nGo duration syntax, e.g. 90s, 10m"},
	{key.DetectHighConfidence, 90, "Source priority at or above which candidates skip the playability heuristics"},

	// manifests
	{key.ManifestVariantLimit, 3, "Maximum number of variant streams merged per expanded manifest"},
	{key.ManifestFetchTimeout, "15s", "Timeout for a single manifest fetch"},
	{key.ManifestMaxBody, 2 << 20, "Maximum manifest body size in bytes; longer bodies are truncated"},
	{key.ManifestRateLimit, 8, "Manifest fetches per second across all contexts. 0 disables the limit"},
	{key.NetworkFingerprint, false, "Use a Chrome TLS fingerprint for outbound requests"},

	// relays
	{key.RelayPatterns, []string{`/proxy\?url=`, `/relay/`, `/hls-proxy/`, `/m3u8-proxy`, `/stream-proxy/`}, "Regular expressions matching URLs already routed through a relay"},
	{key.RelayHeaderParam, "__vsh", "Query parameter that carries embedded referer/origin headers"},

	{key.NavigationPollInterval, "1s", "How often tracked contexts are polled for top-level navigation"},

	{key.ServerAddress, "127.0.0.1:7878", "Address the websocket server listens on"},
	{key.ServerAllowedOrigins, []string{}, "Origins allowed to open a websocket. Empty allows browser extensions and clients without an Origin header; \"*\" allows all"},

	{key.ExtractorsEnable, true, "Run per-site Lua extractors on page payloads"},

	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},

	{key.CliColored, true, "Enable colored CLI output"},
	{key.CliVersionCheck, true, "Enable automatic version check"},
	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},
}

func init() {
	for _, f := range fields {
		if _, exists := Default[f.Key]; exists {
			panic("Duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)(strconv.FormatBool(value))
		}
		return style.Fg(color.Red)(strconv.FormatBool(value))
	case string:
		return style.Fg(color.Yellow)(strconv.Quote(value))
	case []string:
		return "[" + strings.Join(lo.Map(value, func(s string, _ int) string {
			return style.Fg(color.Yellow)(strconv.Quote(s))
		}), ", ") + "]"
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"purple": style.Fg(color.Purple),
	"cyan":   style.Fg(color.Cyan),
	"value":  viper.Get,
	"hl":     highlight,
}).Parse(`{{ purple .Key }} {{ faint .Kind }}
{{ faint .Description }}
  {{ cyan "env" }}     {{ .Env }}
  {{ cyan "value" }}   {{ hl (value .Key) }}
  {{ cyan "default" }} {{ hl .Value }}`))
