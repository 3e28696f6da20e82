// Package media holds the shared vocabulary for recognizing video resources:
// file extensions, content types and quality labels.
package media

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var (
	// Direct media files a player can open on their own.
	directExtensions = []string{".mp4", ".m4v", ".mov", ".mkv", ".avi", ".flv", ".wmv", ".mpg", ".mpeg", ".3gp", ".ogv"}

	// Adaptive streaming indexes.
	manifestExtensions = []string{".m3u8", ".mpd"}

	// Raw streaming segments.
	segmentExtensions = []string{".ts", ".m4s", ".m4f", ".cmfv", ".cmfa", ".m2ts"}
)

// Extension returns the lower-cased extension of the URL path, ignoring query and fragment.
// Returns "" when the path has none.
func Extension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	return strings.ToLower(path.Ext(p))
}

// IsDirectExtension reports whether ext names a standalone media file.
func IsDirectExtension(ext string) bool {
	return lo.Contains(directExtensions, ext)
}

// IsManifestExtension reports whether ext names an adaptive streaming index.
func IsManifestExtension(ext string) bool {
	return lo.Contains(manifestExtensions, ext)
}

// IsSegmentExtension reports whether ext names a raw streaming segment.
func IsSegmentExtension(ext string) bool {
	return lo.Contains(segmentExtensions, ext)
}

// baseContentType strips parameters such as "; codecs=..." and lower-cases.
func baseContentType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// IsVideoContentType reports whether a declared content type describes video or a video index.
func IsVideoContentType(contentType string) bool {
	ct := baseContentType(contentType)
	return strings.HasPrefix(ct, "video/") || IsHLSContentType(ct) || ct == "application/dash+xml"
}

// IsHLSContentType reports whether a declared content type describes an HLS playlist.
func IsHLSContentType(contentType string) bool {
	switch baseContentType(contentType) {
	case "application/vnd.apple.mpegurl", "application/x-mpegurl", "audio/mpegurl", "audio/x-mpegurl":
		return true
	}
	return false
}

// IsHLS reports whether a resource is an HLS playlist by URL or content type.
func IsHLS(rawURL, contentType string) bool {
	return Extension(rawURL) == ".m3u8" || IsHLSContentType(contentType)
}

var qualityPattern = regexp.MustCompile(`(?i)^\s*(\d{3,4})\s*[pi]?`)

// ParseQuality returns the vertical resolution encoded in a quality label
// ("720p", "1080", "4K"). Unparsable labels yield 0.
func ParseQuality(label string) int {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "":
		return 0
	case "4k", "uhd":
		return 2160
	case "2k":
		return 1440
	case "fhd":
		return 1080
	case "hd":
		return 720
	case "sd":
		return 480
	}

	m := qualityPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// QualityLabel renders a vertical resolution as a label, e.g. 720 → "720p".
func QualityLabel(lines int) string {
	if lines <= 0 {
		return ""
	}
	return strconv.Itoa(lines) + "p"
}
