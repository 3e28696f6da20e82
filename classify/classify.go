// Package classify decides whether a candidate is a plausible full video
// rather than a segment, an audio track or an undersized download.
package classify

import (
	"regexp"
	"strings"

	"github.com/vidscout/vidscout/media"
	"github.com/vidscout/vidscout/source"
)

// Options tune the heuristics.
type Options struct {
	// MinVideoSize in bytes. Smaller declared sizes are rejected.
	MinVideoSize int64
	// HighConfidence is the source priority from which every check is skipped.
	HighConfidence int
}

// DefaultOptions match the reference deployment.
func DefaultOptions() Options {
	return Options{MinVideoSize: 500_000, HighConfidence: 90}
}

// Classifier applies the playability rules. It is stateless and safe for concurrent use.
type Classifier struct {
	opts Options
}

// New returns a Classifier using opts.
func New(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

var (
	// URLs an external player opens directly.
	directPlayPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^https?://(www\.|m\.|music\.)?youtube\.com/(watch\?(.*&)?v=|shorts/|live/|embed/)[\w-]{6,}`),
		regexp.MustCompile(`(?i)^https?://youtu\.be/[\w-]{6,}`),
		regexp.MustCompile(`(?i)^https?://(www\.|player\.)?vimeo\.com/(video/)?\d+`),
		regexp.MustCompile(`(?i)^https?://(www\.)?dailymotion\.com/video/\w+`),
		regexp.MustCompile(`(?i)^https?://(www\.)?twitch\.tv/videos/\d+`),
	}

	// Adaptive-stream internals: never end-user media.
	segmentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[/_.-]seg(ment)?[-_]?\d+`),
		regexp.MustCompile(`(?i)[/_.-]frag(ment)?s?[-_(]?\d+`),
		regexp.MustCompile(`(?i)[/_.-]chunk[-_]?\d+`),
		regexp.MustCompile(`(?i)[/_.-]init([-_.][\w-]*)?\.(mp4|m4s|m4v)\b`),
		regexp.MustCompile(`(?i)[/_.-]init\.`),
		regexp.MustCompile(`(?i)[?&](range|bytes)=\d+-\d*`),
		regexp.MustCompile(`(?i)/range/\d+-\d+`),
		regexp.MustCompile(`(?i)/q\d+/\d+\.(ts|m4s)`),
	}

	// Audio-only renditions.
	audioPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[/_.-]audio([/_.-]|only|$)`),
		regexp.MustCompile(`(?i)[?&](mime=audio|type=audio|media_type=audio)`),
		regexp.MustCompile(`(?i)\.(m4a|mp3|aac|opus|oga|flac)([?#]|$)`),
		regexp.MustCompile(`(?i)[/_.-](dash_)?audio_?\d*k?\.`),
	}
)

// IsDirectPlay reports whether rawURL is a platform page an external player understands.
func IsDirectPlay(rawURL string) bool {
	for _, p := range directPlayPatterns {
		if p.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// IsSegmentName reports whether rawURL looks like a segment, fragment, init or byte-range request.
func IsSegmentName(rawURL string) bool {
	return matchesAny(segmentPatterns, rawURL)
}

// IsAudioName reports whether rawURL looks like an audio-only rendition.
func IsAudioName(rawURL string) bool {
	return matchesAny(audioPatterns, rawURL)
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// IsPlayable decides, first matching rule wins:
//
//  1. trusted sources are always playable;
//  2. direct-play platform URLs are playable;
//  3. .webm is rejected;
//  4. segment extensions are rejected unless the declared size exceeds twice the
//     minimum (likely a mistagged complete file);
//  5. a video/manifest extension or a video content type is required;
//  6. segment, fragment, init and byte-range names are rejected;
//  7. audio-only names are rejected;
//  8. declared sizes under the minimum are rejected.
//
// A missing size never disqualifies.
func (c *Classifier) IsPlayable(rawURL, contentType string, size int64, tag source.Tag) bool {
	if source.Priority(tag) >= c.opts.HighConfidence {
		return true
	}

	if IsDirectPlay(rawURL) {
		return true
	}

	ext := media.Extension(rawURL)
	if ext == ".webm" {
		return false
	}

	rescued := false
	if media.IsSegmentExtension(ext) {
		if size <= 2*c.opts.MinVideoSize {
			return false
		}
		rescued = true
	}

	if !rescued && !media.IsDirectExtension(ext) && !media.IsManifestExtension(ext) && !media.IsVideoContentType(contentType) {
		return false
	}

	lower := strings.ToLower(rawURL)
	if IsSegmentName(lower) || IsAudioName(lower) {
		return false
	}

	if size > 0 && size < c.opts.MinVideoSize {
		return false
	}

	return true
}
