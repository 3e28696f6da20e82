package detect

import (
	"strings"

	"github.com/samber/lo"
	"github.com/vidscout/vidscout/jsonvalue"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/media"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

// MaxDepth bounds how deep untrusted JSON is parsed and walked.
const MaxDepth = 64

var (
	// Keys whose string value is a media URL whatever it looks like.
	mediaKeys = []string{
		"contentUrl", "embedUrl",
		"video_url", "videoUrl",
		"playback_url", "playbackUrl",
		"hls_url", "hlsUrl",
		"dash_url", "dashUrl",
		"stream_url", "streamUrl",
		"manifest_url", "manifestUrl",
	}

	// Keys that only count when the value has a media extension.
	looseKeys = []string{"src", "file", "url"}

	searchKeys = append(append([]string{}, mediaKeys...), looseKeys...)

	titleKeys   = []string{"name", "title", "caption", "headline"}
	qualityKeys = []string{"quality", "qualityLabel", "resolution", "label"}
)

// Structured walks an embedded JSON blob for media URLs. Values found in a
// schema.org VideoObject are tagged jsonld, everything else script.
// Malformed or over-deep input yields nothing.
func Structured(pageURL, body string) []registry.Candidate {
	v, err := jsonvalue.Parse([]byte(strings.TrimSpace(body)), MaxDepth)
	if err != nil {
		log.Debugf("embedded data on %s: %s", pageURL, err)
		return nil
	}

	return fromJSON(v, pageURL, source.Script)
}

func fromJSON(v jsonvalue.Value, pageURL string, fallback source.Tag) []registry.Candidate {
	var candidates []registry.Candidate

	for _, m := range jsonvalue.FindKeys(v, MaxDepth, searchKeys...) {
		raw, ok := m.Value.(jsonvalue.String)
		if !ok {
			continue
		}

		u := resolve(pageURL, string(raw))
		if !usable(u) {
			continue
		}

		if lo.Contains(looseKeys, m.Key) {
			ext := media.Extension(u)
			if !media.IsDirectExtension(ext) && !media.IsManifestExtension(ext) {
				continue
			}
		}

		tag := fallback
		if isVideoObject(m.Parent) {
			tag = source.JSONLD
		}

		candidates = append(candidates, registry.Candidate{
			URL:        u,
			Source:     tag,
			Title:      firstString(m.Parent, titleKeys),
			Quality:    quality(m.Parent),
			IsPlaylist: media.IsHLS(u, "") || strings.HasPrefix(strings.ToLower(m.Key), "hls"),
		})
	}

	return candidates
}

func usable(u string) bool {
	if u == "" || strings.HasPrefix(u, "#") {
		return false
	}
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

func isVideoObject(o *jsonvalue.Object) bool {
	switch t := o.Get("@type").(type) {
	case jsonvalue.String:
		return string(t) == "VideoObject"
	case jsonvalue.Array:
		return lo.ContainsBy(t, func(v jsonvalue.Value) bool {
			s, ok := v.(jsonvalue.String)
			return ok && string(s) == "VideoObject"
		})
	}
	return false
}

func firstString(o *jsonvalue.Object, keys []string) string {
	for _, k := range keys {
		if s, ok := o.GetString(k); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func quality(o *jsonvalue.Object) string {
	if q := firstString(o, qualityKeys); media.ParseQuality(q) > 0 {
		return q
	}

	if h, ok := o.GetNumber("height"); ok && h > 0 {
		return media.QualityLabel(int(h))
	}

	return ""
}
