// Package manifest expands HLS master playlists into their variant streams.
//
// Parse is pure; Fetcher performs the network side and is kept separate so the
// parser can be exercised on recorded bodies.
package manifest

import (
	"bufio"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/vidscout/vidscout/media"
	"github.com/vidscout/vidscout/util"
	"golang.org/x/exp/slices"
)

// Header is the signature every HLS playlist starts with.
const Header = "#EXTM3U"

const streamInf = "#EXT-X-STREAM-INF"

// Variant is one playable stream declared by a master playlist.
type Variant struct {
	URL       string `json:"url"`
	Quality   string `json:"quality,omitempty"`
	Bandwidth int    `json:"bandwidth,omitempty"`
}

var (
	resolutionAttr = regexp.MustCompile(`(?i)RESOLUTION=(?P<w>\d+)x(?P<h>\d+)`)
	bandwidthAttr  = regexp.MustCompile(`(?i)(?:^|[:,])BANDWIDTH=(?P<bw>\d+)`)
)

// Parse reads a playlist body fetched from manifestURL.
//
// A master playlist yields its variants, best quality first (unknown quality
// last, ties in document order). A media playlist yields a single variant that
// points at manifestURL itself. Bodies without the #EXTM3U header yield nil.
func Parse(body, manifestURL string) []Variant {
	body = strings.TrimPrefix(body, "\ufeff")
	if !strings.HasPrefix(strings.TrimSpace(body), Header) {
		return nil
	}

	if !strings.Contains(body, streamInf+":") && !strings.Contains(body, streamInf+"\n") {
		return []Variant{{URL: manifestURL}}
	}

	var (
		variants []Variant
		pending  *Variant
	)

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, streamInf):
			pending = parseStreamInf(line)
		case strings.HasPrefix(line, "#"):
			continue
		case pending != nil:
			pending.URL = resolve(manifestURL, line)
			variants = append(variants, *pending)
			pending = nil
		}
	}

	slices.SortStableFunc(variants, func(a, b Variant) int {
		return media.ParseQuality(b.Quality) - media.ParseQuality(a.Quality)
	})

	return variants
}

func parseStreamInf(line string) *Variant {
	v := &Variant{}

	if groups := util.ReGroups(resolutionAttr, line); len(groups) == 2 {
		w, _ := strconv.Atoi(groups["w"])
		h, _ := strconv.Atoi(groups["h"])
		v.Quality = media.QualityLabel(util.Min(w, h))
	}

	if groups := util.ReGroups(bandwidthAttr, line); groups["bw"] != "" {
		v.Bandwidth, _ = strconv.Atoi(groups["bw"])
	}

	return v
}

// resolve turns a variant reference into an absolute URL relative to the
// directory of the manifest.
func resolve(manifestURL, ref string) string {
	if r, err := url.Parse(ref); err == nil && r.IsAbs() {
		return ref
	}

	base, err := url.Parse(manifestURL)
	if err == nil {
		if r, err := url.Parse(ref); err == nil {
			return base.ResolveReference(r).String()
		}
	}

	// Fall back to textual joining when either side does not parse.
	dir := manifestURL
	if i := strings.IndexAny(dir, "?#"); i >= 0 {
		dir = dir[:i]
	}
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[:i+1]
	}
	return dir + strings.TrimPrefix(ref, "./")
}
