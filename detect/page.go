package detect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/vidscout/vidscout/classify"
	"github.com/vidscout/vidscout/jsonvalue"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/media"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

var (
	metaVideoSelectors = []string{
		`meta[property="og:video"]`,
		`meta[property="og:video:url"]`,
		`meta[property="og:video:secure_url"]`,
		`meta[property="twitter:player:stream"]`,
		`meta[name="twitter:player:stream"]`,
	}

	scriptLiteral = regexp.MustCompile(`https?://[^\s"'<>()\\]+?\.(?:mp4|m4v|mov|m3u8|mpd)\b(?:\?[^\s"'<>()\\]*)?`)

	scriptUnescaper = strings.NewReplacer(`\/`, `/`, `\u002F`, `/`, `\u002f`, `/`, `\u0026`, `&`, `&amp;`, `&`)
)

// Page scans a serialized document for video elements, video meta tags,
// JSON-LD, embedded JSON and URL literals in inline scripts. The page URL
// itself is reported when it is a direct-play platform page.
func Page(pageURL, html string) ([]registry.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", pageURL, err)
	}

	var candidates []registry.Candidate
	add := func(c registry.Candidate) {
		if usable(c.URL) {
			candidates = append(candidates, c)
		}
	}

	if classify.IsDirectPlay(pageURL) {
		add(registry.Candidate{URL: pageURL, Source: source.Platform, Title: pageTitle(doc)})
	}

	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		if u := resolve(pageURL, s.AttrOr("src", "")); classify.IsDirectPlay(u) {
			add(registry.Candidate{URL: u, Source: source.Platform, Title: s.AttrOr("title", "")})
		}
	})

	doc.Find("video").Each(func(_ int, video *goquery.Selection) {
		title := strings.TrimSpace(lo.CoalesceOrEmpty(video.AttrOr("title", ""), video.AttrOr("aria-label", "")))

		if src, ok := video.Attr("src"); ok {
			add(element(pageURL, src, video.AttrOr("type", ""), title, video.AttrOr("data-quality", "")))
		}

		video.Find("source[src]").Each(func(_ int, s *goquery.Selection) {
			label := lo.CoalesceOrEmpty(s.AttrOr("size", ""), s.AttrOr("res", ""), s.AttrOr("label", ""), s.AttrOr("data-quality", ""))
			add(element(pageURL, s.AttrOr("src", ""), s.AttrOr("type", ""), title, label))
		})
	})

	metaTitle := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	metaType := doc.Find(`meta[property="og:video:type"]`).AttrOr("content", "")
	metaQuality := ""
	if h := doc.Find(`meta[property="og:video:height"]`).AttrOr("content", ""); media.ParseQuality(h) > 0 {
		metaQuality = h + "p"
	}

	doc.Find(strings.Join(metaVideoSelectors, ", ")).Each(func(_ int, s *goquery.Selection) {
		u := resolve(pageURL, s.AttrOr("content", ""))
		add(registry.Candidate{
			URL:         u,
			Source:      source.Meta,
			Title:       metaTitle,
			ContentType: lo.Ternary(media.IsVideoContentType(metaType), metaType, ""),
			Quality:     metaQuality,
			IsPlaylist:  media.IsHLS(u, metaType),
		})
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}

		body := s.Text()
		switch kind := strings.ToLower(strings.TrimSpace(s.AttrOr("type", ""))); {
		case kind == "application/ld+json" || kind == "application/json":
			lo.ForEach(jsonScript(pageURL, body), func(c registry.Candidate, _ int) { add(c) })
		default:
			lo.ForEach(scriptLiterals(body), func(u string, _ int) {
				add(registry.Candidate{URL: u, Source: source.Script, IsPlaylist: media.IsHLS(u, "")})
			})
		}
	})

	return lo.UniqBy(candidates, func(c registry.Candidate) string { return c.URL + "\x00" + string(c.Source) }), nil
}

func element(pageURL, src, contentType, title, label string) registry.Candidate {
	u := resolve(pageURL, src)

	var quality string
	if media.ParseQuality(label) > 0 {
		quality = label
		if q := strings.TrimSpace(label); q == strconv.Itoa(media.ParseQuality(q)) {
			quality = q + "p"
		}
	}

	return registry.Candidate{
		URL:         u,
		Source:      source.DOM,
		Title:       title,
		Quality:     quality,
		ContentType: lo.Ternary(media.IsVideoContentType(contentType), contentType, ""),
		IsPlaylist:  media.IsHLS(u, contentType),
	}
}

// jsonScript handles JSON-LD and other typed JSON scripts. Only URLs inside a
// VideoObject count as structured data.
func jsonScript(pageURL, body string) []registry.Candidate {
	v, err := jsonvalue.Parse([]byte(strings.TrimSpace(body)), MaxDepth)
	if err != nil {
		log.Debugf("json script on %s: %s", pageURL, err)
		return nil
	}

	return fromJSON(v, pageURL, source.Script)
}

func scriptLiterals(body string) []string {
	return lo.Uniq(scriptLiteral.FindAllString(scriptUnescaper.Replace(body), -1))
}

func pageTitle(doc *goquery.Document) string {
	if t := doc.Find(`meta[property="og:title"]`).AttrOr("content", ""); t != "" {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
