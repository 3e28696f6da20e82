package detect

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

const samplePage = `<!doctype html>
<html>
<head>
  <title>Sample clip</title>
  <meta property="og:title" content="Sample clip">
  <meta property="og:video" content="https://cdn.test/og/clip.mp4">
  <meta property="og:video:type" content="video/mp4">
  <meta property="og:video:height" content="720">
  <script type="application/ld+json">
  {"@context":"https://schema.org","@type":"VideoObject","name":"Structured clip","contentUrl":"https://cdn.test/ld/clip.mp4","height":1080}
  </script>
</head>
<body>
  <video src="/media/main.mp4" title="Main"></video>
  <video>
    <source src="https://cdn.test/hls/master.m3u8" type="application/x-mpegURL">
    <source src="https://cdn.test/alt.mp4" type="video/mp4" size="480">
  </video>
  <iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ" title="Embedded"></iframe>
  <iframe src="https://ads.test/banner.html"></iframe>
  <script>var player = {file: "https:\/\/cdn.test\/inline\/clip.mp4?sig=1"};</script>
  <script src="https://site.test/app.js"></script>
</body>
</html>`

func find(cs []registry.Candidate, url string) (registry.Candidate, bool) {
	return lo.Find(cs, func(c registry.Candidate) bool { return c.URL == url })
}

func TestPage(t *testing.T) {
	Convey("Given a page with every kind of video reference", t, func() {
		cs, err := Page("https://site.test/watch/1", samplePage)
		So(err, ShouldBeNil)

		Convey("Video elements should be dom candidates", func() {
			c, ok := find(cs, "https://site.test/media/main.mp4")
			So(ok, ShouldBeTrue)
			So(c.Source, ShouldEqual, source.DOM)
			So(c.Title, ShouldEqual, "Main")

			c, ok = find(cs, "https://cdn.test/hls/master.m3u8")
			So(ok, ShouldBeTrue)
			So(c.IsPlaylist, ShouldBeTrue)

			c, ok = find(cs, "https://cdn.test/alt.mp4")
			So(ok, ShouldBeTrue)
			So(c.Quality, ShouldEqual, "480p")
			So(c.ContentType, ShouldEqual, "video/mp4")
		})

		Convey("Meta tags should be meta candidates", func() {
			c, ok := find(cs, "https://cdn.test/og/clip.mp4")
			So(ok, ShouldBeTrue)
			So(c.Source, ShouldEqual, source.Meta)
			So(c.Title, ShouldEqual, "Sample clip")
			So(c.Quality, ShouldEqual, "720p")
		})

		Convey("JSON-LD video objects should be jsonld candidates", func() {
			c, ok := find(cs, "https://cdn.test/ld/clip.mp4")
			So(ok, ShouldBeTrue)
			So(c.Source, ShouldEqual, source.JSONLD)
			So(c.Title, ShouldEqual, "Structured clip")
			So(c.Quality, ShouldEqual, "1080p")
		})

		Convey("Inline script literals should be unescaped", func() {
			c, ok := find(cs, "https://cdn.test/inline/clip.mp4?sig=1")
			So(ok, ShouldBeTrue)
			So(c.Source, ShouldEqual, source.Script)
		})

		Convey("Only platform iframes should count", func() {
			c, ok := find(cs, "https://www.youtube.com/embed/dQw4w9WgXcQ")
			So(ok, ShouldBeTrue)
			So(c.Source, ShouldEqual, source.Platform)

			_, ok = find(cs, "https://ads.test/banner.html")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("A platform watch page should report itself", t, func() {
		cs, err := Page("https://www.youtube.com/watch?v=dQw4w9WgXcQ", "<html><head><title>Song</title></head></html>")
		So(err, ShouldBeNil)
		So(cs, ShouldHaveLength, 1)
		So(cs[0].Source, ShouldEqual, source.Platform)
		So(cs[0].Title, ShouldEqual, "Song")
	})

	Convey("Garbage should yield no candidates", t, func() {
		cs, err := Page("https://site.test/", strings.Repeat("<<>>", 50))
		So(err, ShouldBeNil)
		So(cs, ShouldBeEmpty)
	})
}

func TestStructured(t *testing.T) {
	Convey("Structured", t, func() {
		Convey("Should find media keys at any depth", func() {
			body := `{"props":{"page":{"media":{"title":"Deep clip","hls_url":"https://cdn.test/deep/master.m3u8","qualityLabel":"720p"}}}}`
			cs := Structured("https://site.test/", body)
			So(cs, ShouldHaveLength, 1)
			So(cs[0].Source, ShouldEqual, source.Script)
			So(cs[0].Title, ShouldEqual, "Deep clip")
			So(cs[0].Quality, ShouldEqual, "720p")
			So(cs[0].IsPlaylist, ShouldBeTrue)
		})

		Convey("Should ignore loose keys without a media extension", func() {
			body := `{"items":[{"url":"https://site.test/about"},{"src":"https://cdn.test/a.mp4"}]}`
			cs := Structured("https://site.test/", body)
			So(cs, ShouldHaveLength, 1)
			So(cs[0].URL, ShouldEqual, "https://cdn.test/a.mp4")
		})

		Convey("Should resolve relative URLs", func() {
			cs := Structured("https://site.test/watch/1", `{"video_url":"/v/clip.mp4"}`)
			So(cs, ShouldHaveLength, 1)
			So(cs[0].URL, ShouldEqual, "https://site.test/v/clip.mp4")
		})

		Convey("Should tolerate malformed and hostile input", func() {
			So(Structured("https://site.test/", `{"video_url":`), ShouldBeEmpty)
			So(Structured("https://site.test/", strings.Repeat("[", 10_000)+strings.Repeat("]", 10_000)), ShouldBeEmpty)
		})
	})
}
