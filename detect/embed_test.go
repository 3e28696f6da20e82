package detect

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

func TestEmbedder(t *testing.T) {
	Convey("Given an embedder with a relay pattern", t, func() {
		e, err := NewEmbedder("", []string{`/proxy\?url=`})
		So(err, ShouldBeNil)
		So(e.Param(), ShouldEqual, DefaultHeaderParam)

		page := "https://site.test/watch/42?t=3"

		Convey("It should embed referer and origin once, keeping the plain URL as key", func() {
			c := e.Apply(registry.Candidate{URL: "https://cdn.test/v.mp4", Source: source.DOM}, page)
			So(c.URL, ShouldEqual, "https://cdn.test/v.mp4")
			So(c.PlayURL, ShouldStartWith, "https://cdn.test/v.mp4?__vsh=")
			So(e.Embedded(c.PlayURL), ShouldBeTrue)

			headers, ok := e.Headers(c.PlayURL)
			So(ok, ShouldBeTrue)
			So(headers["Referer"], ShouldEqual, page)
			So(headers["Origin"], ShouldEqual, "https://site.test")

			again := e.Apply(c, "https://other.test/")
			So(again, ShouldResemble, c)
		})

		Convey("It should append after an existing query and keep the fragment", func() {
			c := e.Apply(registry.Candidate{URL: "https://cdn.test/v.mp4?token=abc#t=10", Source: source.DOM}, page)
			So(c.URL, ShouldEqual, "https://cdn.test/v.mp4?token=abc#t=10")
			So(c.PlayURL, ShouldStartWith, "https://cdn.test/v.mp4?token=abc&__vsh=")
			So(c.PlayURL, ShouldEndWith, "#t=10")
		})

		Convey("It should unwrap URLs that already carry headers", func() {
			embedded := e.Apply(registry.Candidate{URL: "https://cdn.test/v.mp4?token=abc", Source: source.DOM}, page).PlayURL

			c := e.Apply(registry.Candidate{URL: embedded, Source: source.DOM}, "https://other.test/")
			So(c.URL, ShouldEqual, "https://cdn.test/v.mp4?token=abc")
			So(c.PlayURL, ShouldEqual, embedded)

			n := e.Unwrap(registry.Candidate{URL: embedded, Source: source.WebRequest})
			So(n.URL, ShouldEqual, c.URL)
			So(n.PlayURL, ShouldEqual, embedded)

			plain := registry.Candidate{URL: "https://cdn.test/v.mp4", Source: source.WebRequest}
			So(e.Unwrap(plain), ShouldResemble, plain)
		})

		Convey("It should mark relayed URLs instead of wrapping them", func() {
			in := registry.Candidate{URL: "https://relay.test/proxy?url=https%3A%2F%2Fcdn.test%2Fv.mp4", Source: source.DOM}
			c := e.Apply(in, page)
			So(c.URL, ShouldEqual, in.URL)
			So(c.PlayURL, ShouldBeEmpty)
			So(c.LowConfidence, ShouldBeTrue)
		})

		Convey("It should leave relative and platform URLs alone", func() {
			rel := registry.Candidate{URL: "/v.mp4", Source: source.DOM}
			So(e.Apply(rel, page), ShouldResemble, rel)

			yt := registry.Candidate{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Source: source.Platform}
			So(e.Apply(yt, page), ShouldResemble, yt)
		})

		Convey("It should need an absolute page URL", func() {
			c := e.Apply(registry.Candidate{URL: "https://cdn.test/v.mp4", Source: source.DOM}, "about:blank")
			So(c.URL, ShouldEqual, "https://cdn.test/v.mp4")
			So(c.PlayURL, ShouldBeEmpty)
		})
	})

	Convey("Invalid relay patterns should be reported", t, func() {
		_, err := NewEmbedder("x", []string{"("})
		So(err, ShouldNotBeNil)
	})
}

func TestStrip(t *testing.T) {
	Convey("Strip should undo Apply", t, func() {
		e, _ := NewEmbedder("", nil)
		for _, u := range []string{
			"https://cdn.test/master.m3u8",
			"https://cdn.test/master.m3u8?token=abc",
			"https://cdn.test/master.m3u8?token=abc#frag",
		} {
			c := e.Apply(registry.Candidate{URL: u, Source: source.DOM}, "https://site.test/")
			So(c.PlayURL, ShouldNotEqual, u)
			So(e.Strip(c.PlayURL), ShouldEqual, u)
		}
	})
}
