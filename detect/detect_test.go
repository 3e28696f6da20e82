package detect

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidscout/vidscout/message"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

func TestNetwork(t *testing.T) {
	Convey("Network", t, func() {
		Convey("Should tag observed responses as webRequest", func() {
			c, ok := Network(message.ObservedResponse{
				ContextID:   "tab",
				URL:         "https://cdn.test/v.mp4",
				ContentType: mo.Some("video/mp4"),
				Size:        mo.Some[int64](8_000_000),
			})
			So(ok, ShouldBeTrue)
			So(c.Source, ShouldEqual, source.WebRequest)
			So(c.Size, ShouldEqual, 8_000_000)
			So(c.ContentType, ShouldEqual, "video/mp4")
			So(c.IsPlaylist, ShouldBeFalse)
		})

		Convey("Should flag HLS responses as playlists", func() {
			c, ok := Network(message.ObservedResponse{URL: "https://cdn.test/live", ContentType: mo.Some("application/vnd.apple.mpegurl")})
			So(ok, ShouldBeTrue)
			So(c.IsPlaylist, ShouldBeTrue)
		})

		Convey("Should drop unusable URLs and negative sizes", func() {
			_, ok := Network(message.ObservedResponse{URL: "blob:https://site.test/x"})
			So(ok, ShouldBeFalse)

			c, _ := Network(message.ObservedResponse{URL: "https://cdn.test/v.mp4", Size: mo.Some[int64](-1)})
			So(c.Size, ShouldEqual, 0)
		})
	})
}

func TestRaw(t *testing.T) {
	Convey("Raw", t, func() {
		Convey("Should keep known tags", func() {
			c, ok := Raw(message.RawCandidate{URL: "https://cdn.test/v.mp4", Source: "instagram", Quality: mo.Some("1080p"), Title: mo.Some("  Reel ")})
			So(ok, ShouldBeTrue)
			So(c.Source, ShouldEqual, source.Instagram)
			So(c.Quality, ShouldEqual, "1080p")
			So(c.Title, ShouldEqual, "Reel")
		})

		Convey("Should demote unknown tags to dom", func() {
			c, _ := Raw(message.RawCandidate{URL: "https://cdn.test/v.mp4", Source: "made-up"})
			So(c.Source, ShouldEqual, source.DOM)
		})

		Convey("Should resolve relative URLs against the page", func() {
			c, ok := Raw(message.RawCandidate{URL: "/media/v.m3u8", Source: "script", PageURL: mo.Some("https://site.test/watch/1")})
			So(ok, ShouldBeTrue)
			So(c.URL, ShouldEqual, "https://site.test/media/v.m3u8")
			So(c.IsPlaylist, ShouldBeTrue)
		})

		Convey("Should ignore empty and data URLs", func() {
			_, ok := Raw(message.RawCandidate{URL: ""})
			So(ok, ShouldBeFalse)
			_, ok = Raw(message.RawCandidate{URL: "data:video/mp4;base64,AAAA"})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDOM(t *testing.T) {
	Convey("DOM", t, func() {
		playing, _ := DOM(message.DOMRecord{URL: "https://cdn.test/v.mp4", Visible: true, Playing: true})
		hidden, _ := DOM(message.DOMRecord{URL: "https://cdn.test/v.mp4", Visible: false, Playing: true})
		paused, _ := DOM(message.DOMRecord{URL: "https://cdn.test/v.mp4", Visible: true})

		So(playing.Source, ShouldEqual, source.DOMPlaying)
		So(hidden.Source, ShouldEqual, source.DOM)
		So(paused.Source, ShouldEqual, source.DOM)
	})
}

func TestIsManifest(t *testing.T) {
	Convey("IsManifest", t, func() {
		So(IsManifest(registry.Candidate{URL: "https://cdn.test/master.m3u8"}), ShouldBeTrue)
		So(IsManifest(registry.Candidate{URL: "https://cdn.test/api/play", ContentType: "application/x-mpegURL"}), ShouldBeTrue)
		So(IsManifest(registry.Candidate{URL: "https://cdn.test/api/play", IsPlaylist: true}), ShouldBeTrue)
		So(IsManifest(registry.Candidate{URL: "https://cdn.test/v.mp4"}), ShouldBeFalse)
	})
}
