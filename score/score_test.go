package score

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidscout/vidscout/source"
)

func TestScore(t *testing.T) {
	s := New()

	Convey("Given a scorer", t, func() {
		in := Input{URL: "https://cdn.test/v/clip.mp4", Size: 8_000_000, Source: source.DOM, Quality: "720p"}

		Convey("It should be deterministic", func() {
			So(s.Score(in), ShouldEqual, s.Score(in))
		})

		Convey("It should add up every bonus", func() {
			// base 10 + dom 400 + mp4 50 + >=1MB 10 + 720p 25
			So(s.Score(in), ShouldEqual, 495)
		})

		Convey("Source priority should dominate", func() {
			insta := in
			insta.Source = source.Instagram
			So(s.Score(insta), ShouldBeGreaterThan, s.Score(in))

			for _, tag := range source.All() {
				weaker := Input{URL: "https://cdn.test/a.m3u8", Source: tag}
				stronger := Input{URL: "https://cdn.test/a.m3u8", Source: source.Instagram}
				So(s.Score(stronger), ShouldBeGreaterThanOrEqualTo, s.Score(weaker))
			}
		})

		Convey("Direct media should beat a manifest", func() {
			manifest := in
			manifest.URL = "https://cdn.test/v/clip.m3u8"
			So(s.Score(in)-s.Score(manifest), ShouldEqual, 20)
		})

		Convey("Unknown size should add nothing", func() {
			unknown := in
			unknown.Size = 0
			So(s.Score(in)-s.Score(unknown), ShouldEqual, 10)

			huge := in
			huge.Size = 60 << 20
			So(s.Score(huge)-s.Score(unknown), ShouldEqual, 40)
		})

		Convey("Quality tiers should be applied", func() {
			hd := in
			hd.Quality = "1080p"
			sd := in
			sd.Quality = "360p"
			So(s.Score(hd)-s.Score(sd), ShouldEqual, 40)
		})

		Convey("The HD keyword should only count without a quality", func() {
			withQuality := Input{URL: "https://cdn.test/clip_hd.mp4", Source: source.DOM, Quality: "360p"}
			without := Input{URL: "https://cdn.test/clip_hd.mp4", Source: source.DOM}
			plain := Input{URL: "https://cdn.test/clip.mp4", Source: source.DOM}
			So(s.Score(without)-s.Score(plain), ShouldEqual, 5)
			So(s.Score(withQuality), ShouldEqual, s.Score(plain))
		})

		Convey("Low confidence should be penalized", func() {
			relayed := in
			relayed.LowConfidence = true
			So(s.Score(in)-s.Score(relayed), ShouldEqual, 50)
		})
	})
}
