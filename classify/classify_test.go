package classify

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidscout/vidscout/source"
)

func TestIsPlayable(t *testing.T) {
	c := New(DefaultOptions())

	Convey("IsPlayable rejects", t, func() {
		Convey("webm files", func() {
			So(c.IsPlayable("https://cdn.test/clip.webm", "video/webm", 0, source.WebRequest), ShouldBeFalse)
		})

		Convey("segment names", func() {
			So(c.IsPlayable("https://cdn.test/hls/seg-12.mp4", "", 0, source.DOM), ShouldBeFalse)
			So(c.IsPlayable("https://cdn.test/dash/init.mp4", "video/mp4", 0, source.WebRequest), ShouldBeFalse)
			So(c.IsPlayable("https://cdn.test/v.mp4?range=0-1000", "", 0, source.WebRequest), ShouldBeFalse)
			So(c.IsPlayable("https://cdn.test/QualityLevels(1)/Fragments(video=0)/frag-3.mp4", "", 0, source.WebRequest), ShouldBeFalse)
		})

		Convey("small segment files", func() {
			So(c.IsPlayable("https://cdn.test/live/000123.ts", "video/mp2t", 900_000, source.WebRequest), ShouldBeFalse)
			So(c.IsPlayable("https://cdn.test/live/000123.m4s", "", 0, source.WebRequest), ShouldBeFalse)
		})

		Convey("audio-only renditions", func() {
			So(c.IsPlayable("https://cdn.test/v/audio/en.mp4", "", 0, source.WebRequest), ShouldBeFalse)
			So(c.IsPlayable("https://cdn.test/v/clip_audio.mp4", "video/mp4", 0, source.DOM), ShouldBeFalse)
			So(c.IsPlayable("https://cdn.test/v/track.m4a", "video/mp4", 0, source.WebRequest), ShouldBeFalse)
		})

		Convey("undersized downloads", func() {
			So(c.IsPlayable("https://cdn.test/v.mp4", "", 100_000, source.WebRequest), ShouldBeFalse)
		})

		Convey("URLs with neither a video extension nor a video content type", func() {
			So(c.IsPlayable("https://cdn.test/api/stream", "application/json", 0, source.WebRequest), ShouldBeFalse)
			So(c.IsPlayable("https://cdn.test/page.html", "", 0, source.Meta), ShouldBeFalse)
		})
	})

	Convey("IsPlayable accepts", t, func() {
		Convey("anything from a dedicated site parser", func() {
			So(c.IsPlayable("https://cdn.test/seg-1.webm", "", 10, source.Instagram), ShouldBeTrue)
			So(c.IsPlayable("https://cdn.test/whatever", "", 0, source.Twitter), ShouldBeTrue)
		})

		Convey("mp4 without a declared size", func() {
			So(c.IsPlayable("https://cdn.test/v.mp4", "", 0, source.DOM), ShouldBeTrue)
		})

		Convey("extension-less URLs with a video content type", func() {
			So(c.IsPlayable("https://cdn.test/play?id=42", "video/mp4", 8_000_000, source.WebRequest), ShouldBeTrue)
		})

		Convey("manifests", func() {
			So(c.IsPlayable("https://cdn.test/hls/master.m3u8", "", 0, source.WebRequest), ShouldBeTrue)
			So(c.IsPlayable("https://cdn.test/dash/manifest.mpd", "", 0, source.WebRequest), ShouldBeTrue)
		})

		Convey("direct-play platform pages", func() {
			So(c.IsPlayable("https://www.youtube.com/watch?v=dQw4w9WgXcQ", "", 0, source.WebRequest), ShouldBeTrue)
			So(c.IsPlayable("https://youtu.be/dQw4w9WgXcQ", "", 0, source.DOM), ShouldBeTrue)
			So(c.IsPlayable("https://vimeo.com/76979871", "", 0, source.DOM), ShouldBeTrue)
		})

		Convey("large files with a segment extension", func() {
			So(c.IsPlayable("https://cdn.test/movies/full-movie.ts", "", 1_000_001, source.WebRequest), ShouldBeTrue)
		})
	})

	Convey("Thresholds come from options", t, func() {
		strict := New(Options{MinVideoSize: 10_000_000, HighConfidence: 200})
		So(strict.IsPlayable("https://cdn.test/v.mp4", "", 5_000_000, source.WebRequest), ShouldBeFalse)
		So(strict.IsPlayable("https://cdn.test/seg-1.mp4", "", 0, source.Instagram), ShouldBeFalse)
	})
}

func TestNamePatterns(t *testing.T) {
	Convey("Name patterns", t, func() {
		So(IsSegmentName("https://cdn.test/v/segment_004.ts"), ShouldBeTrue)
		So(IsSegmentName("https://cdn.test/v/chunk-9.m4s"), ShouldBeTrue)
		So(IsSegmentName("https://cdn.test/v/highlights.mp4"), ShouldBeFalse)
		So(IsAudioName("https://cdn.test/v/dash_audio_128k.mp4"), ShouldBeTrue)
		So(IsAudioName("https://cdn.test/v/audiobook-trailer.mp4"), ShouldBeFalse)
		So(IsDirectPlay("https://www.youtube.com/results?search_query=x"), ShouldBeFalse)
	})
}
