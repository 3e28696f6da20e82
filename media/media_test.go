package media

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtension(t *testing.T) {
	Convey("Extension", t, func() {
		So(Extension("https://cdn.example.com/v/clip.MP4?token=1#t=3"), ShouldEqual, ".mp4")
		So(Extension("https://cdn.example.com/live/index.m3u8"), ShouldEqual, ".m3u8")
		So(Extension("https://cdn.example.com/watch"), ShouldEqual, "")
		So(Extension("relative/seg-1.ts?x=y"), ShouldEqual, ".ts")
	})
}

func TestExtensionSets(t *testing.T) {
	Convey("Extension sets are disjoint", t, func() {
		So(IsDirectExtension(".mp4"), ShouldBeTrue)
		So(IsManifestExtension(".mp4"), ShouldBeFalse)
		So(IsManifestExtension(".m3u8"), ShouldBeTrue)
		So(IsSegmentExtension(".ts"), ShouldBeTrue)
		So(IsDirectExtension(".webm"), ShouldBeFalse)
	})
}

func TestContentTypes(t *testing.T) {
	Convey("Content types", t, func() {
		So(IsVideoContentType("video/mp4"), ShouldBeTrue)
		So(IsVideoContentType("Video/MP4; codecs=avc1"), ShouldBeTrue)
		So(IsVideoContentType("application/vnd.apple.mpegurl"), ShouldBeTrue)
		So(IsVideoContentType("application/dash+xml"), ShouldBeTrue)
		So(IsVideoContentType("audio/mpeg"), ShouldBeFalse)
		So(IsVideoContentType(""), ShouldBeFalse)
		So(IsHLS("https://a/b/master.m3u8", ""), ShouldBeTrue)
		So(IsHLS("https://a/b/master", "application/x-mpegURL"), ShouldBeTrue)
		So(IsHLS("https://a/b/v.mp4", "video/mp4"), ShouldBeFalse)
	})
}

func TestParseQuality(t *testing.T) {
	Convey("ParseQuality", t, func() {
		So(ParseQuality("720p"), ShouldEqual, 720)
		So(ParseQuality("1080"), ShouldEqual, 1080)
		So(ParseQuality("1080i"), ShouldEqual, 1080)
		So(ParseQuality("4K"), ShouldEqual, 2160)
		So(ParseQuality("HD"), ShouldEqual, 720)
		So(ParseQuality("best"), ShouldEqual, 0)
		So(ParseQuality(""), ShouldEqual, 0)
	})

	Convey("QualityLabel", t, func() {
		So(QualityLabel(360), ShouldEqual, "360p")
		So(QualityLabel(0), ShouldEqual, "")
	})
}
