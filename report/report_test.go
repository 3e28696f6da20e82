package report

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
)

func TestReport(t *testing.T) {
	Convey("Given ranked results", t, func() {
		viper.Set(key.CliColored, false)

		results := []Result{
			{
				ContextID: "tab-1",
				Items: []registry.Candidate{
					{URL: "https://cdn.test/v.mp4", Source: source.DOM, Size: 8_000_000, Quality: "720p", Title: "Trailer", Score: 495},
					{URL: "https://cdn.test/master.m3u8", Source: source.HLS, IsPlaylist: true, LowConfidence: true, Score: 690},
				},
			},
			{ContextID: "tab-2", Items: []registry.Candidate{}},
		}

		Convey("Plain output should list every detail", func() {
			var buf bytes.Buffer
			So(Plain(&buf, results), ShouldBeNil)

			out := buf.String()
			So(out, ShouldContainSubstring, "tab-1 2 candidates")
			So(out, ShouldContainSubstring, "https://cdn.test/v.mp4")
			So(out, ShouldContainSubstring, "score 495")
			So(out, ShouldContainSubstring, "8.0 MB")
			So(out, ShouldContainSubstring, `"Trailer"`)
			So(out, ShouldContainSubstring, "relayed")
			So(out, ShouldContainSubstring, "nothing playable found")
		})

		Convey("JSON output should decode back", func() {
			var buf bytes.Buffer
			So(JSON(&buf, results), ShouldBeNil)

			var decoded []Result
			So(json.Unmarshal(buf.Bytes(), &decoded), ShouldBeNil)
			So(decoded, ShouldHaveLength, 2)
			So(decoded[0].Items[0].Score, ShouldEqual, 495)
		})
	})
}
