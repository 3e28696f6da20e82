package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Should expose the detection constants", func() {
			_ = Setup()
			So(viper.GetInt(key.DetectMinVideoSize), ShouldEqual, 500_000)
			So(viper.GetInt(key.DetectResultLimit), ShouldEqual, 5)
			So(Duration(key.DetectTTL), ShouldEqual, 10*time.Minute)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("detect.min_video_size")
			So(result, ShouldEqual, "detect_min_video_size")
		})
	})
}

func TestDuration(t *testing.T) {
	Convey("Duration", t, func() {
		_ = Setup()

		Convey("Should fall back to the default on garbage", func() {
			viper.Set(key.ManifestFetchTimeout, "soon")
			So(Duration(key.ManifestFetchTimeout), ShouldEqual, 15*time.Second)
			viper.Set(key.ManifestFetchTimeout, "15s")
		})

		Convey("Should honor overrides", func() {
			viper.Set(key.NavigationPollInterval, "250ms")
			So(Duration(key.NavigationPollInterval), ShouldEqual, 250*time.Millisecond)
			viper.Set(key.NavigationPollInterval, "1s")
		})

		Convey("Should be zero for unknown keys", func() {
			So(Duration("nope.nope"), ShouldEqual, 0)
		})
	})
}

func TestField(t *testing.T) {
	Convey("Field", t, func() {
		f := Default[key.DetectResultLimit]

		Convey("Env should carry the application prefix", func() {
			So(f.Env(), ShouldEqual, "VIDSCOUT_DETECT_RESULT_LIMIT")
		})

		Convey("MarshalJSON should include the type", func() {
			b, err := f.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"type":"int"`)
		})

		Convey("Kind should tell durations apart from strings", func() {
			So(Default[key.DetectTTL].Kind(), ShouldEqual, "duration")
			So(Default[key.LogsLevel].Kind(), ShouldEqual, "string")
			So(Default[key.RelayPatterns].Kind(), ShouldEqual, "[]string")
		})

		Convey("Section should be the key prefix", func() {
			So(f.Section(), ShouldEqual, "detect")
		})

		Convey("Every duration default should parse", func() {
			for k := range durationKeys {
				So(Duration(k), ShouldBeGreaterThan, 0)
			}
		})

		Convey("Pretty should mention the env variable", func() {
			So(f.Pretty(), ShouldContainSubstring, "VIDSCOUT_DETECT_RESULT_LIMIT")
		})
	})
}
