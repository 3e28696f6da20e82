package log

import (
	"bytes"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Context entries are silent", func() {
			entry := WithContext("tab-1")
			So(entry.Logger.IsLevelEnabled(logrus.InfoLevel), ShouldBeFalse)
		})
	})

	Convey("Given logging is routed to a writer", t, func() {
		Reset(func() {
			enabled = false
		})

		var buf bytes.Buffer
		viper.Set(key.LogsLevel, "debug")
		So(SetupWriter(&buf), ShouldBeNil)

		Convey("Messages carry the context field", func() {
			WithContext("tab-7").Debug("merged")
			So(buf.String(), ShouldContainSubstring, "context=tab-7")
			So(buf.String(), ShouldContainSubstring, "merged")
		})
	})

	Convey("Given logging writes to the log directory", t, func() {
		Reset(func() {
			enabled = false
			viper.Set(key.LogsWrite, false)
		})

		viper.Set(key.LogsWrite, true)
		So(Setup(), ShouldBeNil)
		So(enabled, ShouldBeTrue)

		Warnf("extractor %s failed", "clips")

		files, err := filesystem.API().ReadDir(where.Logs())
		So(err, ShouldBeNil)
		So(files, ShouldHaveLength, 1)

		data, err := filesystem.API().ReadFile(filepath.Join(where.Logs(), files[0].Name()))
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, "extractor clips failed")
	})
}
