package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestBackend(t *testing.T) {
	Convey("Filesystem backend", t, func() {
		Reset(SetMemMapFs)

		Convey("Should switch between OS and memory", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")

			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Should accept any afero.Fs", func() {
			base := afero.NewMemMapFs()
			Use(afero.NewReadOnlyFs(base))

			err := API().WriteFile("/x", []byte("x"), 0o644)
			So(err, ShouldNotBeNil)
		})

		Convey("GacheFs should write through the backend", func() {
			SetMemMapFs()

			var fs GacheFs
			So(fs.MkdirAll("/cache", 0o755), ShouldBeNil)

			f, err := fs.OpenFile("/cache/v.json", os.O_CREATE|os.O_WRONLY, 0o644)
			So(err, ShouldBeNil)
			_, _ = f.Write([]byte(`"1.0.0"`))
			So(f.Close(), ShouldBeNil)

			data, err := API().ReadFile("/cache/v.json")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `"1.0.0"`)
		})
	})
}
