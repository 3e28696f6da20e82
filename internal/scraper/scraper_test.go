package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidscout/vidscout/filesystem"
	lua "github.com/yuin/gopher-lua"
)

func TestPreCompileAndLoad(t *testing.T) {
	Convey("Given a script on disk", t, func() {
		filesystem.SetMemMapFs()
		So(filesystem.API().WriteFile("/x/answer.lua", []byte("answer = 42"), 0644), ShouldBeNil)

		Convey("It should run in the state", func() {
			L := lua.NewState()
			defer L.Close()

			So(PreCompileAndLoad(L, "/x/answer.lua"), ShouldBeNil)
			So(L.GetGlobal("answer").String(), ShouldEqual, "42")
		})

		Convey("It should pick up edits", func() {
			L := lua.NewState()
			defer L.Close()
			So(PreCompileAndLoad(L, "/x/answer.lua"), ShouldBeNil)

			So(filesystem.API().WriteFile("/x/answer.lua", []byte("answer = 7"), 0644), ShouldBeNil)
			So(PreCompileAndLoad(L, "/x/answer.lua"), ShouldBeNil)
			So(L.GetGlobal("answer").String(), ShouldEqual, "7")
		})

		Convey("It should report syntax errors", func() {
			So(filesystem.API().WriteFile("/x/broken.lua", []byte("function ("), 0644), ShouldBeNil)

			L := lua.NewState()
			defer L.Close()
			So(PreCompileAndLoad(L, "/x/broken.lua"), ShouldNotBeNil)
		})
	})
}

func TestUpdate(t *testing.T) {
	Convey("Given a remote script", t, func() {
		filesystem.SetMemMapFs()

		script := "function Match(u) return true end"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/ok.lua":
				_, _ = w.Write([]byte(script))
			case "/broken.lua":
				_, _ = w.Write([]byte("function ("))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		Convey("It should install it once", func() {
			changed, err := Update(context.Background(), srv.Client(), srv.URL+"/ok.lua", "/ext/ok.lua")
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)

			changed, err = Update(context.Background(), srv.Client(), srv.URL+"/ok.lua", "/ext/ok.lua")
			So(err, ShouldBeNil)
			So(changed, ShouldBeFalse)
		})

		Convey("It should refuse scripts that do not compile", func() {
			_, err := Update(context.Background(), srv.Client(), srv.URL+"/broken.lua", "/ext/broken.lua")
			So(err, ShouldNotBeNil)

			exists, _ := filesystem.API().Exists("/ext/broken.lua")
			So(exists, ShouldBeFalse)
		})

		Convey("It should report HTTP errors", func() {
			_, err := Update(context.Background(), srv.Client(), srv.URL+"/missing.lua", "/ext/missing.lua")
			So(err, ShouldNotBeNil)
		})
	})
}
