package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFetcher(t *testing.T) {
	Convey("Given a playlist server", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Got-Referer", r.Header.Get("Referer"))
			_, _ = w.Write([]byte(master))
		})
		mux.HandleFunc("/big.m3u8", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("#", 4096)))
		})
		mux.HandleFunc("/gone.m3u8", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		})
		mux.HandleFunc("/slow.m3u8", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		f := NewFetcher(FetcherOptions{Client: srv.Client(), Timeout: 200 * time.Millisecond, MaxBody: 1024, PerSecond: 100})

		Convey("It returns the body", func() {
			body, err := f.Fetch(context.Background(), srv.URL+"/master.m3u8", map[string]string{"Referer": "https://page.test/"})
			So(err, ShouldBeNil)
			So(Parse(body, srv.URL+"/master.m3u8"), ShouldHaveLength, 2)
		})

		Convey("It truncates oversized bodies", func() {
			body, err := f.Fetch(context.Background(), srv.URL+"/big.m3u8", nil)
			So(err, ShouldBeNil)
			So(len(body), ShouldEqual, 1024)
		})

		Convey("It fails on non-2xx statuses", func() {
			_, err := f.Fetch(context.Background(), srv.URL+"/gone.m3u8", nil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "410")
		})

		Convey("It honors the timeout", func() {
			_, err := f.Fetch(context.Background(), srv.URL+"/slow.m3u8", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("It honors a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := f.Fetch(ctx, srv.URL+"/master.m3u8", nil)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Defaults are applied", t, func() {
		f := NewFetcher(FetcherOptions{})
		So(f.client, ShouldEqual, http.DefaultClient)
		So(f.maxBody, ShouldEqual, 2<<20)
	})
}
