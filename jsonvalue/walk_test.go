package jsonvalue

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWalk(t *testing.T) {
	Convey("Walk", t, func() {
		v, err := Parse([]byte(`{"a":{"b":[{"c":"deep"}]},"d":"shallow"}`), 16)
		So(err, ShouldBeNil)

		Convey("Should visit in document order with paths", func() {
			var paths []string
			Walk(v, 16, func(path []string, _ Value) bool {
				paths = append(paths, strings.Join(path, "."))
				return true
			})
			So(paths, ShouldResemble, []string{"", "a", "a.b", "a.b.0", "a.b.0.c", "d"})
		})

		Convey("Should stop at the depth bound", func() {
			var deepest int
			Walk(v, 2, func(path []string, _ Value) bool {
				if len(path) > deepest {
					deepest = len(path)
				}
				return true
			})
			So(deepest, ShouldEqual, 2)
		})

		Convey("Should skip children when the visitor declines", func() {
			var count int
			Walk(v, 16, func(path []string, _ Value) bool {
				count++
				return len(path) == 0
			})
			So(count, ShouldEqual, 3)
		})

		Convey("Should tolerate nil", func() {
			Walk(nil, 4, func([]string, Value) bool {
				panic("visited nil")
			})
		})
	})
}

func TestFindKeys(t *testing.T) {
	Convey("FindKeys", t, func() {
		v, _ := Parse([]byte(`{"video":{"contentUrl":"https://a/v.mp4","name":"A"},"list":[{"hls_url":"https://a/m.m3u8"}],"contentUrl":7}`), 16)

		found := FindKeys(v, 16, "contentUrl", "hls_url")
		So(found, ShouldHaveLength, 3)
		So(found[0].Key, ShouldEqual, "contentUrl")
		So(found[0].Value, ShouldEqual, Number(7))
		So(found[1].Value, ShouldEqual, String("https://a/v.mp4"))

		name, _ := found[1].Parent.GetString("name")
		So(name, ShouldEqual, "A")
		So(found[2].Value, ShouldEqual, String("https://a/m.m3u8"))
	})
}
