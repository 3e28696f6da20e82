package message

import (
	"encoding/json"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidscout/vidscout/registry"
)

func TestDecode(t *testing.T) {
	Convey("Decode", t, func() {
		Convey("Should decode an observed response with optional fields", func() {
			msg, err := Decode([]byte(`{"type":"observedResponse","payload":{"contextId":"tab-1","url":"https://cdn.test/v.mp4","size":8000000}}`))
			So(err, ShouldBeNil)

			resp, ok := msg.(*ObservedResponse)
			So(ok, ShouldBeTrue)
			So(resp.ContextID, ShouldEqual, "tab-1")
			So(resp.Size.OrEmpty(), ShouldEqual, 8_000_000)
			So(resp.ContentType.IsPresent(), ShouldBeFalse)
		})

		Convey("Should treat null as absent", func() {
			msg, err := Decode([]byte(`{"type":"query","payload":{"contextId":"tab-1","limit":null}}`))
			So(err, ShouldBeNil)
			So(msg.(*Query).Limit.IsPresent(), ShouldBeFalse)
		})

		Convey("Should reject unknown types", func() {
			_, err := Decode([]byte(`{"type":"bogus","payload":{}}`))
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject malformed frames", func() {
			_, err := Decode([]byte(`{"type":`))
			So(err, ShouldNotBeNil)

			_, err = Decode([]byte(`{"type":"query"}`))
			So(err, ShouldNotBeNil)

			_, err = Decode([]byte(`{"type":"query","payload":{"limit":"five"}}`))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Encode", t, func() {
		Convey("Should frame a payload with its type", func() {
			data, err := Encode(RankedCandidates{
				ContextID: "tab-1",
				Items:     []registry.Candidate{{URL: "https://cdn.test/v.mp4", Source: "dom", Score: 470}},
			})
			So(err, ShouldBeNil)

			var env Envelope
			So(json.Unmarshal(data, &env), ShouldBeNil)
			So(env.Type, ShouldEqual, TypeRanked)
			So(string(env.Payload), ShouldContainSubstring, `"score":470`)
		})

		Convey("Should round trip through Decode", func() {
			data, err := Encode(&Query{ContextID: "tab-2", Limit: mo.Some(3)})
			So(err, ShouldBeNil)

			msg, err := Decode(data)
			So(err, ShouldBeNil)
			So(msg.(*Query).Limit.OrElse(0), ShouldEqual, 3)
		})

		Convey("Should refuse foreign payloads", func() {
			_, err := Encode(struct{}{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("Schemas", t, func() {
		schemas := Schemas()
		So(schemas, ShouldHaveLength, len(Types()))

		Convey("Optional fields should accept null", func() {
			data, err := json.Marshal(schemas[TypeObservedResponse])
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"null"`)
			So(string(data), ShouldContainSubstring, `"contextId"`)
		})

		_, ok := Schema("bogus")
		So(ok, ShouldBeFalse)
	})
}
