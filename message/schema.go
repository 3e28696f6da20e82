package message

import (
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"golang.org/x/exp/slices"
)

// Schema returns the JSON schema of the payload registered for t.
func Schema(t Type) (*jsonschema.Schema, bool) {
	payload, ok := Payload(t)
	if !ok {
		return nil, false
	}

	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Mapper = optionSchema
	reflector.Namer = func(rt reflect.Type) string {
		if rt.Name() == "Candidate" {
			return "candidate"
		}
		return rt.Name()
	}

	return reflector.Reflect(payload), true
}

// Schemas returns the schema of every message payload, keyed by type name.
func Schemas() map[Type]*jsonschema.Schema {
	types := Types()
	slices.Sort(types)

	schemas := make(map[Type]*jsonschema.Schema, len(types))
	for _, t := range types {
		schemas[t], _ = Schema(t)
	}
	return schemas
}

// optionSchema describes mo.Option[T] as an optional T.
func optionSchema(rt reflect.Type) *jsonschema.Schema {
	if rt.Kind() != reflect.Struct || rt.PkgPath() != "github.com/samber/mo" || !strings.HasPrefix(rt.Name(), "Option[") {
		return nil
	}

	value, ok := rt.FieldByName("value")
	if !ok {
		return nil
	}

	var typ string
	switch value.Type.Kind() {
	case reflect.String:
		typ = "string"
	case reflect.Bool:
		typ = "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		typ = "integer"
	case reflect.Float32, reflect.Float64:
		typ = "number"
	default:
		return nil
	}

	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{{Type: typ}, {Type: "null"}},
	}
}
