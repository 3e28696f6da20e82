package message

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/samber/lo"
)

// Type names the payload carried by an Envelope.
type Type string

const (
	TypeObservedResponse  Type = "observedResponse"
	TypeRawCandidate      Type = "rawCandidate"
	TypeDOMRecord         Type = "domRecord"
	TypePageSnapshot      Type = "pageSnapshot"
	TypeEmbeddedData      Type = "embeddedData"
	TypeNavigationChanged Type = "navigationChanged"
	TypeContextClosed     Type = "contextClosed"
	TypeLocation          Type = "location"
	TypeQuery             Type = "query"
	TypeRanked            Type = "ranked"
	TypeError             Type = "error"
)

// Envelope frames every message: {"type": "...", "payload": {...}}.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

var payloads = map[Type]reflect.Type{
	TypeObservedResponse:  reflect.TypeOf(ObservedResponse{}),
	TypeRawCandidate:      reflect.TypeOf(RawCandidate{}),
	TypeDOMRecord:         reflect.TypeOf(DOMRecord{}),
	TypePageSnapshot:      reflect.TypeOf(PageSnapshot{}),
	TypeEmbeddedData:      reflect.TypeOf(EmbeddedData{}),
	TypeNavigationChanged: reflect.TypeOf(NavigationChanged{}),
	TypeContextClosed:     reflect.TypeOf(ContextClosed{}),
	TypeLocation:          reflect.TypeOf(Location{}),
	TypeQuery:             reflect.TypeOf(Query{}),
	TypeRanked:            reflect.TypeOf(RankedCandidates{}),
	TypeError:             reflect.TypeOf(Error{}),
}

// Types lists every known message type.
func Types() []Type {
	return lo.Keys(payloads)
}

// Payload returns a zero value of the payload registered for t.
func Payload(t Type) (any, bool) {
	rt, ok := payloads[t]
	if !ok {
		return nil, false
	}
	return reflect.New(rt).Interface(), true
}

// TypeOf returns the message type of a payload value or pointer.
func TypeOf(payload any) (Type, bool) {
	rt := reflect.TypeOf(payload)
	if rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	for t, candidate := range payloads {
		if candidate == rt {
			return t, true
		}
	}
	return "", false
}

// Encode wraps payload in an envelope.
func Encode(payload any) ([]byte, error) {
	t, ok := TypeOf(payload)
	if !ok {
		return nil, fmt.Errorf("unknown message payload %T", payload)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", t, err)
	}

	return json.Marshal(Envelope{Type: t, Payload: raw})
}

// Decode parses a framed message and returns a pointer to its payload,
// e.g. *ObservedResponse.
func Decode(data []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	payload, ok := Payload(env.Type)
	if !ok {
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}

	if len(env.Payload) == 0 {
		return nil, fmt.Errorf("%s: empty payload", env.Type)
	}

	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}

	return payload, nil
}
