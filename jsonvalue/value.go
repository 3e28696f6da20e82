// Package jsonvalue models untrusted JSON as a closed sum type and walks it with
// a depth bound. Page-embedded payloads are arbitrary and sometimes hostile, so
// nothing here recurses on the Go stack.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind enumerates the JSON value shapes.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is one of Null, Bool, Number, String, Array or *Object.
type Value interface {
	Kind() Kind
	value()
}

type (
	Null   struct{}
	Bool   bool
	Number float64
	String string
	Array  []Value
)

// Object keeps the document order of its keys.
type Object struct {
	Keys   []string
	Fields map[string]Value
}

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Number) Kind() Kind  { return KindNumber }
func (String) Kind() Kind  { return KindString }
func (Array) Kind() Kind   { return KindArray }
func (*Object) Kind() Kind { return KindObject }

func (Null) value()    {}
func (Bool) value()    {}
func (Number) value()  {}
func (String) value()  {}
func (Array) value()   {}
func (*Object) value() {}

// Get returns the field named k, or nil.
func (o *Object) Get(k string) Value {
	if o == nil {
		return nil
	}
	return o.Fields[k]
}

// GetString returns the field named k when it is a string.
func (o *Object) GetString(k string) (string, bool) {
	s, ok := o.Get(k).(String)
	return string(s), ok
}

// GetNumber returns the field named k when it is a number or a numeric string.
func (o *Object) GetNumber(k string) (float64, bool) {
	switch v := o.Get(k).(type) {
	case Number:
		return float64(v), true
	case String:
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	}
	return 0, false
}

// ErrTooDeep is returned when a document nests deeper than allowed.
var ErrTooDeep = errors.New("jsonvalue: nesting exceeds depth limit")

// Parse decodes data into a Value, refusing documents nested deeper than maxDepth.
func Parse(data []byte, maxDepth int) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decode(dec, maxDepth)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("jsonvalue: trailing data")
	}
	return v, nil
}

// container is an array or object under construction.
type container struct {
	arr     Array
	obj     *Object
	pending string
	hasKey  bool
}

func (c *container) add(v Value) {
	if c.obj != nil {
		if _, dup := c.obj.Fields[c.pending]; !dup {
			c.obj.Keys = append(c.obj.Keys, c.pending)
		}
		c.obj.Fields[c.pending] = v
		c.hasKey = false
		return
	}
	c.arr = append(c.arr, v)
}

func (c *container) finish() Value {
	if c.obj != nil {
		return c.obj
	}
	if c.arr == nil {
		return Array{}
	}
	return c.arr
}

func decode(dec *json.Decoder, maxDepth int) (Value, error) {
	var stack []*container

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}

		var v Value
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				if len(stack) >= maxDepth {
					return nil, ErrTooDeep
				}
				c := &container{}
				if t == '{' {
					c.obj = &Object{Fields: make(map[string]Value)}
				}
				stack = append(stack, c)
				continue
			default:
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				v = top.finish()
			}
		case string:
			if len(stack) > 0 {
				if top := stack[len(stack)-1]; top.obj != nil && !top.hasKey {
					top.pending, top.hasKey = t, true
					continue
				}
			}
			v = String(t)
		case json.Number:
			f, err := t.Float64()
			if err != nil {
				return nil, fmt.Errorf("jsonvalue: number %q: %w", t, err)
			}
			v = Number(f)
		case bool:
			v = Bool(t)
		case nil:
			v = Null{}
		}

		if len(stack) == 0 {
			return v, nil
		}
		stack[len(stack)-1].add(v)
	}
}
