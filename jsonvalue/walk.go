package jsonvalue

import (
	"strconv"

	"github.com/vidscout/vidscout/util"
)

// Visitor receives every value with its path from the root. Returning false
// skips the value's children.
type Visitor func(path []string, v Value) bool

type frame struct {
	path  []string
	value Value
}

// Walk visits v depth-first in document order. Values nested deeper than
// maxDepth containers are not visited.
func Walk(v Value, maxDepth int, visit Visitor) {
	if v == nil {
		return
	}

	var stack util.Stack[frame]
	stack.Push(frame{value: v})

	for stack.Len() > 0 {
		f, _ := stack.Pop()
		if !visit(f.path, f.value) || len(f.path) >= maxDepth {
			continue
		}

		// Push in reverse so children pop in document order.
		switch t := f.value.(type) {
		case Array:
			for i := len(t) - 1; i >= 0; i-- {
				stack.Push(frame{path: child(f.path, strconv.Itoa(i)), value: t[i]})
			}
		case *Object:
			for i := len(t.Keys) - 1; i >= 0; i-- {
				k := t.Keys[i]
				stack.Push(frame{path: child(f.path, k), value: t.Fields[k]})
			}
		}
	}
}

func child(path []string, name string) []string {
	p := make([]string, len(path), len(path)+1)
	copy(p, path)
	return append(p, name)
}

// Match is a value found under a key, with the object that holds it.
type Match struct {
	Key    string
	Value  Value
	Parent *Object
}

// FindKeys returns every field, at any depth up to maxDepth, whose name is in keys.
func FindKeys(v Value, maxDepth int, keys ...string) []Match {
	wanted := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}

	var found []Match
	Walk(v, maxDepth, func(_ []string, v Value) bool {
		obj, ok := v.(*Object)
		if !ok {
			return true
		}
		for _, k := range obj.Keys {
			if _, ok := wanted[k]; ok {
				found = append(found, Match{Key: k, Value: obj.Fields[k], Parent: obj})
			}
		}
		return true
	})

	return found
}
