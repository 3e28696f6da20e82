// Package scraper compiles, caches and updates Lua extractor scripts.
package scraper

import (
	"bytes"
	"sync"

	"github.com/vidscout/vidscout/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

type compiled struct {
	source []byte
	proto  *lua.FunctionProto
}

// PreCompileAndLoad runs a script in L. Compiled prototypes are cached per path
// and reused until the file content changes.
func PreCompileAndLoad(L *lua.LState, scriptPath string) error {
	source, err := filesystem.API().ReadFile(scriptPath)
	if err != nil {
		return err
	}

	if cached, ok := bytecodeCache.Load(scriptPath); ok {
		if c := cached.(compiled); bytes.Equal(c.source, source) {
			L.Push(L.NewFunctionFromProto(c.proto))
			return L.PCall(0, lua.MultRet, nil)
		}
	}

	proto, err := Compile(source, scriptPath)
	if err != nil {
		return err
	}

	bytecodeCache.Store(scriptPath, compiled{source: source, proto: proto})

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Compile parses and compiles a script without running it.
func Compile(source []byte, name string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(bytes.NewReader(source), name)
	if err != nil {
		return nil, err
	}

	return lua.Compile(chunk, name)
}
