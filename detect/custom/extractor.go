package custom

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
	lua "github.com/yuin/gopher-lua"
)

// Extractor is a loaded Lua script. Calls are serialized since a Lua state is
// not safe for concurrent use.
type Extractor struct {
	name string
	path string
	tag  source.Tag

	mu    sync.Mutex
	state *lua.LState
}

func newExtractor(name, path string, tag source.Tag, state *lua.LState) *Extractor {
	return &Extractor{
		name:  name,
		path:  path,
		tag:   tag,
		state: state,
	}
}

// Name returns the script name without extension.
func (e *Extractor) Name() string {
	return e.name
}

// Path returns the script location.
func (e *Extractor) Path() string {
	return e.path
}

// Tag returns the source tag stamped on extracted candidates.
func (e *Extractor) Tag() source.Tag {
	return e.tag
}

// Match reports whether the script handles pageURL.
func (e *Extractor) Match(pageURL string) bool {
	var matched bool
	err := e.call(constant.MatchFn, lua.LTBool, func(ret lua.LValue) {
		matched = lua.LVAsBool(ret)
	}, lua.LString(pageURL))

	return err == nil && matched
}

// Extract runs the script over a page payload.
func (e *Extractor) Extract(pageURL, body string) ([]registry.Candidate, error) {
	var (
		candidates []registry.Candidate
		errs       []error
	)

	err := e.call(constant.ExtractFn, lua.LTTable, func(ret lua.LValue) {
		ret.(*lua.LTable).ForEach(func(k, v lua.LValue) {
			if k.Type() != lua.LTNumber || v.Type() != lua.LTTable {
				return
			}

			if _, err := strconv.ParseUint(k.String(), 10, 16); err != nil {
				errs = append(errs, err)
				return
			}

			c, err := candidateFromTable(v.(*lua.LTable), pageURL, e.tag)
			if err != nil {
				errs = append(errs, err)
				return
			}

			candidates = append(candidates, c)
		})
	}, lua.LString(pageURL), lua.LString(body))
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	return candidates, nil
}

// Close releases the Lua state.
func (e *Extractor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Close()
}

// call runs fn and hands its result to read while the state is still locked,
// since the returned value may be a table the script mutates on its next call.
func (e *Extractor) call(fn string, retType lua.LValueType, read func(lua.LValue), args ...lua.LValue) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	luaFn := e.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return fmt.Errorf("function %s is not defined", fn)
	}

	err := e.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return err
	}

	retval := e.state.Get(-1)
	e.state.Pop(1)

	if retval.Type() != retType {
		return fmt.Errorf("%s returned %s, expected %s", fn, retval.Type(), retType)
	}

	read(retval)
	return nil
}
