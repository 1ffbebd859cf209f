package plugin

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Script is one loaded Lua file. A Lua state is not safe for concurrent use,
// so calls are serialized per script.
type Script struct {
	name  string
	path  string
	state *lua.LState
	mu    sync.Mutex
}

// Name returns the display name the script declared.
func (s *Script) Name() string {
	return s.name
}

// Path returns the script's location on disk.
func (s *Script) Path() string {
	return s.path
}

// Plugin is one logical provider: every script that declared the same
// display name.
type Plugin struct {
	ID      string
	Name    string
	Scripts []*Script
}

// call executes a global Lua function safely.
func (s *Script) call(fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	luaFn := s.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	err := s.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)

	if err != nil {
		return nil, err
	}

	retval := s.state.Get(-1)
	s.state.Pop(1) // Clean stack

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, retval.Type(), retType)
	}

	return retval, nil
}
