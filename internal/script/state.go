// Package script lets a Lua script rewrite what the keyboard emits.
//
// A script may define any of these globals:
//
//	function on_key_up(value, mods)  -- return a string to replace the value,
//	                                 -- false to drop it, nil to keep it
//	function on_hold(value, mods)    -- return true when the script handled it
//
// value is a table {kind, text, label, meta}; mods is a list of modifier
// names such as {"shift", "ctrl"}. Scripts run in a sandbox with only the
// base, table, string and math libraries, and print goes to the logger.
package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/overboard/internal/logging"
)

// DefaultTimeout bounds one hook call.
const DefaultTimeout = 100 * time.Millisecond

// newState creates a Lua state with only the safe libraries open.
func newState(logger *logging.Logger) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		args := make([]string, n)
		for i := 1; i <= n; i++ {
			args[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		logger.Info("%s", strings.Join(args, " "))
		return 0
	}))
	return L
}

// call invokes the global function fn if the script defines it. It returns
// the first result, or LNil.
func call(L *lua.LState, timeout time.Duration, fn string, args ...lua.LValue) (lua.LValue, error) {
	f := L.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	err := guard(L, timeout, func() error {
		return L.CallByParam(lua.P{Fn: f, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		return lua.LNil, fmt.Errorf("%s: %w", fn, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// guard runs fn with L bound to a context that expires after timeout. A
// script still running at the deadline yields ErrTimeout.
func guard(L *lua.LState, timeout time.Duration, fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("lua panic: %v", r)
			}
		}()
		return fn()
	}()
	if err != nil && ctx.Err() != nil {
		return ErrTimeout
	}
	return err
}
