package keymap

import (
	"fmt"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/keylight/internal/control"
)

// LuaModule exposes keymap.bind() and keymap.unbind() to Lua
type LuaModule struct {
	keymap *Keymap
	bound  int
}

// NewLuaModule creates a module that edits m
func NewLuaModule(m *Keymap) *LuaModule {
	return &LuaModule{keymap: m}
}

// Loader is the module loader for Lua
func (mod *LuaModule) Loader(L *lua.LState) int {
	tbl := L.NewTable()

	L.SetField(tbl, "bind", L.NewFunction(mod.bind))
	L.SetField(tbl, "unbind", L.NewFunction(mod.unbind))
	L.SetField(tbl, "keys", L.NewFunction(mod.keys))

	L.Push(tbl)
	return 1
}

// bind(key, action [, step]) - Bind a key to an action
// Actions: quit, brightness_down, brightness_up, warmer, colder, toggle.
// Use "fine" as the step to get the configured fine step.
func (mod *LuaModule) bind(L *lua.LState) int {
	key := L.CheckString(1)
	action := L.CheckString(2)

	kind, ok := control.ParseKind(action)
	if !ok {
		L.ArgError(2, fmt.Sprintf("unknown action %q", action))
		return 0
	}

	b := Binding{Kind: kind}
	switch v := L.Get(3).(type) {
	case *lua.LNilType:
	case lua.LNumber:
		if int(v) <= 0 {
			L.ArgError(3, "step must be positive")
			return 0
		}
		b.Step = int(v)
	case lua.LString:
		if string(v) != "fine" {
			L.ArgError(3, `step must be a number or "fine"`)
			return 0
		}
		b.Fine = true
	default:
		L.ArgError(3, `step must be a number or "fine"`)
		return 0
	}

	if (b.Step != 0 || b.Fine) && !kind.Adjusts() {
		L.ArgError(3, fmt.Sprintf("action %q takes no step", action))
		return 0
	}

	mod.keymap.Bind(key, b)
	mod.bound++

	log.Debug().Str("source", "lua").Str("key", Normalize(key)).Str("action", action).Int("step", b.Step).Msg("Key bound")
	return 0
}

// unbind(key) - Remove a binding
func (mod *LuaModule) unbind(L *lua.LState) int {
	key := L.CheckString(1)
	mod.keymap.Unbind(key)

	log.Debug().Str("source", "lua").Str("key", Normalize(key)).Msg("Key unbound")
	return 0
}

// keys() - List bound key names
func (mod *LuaModule) keys(L *lua.LState) int {
	tbl := L.NewTable()
	for i, k := range mod.keymap.Keys() {
		tbl.RawSetInt(i+1, lua.LString(k))
	}
	L.Push(tbl)
	return 1
}

// LoadScript runs a Lua script against m. The script can require("keymap").
func LoadScript(m *Keymap, path string) error {
	L := lua.NewState()
	defer L.Close()

	mod := NewLuaModule(m)
	L.PreloadModule("keymap", mod.Loader)

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("failed to load keymap script %s: %w", path, err)
	}

	log.Info().Str("script", path).Int("bindings", mod.bound).Msg("Keymap script loaded")
	return nil
}

// loadString is LoadScript for inline source
func loadString(m *Keymap, source string) error {
	L := lua.NewState()
	defer L.Close()

	L.PreloadModule("keymap", NewLuaModule(m).Loader)

	if err := L.DoString(source); err != nil {
		return fmt.Errorf("failed to run keymap script: %w", err)
	}
	return nil
}
