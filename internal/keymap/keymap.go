// Package keymap maps key names to control events.
//
// Key names are lower case, modifiers first and joined with "+", for example
// "left", "shift+up", "ctrl+c", "q", "space" or "enter".
package keymap

import (
	"sort"
	"strings"

	"github.com/dokzlo13/keylight/internal/control"
)

// Binding is what a key triggers. Fine bindings use the fine step.
type Binding struct {
	Kind control.Kind
	Step int // 0 means the configured default step
	Fine bool
}

// Keymap resolves key names into events.
type Keymap struct {
	bindings map[string]Binding
	step     int
	fineStep int
}

// New creates an empty keymap.
func New(step, fineStep int) *Keymap {
	return &Keymap{
		bindings: make(map[string]Binding),
		step:     step,
		fineStep: fineStep,
	}
}

// Default returns the standard bindings: arrows adjust, shift+arrows adjust
// finely, space/enter toggle, q/esc/ctrl+c quit.
func Default(step, fineStep int) *Keymap {
	m := New(step, fineStep)

	for _, k := range []string{"q", "esc", "ctrl+c"} {
		m.Bind(k, Binding{Kind: control.KindQuit})
	}
	m.Bind("left", Binding{Kind: control.KindBrightnessDown})
	m.Bind("right", Binding{Kind: control.KindBrightnessUp})
	m.Bind("shift+left", Binding{Kind: control.KindBrightnessDown, Fine: true})
	m.Bind("shift+right", Binding{Kind: control.KindBrightnessUp, Fine: true})
	m.Bind("up", Binding{Kind: control.KindWarmer})
	m.Bind("down", Binding{Kind: control.KindColder})
	m.Bind("shift+up", Binding{Kind: control.KindWarmer, Fine: true})
	m.Bind("shift+down", Binding{Kind: control.KindColder, Fine: true})
	m.Bind("space", Binding{Kind: control.KindToggle})
	m.Bind("enter", Binding{Kind: control.KindToggle})

	return m
}

// Bind assigns b to key, replacing any previous binding.
func (m *Keymap) Bind(key string, b Binding) {
	m.bindings[Normalize(key)] = b
}

// Unbind removes the binding for key.
func (m *Keymap) Unbind(key string) {
	delete(m.bindings, Normalize(key))
}

// Lookup returns the event bound to key. Unbound keys yield KindNone.
func (m *Keymap) Lookup(key string) control.Event {
	b, ok := m.bindings[Normalize(key)]
	if !ok {
		return control.Event{Kind: control.KindNone}
	}

	ev := control.Event{Kind: b.Kind}
	if b.Kind.Adjusts() {
		switch {
		case b.Step > 0:
			ev.Step = b.Step
		case b.Fine:
			ev.Step = m.fineStep
		default:
			ev.Step = m.step
		}
	}
	return ev
}

// Keys returns the bound key names in sorted order.
func (m *Keymap) Keys() []string {
	keys := make([]string, 0, len(m.bindings))
	for k := range m.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize lower-cases a key name and orders its modifiers as
// ctrl, alt, shift.
func Normalize(key string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), "+")
	if len(parts) == 1 {
		return parts[0]
	}

	// "+" on its own, or as the final key ("ctrl++")
	base := parts[len(parts)-1]
	mods := parts[:len(parts)-1]
	if base == "" {
		base = "+"
		mods = mods[:len(mods)-1]
	}

	var ctrl, alt, shift bool
	for _, mod := range mods {
		switch mod {
		case "ctrl", "control":
			ctrl = true
		case "alt", "meta":
			alt = true
		case "shift":
			shift = true
		}
	}

	var b strings.Builder
	if ctrl {
		b.WriteString("ctrl+")
	}
	if alt {
		b.WriteString("alt+")
	}
	if shift {
		b.WriteString("shift+")
	}
	b.WriteString(base)
	return b.String()
}
