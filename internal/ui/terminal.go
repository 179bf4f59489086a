// Package ui draws the light state in the terminal and turns key presses into
// control events.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/keylight/internal/control"
	"github.com/dokzlo13/keylight/internal/keymap"
	"github.com/dokzlo13/keylight/internal/light"
)

const title = " Elgato Key Light "

// instruction is one "label <key>" pair of the help line.
type instruction struct {
	label string
	key   string
}

var instructions = []instruction{
	{"Dimmer", "<Left>"},
	{"Brighter", "<Right>"},
	{"Warmer", "<Up>"},
	{"Colder", "<Down>"},
	{"Toggle off/on", "<Space>"},
	{"Quit", "<Q>"},
}

var (
	styleBase   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleTitle  = styleBase.Foreground(tcell.ColorFuchsia).Bold(true)
	styleKey    = styleBase.Foreground(tcell.ColorFuchsia).Bold(true)
	styleOff    = styleBase.Foreground(tcell.ColorDarkGray).Italic(true)
	styleBright = styleBase.Foreground(tcell.ColorWhite).Italic(true)
)

// Terminal is both the control.Renderer and the control.Input of a session.
type Terminal struct {
	screen tcell.Screen
	keymap *keymap.Keymap
}

// Open initializes the real terminal.
func Open(km *keymap.Keymap) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return NewTerminal(screen, km), nil
}

// NewTerminal wraps an initialized screen.
func NewTerminal(screen tcell.Screen, km *keymap.Keymap) *Terminal {
	screen.SetStyle(styleBase)
	screen.HideCursor()
	return &Terminal{
		screen: screen,
		keymap: km,
	}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// Inject queues ev so that the next call to Next returns it.
// Safe to call from any goroutine.
func (t *Terminal) Inject(ev control.Event) error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(ev))
}

// Next blocks until a key press, a resize or an injected event arrives.
func (t *Terminal) Next() (control.Event, error) {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return control.Event{}, control.ErrInputClosed

		case *tcell.EventKey:
			name := KeyName(ev)
			out := t.keymap.Lookup(name)
			log.Debug().Str("key", name).Str("event", out.Kind.String()).Msg("Key pressed")
			return out, nil

		case *tcell.EventResize:
			t.screen.Sync()
			return control.Redraw(), nil

		case *tcell.EventInterrupt:
			if injected, ok := ev.Data().(control.Event); ok {
				return injected, nil
			}
		}
	}
}

// Render draws one frame.
func (t *Terminal) Render(s light.Snapshot) {
	t.screen.Clear()

	w, h := t.screen.Size()
	if w < 4 || h < 4 {
		t.screen.Show()
		return
	}

	t.drawFrame(w, h)

	// Two gauges splitting the inner area.
	innerX, innerY := 1, 1
	innerW, innerH := w-2, h-2
	topH := innerH / 2

	brightStyle := styleOff
	if s.On {
		brightStyle = styleBright
	}
	drawGauge(t.screen, innerX, innerY, innerW, topH,
		float64(s.Brightness)/float64(light.MaxBrightness),
		fmt.Sprintf("%d%%", s.Brightness), brightStyle)

	tempStyle := styleOff
	if s.On {
		r, g, b := KelvinRGB(s.Kelvin())
		tempStyle = styleBase.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).Italic(true)
	}
	drawGauge(t.screen, innerX, innerY+topH, innerW, innerH-topH,
		s.Ratio(), fmt.Sprintf("%d K", s.Kelvin()), tempStyle)

	t.screen.Show()
}

func (t *Terminal) drawFrame(w, h int) {
	s := t.screen
	for x := 1; x < w-1; x++ {
		s.SetContent(x, 0, tcell.RuneHLine, nil, styleBase)
		s.SetContent(x, h-1, tcell.RuneHLine, nil, styleBase)
	}
	for y := 1; y < h-1; y++ {
		s.SetContent(0, y, tcell.RuneVLine, nil, styleBase)
		s.SetContent(w-1, y, tcell.RuneVLine, nil, styleBase)
	}
	s.SetContent(0, 0, tcell.RuneULCorner, nil, styleBase)
	s.SetContent(w-1, 0, tcell.RuneURCorner, nil, styleBase)
	s.SetContent(0, h-1, tcell.RuneLLCorner, nil, styleBase)
	s.SetContent(w-1, h-1, tcell.RuneLRCorner, nil, styleBase)

	drawText(s, centered(len(title), w), 0, w-1, title, styleTitle)

	x := centered(instructionsWidth(), w)
	for _, in := range instructions {
		x = drawText(s, x, h-1, w-1, " "+in.label+" ", styleBase)
		x = drawText(s, x, h-1, w-1, in.key, styleKey)
	}
	drawText(s, x, h-1, w-1, " ", styleBase)
}

func instructionsWidth() int {
	n := 1
	for _, in := range instructions {
		n += len(in.label) + len(in.key) + 2
	}
	return n
}

// centered returns the x at which text of width n is centered in width w,
// never left of the border.
func centered(n, w int) int {
	x := (w - n) / 2
	if x < 1 {
		return 1
	}
	return x
}

// drawText writes text from x until maxX (exclusive) and returns the next x.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		if x >= maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// drawGauge fills ratio of the area with the style's foreground color and
// centers label on the middle row.
func drawGauge(s tcell.Screen, x, y, w, h int, ratio float64, label string, style tcell.Style) {
	if w <= 0 || h <= 0 {
		return
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	fg, _, _ := style.Decompose()
	filled := style.Background(fg).Foreground(tcell.ColorBlack)
	fillW := int(ratio * float64(w))

	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			st := style
			if col-x < fillW {
				st = filled
			}
			s.SetContent(col, row, ' ', nil, st)
		}
	}

	labelX := x + (w-len(label))/2
	labelY := y + h/2
	for i, r := range label {
		col := labelX + i
		if col < x || col >= x+w {
			continue
		}
		st := style
		if col-x < fillW {
			st = filled
		}
		s.SetContent(col, labelY, r, nil, st)
	}
}
