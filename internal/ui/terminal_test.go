package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dokzlo13/keylight/internal/control"
	"github.com/dokzlo13/keylight/internal/keymap"
	"github.com/dokzlo13/keylight/internal/light"
)

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(w, h)

	term := NewTerminal(screen, keymap.Default(10, 1))
	t.Cleanup(term.Close)
	return term, screen
}

// screenRows returns the visible text of the simulation screen, one string per row.
func screenRows(screen tcell.SimulationScreen) []string {
	cells, w, h := screen.GetContents()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			runes := cells[y*w+x].Runes
			if len(runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(runes[0])
		}
		rows[y] = sb.String()
	}
	return rows
}

func TestTerminal_Next_Keys(t *testing.T) {
	term, screen := newSimTerminal(t, 80, 24)

	tests := []struct {
		name     string
		key      tcell.Key
		r        rune
		mod      tcell.ModMask
		expected control.Event
	}{
		{"q", tcell.KeyRune, 'q', tcell.ModNone, control.Quit()},
		{"Q", tcell.KeyRune, 'Q', tcell.ModShift, control.Quit()},
		{"esc", tcell.KeyEscape, 0, tcell.ModNone, control.Quit()},
		{"ctrl_c", tcell.KeyCtrlC, 0, tcell.ModCtrl, control.Quit()},
		{"left", tcell.KeyLeft, 0, tcell.ModNone, control.BrightnessDown(10)},
		{"right", tcell.KeyRight, 0, tcell.ModNone, control.BrightnessUp(10)},
		{"shift_right", tcell.KeyRight, 0, tcell.ModShift, control.BrightnessUp(1)},
		{"up", tcell.KeyUp, 0, tcell.ModNone, control.Warmer(10)},
		{"down", tcell.KeyDown, 0, tcell.ModNone, control.Colder(10)},
		{"space", tcell.KeyRune, ' ', tcell.ModNone, control.Toggle()},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone, control.Toggle()},
		{"unbound", tcell.KeyRune, 'x', tcell.ModNone, control.Event{Kind: control.KindNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen.InjectKey(tt.key, tt.r, tt.mod)

			got, err := term.Next()
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Next() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestTerminal_Inject(t *testing.T) {
	term, _ := newSimTerminal(t, 80, 24)

	cause := errors.New("device gone")
	if err := term.Inject(control.Failure(cause)); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	got, err := term.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got.Kind != control.KindFailure || !errors.Is(got.Err, cause) {
		t.Errorf("Next() = %+v, want failure carrying %v", got, cause)
	}
}

func TestTerminal_Next_IgnoresForeignInterrupts(t *testing.T) {
	term, screen := newSimTerminal(t, 80, 24)

	if err := screen.PostEvent(tcell.NewEventInterrupt("not an event")); err != nil {
		t.Fatal(err)
	}
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	got, err := term.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != control.Quit() {
		t.Errorf("Next() = %+v, want quit", got)
	}
}

func TestTerminal_Next_Closed(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	term := NewTerminal(screen, keymap.Default(10, 1))
	term.Close()

	if _, err := term.Next(); !errors.Is(err, control.ErrInputClosed) {
		t.Errorf("Next() error = %v, want ErrInputClosed", err)
	}
}

func TestTerminal_Render(t *testing.T) {
	term, screen := newSimTerminal(t, 100, 24)

	term.Render(light.Snapshot{On: true, Brightness: 42, Temperature: 344})

	rows := screenRows(screen)
	text := strings.Join(rows, "\n")

	if !strings.Contains(rows[0], "Elgato Key Light") {
		t.Errorf("title missing from top row: %q", rows[0])
	}
	if !strings.Contains(rows[len(rows)-1], "Dimmer <Left>") {
		t.Errorf("instructions missing from bottom row: %q", rows[len(rows)-1])
	}
	if !strings.Contains(rows[len(rows)-1], "Quit <Q>") {
		t.Errorf("quit hint missing from bottom row: %q", rows[len(rows)-1])
	}
	if !strings.Contains(rows[len(rows)-1], "Toggle off/on <Space>") {
		t.Errorf("toggle hint missing from bottom row: %q", rows[len(rows)-1])
	}
	if !strings.Contains(text, "42%") {
		t.Error("brightness label missing")
	}
	if !strings.Contains(text, "2900 K") {
		t.Error("temperature label missing")
	}
}

func TestTerminal_Render_Off(t *testing.T) {
	term, screen := newSimTerminal(t, 80, 24)

	term.Render(light.Snapshot{On: false, Brightness: 100, Temperature: 143})

	cells, w, h := screen.GetContents()
	// The brightness gauge is fully filled; its color shows the light is off.
	cell := cells[(h/4)*w+w/2]
	_, bg, _ := cell.Style.Decompose()
	if bg != tcell.ColorDarkGray {
		t.Errorf("gauge fill = %v, want dark gray while off", bg)
	}

	if text := strings.Join(screenRows(screen), "\n"); !strings.Contains(text, "7000 K") {
		t.Error("temperature label missing")
	}
}

func TestTerminal_Render_NarrowScreenClipsInstructions(t *testing.T) {
	term, screen := newSimTerminal(t, 40, 10)

	term.Render(light.Snapshot{On: true, Brightness: 10, Temperature: 200})

	rows := screenRows(screen)
	bottom := []rune(rows[len(rows)-1])
	if bottom[0] != tcell.RuneLLCorner || bottom[len(bottom)-1] != tcell.RuneLRCorner {
		t.Errorf("instructions overwrote the border: %q", rows[len(rows)-1])
	}
}

func TestTerminal_Render_TinyScreen(t *testing.T) {
	term, _ := newSimTerminal(t, 3, 2)

	// Must not panic.
	term.Render(light.Snapshot{On: true, Brightness: 50, Temperature: 200})
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		expected string
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{"upper_rune", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), "a"},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "space"},
		{"alt_rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), "alt+x"},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), "left"},
		{"shift_arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), "shift+up"},
		{"ctrl_shift_arrow", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModCtrl|tcell.ModShift), "ctrl+shift+down"},
		{"ctrl_letter", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), "ctrl+c"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{"esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "esc"},
		{"function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "f5"},
		{"unknown", tcell.NewEventKey(tcell.KeyF40, 0, tcell.ModNone), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyName(tt.ev); got != tt.expected {
				t.Errorf("KeyName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKelvinRGB(t *testing.T) {
	// Warm light is red-heavy, cold light approaches white.
	r, g, b := KelvinRGB(2900)
	if r != 255 || b >= g {
		t.Errorf("KelvinRGB(2900) = (%d, %d, %d), want red-heavy", r, g, b)
	}

	r, g, b = KelvinRGB(7000)
	if r >= 255 || b != 255 || g < 200 {
		t.Errorf("KelvinRGB(7000) = (%d, %d, %d), want bluish white", r, g, b)
	}
}
