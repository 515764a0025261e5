package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dronesim/internal/scene"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(1, 5)
	if !c.IsSet(1, 5) {
		t.Fatal("expected dot to be set")
	}
	if c.Grid[1][0] != 0x2800|0x10 {
		t.Errorf("unexpected cell rune %U", c.Grid[1][0])
	}
	c.Unset(1, 5)
	if c.IsSet(1, 5) || c.Grid[1][0] != 0x2800 {
		t.Error("expected dot to be cleared")
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	if c.IsSet(-1, 0) || c.IsSet(100, 100) {
		t.Error("out of range dots should be ignored")
	}
}

func TestCanvasFillPolygon(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillPolygon([]float64{2, 12, 12, 2}, []float64{2, 2, 12, 12})

	for y := 2; y <= 12; y++ {
		for x := 2; x <= 12; x++ {
			if !c.IsSet(x, y) {
				t.Fatalf("expected (%d, %d) inside the square to be set", x, y)
			}
		}
	}
	if c.IsSet(0, 0) || c.IsSet(15, 15) {
		t.Error("expected dots outside the square to stay clear")
	}

	c.Clear()
	c.FillPolygon([]float64{1, 2}, []float64{1, 2})
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r > 0x2800 }) {
		t.Error("degenerate polygon should draw nothing")
	}
}

func TestCanvasImage(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	img := c.Image(8, 16, nil, nil)
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 16 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if img.ColorIndexAt(0, 0) != 1 || img.ColorIndexAt(7, 15) != 0 {
		t.Error("expected only the first dot block to be lit")
	}
}

func TestCanvasSurfaceGlyphs(t *testing.T) {
	s := NewCanvasSurface(40, 20, DefaultWindow(), ThemeClassic)
	opts := scene.FillOptions()

	ov := scene.Apply(s, scene.Blank(opts), scene.Overlay{})
	for f := 0; f < 400; f++ {
		ov = scene.Apply(s, scene.Compute(f, opts), ov)
		if s.Glyphs() != 2 {
			t.Fatalf("frame %d: expected 2 glyphs, got %d", f, s.Glyphs())
		}
	}
	s.RemoveGlyph(ov.Payload)
	s.RemoveGlyph(ov.Payload)
	if s.Glyphs() != 1 {
		t.Errorf("expected 1 glyph, got %d", s.Glyphs())
	}
}

func TestCanvasSurfaceDraw(t *testing.T) {
	s := NewCanvasSurface(40, 20, DefaultWindow(), ThemeClassic)
	scene.Apply(s, scene.Compute(0, scene.SimpleOptions()), scene.Overlay{})
	c := s.Draw()

	// body at y=3 spans x in [-0.65, 0.65]
	x, y := s.project(scene.Point{X: 0, Y: 3})
	if !c.IsSet(int(x+0.5), int(y+0.5)) {
		t.Errorf("expected the drone body at (%.1f, %.1f)", x, y)
	}
	px, py := s.project(scene.Point{X: 0, Y: 1.2})
	if !c.IsSet(int(px+0.5), int(py+0.5)) {
		t.Error("expected the payload to be filled")
	}
	bx, by := int(x+0.5), int(y+0.5)
	if c.Ink[by/4][bx/2] == "" {
		t.Error("expected the body cell to carry ink")
	}

	s.Reset()
	if strings.ContainsFunc(s.Draw().String(), func(r rune) bool { return r > 0x2800 }) {
		t.Error("reset surface should draw nothing")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("expected ocean theme")
	}
	if GetTheme("nope").Name != ThemeClassic.Name {
		t.Error("unknown theme should fall back to classic")
	}
	if NextTheme(Themes[len(Themes)-1]).Name != Themes[0].Name {
		t.Error("expected themes to cycle")
	}
	if Ink(scene.Green) != "#008000" {
		t.Errorf("expected #008000, got %s", Ink(scene.Green))
	}
	if Ink(nil) != "" {
		t.Error("nil colour should have no ink")
	}
}

func TestSparklineAndBar(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 4); got != "▁█" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
	if got := ProgressBar(0.5, 4); got != "██░░" {
		t.Errorf("unexpected bar %q", got)
	}
	if got := ProgressBar(2, 2); got != "██" {
		t.Errorf("bar should clamp, got %q", got)
	}
}

func TestChart(t *testing.T) {
	if Chart(nil, "x", 10, 3) != "" {
		t.Error("expected empty chart for no data")
	}
	out := Chart([]float64{1, 2, 3, 2, 1}, "drone_y", 20, 4)
	if !strings.Contains(out, "drone_y") {
		t.Errorf("expected caption in chart:\n%s", out)
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModelPlayback(t *testing.T) {
	m := NewModel(scene.SimpleOptions(), LiveOptions{Frames: 3, FPS: 30})
	if m.Init() == nil {
		t.Fatal("expected a tick command")
	}

	for i := 0; i < 3; i++ {
		var cmd tea.Cmd
		m, cmd = step(m, TickMsg{})
		if cmd == nil {
			t.Fatalf("tick %d: expected another tick", i)
		}
	}
	if m.Frame() != 3 {
		t.Fatalf("expected frame 3, got %d", m.Frame())
	}
	if m.Surface().Glyphs() != 2 {
		t.Errorf("expected 2 glyphs, got %d", m.Surface().Glyphs())
	}

	m, _ = step(m, TickMsg{})
	if !m.Done() || m.Running() {
		t.Error("expected playback to stop after the last frame")
	}

	m, _ = step(m, key("r"))
	if m.Frame() != 0 || m.Done() || !m.Running() {
		t.Error("reset should restart playback")
	}
	if m.Surface().Glyphs() != 0 {
		t.Error("reset should clear glyphs")
	}
}

func TestModelLoop(t *testing.T) {
	m := NewModel(scene.SimpleOptions(), LiveOptions{Frames: 2, Loop: true})
	for i := 0; i < 5; i++ {
		m, _ = step(m, TickMsg{})
	}
	if m.Done() {
		t.Error("looping playback should not finish")
	}
	if m.Frame() != 1 {
		t.Errorf("expected frame 1 after wrapping, got %d", m.Frame())
	}
}

func TestModelKeys(t *testing.T) {
	m := NewModel(scene.SimpleOptions(), LiveOptions{Frames: 10})

	m, _ = step(m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}
	m, _ = step(m, TickMsg{})
	if m.Frame() != 0 {
		t.Error("paused model should not advance on tick")
	}
	m, _ = step(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Frame() != 1 {
		t.Errorf("right should step while paused, got frame %d", m.Frame())
	}

	m, _ = step(m, key("f"))
	if !m.Fill() {
		t.Error("f should enable the fill polygon")
	}
	if !strings.Contains(m.View(), "Fill") {
		t.Error("expected the fill level in the view")
	}

	_, cmd := step(m, key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected a quit message")
	}
}

func TestModelRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.gif")
	m := NewModel(scene.FillOptions(), LiveOptions{Frames: 4, Cols: 10, Rows: 5, RecordPath: path})

	m, _ = step(m, key("g"))
	if !m.Recording() {
		t.Fatal("g should start recording")
	}
	for i := 0; i < 5; i++ {
		m, _ = step(m, TickMsg{})
	}
	if m.Recording() {
		t.Error("recording should stop when playback ends")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected a recording at %s: %v", path, err)
	}
}
