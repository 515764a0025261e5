package viz

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dronesim/internal/export"
	"github.com/san-kum/dronesim/internal/scene"
)

const (
	defaultCols     = 40
	defaultRows     = 20
	historyCapacity = 200
)

type TickMsg time.Time

// LiveOptions controls playback of the terminal preview.
type LiveOptions struct {
	Frames     int
	FPS        int
	Loop       bool
	Theme      string
	Cols, Rows int
	Window     Window
	Title      string
	RecordPath string
}

// Model plays a scene sequence on a Braille canvas.
type Model struct {
	opts      scene.Options
	live      LiveOptions
	surface   *CanvasSurface
	overlay   scene.Overlay
	theme     Theme
	frame     int
	last      scene.Scene
	running   bool
	done      bool
	showHelp  bool
	payloadY  []float64
	accel     []float64
	recording bool
	recorded  []*image.Paletted
	status    string
}

func NewModel(opts scene.Options, live LiveOptions) Model {
	if live.Cols <= 0 {
		live.Cols = defaultCols
	}
	if live.Rows <= 0 {
		live.Rows = defaultRows
	}
	if live.FPS <= 0 {
		live.FPS = 30
	}
	if live.Window == (Window{}) {
		live.Window = DefaultWindow()
	}
	if live.RecordPath == "" {
		live.RecordPath = "preview.gif"
	}
	theme := GetTheme(live.Theme)

	m := Model{
		opts:     opts,
		live:     live,
		surface:  NewCanvasSurface(live.Cols, live.Rows, live.Window, theme),
		theme:    theme,
		running:  true,
		payloadY: make([]float64, 0, historyCapacity),
		accel:    make([]float64, 0, historyCapacity),
	}
	m.reset()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.live.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Frame() int      { return m.frame }
func (m Model) Running() bool   { return m.running }
func (m Model) Done() bool      { return m.done }
func (m Model) Fill() bool      { return m.opts.Fill }
func (m Model) Recording() bool { return m.recording }
func (m Model) Surface() *CanvasSurface {
	return m.surface
}

// Update handles input events and advances playback.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			if !m.done {
				m.running = !m.running
			}
		case "r":
			m.reset()
			m.running = true
		case "f":
			m.opts.Fill = !m.opts.Fill
			m.repaint()
		case "right", "l":
			if !m.running {
				m.advance()
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.surface.SetTheme(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if !m.advance() {
				m.running = false
				m.done = true
				if m.recording {
					m.toggleRecording()
				}
				return m, tea.Quit
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// advance shows the next frame. It reports false once the sequence is
// exhausted and looping is off.
func (m *Model) advance() bool {
	if m.live.Frames > 0 && m.frame >= m.live.Frames {
		if !m.live.Loop {
			return false
		}
		m.frame = 0
	}
	m.last = scene.Compute(m.frame, m.opts)
	m.overlay = scene.Apply(m.surface, m.last, m.overlay)
	m.frame++

	m.payloadY = appendCapped(m.payloadY, m.last.Payload.Y)
	m.accel = appendCapped(m.accel, m.last.Accel)

	if m.recording {
		m.capture()
	}
	return true
}

// reset returns to the blank state before the first frame.
func (m *Model) reset() {
	m.surface.Reset()
	m.overlay = scene.Apply(m.surface, scene.Blank(m.opts), scene.Overlay{})
	m.last = scene.Blank(m.opts)
	m.frame = 0
	m.done = false
	m.payloadY = m.payloadY[:0]
	m.accel = m.accel[:0]
}

// repaint redraws the current frame after an option change.
func (m *Model) repaint() {
	m.surface.Reset()
	m.overlay = scene.Overlay{}
	if m.frame == 0 {
		m.overlay = scene.Apply(m.surface, scene.Blank(m.opts), m.overlay)
		m.last = scene.Blank(m.opts)
		return
	}
	m.last = scene.Compute(m.frame-1, m.opts)
	m.overlay = scene.Apply(m.surface, m.last, m.overlay)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.recorded = m.recorded[:0]
		m.status = "recording"
		return
	}
	m.recording = false
	if len(m.recorded) == 0 {
		m.status = ""
		return
	}
	err := export.SaveGIF(m.live.RecordPath, m.recorded, m.live.FPS, export.Metadata{Title: m.live.Title})
	if err != nil {
		m.status = "save failed: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.recorded), m.live.RecordPath)
	}
	m.recorded = nil
}

func (m *Model) capture() {
	m.recorded = append(m.recorded, m.surface.Draw().Image(8, 16, color.Black, color.White))
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// View renders the canvas next to a stats panel.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.surface.Draw().Render())

	value := valueStyle(m.theme)
	var s strings.Builder
	title := m.live.Title
	if title == "" {
		title = "dronesim"
	}
	s.WriteString(headerStyle(m.theme).Render(strings.ToUpper(title)) + "\n")

	status := "RUNNING"
	switch {
	case m.done:
		status = "DONE"
	case !m.running:
		status = "PAUSED"
	}
	if m.recording {
		status += " ● REC"
	}
	s.WriteString(statusStyle(m.theme, m.running).Render(status) + "\n\n")

	frames := "∞"
	if m.live.Frames > 0 {
		frames = fmt.Sprint(m.live.Frames)
	}
	s.WriteString(labelStyle.Render("Frame") + value.Render(fmt.Sprintf("%d / %s", m.frame, frames)) + "\n")
	if !m.last.Empty {
		s.WriteString(labelStyle.Render("Time") + value.Render(fmt.Sprintf("%.2f", m.last.T)) + "\n")
		s.WriteString(labelStyle.Render("Drone y") + value.Render(fmt.Sprintf("%.3f", m.last.Drone.Y)) + "\n")
		s.WriteString(labelStyle.Render("Accel") + value.Render(fmt.Sprintf("%+.3f", m.last.Accel)) + "\n")
		s.WriteString(labelStyle.Render("Payload y") + value.Render(fmt.Sprintf("%.3f", m.last.Payload.Y)) + "\n")
	}
	if m.opts.Fill {
		bar := lipgloss.NewStyle().Foreground(m.theme.Fill).Render(ProgressBar(m.last.Fill, 16))
		s.WriteString(labelStyle.Render("Fill") + bar + value.Render(fmt.Sprintf(" %3.0f%%", m.last.Fill*100)) + "\n")
	}
	if len(m.payloadY) > 1 {
		chart := asciigraph.Plot(m.payloadY, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Payload height"))
		s.WriteString(graphStyle.Foreground(m.theme.Accent).Render(chart) + "\n")
		s.WriteString(labelStyle.Render("Accel") + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(Sparkline(m.accel, 24)) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + value.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset F:Fill Q:Quit\nT:Theme  G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
  Space  pause / resume
  Right  next frame while paused
  R      restart from the blank frame
  F      toggle the payload fill
  T      cycle themes
  G      start / stop GIF recording
  Q      quit
` + "\n" + mainView
	}
	return mainView
}
