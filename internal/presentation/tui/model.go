package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/input"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	delayStep      = 10 * time.Millisecond
	maxDelay       = time.Second
	statusInterval = 150 * time.Millisecond
	barGlyph       = "█"
	minBarRows     = 5
	chromeRows     = 12 // title, info panel, status and help lines
)

// Controller is the subset of sortstep.Controller driven by the model.
type Controller interface {
	StartRun(tag string) (string, error)
	Cancel()
	SetDelay(d time.Duration)
	Pause() bool
	Resume() bool
	NewArray(values domain.Array) error
	Undo() bool
	Snapshot() domain.Snapshot
}

// stepMsg carries one event from the Bridge.
type stepMsg domain.StepEvent

// controlMsg reports the result of a controller call made off the UI loop.
type controlMsg struct {
	note string
	err  error
}

type tickMsg time.Time

// Model is the bubbletea model of the interactive visualizer.
type Model struct {
	ctrl   Controller
	events <-chan domain.StepEvent

	keys       keyMap
	help       help.Model
	algorithms []domain.AlgorithmInfo
	selected   int
	theme      string
	styles     styles

	size, lo, hi int
	rng          *rand.Rand

	array  domain.Array
	last   *domain.StepEvent
	sorted map[int]bool
	runID  string
	status domain.RunStatus
	paused bool
	delay  time.Duration
	depth  int

	note string
	err  error

	width, height int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithAlgorithm preselects an algorithm. Unknown tags are ignored.
func WithAlgorithm(alg domain.Algorithm) ModelOption {
	return func(m *Model) {
		for i, info := range m.algorithms {
			if info.Algorithm == alg {
				m.selected = i
			}
		}
	}
}

// WithTheme selects the light or dark theme.
func WithTheme(theme string) ModelOption {
	return func(m *Model) {
		if _, ok := palettes[theme]; ok {
			m.theme = theme
		}
	}
}

// WithGenerate sets the size and bounds used by the new array key.
func WithGenerate(size, lo, hi int) ModelOption {
	return func(m *Model) {
		m.size, m.lo, m.hi = size, lo, hi
	}
}

// WithRand fixes the random source used for generated arrays.
func WithRand(rng *rand.Rand) ModelOption {
	return func(m *Model) {
		m.rng = rng
	}
}

// NewModel creates a model over ctrl. events is usually Bridge.Events() of a
// Bridge registered as a renderer on the same controller.
func NewModel(ctrl Controller, events <-chan domain.StepEvent, opts ...ModelOption) Model {
	m := Model{
		ctrl:       ctrl,
		events:     events,
		keys:       keys,
		help:       help.New(),
		algorithms: domain.Algorithms(),
		theme:      ThemeDark,
		size:       input.DefaultSize,
		lo:         input.DefaultMin,
		hi:         input.DefaultMax,
		sorted:     make(map[int]bool),
		width:      80,
		height:     24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.styles = newStyles(m.theme)
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stepMsg:
		m.apply(domain.StepEvent(msg))
		return m, waitForEvent(m.events)

	case controlMsg:
		m.note, m.err = msg.note, msg.err
		m.sync()
		return m, nil

	case tickMsg:
		m.sync()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Generate):
		values, err := input.Generate(m.rng, m.size, m.lo, m.hi)
		if err != nil {
			m.note, m.err = "", err
			return m, nil
		}
		return m, m.control(fmt.Sprintf("new array of %d values", len(values)), func() error {
			return m.ctrl.NewArray(values)
		})

	case key.Matches(msg, m.keys.Start):
		alg := m.algorithms[m.selected].Algorithm
		return m, m.control(fmt.Sprintf("sorting with %s", alg), func() error {
			_, err := m.ctrl.StartRun(string(alg))
			return err
		})

	case key.Matches(msg, m.keys.Stop):
		return m, m.control("stopped", func() error {
			m.ctrl.Cancel()
			return nil
		})

	case key.Matches(msg, m.keys.Undo):
		return m, m.control("reverted one step", func() error {
			if !m.ctrl.Undo() {
				return fmt.Errorf("nothing to undo")
			}
			return nil
		})

	case key.Matches(msg, m.keys.Faster):
		m.setDelay(m.delay - delayStep)

	case key.Matches(msg, m.keys.Slower):
		m.setDelay(m.delay + delayStep)

	case key.Matches(msg, m.keys.Pause):
		if m.paused {
			m.paused = !m.ctrl.Resume()
		} else {
			m.paused = m.ctrl.Pause()
		}

	case key.Matches(msg, m.keys.Next):
		m.selected = (m.selected + 1) % len(m.algorithms)

	case key.Matches(msg, m.keys.Pick):
		if i := int(msg.String()[0] - '1'); i >= 0 && i < len(m.algorithms) {
			m.selected = i
		}

	case key.Matches(msg, m.keys.Theme):
		if m.theme == ThemeDark {
			m.theme = ThemeLight
		} else {
			m.theme = ThemeDark
		}
		m.styles = newStyles(m.theme)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) setDelay(d time.Duration) {
	d = min(max(d, 0), maxDelay)
	m.ctrl.SetDelay(d)
	m.delay = d
}

// control runs fn off the UI loop; StartRun, NewArray and Undo wait for the
// active run to stop.
func (m Model) control(note string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return controlMsg{err: err}
		}
		return controlMsg{note: note}
	}
}

// apply folds one event into the view state.
func (m *Model) apply(ev domain.StepEvent) {
	if ev.RunID != m.runID {
		m.runID = ev.RunID
		clear(m.sorted)
	}
	m.array = ev.Values
	if ev.Type == domain.EventRestore {
		m.last = nil
		clear(m.sorted)
		return
	}
	if ev.Role == domain.RoleSorted {
		for _, i := range ev.Indices {
			m.sorted[i] = true
		}
	}
	m.last = &ev
}

// sync refreshes the view state from the controller.
func (m *Model) sync() {
	snap := m.ctrl.Snapshot()
	m.status = snap.Status
	m.paused = snap.Paused
	m.delay = snap.Delay
	m.depth = snap.HistoryDepth
	if snap.Status == domain.StatusRunning && snap.RunID != m.runID {
		m.runID = snap.RunID
		clear(m.sorted)
	}
	if snap.Status == domain.StatusIdle {
		m.array = snap.Array
		m.last = nil
		if snap.LastRun != nil && snap.LastRun.ID == m.runID && snap.LastRun.Outcome == domain.OutcomeCompleted {
			for i := range m.array {
				m.sorted[i] = true
			}
		}
	}
}

func waitForEvent(events <-chan domain.StepEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return stepMsg(ev)
	}
}

func tick() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// roleAt returns the highlight of bar i.
func (m Model) roleAt(i int) domain.Role {
	if m.last != nil && m.last.Role != domain.RoleSorted && m.last.Highlights(i) {
		return m.last.Role
	}
	if m.sorted[i] {
		return domain.RoleSorted
	}
	return domain.RoleNone
}

func (m Model) View() string {
	var b strings.Builder

	info := m.algorithms[m.selected]
	state := string(m.status)
	if m.paused {
		state = "paused"
	}
	b.WriteString(m.styles.title.Render("sortstep"))
	b.WriteString(m.styles.dim.Render(fmt.Sprintf("  %s · %s · theme %s", info.Name, state, m.theme)))
	b.WriteString("\n\n")

	b.WriteString(m.viewBars())
	b.WriteString("\n\n")

	b.WriteString(m.viewInfo(info))
	b.WriteString("\n")

	status := fmt.Sprintf("%d values · delay %s · %d steps to undo", len(m.array), m.delay, m.depth)
	b.WriteString(m.styles.text.Render(status))
	if m.err != nil {
		b.WriteString("  " + m.styles.err.Render(m.err.Error()))
	} else if m.note != "" {
		b.WriteString("  " + m.styles.dim.Render(m.note))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) viewBars() string {
	n := len(m.array)
	if n == 0 {
		return m.styles.dim.Render("(empty array, press g)")
	}

	rows := max(m.height-chromeRows, minBarRows)
	width := max(m.width-2, n)
	barWidth := max(width/n-1, 1)
	top := max(m.array.Max(), 1)

	cols := make([]string, 0, 2*n)
	for i, v := range m.array {
		h := 1
		if v > 0 {
			h = min(max(int(float64(v)/float64(top)*float64(rows)), 1), rows)
		}
		cell := strings.Repeat(barGlyph, barWidth)
		col := strings.Repeat(strings.Repeat(" ", barWidth)+"\n", rows-h) +
			strings.TrimSuffix(strings.Repeat(cell+"\n", h), "\n")
		cols = append(cols, m.styles.bar(m.roleAt(i)).Render(col))
		if i < n-1 && width/n > 1 {
			cols = append(cols, " ")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, cols...)
}

func (m Model) viewInfo(info domain.AlgorithmInfo) string {
	tabs := make([]string, len(m.algorithms))
	for i, a := range m.algorithms {
		label := fmt.Sprintf("%d %s", i+1, a.Algorithm)
		if i == m.selected {
			tabs[i] = m.styles.title.Render(label)
		} else {
			tabs[i] = m.styles.dim.Render(label)
		}
	}

	body := strings.Join([]string{
		strings.Join(tabs, "  "),
		"",
		m.styles.label.Render(info.Name) + m.styles.text.Render(": "+info.Description),
		m.styles.text.Render("Time Complexity: " + info.TimeComplexity),
		m.styles.text.Render("Space Complexity: " + info.SpaceComplexity),
	}, "\n")
	return m.styles.panel.Width(max(m.width-2, 40)).Render(body)
}
