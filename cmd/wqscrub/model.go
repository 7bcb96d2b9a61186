package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/decker502/wqscroll/pkg/timeline"
	"github.com/decker502/wqscroll/pkg/utils"
)

const (
	fineStep   = 0.01
	coarseStep = 0.1
	frameRate  = 30
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7fd4ff"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a9ba8"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4a5560"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166"))
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#06d6a0"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4a5560")).MarginTop(1)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#2a4a66")).Padding(0, 1)
)

type keyMap struct {
	Back     key.Binding
	Forward  key.Binding
	PageBack key.Binding
	PageFwd  key.Binding
	Start    key.Binding
	End      key.Binding
	Play     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Back:     key.NewBinding(key.WithKeys("left", "h", "up", "k"), key.WithHelp("←/h", "back")),
		Forward:  key.NewBinding(key.WithKeys("right", "l", "down", "j"), key.WithHelp("→/l", "forward")),
		PageBack: key.NewBinding(key.WithKeys("pgup", "["), key.WithHelp("pgup", "back 10%")),
		PageFwd:  key.NewBinding(key.WithKeys("pgdown", "]"), key.WithHelp("pgdn", "forward 10%")),
		Start:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "start")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "end")),
		Play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// model 交互式拖动时间轴的 bubbletea 模型
type model struct {
	s        *session
	keys     keyMap
	bar      progress.Model
	p        float64
	playing  bool
	duration float64
}

func newModel(s *session) model {
	duration := 1.0
	if tl := s.seq.Timeline(); tl != nil && tl.Duration() > 0 {
		duration = tl.Duration()
	}
	return model{
		s:        s,
		keys:     defaultKeyMap(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		duration: duration,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) seek(p float64) model {
	m.p = utils.Clamp01(p)
	m.s.seek(m.p)
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(msg.Width-8, 10)
		return m, nil

	case tickMsg:
		if !m.playing {
			return m, nil
		}
		// 一秒时间轴对应一秒实时
		dt := 1.0 / frameRate
		m.s.seq.Tick(dt)
		m = m.seek(m.p + dt/m.duration)
		if m.p >= 1 {
			m.playing = false
			return m, nil
		}
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			return m.seek(m.p - fineStep), nil
		case key.Matches(msg, m.keys.Forward):
			return m.seek(m.p + fineStep), nil
		case key.Matches(msg, m.keys.PageBack):
			return m.seek(m.p - coarseStep), nil
		case key.Matches(msg, m.keys.PageFwd):
			return m.seek(m.p + coarseStep), nil
		case key.Matches(msg, m.keys.Start):
			return m.seek(0), nil
		case key.Matches(msg, m.keys.End):
			return m.seek(1), nil
		case key.Matches(msg, m.keys.Play):
			m.playing = !m.playing
			if m.playing {
				if m.p >= 1 {
					m = m.seek(0)
				}
				return m, tick()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wqscrub") + "  " +
		labelStyle.Render(fmt.Sprintf("state %s  progress %.3f  t=%.2fs", m.s.seq.State(), m.p, m.p*m.duration)))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.p))
	b.WriteString("\n\n")

	phases, states := m.s.phases()
	if len(phases) == 0 {
		b.WriteString(labelStyle.Render("no timeline (reduced motion or static section)"))
	} else {
		lines := make([]string, 0, len(phases))
		for i, ph := range phases {
			lines = append(lines, phaseLine(ph, states[i]))
		}
		b.WriteString(panelStyle.Render(strings.Join(lines, "\n")))
	}
	b.WriteString("\n")

	rows := m.s.counters()
	cells := make([]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, labelStyle.Render(r.Label+" ")+r.Text)
	}
	b.WriteString(panelStyle.Render(strings.Join(cells, "   ")))

	b.WriteString(helpStyle.Render(helpLine(m.keys)))
	return b.String()
}

func phaseLine(ph *timeline.Phase, state timeline.PhaseState) string {
	text := fmt.Sprintf("%-14s %-7s %.3f → %.3f", ph.Name, ph.Kind, ph.Start, ph.End)
	switch state {
	case timeline.StateActive:
		return activeStyle.Render("▶ " + text)
	case timeline.StateComplete:
		return completeStyle.Render("✓ " + text)
	default:
		return pendingStyle.Render("  " + text)
	}
}

func helpLine(k keyMap) string {
	bindings := []key.Binding{k.Back, k.Forward, k.PageBack, k.PageFwd, k.Start, k.End, k.Play, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
