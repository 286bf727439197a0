package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"acidseq/config"
	"acidseq/sequencer"
	"acidseq/theme"
)

// EchoMsg carries one consumed input symbol from the scheduler.
type EchoMsg sequencer.Annotation

// TickMsg reports playback progress.
type TickMsg struct {
	Tick, MaxTick int64
}

// DoneMsg is sent when the scheduler has stopped (drain included).
type DoneMsg struct {
	Err error
}

type Model struct {
	Cfg   *config.Config
	Theme *theme.Theme
	Stop  func() // cancels the play context, forcing the drain

	echoed   []rune
	tick     int64
	maxTick  int64
	done     bool
	err      error
	quitting bool
}

func NewModel(cfg *config.Config, th *theme.Theme, stop func()) Model {
	return Model{Cfg: cfg, Theme: th, Stop: stop}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Stop()
			if m.done {
				return m, tea.Quit
			}
			// Wait for DoneMsg so the drain finishes before we tear the
			// screen down.
		}

	case EchoMsg:
		m.echoed = append(m.echoed, msg.Symbol)

	case TickMsg:
		m.tick, m.maxTick = msg.Tick, msg.MaxTick

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// classRole picks the display color for a symbol.
func classRole(cfg *config.Config, ch rune) theme.Role {
	switch sequencer.Classify(cfg, ch) {
	case sequencer.ClassVowel:
		return theme.RoleBass
	case sequencer.ClassDigit:
		return theme.RoleLead
	case sequencer.ClassConsonant:
		return theme.RoleFG
	case sequencer.ClassSeparator:
		return theme.RolePad
	case sequencer.ClassSample:
		return theme.RoleSamples
	}
	return theme.RoleMuted
}

func (m Model) View() string {
	if m.quitting && m.done {
		return ""
	}

	headerStyle := m.Theme.Style(theme.RoleAccent)
	dimStyle := m.Theme.Style(theme.RoleMuted)

	state := "PLAY"
	if m.quitting {
		state = "DRAIN"
	}
	if m.done {
		state = "DONE"
	}

	header := headerStyle.Render(fmt.Sprintf("acidseq  %s  %3dbpm  tick %03d/%03d",
		state, m.Cfg.Tempo, m.tick, m.maxTick))

	var phrase strings.Builder
	for _, ch := range m.echoed {
		phrase.WriteString(m.Theme.Style(classRole(m.Cfg, ch)).Render(string(ch)))
	}

	var tracks []string
	for _, t := range m.Cfg.Tracks {
		style := m.Theme.Style(theme.TrackRole(t.Name))
		tracks = append(tracks, style.Render(fmt.Sprintf("%s:ch%d", t.Name, t.Channel)))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(lipgloss.NewStyle().Width(72).Render(phrase.String()))
	out.WriteString("\n\n")
	out.WriteString(strings.Join(tracks, "  "))
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render("q:stop and drain"))
	out.WriteString("\n")

	return out.String()
}
