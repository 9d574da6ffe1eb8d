// SPDX-License-Identifier: MIT
// Package tui implements the interactive device picker and pitch settings
// screen.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"liveshift/internal/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)
)

// ScreenType defines which screen is currently active.
type ScreenType int

const (
	ListScreen ScreenType = iota
	PitchScreen
)

// pitchField identifies the setting being edited on the pitch screen.
type pitchField int

const (
	fieldSemitones pitchField = iota
	fieldWindow
	fieldFormant
	fieldChannelMode
	fieldCount
)

var (
	windowValues      = []string{"short", "medium"}
	formantValues     = []string{"shifted", "preserved"}
	channelModeValues = []string{"apart", "together"}
)

// Selection is the result of a completed picker session.
type Selection struct {
	DeviceID    int
	Semitones   float64
	Window      string
	Formant     string
	ChannelMode string
}

// Model is the Bubble Tea model for the device picker.
type Model struct {
	devices       []engine.Device
	selectedIndex int
	viewport      viewport.Model
	ready         bool
	err           error
	activeScreen  ScreenType

	// Pitch settings being edited.
	semitones   float64
	windowIdx   int
	formantIdx  int
	channelIdx  int
	activeField pitchField

	// Set when the user confirms on the pitch screen.
	confirmed bool
}

type devicesMsg struct {
	devices []engine.Device
}

type errMsg struct {
	err error
}

// Init starts the device fetch.
func (m Model) Init() tea.Cmd {
	return fetchDevices
}

func fetchDevices() tea.Msg {
	devices, err := engine.Devices()
	if err != nil {
		return errMsg{err}
	}
	return devicesMsg{devices}
}

// Update handles input and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
			if len(m.devices) > 0 {
				m.viewport.SetContent(m.renderDevices())
			}
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}

	case devicesMsg:
		m.devices = msg.devices
		if m.ready {
			m.viewport.SetContent(m.renderDevices())
		}

	case errMsg:
		m.err = msg.err

	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))) {
			return m, tea.Quit
		}

		if m.activeScreen == ListScreen {
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
				if m.selectedIndex > 0 {
					m.selectedIndex--
					m.viewport.SetContent(m.renderDevices())
				}

			case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
				if m.selectedIndex < len(m.devices)-1 {
					m.selectedIndex++
					m.viewport.SetContent(m.renderDevices())
				}

			case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
				if len(m.devices) > 0 {
					m.activeScreen = PitchScreen
					m.activeField = fieldSemitones
					m.viewport.SetContent(m.renderPitchConfig())
				}
			}
		} else {
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
				m.activeScreen = ListScreen
				m.viewport.SetContent(m.renderDevices())

			case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
				if m.activeField > 0 {
					m.activeField--
					m.viewport.SetContent(m.renderPitchConfig())
				}

			case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
				if m.activeField < fieldCount-1 {
					m.activeField++
					m.viewport.SetContent(m.renderPitchConfig())
				}

			case key.Matches(msg, key.NewBinding(key.WithKeys("left", "h"))):
				m.adjustField(-1)
				m.viewport.SetContent(m.renderPitchConfig())

			case key.Matches(msg, key.NewBinding(key.WithKeys("right", "l"))):
				m.adjustField(+1)
				m.viewport.SetContent(m.renderPitchConfig())

			case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
				m.confirmed = true
				return m, tea.Quit
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// adjustField moves the active setting by one step in the given direction.
func (m *Model) adjustField(dir int) {
	switch m.activeField {
	case fieldSemitones:
		m.semitones += float64(dir)
		if m.semitones > 24 {
			m.semitones = 24
		}
		if m.semitones < -24 {
			m.semitones = -24
		}
	case fieldWindow:
		m.windowIdx = cycle(m.windowIdx, dir, len(windowValues))
	case fieldFormant:
		m.formantIdx = cycle(m.formantIdx, dir, len(formantValues))
	case fieldChannelMode:
		m.channelIdx = cycle(m.channelIdx, dir, len(channelModeValues))
	}
}

func cycle(idx, dir, n int) int {
	idx += dir
	if idx < 0 {
		return n - 1
	}
	if idx >= n {
		return 0
	}
	return idx
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress any key to exit.", m.err)
	}

	var title, help string
	if m.activeScreen == ListScreen {
		title = titleStyle.Render("Audio Device List")
		help = infoStyle.Render("↑/↓: Navigate • Enter: Configure • q: Quit")
	} else {
		title = titleStyle.Render("Pitch Settings")
		help = infoStyle.Render("↑/↓: Field • ←/→: Change Value • Enter: Start • Esc: Back • q: Quit")
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

func (m Model) renderDevices() string {
	if len(m.devices) == 0 {
		return "No audio devices found."
	}

	var sb strings.Builder
	for i, device := range m.devices {
		deviceType := ""
		if device.MaxInputChannels > 0 && device.MaxOutputChannels > 0 {
			deviceType = "Input/Output"
		} else if device.MaxInputChannels > 0 {
			deviceType = "Input"
		} else if device.MaxOutputChannels > 0 {
			deviceType = "Output"
		}

		deviceInfo := fmt.Sprintf("[%d] %s (%s)\n",
			device.ID, device.Name, deviceType)
		deviceInfo += fmt.Sprintf("    Input channels: %d, Output channels: %d\n",
			device.MaxInputChannels, device.MaxOutputChannels)
		deviceInfo += fmt.Sprintf("    Default sample rate: %.0f Hz\n",
			device.DefaultSampleRate)

		if i == m.selectedIndex {
			deviceInfo = highlightStyle.Render(deviceInfo)
		}

		sb.WriteString(deviceInfo)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderPitchConfig() string {
	var sb strings.Builder
	device := m.devices[m.selectedIndex]

	sb.WriteString(fmt.Sprintf("Configure Shifting: %s\n\n", device.Name))

	rows := []struct {
		field pitchField
		label string
		value string
	}{
		{fieldSemitones, "Semitones", fmt.Sprintf("%+.0f", m.semitones)},
		{fieldWindow, "Window", windowValues[m.windowIdx]},
		{fieldFormant, "Formants", formantValues[m.formantIdx]},
		{fieldChannelMode, "Channels", channelModeValues[m.channelIdx]},
	}

	for _, row := range rows {
		marker := " "
		if row.field == m.activeField {
			marker = "▶"
		}
		line := fmt.Sprintf("  %s %-10s %s\n", marker, row.label+":", row.value)
		if row.field == m.activeField {
			line = highlightStyle.Render(line)
		}
		sb.WriteString(line)
	}

	return sb.String()
}

// NewModel creates a picker model with the given initial pitch settings.
func NewModel() Model {
	return Model{
		selectedIndex: 0,
		activeScreen:  ListScreen,
	}
}

// Run launches the picker and returns the confirmed selection, or nil when
// the user quit without confirming.
func Run() (*Selection, error) {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(Model)
	if !ok || !m.confirmed || len(m.devices) == 0 {
		return nil, nil
	}
	return &Selection{
		DeviceID:    m.devices[m.selectedIndex].ID,
		Semitones:   m.semitones,
		Window:      windowValues[m.windowIdx],
		Formant:     formantValues[m.formantIdx],
		ChannelMode: channelModeValues[m.channelIdx],
	}, nil
}
