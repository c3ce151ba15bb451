package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI message types
type RecordingStartMsg struct{}
type RecordingStopMsg struct{}
type AudioLevelMsg struct{ Level float64 }
type TranscribingMsg struct{}
type TranscriptionMsg struct {
	Text     string
	NoSpeech bool
}
type ErrorMsg struct{ Text string }
type StatusLineMsg struct{ Text string }
type DeviceLineMsg struct{ Text string }
type tickMsg time.Time

type tuiState int

const (
	tuiStateIdle tuiState = iota
	tuiStateRecording
	tuiStateTranscribing
)

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	recStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	meterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	quietStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type tuiModel struct {
	state       tuiState
	recordStart time.Time
	level       float64
	peak        float64
	lastText    string
	noSpeech    bool
	errText     string
	statusLine  string
	deviceLine  string
	msgCount    int
	width       int
	triggerHint string
}

func NewTUIProgram(triggerHint string) *tea.Program {
	return tea.NewProgram(tuiModel{triggerHint: triggerHint})
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tickMsg:
		return m, tuiTick()

	case RecordingStartMsg:
		m.state = tuiStateRecording
		m.recordStart = time.Now()
		m.level = 0
		m.peak = 0
		m.errText = ""

	case RecordingStopMsg:
		m.state = tuiStateIdle
		m.level = 0

	case TranscribingMsg:
		m.state = tuiStateTranscribing

	case AudioLevelMsg:
		if m.state == tuiStateRecording {
			m.level = m.level*0.6 + msg.Level*0.4
			if msg.Level > m.peak {
				m.peak = msg.Level
			}
		}

	case TranscriptionMsg:
		m.state = tuiStateIdle
		m.msgCount++
		m.lastText = msg.Text
		m.noSpeech = msg.NoSpeech

	case ErrorMsg:
		m.state = tuiStateIdle
		m.errText = msg.Text

	case StatusLineMsg:
		m.statusLine = msg.Text

	case DeviceLineMsg:
		m.deviceLine = msg.Text
	}
	return m, nil
}

func (m tuiModel) View() string {
	var b strings.Builder

	switch m.state {
	case tuiStateRecording:
		b.WriteString(recStyle.Render(fmt.Sprintf("● REC %.1fs", time.Since(m.recordStart).Seconds())))
		b.WriteString("  " + meterStyle.Render(levelMeter(m.level)))
		if time.Since(m.recordStart) > time.Second && m.peak < 0.02 {
			b.WriteString("\n" + quietStyle.Render("  ⚠ no voice detected"))
		}
	case tuiStateTranscribing:
		b.WriteString(busyStyle.Render("◌ TRANSCRIBING..."))
	default:
		b.WriteString(idleStyle.Render("○ IDLE"))
	}
	b.WriteString("\n")

	if m.statusLine != "" {
		b.WriteString(statusStyle.Render(m.statusLine) + "\n")
	}
	if m.deviceLine != "" {
		b.WriteString(idleStyle.Render(m.deviceLine) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.errText != "":
		b.WriteString(errStyle.Render("Error: "+m.errText) + "\n")
	case m.noSpeech && m.msgCount > 0:
		b.WriteString(quietStyle.Render("(no speech detected)") + "\n")
	case m.lastText != "":
		title := idleStyle.Render(fmt.Sprintf("Last transcription (#%d):", m.msgCount))
		b.WriteString(title + "\n")
		width := m.width - 2
		if width < 20 {
			width = 60
		}
		for _, line := range wrapText(m.lastText, width) {
			b.WriteString("  " + textStyle.Render(line) + "\n")
		}
	default:
		b.WriteString(idleStyle.Render("No transcriptions yet") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpKey.Render(m.triggerHint) + helpStyle.Render(" to start, any tap to stop, ") +
		helpKey.Render("q") + helpStyle.Render(" to quit"))
	b.WriteString("\n" + helpStyle.Render("murmur "+version))
	return b.String()
}

func levelMeter(level float64) string {
	const blocks = 20
	n := int(level * 3 * blocks)
	if n > blocks {
		n = blocks
	}
	return "[" + strings.Repeat("█", n) + strings.Repeat("·", blocks-n) + "]"
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}
	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// tuiSink forwards pipeline events into the Bubble Tea program.
type tuiSink struct{}

func (tuiSink) RecordingStart()      { tuiSend(RecordingStartMsg{}) }
func (tuiSink) RecordingStop()       { tuiSend(RecordingStopMsg{}) }
func (tuiSink) AudioLevel(r float64) { tuiSend(AudioLevelMsg{Level: r}) }
func (tuiSink) Transcribing()        { tuiSend(TranscribingMsg{}) }
func (tuiSink) Transcription(text string, noSpeech bool) {
	tuiSend(TranscriptionMsg{Text: text, NoSpeech: noSpeech})
}
func (tuiSink) Error(msg string) { tuiSend(ErrorMsg{Text: msg}) }
