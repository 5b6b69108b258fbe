// Package ui is the interactive droid transmission console: a terminal REPL
// around the messenger with a live input-level meter and an in-UI log view.
package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	appASCIIBanner = `
 ██████╗ ██████╗  ██████╗ ██╗██████╗
 ██╔══██╗██╔══██╗██╔═══██╗██║██╔══██╗
 ██║  ██║██████╔╝██║   ██║██║██║  ██║
 ██║  ██║██╔══██╗██║   ██║██║██║  ██║
 ██████╔╝██║  ██║╚██████╔╝██║██████╔╝
 ╚═════╝ ╚═╝  ╚═╝ ╚═════╝ ╚═╝╚═════╝
         Droid Transmission Console
`
	appVersion = "v0.1.0"
)

// Define some styles
var (
	appStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#61E3FA")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(1, 2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9B1D6"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ECE6A")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7768E"))
)

// Messenger is the control surface the console drives.
type Messenger interface {
	Send(message string) error
	SendToFile(message, path string) error
	PlayFile(path string) error
	StartListening() error
	StopListening() error
	Listening() bool
	InputLevel() float32
	SetOnDetect(fn func(string))
	Close()
}

// Messages flowing into the model.
type (
	statusMsg    string
	errMsg       struct{ err error }
	detectionMsg string
	logMsg       string
	levelTickMsg time.Time
)

// levelTickInterval paces the input-level meter refresh.
const levelTickInterval = 100 * time.Millisecond

func tickLevel() tea.Cmd {
	return tea.Tick(levelTickInterval, func(t time.Time) tea.Msg {
		return levelTickMsg(t)
	})
}

// replModel is the TUI model
type replModel struct {
	messenger Messenger
	input     textinput.Model
	spinner   spinner.Model
	levels    []float32
	listening bool
	busy      bool
	status    string
	errText   string
	logLines  []string
	maxLog    int
	width     int
	ready     bool
	quitting  bool
}

func newReplModel(m Messenger) replModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "send Hello there"
	ti.CharLimit = 256
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A"))

	return replModel{
		messenger: m,
		input:     ti,
		spinner:   s,
		levels:    make([]float32, 20),
		status:    "Ready",
		maxLog:    5,
		logLines:  make([]string, 0),
	}
}

// Init initializes the model
func (m *replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, tickLevel())
}

// Update updates the model based on messages
func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			return m, m.dispatch(line)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case levelTickMsg:
		copy(m.levels[1:], m.levels)
		m.levels[0] = m.messenger.InputLevel()
		m.listening = m.messenger.Listening()
		return m, tickLevel()

	case statusMsg:
		m.busy = false
		m.status = string(msg)
		m.errText = ""
		return m, nil

	case errMsg:
		m.busy = false
		m.errText = msg.err.Error()
		return m, nil

	case detectionMsg:
		m.status = "Incoming transmission"
		m.addLog(string(msg))
		return m, nil

	case logMsg:
		m.addLog(string(msg))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) addLog(line string) {
	m.logLines = append([]string{line}, m.logLines...)
	if len(m.logLines) > m.maxLog {
		m.logLines = m.logLines[:m.maxLog]
	}
}

// dispatch parses one console line and turns it into work. Device-touching
// commands run as commands off the update loop so the UI keeps painting
// while audio blocks.
func (m *replModel) dispatch(line string) tea.Cmd {
	verb, rest := parseCommand(line)
	switch verb {
	case "":
		return nil

	case "quit", "exit":
		m.quitting = true
		return tea.Quit

	case "send":
		if rest == "" {
			m.errText = "No message specified"
			return nil
		}
		m.begin("Transmitting...")
		return m.cmdSend(rest)

	case "save":
		parts := strings.SplitN(rest, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			m.errText = "Usage: save <file> <message>"
			return nil
		}
		m.begin("Saving...")
		return m.cmdSave(parts[0], strings.TrimSpace(parts[1]))

	case "play":
		if rest == "" {
			m.errText = "Usage: play <file>"
			return nil
		}
		m.begin("Playing " + rest)
		return m.cmdPlay(rest)

	case "listen":
		m.begin("Opening input device...")
		return m.cmdListen()

	case "stop":
		m.begin("Stopping...")
		return m.cmdStop()

	default:
		m.errText = "Unknown command. Try 'send', 'save', 'play', 'listen', 'stop', or 'quit'."
		return nil
	}
}

func (m *replModel) begin(status string) {
	m.busy = true
	m.status = status
	m.errText = ""
}

func parseCommand(line string) (verb, rest string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	parts := strings.SplitN(line, " ", 2)
	verb = strings.ToLower(parts[0])
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return verb, rest
}

func (m *replModel) cmdSend(text string) tea.Cmd {
	messenger := m.messenger
	return func() tea.Msg {
		if err := messenger.Send(text); err != nil {
			return errMsg{err}
		}
		return statusMsg("Sent: " + text)
	}
}

func (m *replModel) cmdSave(file, text string) tea.Cmd {
	messenger := m.messenger
	return func() tea.Msg {
		if err := messenger.SendToFile(text, file); err != nil {
			return errMsg{err}
		}
		return statusMsg("Saved to " + file)
	}
}

func (m *replModel) cmdPlay(file string) tea.Cmd {
	messenger := m.messenger
	return func() tea.Msg {
		if err := messenger.PlayFile(file); err != nil {
			return errMsg{err}
		}
		return statusMsg("Played " + file)
	}
}

func (m *replModel) cmdListen() tea.Cmd {
	messenger := m.messenger
	return func() tea.Msg {
		if err := messenger.StartListening(); err != nil {
			return errMsg{err}
		}
		return statusMsg("Listening for droid transmissions...")
	}
}

func (m *replModel) cmdStop() tea.Cmd {
	messenger := m.messenger
	return func() tea.Msg {
		if err := messenger.StopListening(); err != nil {
			return errMsg{err}
		}
		return statusMsg("Stopped listening.")
	}
}

// View renders the TUI
func (m *replModel) View() string {
	if m.quitting {
		return "Transmission console closed.\n"
	}
	if !m.ready {
		return "Initializing..."
	}

	var s strings.Builder

	// Build the banner
	banner := appStyle.Render(appASCIIBanner)
	s.WriteString(banner)

	// Status indicator
	statusIndicator := ""
	if m.listening || m.busy {
		statusIndicator = m.spinner.View() + " "
	}
	statusLine := statusStyle.Render(statusIndicator + "Status: " + m.status)
	s.WriteString("\n" + statusLine)

	// Command help
	helpLine := infoStyle.Render("Commands: send <msg> | save <file> <msg> | play <file> | listen | stop | quit")
	s.WriteString("\n" + helpLine)

	// Input level visualization
	levelViz := renderLevelMeter(m.levels, m.listening)
	s.WriteString("\n\n" + levelViz)

	// Command input
	s.WriteString("\n\n" + m.input.View())

	// Error message (if any)
	if m.errText != "" {
		errorLine := errorStyle.Render("Error: " + m.errText)
		s.WriteString("\n\n" + errorLine)
	}

	// Log messages
	if len(m.logLines) > 0 {
		s.WriteString("\n\nLog:")
		for _, line := range m.logLines {
			s.WriteString("\n" + infoStyle.Render("• "+line))
		}
	}

	return s.String()
}

// renderLevelMeter creates a text-based visualization of input levels
func renderLevelMeter(levels []float32, listening bool) string {
	var s strings.Builder
	s.WriteString("Input Level: ")

	// Base color for inactive state
	baseColor := "#555555"
	if listening {
		baseColor = "#7AA2F7"
	}

	// Use block elements for the visualization
	const width = 30
	s.WriteString("[")
	for i := 0; i < width; i++ {
		ratio := float32(i) / float32(width)
		threshold := float32(1.0 - ratio)

		// Find the level to display (using the most recent levels that fit in our width)
		levelIdx := i % len(levels)
		level := levels[levelIdx]

		// Choose character and color based on level
		var char string
		var color string

		if level >= threshold {
			char = "█"
			color = getColorForLevel(level)
		} else {
			char = " "
			color = baseColor
		}

		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(char))
	}
	s.WriteString("]")

	return s.String()
}

// getColorForLevel returns a color based on input level
func getColorForLevel(level float32) string {
	switch {
	case level > 0.8:
		return "#F7768E" // Red for high levels
	case level > 0.5:
		return "#FF9E64" // Orange for medium-high levels
	case level > 0.3:
		return "#E0AF68" // Yellow for medium levels
	default:
		return "#9ECE6A" // Green for low levels
	}
}

// Repl runs the transmission console around a messenger.
type Repl struct {
	program *tea.Program
	logCh   chan string
}

// NewRepl creates the console. Detections are routed into the UI, and the
// returned Repl is a LogConsumer so logger output can be displayed with
// SetLogConsumer.
func NewRepl(m Messenger) *Repl {
	model := newReplModel(m)
	r := &Repl{
		program: tea.NewProgram(&model),
		logCh:   make(chan string, 32),
	}
	m.SetOnDetect(func(msg string) {
		r.program.Send(detectionMsg(msg))
	})
	return r
}

// AddLog queues a log line for display. Safe to call before the console is
// running; if the display falls behind, lines are dropped rather than
// blocking the logger.
func (r *Repl) AddLog(msg string) {
	select {
	case r.logCh <- msg:
	default:
	}
}

// RunBlocking runs the console in the current goroutine until quit.
func (r *Repl) RunBlocking() error {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case line := <-r.logCh:
				r.program.Send(logMsg(line))
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	if _, err := r.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
