package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/dungeon-engine/internal/engine"
	"github.com/jwebster45206/dungeon-engine/internal/handlers"
)

const PlaceHolderText = "Was tust du?"

// logEntry is one transcript line with its own render style. The
// transcript is kept unwrapped so it can be reflowed on resize.
type logEntry struct {
	kind string // "player", "narrative", "event", "error"
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	game         *engine.Game
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	spinner      spinner.Model
	transcript   []logEntry
	ready        bool
	width        int
	height       int
	loading      bool

	showQuitModal bool
}

type actionResponseMsg struct {
	response *handlers.ActionResponse
	err      error
}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narrativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, g *engine.Game) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = eventStyle

	ui := ConsoleUI{
		config:       cfg,
		client:       client,
		game:         g,
		textarea:     ta,
		logViewport:  logVp,
		metaViewport: metaVp,
		spinner:      sp,
	}

	if room := g.CurrentRoom(); room != nil && room.Description != "" {
		ui.transcript = append(ui.transcript, logEntry{kind: "narrative", text: room.Description})
	}
	return ui
}

// writeLogContent reflows the transcript for the current viewport width.
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6
	if logWidth < 10 {
		logWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("DUNGEON ENGINE") + "\n\n")
	if m.game != nil {
		content.WriteString(m.game.Theme + "\n\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth)) + "\n\n")

	for _, entry := range m.transcript {
		wrapped := wordwrap.String(entry.text, logWidth)
		switch entry.kind {
		case "player":
			content.WriteString(playerStyle.Render("> "+entry.text) + "\n\n")
		case "event":
			content.WriteString(eventStyle.Render(wrapped) + "\n\n")
		case "error":
			content.WriteString(errorStyle.Render(wrapped) + "\n\n")
		default:
			content.WriteString(narrativeStyle.Render(wrapped) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.spinner.View() + eventStyle.Render(" Die Würfel fallen..."))
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func writeMetadata(g *engine.Game) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("CHARAKTER") + "\n\n")

	if g == nil || g.Player == nil || g.Player.Spec == nil {
		content.WriteString("Kein Spielstand.\n")
		return content.String()
	}
	p := g.Player.Spec

	content.WriteString(fmt.Sprintf("%s, Stufe %d\n\n", p.Name, p.Level))
	content.WriteString(fmt.Sprintf("LP: %d/%d\n", p.HP, p.MaxHP))
	content.WriteString(fmt.Sprintf("Angriff: %d\n", p.Attack))
	content.WriteString(fmt.Sprintf("Verteidigung: %d\n", p.Defense))
	content.WriteString(fmt.Sprintf("Gold: %d\n", p.Gold))
	content.WriteString(fmt.Sprintf("EP: %d\n\n", p.XP))
	content.WriteString(fmt.Sprintf("Runde: %d\n", g.Turn))

	if room := g.CurrentRoom(); room != nil {
		content.WriteString(fmt.Sprintf("Raum: %d, %d\n", room.X, room.Y))
	}

	content.WriteString("\nInventar:\n")
	if len(p.Inventory) == 0 {
		content.WriteString("leer\n")
	}
	for _, it := range p.Inventory {
		content.WriteString("• " + it.Name + "\n")
	}
	for slot, it := range p.Equipment {
		if it != nil {
			content.WriteString(fmt.Sprintf("• %s (%s)\n", it.Name, slot))
		}
	}

	content.WriteString("\nBefehle:\n")
	content.WriteString("• Enter: Ausführen\n")
	content.WriteString("• Ctrl+C: Beenden\n")

	return content.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(logWidth - 4)

		m.ready = true
		m.writeLogContent()
		m.metaViewport.SetContent(writeMetadata(m.game))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			m.textarea.Reset()
			m.loading = true
			m.transcript = append(m.transcript, logEntry{kind: "player", text: input})
			m.writeLogContent()

			return m, tea.Batch(m.executeAction(input), m.spinner.Tick)
		}

	case actionResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.transcript = append(m.transcript, logEntry{kind: "error", text: "Fehler: " + msg.err.Error()})
		} else {
			m.applyTurn(msg.response)
		}
		m.writeLogContent()
		m.metaViewport.SetContent(writeMetadata(m.game))
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.writeLogContent()
			return m, cmd
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// applyTurn folds a turn result into the transcript and local state.
func (m *ConsoleUI) applyTurn(resp *handlers.ActionResponse) {
	turn := resp.Turn
	if turn == nil {
		return
	}

	if turn.Narrative != "" {
		m.transcript = append(m.transcript, logEntry{kind: "narrative", text: turn.Narrative})
	}
	for _, ev := range turn.Events {
		m.transcript = append(m.transcript, logEntry{kind: "event", text: ev})
	}

	if resp.Player != nil && m.game != nil && m.game.Player != nil {
		m.game.Player.Spec = resp.Player
	}
	if m.game != nil {
		// Rejected actions do not consume a turn on the server.
		if turn.Result == nil || !turn.Result.Rejected {
			m.game.Turn++
		}
		m.game.State = turn.State
		switch turn.State {
		case engine.StateVictory:
			m.transcript = append(m.transcript, logEntry{kind: "event", text: "Du trittst hinaus ins Licht. Der Lauf ist gewonnen."})
		case engine.StateGameOver:
			m.transcript = append(m.transcript, logEntry{kind: "event", text: "Der Lauf ist zu Ende. Starte die Konsole neu für einen weiteren Versuch."})
		}
	}
}

func (m ConsoleUI) executeAction(action string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendAction(m.client, m.config.APIBaseURL, m.game.ID, action)
		return actionResponseMsg{resp, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y", "j", "J":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Spiel beenden?"))
	content.WriteString("\n\n")
	content.WriteString("Der Spielstand bleibt auf dem Server erhalten.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("J beendet, N spielt weiter"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
