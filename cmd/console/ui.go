package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/voidecho/engine/internal/handlers"
	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

const PlaceHolderText = "What do you do?"

// endScreenDelay is how long the epilogue stays on screen before the end
// menu appears, so the last line is actually read.
const endScreenDelay = 3 * time.Second

// creationStep walks the character-creation wizard.
type creationStep int

const (
	stepLoading creationStep = iota
	stepArchetype
	stepVow
	stepDifficulty
	stepCreating
	stepDone
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	client     *apiClient
	playerName string
	playerBio  string

	gameState     *state.GameState
	storyViewport viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Character creation wizard state
	step       creationStep
	archetypes []actor.Archetype
	vows       []actor.Vow
	echoes     []string
	selected   int
	archetype  string
	vow        string
	difficulty world.Difficulty

	// Chapter break state
	showActModal bool

	// End-of-run state
	outcome    string
	brokenRule string
	showEnd    bool

	// Quit confirmation state
	showQuitModal bool

	// Transient status line (clipboard, save)
	status string

	progressTick int
}

type optionsLoadedMsg struct {
	archetypes []actor.Archetype
	vows       []actor.Vow
	echoes     []string
	err        error
}

type gameCreatedMsg struct {
	gameState *state.GameState
	err       error
}

type turnMsg struct {
	response *handlers.TurnResponse
	err      error
}

type actResumedMsg struct {
	gameState *state.GameState
	err       error
}

type savedMsg struct{ err error }

type restartedMsg struct{ err error }

type endMenuMsg struct{}

type progressTickMsg struct{}

var (
	storyPanelStyle = lipgloss.NewStyle().
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
			Foreground(lipgloss.Color("160")). // blood red
			Bold(true)

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // pale grey

	hallucinationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("97")). // washed purple
				Italic(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // amber

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("88")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("160")).
				Bold(true)
)

func NewConsoleUI(client *apiClient, playerName, playerBio string) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		client:        client,
		playerName:    playerName,
		playerBio:     playerBio,
		textarea:      ta,
		storyViewport: storyVp,
		metaViewport:  metaVp,
		step:          stepLoading,
		difficulty:    world.DifficultyNormal,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadOptions()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.step != stepDone {
		return m.updateCreation(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showEnd {
		return m.updateEndModal(msg)
	}
	if m.showActModal {
		return m.updateActModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyViewport, vpCmd = m.storyViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if m.gameState != nil && m.gameState.Scene != nil {
				if err := clipboard.WriteAll(m.gameState.Scene.Description); err == nil {
					m.status = "Scene copied to clipboard"
				} else {
					m.status = "Clipboard unavailable"
				}
				m.writeStoryContent()
			}
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
			m.status = ""
			m.progressTick = 0
			m.writeStoryContent()
			return m, tea.Batch(m.sendAction(input), progressTick())
		}

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeStoryContent()
			return m, nil
		}
		m.err = nil
		if msg.response.GameState != nil {
			m.gameState = msg.response.GameState
			m.metaViewport.SetContent(writeMetadata(m.gameState))
		}
		if msg.response.LocalAnswer != "" {
			m.status = ""
			m.writeStoryContent()
			extra := "\n" + eventStyle.Render(msg.response.LocalAnswer) + "\n"
			m.storyViewport.SetContent(m.storyContent() + extra)
			m.storyViewport.GotoBottom()
			return m, nil
		}
		m.writeStoryContent()
		switch msg.response.Outcome {
		case "act_transition":
			m.showActModal = true
		case "defeat", "victory":
			m.outcome = msg.response.Outcome
			m.brokenRule = msg.response.BrokenRule
			return m, endMenuAfterDelay()
		}
		return m, nil

	case actResumedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.gameState = msg.gameState
			m.showActModal = false
			m.metaViewport.SetContent(writeMetadata(m.gameState))
		}
		m.writeStoryContent()
		return m, textarea.Blink

	case savedMsg:
		if msg.err != nil {
			m.status = "Save failed: " + msg.err.Error()
			m.writeStoryContent()
			return m, nil
		}
		return m, tea.Quit

	case endMenuMsg:
		m.showEnd = true
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeStoryContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize(w, h int) {
	m.width = w
	m.height = h
	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6

	m.storyViewport.Width = storyWidth - 2
	m.storyViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(storyWidth - 4)

	m.ready = true
	m.writeStoryContent()
	if m.gameState != nil {
		m.metaViewport.SetContent(writeMetadata(m.gameState))
	}
}

// storyContent renders the story history for the current viewport width.
func (m *ConsoleUI) storyContent() string {
	storyWidth := m.storyViewport.Width - 6
	if storyWidth < 20 {
		storyWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("VOID ECHO") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", storyWidth)) + "\n\n")

	if m.gameState == nil {
		return content.String()
	}

	for _, entry := range m.gameState.StoryHistory {
		if strings.HasPrefix(entry, "> ") {
			content.WriteString(userStyle.Render(wordwrap.String(entry, storyWidth)) + "\n\n")
		} else {
			content.WriteString(sceneStyle.Render(wordwrap.String(entry, storyWidth)) + "\n\n")
		}
	}

	if m.gameState.Scene != nil && !m.loading {
		if m.gameState.Scene.Hallucination != "" {
			content.WriteString(hallucinationStyle.Render(wordwrap.String(m.gameState.Scene.Hallucination, storyWidth)) + "\n\n")
		}
		for i, choice := range m.gameState.Scene.Choices {
			content.WriteString(promptStyle.Render(fmt.Sprintf("%d. %s", i+1, choice)) + "\n")
		}
	}

	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
		content.WriteString(errorStyle.Render("Your action was not lost. Try it again.") + "\n")
	}
	if m.status != "" {
		content.WriteString("\n" + promptStyle.Render(m.status) + "\n")
	}
	if m.loading {
		content.WriteString("\n" + m.renderProgressBar() + "\n")
	}
	return content.String()
}

func (m *ConsoleUI) writeStoryContent() {
	m.storyViewport.SetContent(m.storyContent())
	m.storyViewport.GotoBottom()
}

func writeMetadata(gs *state.GameState) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(gs.PlayerName) + "\n\n")

	content.WriteString(fmt.Sprintf("Turn %d · %s\n\n", gs.TurnCount, gs.Difficulty))

	content.WriteString("Stamina: " + statBar(gs.Stats.Stamina) + "\n")
	content.WriteString("Stealth: " + statBar(gs.Stats.Stealth) + "\n")
	pollution := fmt.Sprintf("Pollution: %d/%d", gs.Stats.MentalPollution, actor.MaxMentalPollution)
	if gs.Stats.MentalPollution >= 70 {
		content.WriteString(errorStyle.Render(pollution) + "\n\n")
	} else {
		content.WriteString(pollution + "\n\n")
	}

	content.WriteString("Quest:\n")
	content.WriteString(gs.MainQuest + "\n\n")

	content.WriteString(fmt.Sprintf("Rules known: %d\n", len(gs.KnownRules)))
	content.WriteString(fmt.Sprintf("Items: %d\n", len(gs.Inventory)))
	content.WriteString(fmt.Sprintf("Clues: %d\n\n", len(gs.KnownClues)))

	if len(gs.Survivors) > 0 {
		content.WriteString("Survivors:\n")
		for _, s := range gs.Survivors {
			line := fmt.Sprintf("• %s (%s)", s.Name, s.Status)
			if s.Status == actor.SurvivorDead {
				content.WriteString(promptStyle.Render(line) + "\n")
			} else {
				content.WriteString(line + "\n")
			}
		}
		content.WriteString("\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• rules / i / q / s\n")
	content.WriteString("• Ctrl+Y: Copy scene\n")
	content.WriteString("• Ctrl+C: Quit\n")
	return content.String()
}

func statBar(v int) string {
	if v < 0 {
		v = 0
	}
	filled := v
	if filled > 20 {
		filled = 20
	}
	return strings.Repeat("▮", filled) + fmt.Sprintf(" %d", v)
}

func (m ConsoleUI) updateCreation(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case optionsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.archetypes = msg.archetypes
		m.vows = msg.vows
		m.echoes = msg.echoes
		m.step = stepArchetype

	case gameCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = stepDifficulty
			return m, nil
		}
		m.gameState = msg.gameState
		m.step = stepDone
		if m.width > 0 && m.height > 0 {
			m.resize(m.width, m.height)
		}
		m.metaViewport.SetContent(writeMetadata(m.gameState))
		m.textarea.Focus()
		return m, textarea.Blink

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.selected > 0 {
				m.selected--
			}
		case tea.KeyDown:
			if m.selected < m.optionCount()-1 {
				m.selected++
			}
		case tea.KeyEnter:
			return m.advanceCreation()
		}
	}
	return m, nil
}

func (m ConsoleUI) optionCount() int {
	switch m.step {
	case stepArchetype:
		return len(m.archetypes)
	case stepVow:
		return len(m.vows)
	case stepDifficulty:
		return 3
	}
	return 0
}

func (m ConsoleUI) advanceCreation() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepArchetype:
		if len(m.archetypes) == 0 {
			return m, nil
		}
		m.archetype = m.archetypes[m.selected].Name
		m.selected = 0
		m.step = stepVow
	case stepVow:
		if len(m.vows) == 0 {
			return m, nil
		}
		m.vow = m.vows[m.selected].Vow
		m.selected = 1 // default to normal
		m.step = stepDifficulty
	case stepDifficulty:
		m.difficulty = []world.Difficulty{
			world.DifficultyEasy, world.DifficultyNormal, world.DifficultyHard,
		}[m.selected]
		m.step = stepCreating
		m.err = nil
		return m, m.createGame()
	}
	return m, nil
}

func (m ConsoleUI) updateActModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case actResumedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.gameState = msg.gameState
		m.showActModal = false
		m.metaViewport.SetContent(writeMetadata(m.gameState))
		m.writeStoryContent()
		m.textarea.Focus()
		return m, textarea.Blink
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if !m.loading {
				m.loading = true
				return m, m.resumeAct()
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) updateEndModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case restartedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q":
			return m, tea.Quit
		case "r", "R", "enter":
			return m, m.restartGame()
		}
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case savedMsg:
		if msg.err != nil {
			m.status = "Save failed: " + msg.err.Error()
			m.showQuitModal = false
			m.writeStoryContent()
			return m, nil
		}
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			return m, m.saveGame()
		case "y", "Y":
			return m, tea.Quit
		case "n", "N":
			m.showQuitModal = false
			m.textarea.Focus()
			return m, textarea.Blink
		}
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConsoleUI) loadOptions() tea.Cmd {
	return func() tea.Msg {
		opts, err := m.client.fetchArchetypes()
		if err != nil {
			return optionsLoadedMsg{err: err}
		}
		echoes, err := m.client.fetchEchoes()
		if err != nil {
			echoes = nil
		}
		return optionsLoadedMsg{archetypes: opts.Archetypes, vows: opts.Vows, echoes: echoes}
	}
}

func (m ConsoleUI) createGame() tea.Cmd {
	return func() tea.Msg {
		gs, err := m.client.createGame(handlers.CreateGameRequest{
			PlayerName: m.playerName,
			PlayerBio:  m.playerBio,
			Archetype:  m.archetype,
			Vow:        m.vow,
			Difficulty: m.difficulty,
		})
		return gameCreatedMsg{gs, err}
	}
}

func (m ConsoleUI) sendAction(action string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.sendAction(m.gameState.ID, action)
		return turnMsg{resp, err}
	}
}

func (m ConsoleUI) resumeAct() tea.Cmd {
	return func() tea.Msg {
		gs, err := m.client.resumeAct(m.gameState.ID)
		return actResumedMsg{gs, err}
	}
}

func (m ConsoleUI) saveGame() tea.Cmd {
	return func() tea.Msg {
		return savedMsg{m.client.saveGame(m.gameState.ID)}
	}
}

func (m ConsoleUI) restartGame() tea.Cmd {
	return func() tea.Msg {
		return restartedMsg{m.client.restart(m.gameState.ID)}
	}
}

func endMenuAfterDelay() tea.Cmd {
	return tea.Tick(endScreenDelay, func(time.Time) tea.Msg {
		return endMenuMsg{}
	})
}

func (m ConsoleUI) View() string {
	if m.step != stepDone {
		return m.renderCreation()
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showEnd {
		return m.renderEndModal()
	}
	if m.showActModal {
		return m.renderActModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", storyWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

func (m ConsoleUI) renderCreation() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	switch m.step {
	case stepLoading:
		content.WriteString(modalTitleStyle.Render("VOID ECHO"))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Reaching into the dark..."))

	case stepArchetype:
		content.WriteString(modalTitleStyle.Render("Who were you, before?"))
		content.WriteString("\n\n")
		for i, a := range m.archetypes {
			label := fmt.Sprintf("%s  (STA %d · STL %d)", a.Name, a.Stats.Stamina, a.Stats.Stealth)
			content.WriteString(m.renderOption(i, label))
		}
		content.WriteString("\n" + promptStyle.Render("Use ↑/↓ to choose, Enter to confirm"))

	case stepVow:
		content.WriteString(modalTitleStyle.Render("What do you swear?"))
		content.WriteString("\n\n")
		for i, v := range m.vows {
			content.WriteString(m.renderOption(i, v.Vow))
		}
		content.WriteString("\n" + promptStyle.Render("Use ↑/↓ to choose, Enter to confirm"))

	case stepDifficulty:
		content.WriteString(modalTitleStyle.Render("How deep do you go?"))
		content.WriteString("\n\n")
		for i, d := range []string{"easy", "normal", "hard"} {
			content.WriteString(m.renderOption(i, d))
		}
		if len(m.echoes) > 0 {
			content.WriteString("\n" + hallucinationStyle.Render("Echoes of other runs:") + "\n")
			for _, e := range m.echoes {
				content.WriteString(hallucinationStyle.Render("  "+e) + "\n")
			}
		}
		if m.err != nil {
			content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
		}
		content.WriteString("\n" + promptStyle.Render("Use ↑/↓ to choose, Enter to begin"))

	case stepCreating:
		content.WriteString(modalTitleStyle.Render("The nightmare takes shape..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("This can take a little while."))
	}

	modal := modalStyle.Width(64).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderOption(i int, label string) string {
	if i == m.selected {
		return modalSelectedItemStyle.Render("▶ "+label) + "\n"
	}
	return modalItemStyle.Render("  "+label) + "\n"
}

func (m ConsoleUI) renderActModal() string {
	var content strings.Builder
	title := "A chapter closes"
	narrative := ""
	if m.gameState != nil && m.gameState.PendingAct != nil {
		if m.gameState.PendingAct.Title != "" {
			title = m.gameState.PendingAct.Title
		}
		narrative = m.gameState.PendingAct.Narrative
	}
	content.WriteString(modalTitleStyle.Render(title))
	content.WriteString("\n\n")
	if narrative != "" {
		content.WriteString(sceneStyle.Render(wordwrap.String(narrative, 56)))
		content.WriteString("\n\n")
	}
	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	if m.loading {
		content.WriteString(loadingStyle.Render("Turning the page..."))
	} else {
		content.WriteString(promptStyle.Render("Press Enter to continue"))
	}

	modal := modalStyle.Width(64).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderEndModal() string {
	var content strings.Builder
	if m.outcome == "victory" {
		content.WriteString(modalTitleStyle.Render("YOU SURVIVED"))
		content.WriteString("\n\n")
		content.WriteString(sceneStyle.Render("The nightmare releases you. For now."))
	} else {
		content.WriteString(modalTitleStyle.Render("YOU ARE GONE"))
		content.WriteString("\n\n")
		if m.brokenRule != "" {
			content.WriteString(errorStyle.Render("Broken rule: "+m.brokenRule) + "\n\n")
			content.WriteString(hallucinationStyle.Render("The next dreamer will hear it as an echo."))
		} else {
			content.WriteString(sceneStyle.Render("The dark keeps what it takes."))
		}
	}
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press R to end this run, Q to just quit"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the nightmare?"))
	content.WriteString("\n\n")
	content.WriteString("Your run is not saved automatically.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press S to save and quit, Y to quit without saving, N to stay"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.storyViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
