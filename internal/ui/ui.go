package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sift/internal/engine"
	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CardView ViewState = iota
	SettingsView
	HistoryView
)

// HistoryLister reads back persisted swipes for the history view.
// Satisfied by the sqlite-backed swipe repository.
type HistoryLister interface {
	List(criteria map[string]any) ([]*models.SwipeRecord, error)
}

// Model represents the TUI application state.
//
// All swipe semantics live in [engine.Session]; the model translates key
// presses into pointer samples and runs the session's async intents as
// bubbletea commands.
type Model struct {
	ctx     context.Context
	view    ViewState
	session *engine.Session
	store   *engine.PreferenceStore
	history HistoryLister

	width  int
	height int

	// drag accumulates the simulated horizontal displacement of the held
	// card, in the same unit as cardWidth
	drag float64

	historyList list.Model
	spin        spinner.Model
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, session *engine.Session, store *engine.PreferenceStore, history HistoryLister) *Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.ok

	return &Model{
		ctx:     ctx,
		view:    CardView,
		session: session,
		store:   store,
		history: history,
		spin:    spin,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init mounts the session and kicks off the initial queue fill.
func (m *Model) Init() tea.Cmd {
	if req := m.session.Mount(m.ctx); req != nil {
		return tea.Batch(m.fetchRefill(req), m.spin.Tick)
	}
	return m.spin.Tick
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.historyList.Width() != 0 {
			m.historyList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CardView:
			return m.handleCardKeys(msg)
		case SettingsView:
			return m.handleSettingsKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case refillMsg:
		m.session.CompleteRefill(msg.tracks, msg.err)
		return m, nil

	case commitDoneMsg:
		if req := m.session.FinishCommit(); req != nil {
			return m, m.fetchRefill(req)
		}
		return m, nil

	case resetDoneMsg:
		m.session.FinishReset()
		return m, nil

	case feedbackSentMsg:
		return m, nil

	case historyFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = CardView
			return m, nil
		}
		items := make([]list.Item, len(msg.records))
		for i, record := range msg.records {
			items[i] = swipeItem{record: record}
		}
		m.historyList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.historyList.Title = "Swipe History"
		m.historyList.SetSize(m.width-4, m.height-8)
		m.view = HistoryView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CardView:
		return m.renderCard()
	case SettingsView:
		return m.renderSettings()
	case HistoryView:
		return m.renderHistory()
	default:
		return ""
	}
}

func (m *Model) handleCardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.session.Dispose()
		return m, tea.Quit

	case key.Matches(msg, m.keys.settings):
		return m, m.openSettings()

	case key.Matches(msg, m.keys.history):
		return m, m.fetchHistory()

	case key.Matches(msg, m.keys.dragLeft):
		m.drag -= m.dragStep()
		m.session.HandleSample(engine.PointerSample{DX: m.drag}, m.cardWidth())
		return m, nil

	case key.Matches(msg, m.keys.dragRight):
		m.drag += m.dragStep()
		m.session.HandleSample(engine.PointerSample{DX: m.drag}, m.cardWidth())
		return m, nil

	case key.Matches(msg, m.keys.release):
		commit := m.session.HandleRelease(engine.PointerSample{DX: m.drag}, m.cardWidth())
		m.drag = 0
		if commit != nil {
			return m, m.resolveCommit(commit)
		}
		if m.session.Phase() == engine.PhaseResetting {
			return m, m.scheduleReset()
		}
		return m, nil

	case key.Matches(msg, m.keys.cancel):
		m.session.HandleRelease(engine.PointerSample{}, m.cardWidth())
		m.drag = 0
		if m.session.Phase() == engine.PhaseResetting {
			return m, m.scheduleReset()
		}
		return m, nil

	case key.Matches(msg, m.keys.love):
		m.drag = 0
		return m, m.resolveCommit(m.session.HandleCommit(models.SwipeRight))

	case key.Matches(msg, m.keys.pass):
		m.drag = 0
		return m, m.resolveCommit(m.session.HandleCommit(models.SwipeLeft))
	}

	return m, nil
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	settings := m.store.Settings()

	switch msg.String() {
	case "q", "ctrl+c":
		m.session.Dispose()
		return m, tea.Quit
	case "esc":
		m.view = CardView
		return m, nil
	case "a":
		settings.AdaptiveLearning = !settings.AdaptiveLearning
	case "x":
		settings.HapticFeedback = !settings.HapticFeedback
	case "+", "=":
		settings.ExplorationFactor = clamp01(settings.ExplorationFactor + 0.1)
	case "-":
		settings.ExplorationFactor = clamp01(settings.ExplorationFactor - 0.1)
	case "D":
		settings.DiversityBoost = clamp01(settings.DiversityBoost + 0.1)
	case "d":
		settings.DiversityBoost = clamp01(settings.DiversityBoost - 0.1)
	default:
		return m, nil
	}

	m.store.SetSettings(m.ctx, settings)
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.session.Dispose()
		return m, tea.Quit
	case "esc":
		m.view = CardView
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) openSettings() tea.Cmd {
	m.view = SettingsView
	return nil
}

// resolveCommit dispatches the feedback intent and schedules the end of the
// exit animation. Feedback goes out before the queue advances.
func (m *Model) resolveCommit(commit *engine.Commit) tea.Cmd {
	if commit == nil {
		return nil
	}

	feedback := func() tea.Msg {
		m.session.SubmitFeedback(m.ctx, commit)
		return feedbackSentMsg{commit: commit}
	}

	done := tea.Tick(commit.Duration, func(time.Time) tea.Msg {
		return commitDoneMsg{trackID: commit.Track.ID}
	})

	return tea.Batch(feedback, done)
}

func (m *Model) scheduleReset() tea.Cmd {
	return tea.Tick(engine.DefaultExitDuration, func(time.Time) tea.Msg {
		return resetDoneMsg{}
	})
}

func (m *Model) fetchRefill(req *engine.RefillRequest) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.session.FetchRefill(m.session.Context(), req)
		return refillMsg{tracks: tracks, err: err}
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	return func() tea.Msg {
		records, err := m.history.List(map[string]any{})
		return historyFetchedMsg{records: records, err: err}
	}
}

// cardWidth is the virtual card width the gesture math runs against.
func (m *Model) cardWidth() float64 {
	if m.width > 40 {
		return float64(m.width)
	}
	return 80
}

// dragStep moves the card 6% of its width per key press, so roughly four
// presses cross the commit threshold.
func (m *Model) dragStep() float64 {
	return m.cardWidth() * 0.06
}

func (m *Model) renderCard() string {
	frame := m.session.Frame()

	header := styles.title.Render("sift")

	if frame.Loading {
		body := m.spin.View() + styles.help.Render("Finding tracks for you...")
		return fmt.Sprintf("%s\n\n%s", header, body)
	}

	if frame.Empty {
		body := styles.warn.Render("Nothing left to sift.") + "\n" +
			styles.help.Render("The service had no more recommendations. Press q to quit.")
		return fmt.Sprintf("%s\n\n%s", header, body)
	}

	track := frame.Track
	content := fmt.Sprintf("%s\n%s", styles.ok.Render(track.Title), track.Artist)
	if track.Album != "" {
		content += fmt.Sprintf("\n%s", styles.help.Render(track.Album))
	}
	if track.Duration > 0 {
		content += fmt.Sprintf("\n%s", styles.help.Render(shared.FormatDuration(track.Duration)))
	}

	card := styles.card.Render(content)

	// Horizontal offset and a tilt marker stand in for the translate and
	// rotate transforms of a pointer surface
	offset := int(frame.Transform.TranslateX / 8)
	tilt := ""
	if frame.Transform.Rotation > 1 {
		tilt = " ↻"
	} else if frame.Transform.Rotation < -1 {
		tilt = " ↺"
	}

	pad := m.width/2 - 12 + offset
	if pad < 0 {
		pad = 0
	}
	card = strings.ReplaceAll(card, "\n", "\n"+strings.Repeat(" ", pad))
	card = strings.Repeat(" ", pad) + card

	var verdict string
	switch engine.Classify(engine.PointerSample{DX: frame.Transform.TranslateX}, m.cardWidth()) {
	case engine.OutcomeCommittedRight:
		verdict = styles.ok.Render("LOVE IT")
	case engine.OutcomeCommittedLeft:
		verdict = styles.err.Render("PASS")
	}

	footer := styles.help.Render(fmt.Sprintf("%d queued", frame.QueueLen))
	if frame.Refilling {
		footer += styles.help.Render(" • refilling")
	}

	helpKeys := []key.Binding{m.keys.love, m.keys.pass, m.keys.release, m.keys.settings, m.keys.history, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s\n\n%s\n%s", header, card, tilt, verdict, footer, helpView)
}

func (m *Model) renderSettings() string {
	settings := m.store.Settings()
	vector := m.store.Vector()

	title := styles.title.Render("Settings")

	onOff := func(v bool) string {
		if v {
			return styles.ok.Render("on")
		}
		return styles.help.Render("off")
	}

	body := fmt.Sprintf(
		"(a) adaptive learning: %s\n(x) haptic feedback: %s\n(+/-) exploration: %.1f\n(D/d) diversity boost: %.1f",
		onOff(settings.AdaptiveLearning),
		onOff(settings.HapticFeedback),
		settings.ExplorationFactor,
		settings.DiversityBoost,
	)

	taste := styles.help.Render(fmt.Sprintf(
		"taste: energy %.2f • dance %.2f • valence %.2f • acoustic %.2f",
		vector.Energy, vector.Danceability, vector.Valence, vector.Acousticness,
	))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, body, taste, helpView)
}

func (m *Model) renderHistory() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
