package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodify/internal/formatter"
	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/playlist"
	"github.com/desertthunder/moodify/internal/seeds"
	"github.com/desertthunder/moodify/internal/shared"
	"github.com/desertthunder/moodify/internal/stats"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DashboardView ViewState = iota
	BuilderView
)

type focus int

const (
	focusSearch focus = iota
	focusResults
	focusSelection
	focusSliders
	focusCreate
	focusCount
)

// SliderStep is how much one key press moves a slider.
const SliderStep = 0.1

// Options are the dependencies of a [Model].
type Options struct {
	Loader    *stats.Loader
	Searcher  *seeds.Searcher
	Defaults  seeds.DefaultsSource
	Submitter *playlist.Submitter
	Logger    *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	focus  focus
	width  int
	height int

	loader    *stats.Loader
	searcher  *seeds.Searcher
	defaults  seeds.DefaultsSource
	submitter *playlist.Submitter
	logger    *log.Logger

	panels     <-chan stats.Panel
	loading    bool
	profile    *models.Profile
	trendlines map[int]models.AudioFeatures
	topItems   map[models.Term][]models.TopItem

	input          textinput.Model
	results        list.Model
	resultsVisible bool
	selection      seeds.Selection
	selCursor      int
	targets        models.AudioFeatures
	sliderCursor   int
	button         playlist.Button

	status  string
	warning bool
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Search artists and tracks"
	input.Prompt = "🔍 "
	input.CharLimit = 100

	return &Model{
		ctx:        ctx,
		view:       DashboardView,
		loader:     opts.Loader,
		searcher:   opts.Searcher,
		defaults:   opts.Defaults,
		submitter:  opts.Submitter,
		logger:     opts.Logger,
		trendlines: map[int]models.AudioFeatures{},
		topItems:   map[models.Term][]models.TopItem{},
		input:      input,
		results:    newResultsList(60, 12),
		width:      80,
		height:     24,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts loading the statistics and the default seeds.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	m.panels = m.loader.Stream(m.ctx)
	return tea.Batch(m.waitForPanel(), m.fetchDefaults())
}

// Err is the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(max(msg.Width/2, 20), max(msg.Height-22, 6))
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.err != nil {
			return m, tea.Quit
		}
		switch m.view {
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case BuilderView:
			return m.handleBuilderKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPanelLoaded:
		p := msg.data.(stats.Panel)
		if p.Err != nil {
			if err := m.loader.Resolve(p); err != nil {
				m.err = err
				return m, tea.Quit
			}
			return m, m.waitForPanel()
		}
		m.applyPanel(p)
		return m, m.waitForPanel()

	case MsgStatsDone:
		m.loading = false
		m.panels = nil
		return m, nil

	case MsgDefaultsLoaded:
		d := msg.data.(defaultsLoaded)
		if d.err != nil {
			m.logger.Warn("failed to load default seeds", "err", d.err)
			return m, nil
		}
		seeds.AddDefaults(&m.selection, d.items, m.logger)
		return m, nil

	case MsgSearchDone:
		d := msg.data.(searchDone)
		if errors.Is(d.err, shared.ErrSuperseded) {
			return m, nil
		}
		if d.err != nil {
			m.logger.Error("search failed", "err", d.err)
			return m, nil
		}
		if !m.searcher.Current(d.results.Generation) {
			return m, nil
		}
		m.setResults(d.results)
		return m, nil

	case MsgPlaylistCreated:
		if err, _ := msg.data.(error); err != nil {
			m.button.Reset()
			return m, nil
		}
		m.button.Succeed()
		return m, tea.Tick(playlist.ResetDelay, func(time.Time) tea.Msg { return buttonResetMsg() })

	case MsgButtonReset:
		m.button.Reset()
		m.setStatus("Check your Spotify for Discover Moodify playlist!", false)
		return m, nil
	}
	return m, nil
}

func (m *Model) applyPanel(p stats.Panel) {
	switch p.Kind {
	case stats.ProfilePanel:
		m.profile = p.Profile
	case stats.TrendlinePanel:
		m.trendlines[p.Window] = p.Features
		if targets, ok := p.Targets(); ok {
			m.targets = targets
		}
	case stats.TopItemsPanel:
		if p.ItemKind == models.KindTrack {
			m.topItems[p.Term] = p.Items
		}
	}
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.build), key.Matches(msg, m.keys.next):
		m.view = BuilderView
		m.setFocus(focusSearch)
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) handleBuilderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.back):
		if m.focus == focusSearch && m.input.Value() != "" {
			m.clearSearch()
			return m, nil
		}
		m.view = DashboardView
		m.input.Blur()
		return m, nil
	}

	switch m.focus {
	case focusSearch:
		if msg.Type == tea.KeyDown && m.resultsVisible {
			m.setFocus(focusResults)
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return m, tea.Batch(cmd, m.search(m.input.Value()))
		}
		return m, cmd

	case focusResults:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.enter) {
			if it, ok := m.results.SelectedItem().(seedItem); ok {
				m.selectItem(it.item)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case focusSelection:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.up):
			m.selCursor = max(m.selCursor-1, 0)
		case key.Matches(msg, m.keys.right), key.Matches(msg, m.keys.down):
			m.selCursor = min(m.selCursor+1, max(m.selection.Len()-1, 0))
		case key.Matches(msg, m.keys.remove), key.Matches(msg, m.keys.enter):
			m.deselectAt(m.selCursor)
		}
		return m, nil

	case focusSliders:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.up):
			m.sliderCursor = max(m.sliderCursor-1, 0)
		case key.Matches(msg, m.keys.down):
			m.sliderCursor = min(m.sliderCursor+1, len(models.FeatureNames)-1)
		case key.Matches(msg, m.keys.left):
			m.adjustSlider(-SliderStep)
		case key.Matches(msg, m.keys.right):
			m.adjustSlider(SliderStep)
		}
		return m, nil

	case focusCreate:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			return m, m.createPlaylist()
		}
	}
	return m, nil
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusSearch {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) setStatus(s string, warning bool) {
	m.status = s
	m.warning = warning
}

// search issues a query. Blank queries clear the results without a remote call.
func (m *Model) search(query string) tea.Cmd {
	req := m.searcher.Begin(m.ctx, query)
	if req.Query == "" {
		m.hideResults()
		return nil
	}
	return func() tea.Msg {
		results, err := m.searcher.Run(req)
		return searchDoneMsg(results, err)
	}
}

func (m *Model) setResults(r seeds.Results) {
	if !r.Visible {
		m.hideResults()
		return
	}
	m.resultsVisible = true
	m.results.SetItems(resultItems(r.Artists, r.Tracks))
	m.results.ResetSelected()
}

func (m *Model) hideResults() {
	m.resultsVisible = false
	m.results.SetItems(nil)
}

func (m *Model) clearSearch() {
	m.searcher.Clear()
	m.input.Reset()
	m.hideResults()
}

// selectItem adds item to the selection and clears the search panel either way.
func (m *Model) selectItem(item models.SeedItem) {
	err := m.selection.Select(item)
	m.clearSearch()
	m.setFocus(focusSearch)

	if errors.Is(err, shared.ErrSelectionFull) {
		m.setStatus("You can specify at most five artists and tracks.", true)
		return
	}
	m.setStatus("", false)
}

func (m *Model) deselectAt(i int) {
	items := m.selection.Items()
	if i < 0 || i >= len(items) {
		return
	}
	m.selection.Deselect(items[i])
	m.selCursor = min(m.selCursor, max(m.selection.Len()-1, 0))
}

func (m *Model) adjustSlider(delta float64) {
	f := models.FeatureNames[m.sliderCursor]
	v := math.Round((m.targets.Get(f)+delta)*10) / 10
	_ = m.targets.Set(f, v)
}

func (m *Model) createPlaylist() tea.Cmd {
	if !m.button.Press() {
		return nil
	}

	req, err := playlist.Build(m.selection.Items(), m.targets)
	if err != nil {
		m.button.Reset()
		m.setStatus(sentence(err.Error()), true)
		return nil
	}

	m.setStatus("", false)
	return func() tea.Msg {
		return playlistCreatedMsg(m.submitter.Submit(m.ctx, req, nil))
	}
}

func (m *Model) waitForPanel() tea.Cmd {
	panels := m.panels
	return func() tea.Msg {
		if panels == nil {
			return statsDoneMsg()
		}
		p, ok := <-panels
		if !ok {
			return statsDoneMsg()
		}
		return panelLoadedMsg(p)
	}
}

func (m *Model) fetchDefaults() tea.Cmd {
	if m.defaults == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := m.defaults.DefaultArtists(m.ctx)
		return defaultsLoadedMsg(items, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		msg := fmt.Sprintf("Error: %v", m.err)
		if errors.Is(m.err, shared.ErrAuthorizationExpired) {
			msg += "\n\nYour session has expired. Run `moodify login` to sign in again."
		}
		return styles.err.Render(msg + "\n\nPress any key to quit")
	}

	switch m.view {
	case DashboardView:
		return m.renderDashboard()
	case BuilderView:
		return m.renderBuilder()
	default:
		return ""
	}
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("moodify") + "\n")

	if m.profile != nil {
		b.WriteString(styles.ok.Render("Signed in as "+m.profile.Name) + "\n\n")
	} else if m.loading {
		b.WriteString(styles.help.Render("Loading your listening stats…") + "\n\n")
	}

	var charts []string
	for _, window := range []int{stats.LongWindow, stats.RecentWindow} {
		if f, ok := m.trendlines[window]; ok {
			charts = append(charts, styles.panel.Render(formatter.FormatTrendline(fmt.Sprintf("Last %d tracks", window), f)))
		}
	}
	if len(charts) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, charts...) + "\n")
	}

	var tops []string
	for _, term := range models.Terms {
		if items, ok := m.topItems[term]; ok {
			tops = append(tops, styles.panel.Render(renderTopItems(term, items)))
		}
	}
	if len(tops) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tops...) + "\n")
	}

	helpKeys := []key.Binding{m.keys.build, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func renderTopItems(term models.Term, items []models.TopItem) string {
	var b strings.Builder
	b.WriteString(styles.ok.Render(formatter.TermTitle(term)) + "\n")
	if len(items) == 0 {
		b.WriteString(styles.help.Render("(none)"))
		return b.String()
	}
	for i, it := range items {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, it.Name))
		if names := it.ArtistNames(); names != "" {
			b.WriteString("   " + styles.help.Render(names) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) heading(f focus, title string) string {
	if m.focus == f {
		return styles.focused.Render(title)
	}
	return styles.ok.Render(title)
}

func (m *Model) renderBuilder() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Create a Discover Moodify playlist") + "\n")

	b.WriteString(m.input.View() + "\n")
	if m.resultsVisible {
		if len(m.results.Items()) == 0 {
			b.WriteString(styles.help.Render("No results") + "\n")
		} else {
			b.WriteString(m.results.View() + "\n")
		}
	}

	b.WriteString("\n" + m.heading(focusSelection, fmt.Sprintf("Seeds (%d/%d)", m.selection.Len(), seeds.MaxSeeds)) + "\n")
	b.WriteString(m.renderSelection() + "\n")

	b.WriteString("\n" + m.heading(focusSliders, "Targets") + "\n")
	b.WriteString(m.renderSliders() + "\n")

	button := styles.button.Render(m.button.Label())
	if m.focus == focusCreate {
		button = "▶ " + button
	} else {
		button = "  " + button
	}
	b.WriteString("\n" + button + "\n")

	if m.status != "" {
		style := styles.ok
		if m.warning {
			style = styles.warn
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.enter, m.keys.remove, m.keys.left, m.keys.right, m.keys.back}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderSelection() string {
	items := m.selection.Items()
	if len(items) == 0 {
		return styles.help.Render("Search and select up to five artists or tracks")
	}

	chips := make([]string, len(items))
	for i, it := range items {
		label := it.Name
		if m.focus == focusSelection && i == m.selCursor {
			label = styles.focused.Render(label + " ✕")
		}
		chips[i] = styles.chip.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m *Model) renderSliders() string {
	width := 0
	for _, f := range models.FeatureNames {
		width = max(width, len(f.Title()))
	}

	var b strings.Builder
	for i, f := range models.FeatureNames {
		v := m.targets.Get(f)
		cells := int(math.Round(v * 10))
		bar := strings.Repeat("━", cells) + "●" + strings.Repeat("─", 10-cells)
		line := fmt.Sprintf("%-*s %s %s", width, f.Title(), bar, models.SliderValue(v))
		if m.focus == focusSliders && i == m.sliderCursor {
			line = styles.focused.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// sentence capitalizes an error message for display.
func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
