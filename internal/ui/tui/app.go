package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ChristoGH/url-miner/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenFeeds
	screenRuns
	screenArticles
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type feedItem struct {
	ref domain.FeedRef
	rel string
}

func (i feedItem) Title() string       { return i.ref.Name }
func (i feedItem) Description() string { return i.rel }
func (i feedItem) FilterValue() string { return i.ref.Name }

type runItem struct {
	summary domain.RunSummary
}

func (i runItem) Title() string { return i.summary.RunID }

func (i runItem) Description() string {
	desc := fmt.Sprintf("%s • kept %d/%d",
		i.summary.SavedAt.Local().Format("2006-01-02 15:04"), i.summary.Kept, i.summary.TotalResults)
	if i.summary.FeedName != "" {
		desc = i.summary.FeedName + " • " + desc
	}
	if i.summary.ErrorKind != "" {
		desc += " • error " + i.summary.ErrorKind
	}
	return desc
}

func (i runItem) FilterValue() string { return i.summary.FeedName + " " + i.summary.RunID }

type articleItem struct {
	article domain.Article
}

func (i articleItem) Title() string {
	t := i.article.Title
	if t == "" {
		t = "(untitled)"
	}
	return clampString(t, 80)
}

func (i articleItem) Description() string {
	if i.article.Source.Name != "" {
		return i.article.Source.Name + " • " + clampString(i.article.URL, 60)
	}
	return clampString(i.article.URL, 70)
}

func (i articleItem) FilterValue() string { return i.article.Title + " " + i.article.Source.Name }

type model struct {
	theme Theme
	deps  Deps

	scr screen

	menu     list.Model
	feeds    list.Model
	runs     list.Model
	articles list.Model

	detail     viewport.Model
	detailOpen bool

	spin        spinner.Model
	running     bool
	fetchCh     chan fetchDoneMsg
	fetchTarget string

	toast string

	workspaceFound bool
	workspaceRoot  string

	activeRun domain.FetchArtifact
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return l
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{"Feeds", "Pick a feed and fetch fresh articles"},
		menuItem{"Runs", "Browse saved fetch runs"},
		menuItem{"Init workspace", "Scaffold config, a starter feed and .env.example here"},
		menuItem{"Quit", "Exit url-miner"},
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "url-miner"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(true)
	menu.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		theme:    t,
		deps:     deps,
		scr:      screenHome,
		menu:     menu,
		feeds:    newList("Feeds"),
		runs:     newList("Runs"),
		articles: newList("Articles"),
		spin:     sp,
	}

	wd, err := os.Getwd()
	if err == nil && deps.WorkspaceLocator != nil {
		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr == nil {
			m.workspaceFound = true
			m.workspaceRoot = root
		}
	}

	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width-4, msg.Height-10
		m.menu.SetSize(w, h)
		m.feeds.SetSize(w, h)
		m.runs.SetSize(w, h)
		m.articles.SetSize(w, h)
		m.detail.Width = w
		m.detail.Height = h
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace created at " + msg.root
		return m, cmdRefreshWorkspace(m.deps)

	case feedsLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			rel, relErr := filepath.Rel(msg.root, r.Path)
			if relErr != nil {
				rel = r.Path
			}
			items = append(items, feedItem{ref: r, rel: rel})
		}
		m.feeds.SetItems(items)
		m.scr = screenFeeds
		return m, nil

	case runsLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.summaries))
		for _, s := range msg.summaries {
			items = append(items, runItem{summary: s})
		}
		m.runs.SetItems(items)
		m.scr = screenRuns
		return m, nil

	case runLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m = m.withActiveRun(msg.run)
		m.scr = screenArticles
		return m, nil

	case fetchDoneMsg:
		m.running = false
		m.fetchCh = nil
		m.fetchTarget = ""
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m = m.withActiveRun(msg.run)
		m.scr = screenArticles
		if msg.run.Error != nil {
			m.toast = fetchErrorMessage(msg.run.Error)
		} else {
			m.toast = fmt.Sprintf("Run %s: kept %d article(s)", shortID(msg.run.RunID), msg.run.Stats.Kept)
		}
		return m, nil
	}

	return m.updateActive(msg)
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter prompt is open, every key belongs to the list.
	if m.filtering() {
		return m.updateActive(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		if m.detailOpen {
			m.detailOpen = false
			return m, nil
		}
		if m.scr == screenHome {
			return m, tea.Quit
		}
		m.scr = screenHome
		return m, nil

	case "esc", "b":
		if m.detailOpen {
			m.detailOpen = false
			return m, nil
		}
		if m.scr != screenHome {
			m.scr = screenHome
			return m, nil
		}

	case "enter":
		return m.handleEnter()

	case "s":
		if m.scr == screenArticles && !m.detailOpen {
			m.detail.SetContent(renderRunSummary(m.activeRun))
			m.detail.GotoTop()
			m.detailOpen = true
			return m, nil
		}
	}

	return m.updateActive(msg)
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.scr {
	case screenHome:
		it, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		switch {
		case strings.EqualFold(it.title, "Quit"):
			return m, tea.Quit

		case strings.EqualFold(it.title, "Init workspace"):
			wd, err := os.Getwd()
			if err != nil {
				m.toast = userMessage(err)
				return m, nil
			}
			return m, cmdInitWorkspaceHere(m.deps, wd)

		case strings.EqualFold(it.title, "Feeds"):
			if !m.workspaceFound {
				m.toast = "No workspace found; init one first"
				return m, nil
			}
			return m, cmdLoadFeeds(m.workspaceRoot)

		case strings.EqualFold(it.title, "Runs"):
			if !m.workspaceFound {
				m.toast = "No workspace found; init one first"
				return m, nil
			}
			return m, cmdLoadRuns(m.workspaceRoot)
		}
		return m, nil

	case screenFeeds:
		if m.running {
			return m, nil
		}
		it, ok := m.feeds.SelectedItem().(feedItem)
		if !ok {
			return m, nil
		}
		m.running = true
		m.fetchTarget = it.ref.Name
		m.toast = ""
		ch, listen := startFetchAsync(m.workspaceRoot, it.ref.Path, m.deps.Logger, m.deps.Debug)
		m.fetchCh = ch
		return m, tea.Batch(listen, m.spin.Tick)

	case screenRuns:
		it, ok := m.runs.SelectedItem().(runItem)
		if !ok {
			return m, nil
		}
		return m, cmdLoadRun(m.workspaceRoot, it.summary.RunID)

	case screenArticles:
		if m.detailOpen {
			return m, nil
		}
		it, ok := m.articles.SelectedItem().(articleItem)
		if !ok {
			return m, nil
		}
		m.detail.SetContent(renderArticleDetails(it.article))
		m.detail.GotoTop()
		m.detailOpen = true
		return m, nil
	}

	return m, nil
}

func (m model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.detailOpen {
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenFeeds:
		m.feeds, cmd = m.feeds.Update(msg)
	case screenRuns:
		m.runs, cmd = m.runs.Update(msg)
	case screenArticles:
		m.articles, cmd = m.articles.Update(msg)
	}
	return m, cmd
}

func (m model) filtering() bool {
	switch m.scr {
	case screenHome:
		return m.menu.FilterState() == list.Filtering
	case screenFeeds:
		return m.feeds.FilterState() == list.Filtering
	case screenRuns:
		return m.runs.FilterState() == list.Filtering
	case screenArticles:
		return m.articles.FilterState() == list.Filtering
	}
	return false
}

func (m model) withActiveRun(run domain.FetchArtifact) model {
	m.activeRun = run
	m.detailOpen = false

	items := make([]list.Item, 0, len(run.Articles))
	for _, a := range run.Articles {
		items = append(items, articleItem{article: a})
	}
	m.articles.SetItems(items)
	m.articles.ResetSelected()
	m.articles.Title = articlesTitle(run)
	return m
}

func articlesTitle(run domain.FetchArtifact) string {
	if run.FeedName == "" {
		return "Articles"
	}
	return fmt.Sprintf("Articles • %s (%d kept)", run.FeedName, run.Stats.Kept)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// resetAfterPanic returns the model to a safe screen after a recovered
// panic. An in-flight fetch result is dropped along with its channel.
func (m model) resetAfterPanic() model {
	m.scr = screenHome
	m.detailOpen = false
	m.running = false
	m.fetchCh = nil
	m.fetchTarget = ""
	m.toast = "Unexpected error (see logs)"
	return m
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("url-miner") + "\n" +
		m.theme.Subtitle.Render("keyword news mining: feeds, fetch runs, saved artifacts") + "\n"

	var workspaceBanner string
	if m.workspaceFound {
		workspaceBanner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		workspaceBanner = m.theme.Card.Render(
			"⚠ No workspace found.\n\nChoose \"Init workspace\" to create one here.",
		)
	}

	var body, help string

	switch m.scr {
	case screenHome:
		body = m.theme.Card.Render(m.menu.View())
		help = "↑/↓ navigate • enter open • / search • q quit"

	case screenFeeds:
		if m.running {
			body = m.theme.Card.Render(fmt.Sprintf("%s fetching %s…", m.spin.View(), m.fetchTarget))
			help = "ctrl+c quit"
		} else {
			body = m.theme.Card.Render(m.feeds.View())
			help = "enter fetch • / search • esc back • q home"
		}

	case screenRuns:
		body = m.theme.Card.Render(m.runs.View())
		help = "enter open • / search • esc back • q home"

	case screenArticles:
		if m.detailOpen {
			body = m.theme.Card.Render(m.detail.View())
			help = "↑/↓ scroll • esc close"
		} else {
			body = m.theme.Card.Render(m.articles.View())
			help = "enter details • s run summary • esc back • q home"
		}

	default:
		body = "unknown state"
	}

	out := header + "\n" + workspaceBanner + "\n\n" + body + "\n"
	if m.toast != "" {
		out += m.theme.Toast.Render(m.toast) + "\n"
	}
	out += m.theme.Help.Render(help)

	return wrap.Render(out)
}
