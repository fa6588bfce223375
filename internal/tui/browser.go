package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookfinder/internal/details"
	"github.com/lepinkainen/bookfinder/internal/favorites"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
	"github.com/lepinkainen/bookfinder/internal/search"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

type viewMode int

const (
	viewResults viewMode = iota
	viewFavorites
)

type (
	searchChangedMsg struct{}
	detailChangedMsg struct{}
)

// Deps are the state owners the browser drives.
type Deps struct {
	Search    *search.Machine
	Details   *details.Loader
	Favorites *favorites.Store
	// CoverURL resolves a cover id; defaults to the public covers host.
	CoverURL func(int, openlibrary.CoverSize) string
}

// Browser is the book search terminal UI.
type Browser struct {
	search    *search.Machine
	details   *details.Loader
	favorites *favorites.Store
	coverURL  func(int, openlibrary.CoverSize) string

	input    textinput.Model
	list     list.Model
	spinner  spinner.Model
	viewport viewport.Model

	focus       focusArea
	mode        viewMode
	showDetails bool
	detailBook  openlibrary.Book
	status      string
	width       int
	height      int
}

// NewBrowser creates the browser. The machine's current query fills the input
// and, when it has text, is submitted right away.
func NewBrowser(deps Deps) *Browser {
	initial := deps.Search.Snapshot().Query

	input := textinput.New()
	input.Placeholder = "Search books..."
	input.CharLimit = 200
	input.Width = defaultListWidth - 4
	input.Prompt = "> "
	input.SetValue(initial.Text)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	coverURL := deps.CoverURL
	if coverURL == nil {
		coverURL = openlibrary.CoverURL
	}

	b := &Browser{
		search:    deps.Search,
		details:   deps.Details,
		favorites: deps.Favorites,
		coverURL:  coverURL,
		input:     input,
		list:      newBookList(),
		spinner:   sp,
		viewport:  viewport.New(defaultListWidth, defaultListHeight),
		focus:     focusInput,
	}

	if initial.Text != "" {
		b.search.Submit()
		b.focusList()
	}
	return b
}

// Run starts the browser and blocks until the user quits.
func Run(b *Browser) error {
	_, err := runProgram(b)
	return err
}

func waitFor(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return msg
	}
}

func (b *Browser) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		b.spinner.Tick,
		waitFor(b.search.Changes(), searchChangedMsg{}),
		waitFor(b.details.Changes(), detailChangedMsg{}),
	)
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchChangedMsg:
		b.refreshResults()
		return b, waitFor(b.search.Changes(), searchChangedMsg{})

	case detailChangedMsg:
		b.refreshDetails()
		return b, waitFor(b.details.Changes(), detailChangedMsg{})

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd

	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return b, tea.Quit
		}
		switch {
		case b.showDetails:
			return b.updateDetails(msg)
		case b.focus == focusInput:
			return b.updateInput(msg)
		default:
			return b.updateList(msg)
		}
	}

	if b.focus == focusInput {
		var cmd tea.Cmd
		b.input, cmd = b.input.Update(msg)
		return b, cmd
	}
	return b, nil
}

func (b *Browser) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.status = ""
		b.search.Submit()
		b.focusList()
		return b, nil
	case "tab":
		b.cycleType()
		return b, nil
	case "down", "esc":
		b.focusList()
		return b, nil
	case "ctrl+l":
		b.clear()
		return b, nil
	}

	before := b.input.Value()
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if after := b.input.Value(); after != before {
		b.status = ""
		b.search.SetText(after)
	}
	return b, cmd
}

func (b *Browser) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return b, tea.Quit
	case "/", "i":
		b.focusInput()
		return b, textinput.Blink
	case "enter":
		if item, ok := b.list.SelectedItem().(bookItem); ok {
			b.openDetails(item.Book)
		}
		return b, nil
	case "f":
		if item, ok := b.list.SelectedItem().(bookItem); ok {
			b.toggleFavorite(item.Book)
		}
		return b, nil
	case "v":
		b.switchMode()
		return b, nil
	case "t":
		b.cycleType()
		return b, nil
	case "x":
		b.clear()
		return b, nil
	}

	if b.mode == viewResults {
		switch msg.String() {
		case "n", "right":
			b.status = ""
			b.search.NextPage()
			return b, nil
		case "p", "left":
			b.status = ""
			b.search.PrevPage()
			return b, nil
		case "m":
			b.status = ""
			if !b.search.LoadMore() {
				b.status = "No more results"
			}
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

func (b *Browser) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter", "backspace":
		b.showDetails = false
		b.details.Close()
		return b, nil
	case "f":
		b.toggleFavorite(b.detailBook)
		b.refreshDetails()
		return b, nil
	}

	var cmd tea.Cmd
	b.viewport, cmd = b.viewport.Update(msg)
	return b, cmd
}

// cycleType moves to the next search type. Transient status messages give way
// to the pager once the search stream moves.
func (b *Browser) cycleType() {
	b.status = ""
	b.search.SetType(b.search.Snapshot().Query.Type.Next())
}

func (b *Browser) focusList() {
	b.focus = focusList
	b.input.Blur()
}

func (b *Browser) focusInput() {
	b.focus = focusInput
	b.input.Focus()
}

func (b *Browser) clear() {
	b.search.Reset()
	b.input.SetValue("")
	b.status = ""
	b.focusInput()
}

func (b *Browser) switchMode() {
	if b.mode == viewResults {
		b.mode = viewFavorites
	} else {
		b.mode = viewResults
	}
	b.status = ""
	b.list.Select(0)
	b.refreshResults()
}

func (b *Browser) openDetails(book openlibrary.Book) {
	id := book.WorkID()
	if id == "" {
		b.status = "This book has no work record"
		return
	}
	b.detailBook = book
	b.showDetails = true
	b.details.Open(id)
	b.refreshDetails()
}

func (b *Browser) toggleFavorite(book openlibrary.Book) {
	added, err := b.favorites.Toggle(book)
	switch {
	case err != nil:
		b.status = "Could not save favorites: " + err.Error()
	case added:
		b.status = "Added to favorites: " + book.DisplayTitle()
	default:
		b.status = "Removed from favorites: " + book.DisplayTitle()
	}
	b.refreshResults()
}

func (b *Browser) refreshResults() {
	var books []openlibrary.Book
	if b.mode == viewFavorites {
		books = b.favorites.Items()
	} else {
		books = b.search.Snapshot().Items
	}

	prev := b.list.Items()
	keepCursor := len(prev) > 0 && len(books) >= len(prev)
	if keepCursor {
		first, ok := prev[0].(bookItem)
		keepCursor = ok && first.Identity() == books[0].Identity()
	}

	b.list.SetItems(toItems(books, b.favorites.IsFavorite))
	if !keepCursor {
		b.list.Select(0)
	}
}

func (b *Browser) refreshDetails() {
	if !b.showDetails {
		return
	}
	rec, ok := b.details.Snapshot()
	if !ok {
		return
	}
	content := renderDetails(rec, b.detailBook, b.favorites.IsFavorite(b.detailBook), b.coverURL, b.viewport.Width-2)
	b.viewport.SetContent(content)
	if rec.Loading {
		b.viewport.GotoTop()
	}
}

func (b *Browser) resize(width, height int) {
	b.width = width
	b.height = height

	listWidth := clamp(defaultListWidth, width-4, 40)
	listHeight := clamp(defaultListHeight, height-8, 5)
	b.list.SetSize(listWidth, listHeight)
	b.input.Width = listWidth - 4
	b.viewport.Width = listWidth
	b.viewport.Height = clamp(defaultListHeight, height-6, 5)
	b.refreshDetails()
}

func (b *Browser) View() string {
	header := headerStyle.Render("Bookfinder") + "  " + b.typeTabs()

	if b.showDetails {
		body := detailBoxStyle.Render(b.viewport.View())
		help := helpStyle.Render("Up/Down scroll | f favorite | Esc close")
		return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
	}

	parts := []string{header}
	if b.mode == viewResults {
		parts = append(parts, b.input.View(), b.statusLine())
	} else {
		parts = append(parts, subHeaderStyle.Render(fmt.Sprintf("Favorites (%d)", b.favorites.Len())), b.statusLine())
	}
	parts = append(parts, b.list.View(), helpStyle.Render(b.helpText()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Browser) typeTabs() string {
	current := b.search.Snapshot().Query.Type
	tabs := make([]string, 0, len(openlibrary.SearchTypes))
	for _, t := range openlibrary.SearchTypes {
		label := strings.ToUpper(string(t[:1])) + string(t[1:])
		if t == current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (b *Browser) statusLine() string {
	if b.mode == viewFavorites {
		return statusStyle.Render(b.status)
	}

	snap := b.search.Snapshot()
	switch {
	case snap.Loading:
		return b.spinner.View() + " Searching..."
	case snap.Err != "":
		return errorStyle.Render(snap.Err)
	case b.status != "":
		return statusStyle.Render(b.status)
	}
	return statusStyle.Render(pageInfo(snap))
}

// pageInfo describes the current page, e.g. "Page 2 of 8 | 742 results".
func pageInfo(snap search.Snapshot) string {
	if len(snap.Items) == 0 {
		if snap.Query.Text != "" {
			return "No books found"
		}
		return ""
	}
	if pages, ok := snap.TotalPages(); ok && snap.TotalCount > 0 {
		return fmt.Sprintf("Page %d of %d | %d results", snap.Page, pages, snap.TotalCount)
	}
	return fmt.Sprintf("%d results", len(snap.Items))
}

func (b *Browser) helpText() string {
	if b.focus == focusInput {
		return "Enter search | Tab type | Down results | Ctrl+L clear | Ctrl+C quit"
	}
	if b.mode == viewFavorites {
		return "Enter details | f unfavorite | v results | / search | q quit"
	}
	return "Enter details | f favorite | n/p page | m more | t type | v favorites | / search | q quit"
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	subHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110"))

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("244"))

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("247"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("161"))

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)
