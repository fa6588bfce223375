// Package tui provides the interactive terminal book browser.
package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

type bookItem struct {
	openlibrary.Book
	favorite bool
}

func (i bookItem) Title() string {
	return i.DisplayTitle()
}

func (i bookItem) FilterValue() string {
	return i.DisplayTitle()
}

func (i bookItem) Description() string {
	return i.PrimaryAuthor()
}

func toItems(books []openlibrary.Book, isFavorite func(openlibrary.Book) bool) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{Book: b, favorite: isFavorite(b)}
	}
	return items
}

type itemStyles struct {
	normal       lipgloss.Style
	selected     lipgloss.Style
	titleStyle   lipgloss.Style
	badgeStyle   lipgloss.Style
	authorStyle  lipgloss.Style
	yearStyle    lipgloss.Style
	excerptStyle lipgloss.Style
	starStyle    lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		badgeStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("110")).
			Padding(0, 1),
		authorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),
		yearStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		excerptStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
		starStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 5 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	width := m.Width() - 6
	title := truncate(book.DisplayTitle(), width-2)
	if book.favorite {
		title = d.styles.starStyle.Render("*") + " " + d.styles.titleStyle.Render(title)
	} else {
		title = d.styles.titleStyle.Render(title)
	}

	author := book.PrimaryAuthor()
	authorLine := d.styles.badgeStyle.Render(openlibrary.Initials(author)) + " " + d.styles.authorStyle.Render(author)
	if year := book.Year(); year > 0 {
		authorLine += d.styles.yearStyle.Render(" | " + strconv.Itoa(year))
	}

	excerpt := d.styles.excerptStyle.Render(truncate(book.Excerpt(), width))

	content := lipgloss.JoinVertical(lipgloss.Left, title, authorLine, excerpt)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

func newBookList() list.Model {
	l := list.New(nil, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	return l
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
