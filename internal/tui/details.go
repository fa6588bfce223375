package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookfinder/internal/details"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

const detailSubjectLimit = 12

var cardStyles = newItemStyles()

var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("110"))

	detailMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	detailErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("161"))
)

// renderDetails formats a detail record for the modal viewport.
func renderDetails(rec details.Record, book openlibrary.Book, favorite bool, covers func(int, openlibrary.CoverSize) string, width int) string {
	title := book.DisplayTitle()
	if rec.Work != nil && rec.Work.Title != "" {
		title = rec.Work.Title
	}

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(title))
	if favorite {
		b.WriteString(" " + cardStyles.starStyle.Render("* favorite"))
	}
	b.WriteString("\n")

	switch {
	case rec.Loading:
		b.WriteString(detailMutedStyle.Render("Loading details..."))
		return b.String()
	case rec.Err != "":
		b.WriteString(detailErrorStyle.Render("Could not load details: " + rec.Err))
		return b.String()
	case rec.Work == nil:
		return b.String()
	}

	work := rec.Work
	if work.Subtitle != "" {
		b.WriteString(detailMutedStyle.Render(work.Subtitle) + "\n")
	}
	b.WriteString("\n")

	names := details.AuthorNames(work, rec.Author)
	first := "Unknown"
	if len(names) > 0 {
		first = names[0].Name
	}
	b.WriteString(cardStyles.badgeStyle.Render(openlibrary.Initials(first)) + " " + first)
	if len(names) > 1 {
		others := make([]string, 0, len(names)-1)
		for _, n := range names[1:] {
			others = append(others, n.Name)
		}
		b.WriteString(detailMutedStyle.Render(" with " + strings.Join(others, ", ")))
	}
	if life := rec.Author.Lifespan(); life != "" {
		b.WriteString(detailMutedStyle.Render(" (" + life + ")"))
	}
	b.WriteString("\n")

	if work.FirstPublishDate != "" {
		b.WriteString(field("First published", work.FirstPublishDate))
	}

	wrap := lipgloss.NewStyle().Width(max(width, 20))
	if desc := work.Description.String(); desc != "" {
		b.WriteString("\n" + wrap.Render(desc) + "\n")
	}
	if rec.Author != nil && rec.Author.Bio != "" {
		b.WriteString("\n" + detailLabelStyle.Render("About the author") + "\n")
		b.WriteString(wrap.Render(rec.Author.Bio.String()) + "\n")
	}

	if subjects := details.Subjects(work, detailSubjectLimit); len(subjects) > 0 {
		b.WriteString("\n" + detailLabelStyle.Render("Subjects") + "\n")
		b.WriteString(wrap.Render(strings.Join(subjects, ", ")) + "\n")
	}

	b.WriteString("\n")
	if id := work.Cover(); id > 0 {
		b.WriteString(field("Cover", covers(id, openlibrary.CoverLarge)))
	} else if id := book.Cover(); id > 0 {
		b.WriteString(field("Cover", covers(id, openlibrary.CoverLarge)))
	}
	if url := work.URL(); url != "" {
		b.WriteString(field("Open Library", url))
	}

	return b.String()
}

func field(label, value string) string {
	return detailLabelStyle.Render(label+": ") + value + "\n"
}
