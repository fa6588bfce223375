package openlibrary

import (
	"strings"
)

// Identity returns the string used to decide whether two books are the same item:
// the work key, else the cover edition key, else the generic id. Every list and the
// favorites store compare books through this function only.
func (b Book) Identity() string {
	switch {
	case b.Key != "":
		return b.Key
	case b.CoverEditionKey != "":
		return b.CoverEditionKey
	default:
		return string(b.ID)
	}
}

// SameBook reports whether a and b share the same identity.
func SameBook(a, b Book) bool {
	return a.Identity() == b.Identity()
}

// WorkID returns the identity without its "/works/" or "/books/" prefix, suitable
// for the work detail endpoint.
func (b Book) WorkID() string {
	id := strings.Replace(b.Identity(), "/works/", "", 1)
	return strings.Replace(id, "/books/", "", 1)
}

// DisplayTitle returns the best available title.
func (b Book) DisplayTitle() string {
	switch {
	case b.Title != "":
		return b.Title
	case b.TitleSuggest != "":
		return b.TitleSuggest
	default:
		return "Untitled"
	}
}

// Cover returns the cover id from either the search (cover_i) or subject (cover_id) shape.
func (b Book) Cover() int {
	if b.CoverI > 0 {
		return b.CoverI
	}
	return b.CoverID
}

// AuthorNames derives the list of author names from every shape Open Library uses,
// deduplicated and in first-seen order.
func (b Book) AuthorNames() []string {
	var names []string
	names = append(names, b.AuthorName...)

	if by := strings.TrimSpace(b.ByStatement); by != "" {
		if len(by) >= 3 && strings.EqualFold(by[:3], "by ") {
			by = strings.TrimSpace(by[3:])
		}
		names = append(names, by)
	}
	for _, a := range b.Authors {
		if name := a.DisplayName(); name != "" {
			names = append(names, name)
		}
	}
	for _, c := range b.Contributors {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	if b.Author != "" {
		names = append(names, string(b.Author))
	}

	return dedupeStrings(names)
}

// PrimaryAuthor returns the first derived author name or "Unknown".
func (b Book) PrimaryAuthor() string {
	if names := b.AuthorNames(); len(names) > 0 {
		return names[0]
	}
	return "Unknown"
}

// Year returns the first publication year, or 0 if unknown.
func (b Book) Year() int {
	if b.FirstPublishYear > 0 {
		return b.FirstPublishYear
	}
	if len(b.PublishYear) > 0 {
		return b.PublishYear[0]
	}
	return 0
}

// Excerpt returns a short text to show on a card.
func (b Book) Excerpt() string {
	switch {
	case b.FirstSentence != "":
		return b.FirstSentence.String()
	case b.Description != "":
		return b.Description.String()
	default:
		return b.Subtitle
	}
}

// Initials returns up to two initials of name, used as an author badge.
func Initials(name string) string {
	var sb strings.Builder
	for i, word := range strings.Split(name, " ") {
		if i >= 2 {
			break
		}
		for _, r := range word {
			sb.WriteRune(r)
			break
		}
	}
	if sb.Len() == 0 {
		return "A"
	}
	return sb.String()
}

func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func stripPrefix(s, prefix string) string {
	return strings.TrimPrefix(s, prefix)
}
