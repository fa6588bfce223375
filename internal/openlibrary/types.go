package openlibrary

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text is a free-text field that Open Library returns either as a plain string,
// as a typed object ({"type": "/type/text", "value": "..."}) or, for search
// documents, as a list of strings. It always marshals back as a plain string.
type Text string

// UnmarshalJSON accepts the string, {"value"} and []string forms.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{':
		var obj struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = Text(obj.Value)
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			*t = Text(list[0])
		} else {
			*t = ""
		}
	default:
		*t = ""
	}
	return nil
}

// String returns the text content.
func (t Text) String() string {
	return string(t)
}

// FlexString holds an identifier that may arrive as a JSON string or number.
// Any other JSON value decodes to the empty string.
type FlexString string

// UnmarshalJSON accepts strings and numbers.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}

	switch {
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
	default:
		*f = ""
	}
	return nil
}

// AuthorRef is a reference to an author record.
type AuthorRef struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

// AuthorEntry is one element of an "authors" list. Search and subject documents use
// {"key", "name"}; work records use {"author": {"key"}, "type": {...}}; some records
// carry a bare string.
type AuthorEntry struct {
	Name   string     `json:"name,omitempty"`
	Key    string     `json:"key,omitempty"`
	Author *AuthorRef `json:"author,omitempty"`
}

// UnmarshalJSON accepts both the object forms and a bare author name.
func (a *AuthorEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*a = AuthorEntry{Name: name}
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		*a = AuthorEntry{}
		return nil
	}

	type plain AuthorEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = AuthorEntry(p)
	return nil
}

// DisplayName returns the name carried directly or inside the nested author reference.
func (a AuthorEntry) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Author != nil {
		return a.Author.Name
	}
	return ""
}

// Contributor is an edition contributor entry.
type Contributor struct {
	Role string `json:"role,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts the {"role", "name"} object and a bare name. Any other
// JSON value decodes to an empty contributor.
func (c *Contributor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = Contributor{Name: name}
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		*c = Contributor{}
		return nil
	}

	type plain Contributor
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Contributor(p)
	return nil
}

// Book is one matching work as returned by the search (docs) or subject (works)
// endpoints. It is the item type shown in result lists and stored as a favorite.
type Book struct {
	Key              string        `json:"key,omitempty"`
	Title            string        `json:"title,omitempty"`
	TitleSuggest     string        `json:"title_suggest,omitempty"`
	Subtitle         string        `json:"subtitle,omitempty"`
	AuthorName       []string      `json:"author_name,omitempty"`
	AuthorKey        []string      `json:"author_key,omitempty"`
	Authors          []AuthorEntry `json:"authors,omitempty"`
	Author           FlexString    `json:"author,omitempty"`
	ByStatement      string        `json:"by_statement,omitempty"`
	Contributors     []Contributor `json:"contributors,omitempty"`
	CoverI           int           `json:"cover_i,omitempty"`
	CoverID          int           `json:"cover_id,omitempty"`
	CoverEditionKey  string        `json:"cover_edition_key,omitempty"`
	ID               FlexString    `json:"id,omitempty"`
	FirstPublishYear int           `json:"first_publish_year,omitempty"`
	PublishYear      []int         `json:"publish_year,omitempty"`
	EditionCount     int           `json:"edition_count,omitempty"`
	FirstSentence    Text          `json:"first_sentence,omitempty"`
	Description      Text          `json:"description,omitempty"`
	Subject          []string      `json:"subject,omitempty"`
}

// Work is the extended record of a single work (/works/{id}.json).
type Work struct {
	Key              string        `json:"key"`
	Title            string        `json:"title"`
	Subtitle         string        `json:"subtitle,omitempty"`
	Description      Text          `json:"description,omitempty"`
	Covers           []int         `json:"covers,omitempty"`
	Subjects         []string      `json:"subjects,omitempty"`
	SubjectPlaces    []string      `json:"subject_places,omitempty"`
	SubjectPeople    []string      `json:"subject_people,omitempty"`
	Authors          []AuthorEntry `json:"authors,omitempty"`
	FirstPublishDate string        `json:"first_publish_date,omitempty"`
}

// FirstAuthorID returns the bare identifier of the first author referenced by
// the work (e.g. "OL23919A"), or "" when no resolvable reference exists.
func (w *Work) FirstAuthorID() string {
	if w == nil || len(w.Authors) == 0 {
		return ""
	}
	first := w.Authors[0]
	if first.Author == nil || first.Author.Key == "" {
		return ""
	}
	return stripPrefix(first.Author.Key, "/authors/")
}

// Cover returns the first cover id of the work, or 0.
func (w *Work) Cover() int {
	if w == nil {
		return 0
	}
	for _, id := range w.Covers {
		if id > 0 {
			return id
		}
	}
	return 0
}

// URL returns the public Open Library page for the work.
func (w *Work) URL() string {
	if w == nil || w.Key == "" {
		return ""
	}
	return DefaultBaseURL + w.Key
}

// Author is the extended record of an author (/authors/{id}.json).
type Author struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	PersonalName   string   `json:"personal_name,omitempty"`
	Bio            Text     `json:"bio,omitempty"`
	BirthDate      string   `json:"birth_date,omitempty"`
	DeathDate      string   `json:"death_date,omitempty"`
	AlternateNames []string `json:"alternate_names,omitempty"`
	Photos         []int    `json:"photos,omitempty"`
	Wikipedia      string   `json:"wikipedia,omitempty"`
}

// Lifespan returns "birth - death" when at least one date is known.
func (a *Author) Lifespan() string {
	if a == nil || (a.BirthDate == "" && a.DeathDate == "") {
		return ""
	}
	return a.BirthDate + " - " + a.DeathDate
}

// SubjectInfo is the subject listing envelope (/subjects/{name}.json).
type SubjectInfo struct {
	Key         string `json:"key,omitempty"`
	Name        string `json:"name,omitempty"`
	SubjectType string `json:"subject_type,omitempty"`
	WorkCount   int    `json:"work_count"`
	Works       []Book `json:"works"`
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
