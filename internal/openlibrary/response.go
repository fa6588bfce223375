package openlibrary

import (
	"bytes"
	"encoding/json"
)

// Shape tags which upstream envelope a list response used.
type Shape int

const (
	// ShapeEmpty is an absent or unrecognised envelope.
	ShapeEmpty Shape = iota
	// ShapeSearch is the search.json envelope: {docs, numFound}.
	ShapeSearch
	// ShapeSubject is the subjects/{name}.json envelope: {works, work_count}.
	ShapeSubject
)

func (s Shape) String() string {
	switch s {
	case ShapeSearch:
		return "search"
	case ShapeSubject:
		return "subject"
	default:
		return "empty"
	}
}

// SearchResult is the decoded search.json envelope.
type SearchResult struct {
	Docs     []Book `json:"docs"`
	NumFound int    `json:"numFound"`
	Start    int    `json:"start,omitempty"`
}

// Response is a tagged union over the two list envelopes. Exactly one of Search
// and Subject is set, matching Shape; both are nil for ShapeEmpty.
type Response struct {
	Shape   Shape
	Search  *SearchResult
	Subject *SubjectInfo
}

// EmptySearchResponse is the docs-shaped response with no items that an empty
// query resolves to without touching the network.
func EmptySearchResponse() *Response {
	return &Response{
		Shape:  ShapeSearch,
		Search: &SearchResult{Docs: []Book{}},
	}
}

// DecodeResponse decodes a list response body, picking the decoder by the
// envelope fields present. A body with neither docs nor works decodes to ShapeEmpty.
func DecodeResponse(body []byte) (*Response, error) {
	var probe struct {
		Docs  json.RawMessage `json:"docs"`
		Works json.RawMessage `json:"works"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, err
	}

	switch {
	case present(probe.Docs):
		return decodeSearch(body)
	case present(probe.Works):
		return decodeSubject(body)
	default:
		return &Response{Shape: ShapeEmpty}, nil
	}
}

func decodeSearch(body []byte) (*Response, error) {
	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.Docs == nil {
		result.Docs = []Book{}
	}
	return &Response{Shape: ShapeSearch, Search: &result}, nil
}

func decodeSubject(body []byte) (*Response, error) {
	var result SubjectInfo
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.Works == nil {
		result.Works = []Book{}
	}
	return &Response{Shape: ShapeSubject, Subject: &result}, nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
