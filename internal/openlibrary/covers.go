package openlibrary

import (
	"fmt"
	"strings"
)

// PlaceholderCover is the local image path used when a book has no cover.
const PlaceholderCover = "/book-placeholder.svg"

// CoverSize is the Open Library cover size code.
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// ParseCoverSize validates a size code (case-insensitive). Empty means medium.
func ParseCoverSize(s string) (CoverSize, error) {
	switch CoverSize(strings.ToUpper(strings.TrimSpace(s))) {
	case "", CoverMedium:
		return CoverMedium, nil
	case CoverSmall:
		return CoverSmall, nil
	case CoverLarge:
		return CoverLarge, nil
	default:
		return "", fmt.Errorf("invalid cover size %q (valid: S, M, L)", s)
	}
}

// CoverURL returns the public cover image URL for id, or PlaceholderCover when id is absent.
func CoverURL(id int, size CoverSize) string {
	return coverURL(DefaultCoversURL, id, size)
}

// CoverURL returns the cover image URL using the client's covers host.
func (c *Client) CoverURL(id int, size CoverSize) string {
	return coverURL(c.coversURL, id, size)
}

func coverURL(base string, id int, size CoverSize) string {
	if id <= 0 {
		return PlaceholderCover
	}
	if size == "" {
		size = CoverMedium
	}
	return base + "/b/id/" + itoa(id) + "-" + string(size) + ".jpg"
}
