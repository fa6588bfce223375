package fileutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// CoverFetcher writes the image for a cover to savePath.
type CoverFetcher func(ctx context.Context, savePath string) error

// CoverDownloadOptions holds options for downloading cover images.
type CoverDownloadOptions struct {
	// CoverID is the Open Library cover identifier
	CoverID int
	// Size is the cover size code (S, M or L)
	Size string
	// OutputDir is the directory where the cover will be saved
	OutputDir string
	// Title, when set, names the file "Title - cover.jpg" instead of "{id}-{size}.jpg"
	Title string
	// Force re-downloads even if the cover exists
	Force bool
}

// CoverDownloadResult holds the result of a cover download operation.
type CoverDownloadResult struct {
	// Downloaded indicates if a new file was downloaded
	Downloaded bool
	// LocalPath is the full path to the cover
	LocalPath string
	// Filename is just the filename
	Filename string
}

// DownloadCover saves a cover into OutputDir through fetch. Existing files are
// kept unless Force is set.
func DownloadCover(ctx context.Context, opts CoverDownloadOptions, fetch CoverFetcher) (*CoverDownloadResult, error) {
	if opts.CoverID <= 0 {
		return nil, fmt.Errorf("no cover available")
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}

	filename := CoverFilename(opts.CoverID, opts.Size)
	if opts.Title != "" {
		filename = BuildCoverFilename(opts.Title)
	}
	result := &CoverDownloadResult{
		LocalPath: filepath.Join(opts.OutputDir, filename),
		Filename:  filename,
	}

	if FileExists(result.LocalPath) && !opts.Force {
		slog.Debug("Cover already exists, skipping download", "path", result.LocalPath)
		return result, nil
	}

	if err := fetch(ctx, result.LocalPath); err != nil {
		return nil, fmt.Errorf("failed to download cover: %w", err)
	}

	slog.Info("Downloaded cover", "path", result.LocalPath)
	result.Downloaded = true
	return result, nil
}

// CoverFilename returns "{id}-{size}.jpg".
func CoverFilename(id int, size string) string {
	if size == "" {
		size = "M"
	}
	return strconv.Itoa(id) + "-" + size + ".jpg"
}

// BuildCoverFilename creates a standard cover filename from a title.
// Returns: "Title - cover.jpg"
func BuildCoverFilename(title string) string {
	return SanitizeFilename(title) + " - cover.jpg"
}
