// Package cover implements the cover command.
package cover

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/bookfinder/internal/cmdutil"
	"github.com/lepinkainen/bookfinder/internal/config"
	"github.com/lepinkainen/bookfinder/internal/fileutil"
	"github.com/lepinkainen/bookfinder/internal/openlibrary"
)

// CoverCmd prints a cover URL and optionally downloads the image.
type CoverCmd struct {
	CoverID  int    `arg:"" help:"Open Library cover id"`
	Size     string `short:"s" help:"Cover size: S, M or L" default:"M"`
	Download bool   `short:"d" help:"Download the cover instead of printing its URL"`
	MaxWidth int    `help:"Shrink downloaded covers wider than this many pixels" default:"600"`
	Output   string `short:"o" help:"Directory for downloaded covers (defaults to covers.dir)"`
	Title    string `help:"Name the downloaded file after this title"`
	Force    bool   `help:"Download again even if the file exists"`
}

// Client is the part of the Open Library client the command uses.
type Client interface {
	CoverURL(id int, size openlibrary.CoverSize) string
	DownloadCover(ctx context.Context, id int, size openlibrary.CoverSize, savePath string, maxWidth int) error
}

var (
	NewClient           = func() Client { return cmdutil.NewClient() }
	Stdout    io.Writer = os.Stdout
)

func (c *CoverCmd) Run() error {
	if c.CoverID <= 0 {
		return fmt.Errorf("cover id must be positive")
	}
	size, err := openlibrary.ParseCoverSize(c.Size)
	if err != nil {
		return err
	}

	client := NewClient()
	if !c.Download {
		_, err := fmt.Fprintln(Stdout, client.CoverURL(c.CoverID, size))
		return err
	}

	outputDir := c.Output
	if outputDir == "" {
		outputDir = config.CoversDir
	}

	result, err := fileutil.DownloadCover(context.Background(), fileutil.CoverDownloadOptions{
		CoverID:   c.CoverID,
		Size:      string(size),
		OutputDir: outputDir,
		Title:     c.Title,
		Force:     c.Force,
	}, func(ctx context.Context, savePath string) error {
		return client.DownloadCover(ctx, c.CoverID, size, savePath, c.MaxWidth)
	})
	if err != nil {
		return err
	}

	status := "Saved"
	if !result.Downloaded {
		status = "Already exists"
	}
	_, err = fmt.Fprintf(Stdout, "%s: %s\n", status, result.LocalPath)
	return err
}
