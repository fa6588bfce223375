package openlibrary

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const defaultCoverMaxWidth = 600

// DownloadCover fetches cover id at size, shrinks it to maxWidth when wider and
// saves it as JPEG at savePath. A maxWidth of zero or less uses the default.
func (c *Client) DownloadCover(ctx context.Context, id int, size CoverSize, savePath string, maxWidth int) error {
	if id <= 0 {
		return fmt.Errorf("cover: invalid cover id %d", id)
	}
	if maxWidth <= 0 {
		maxWidth = defaultCoverMaxWidth
	}

	body, err := c.fetchAccept(ctx, "cover", c.CoverURL(id, size), "image/*")
	if err != nil {
		return err
	}

	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("cover: failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return err
	}
	return imaging.Save(img, savePath, imaging.JPEGQuality(85))
}
