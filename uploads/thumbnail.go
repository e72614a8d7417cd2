package uploads

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"

	_ "image/gif"
	_ "image/png"
)

const (
	ThumbnailWidth = 480
	jpegQuality    = 90
)

// ThumbnailName maps a stored filename to its thumbnail sidecar name.
func ThumbnailName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return "thumb_" + base + ".jpg"
}

// WriteThumbnail decodes a stored image and writes a resized JPEG sidecar
// next to it. Thumbnails are a convenience for the history grid; callers
// treat failure as non-fatal.
func (s *Store) WriteThumbnail(filename string) (string, error) {
	f, err := os.Open(s.Path(filename))
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	g := gift.New(gift.Resize(ThumbnailWidth, 0, gift.LanczosResampling))
	dst := image.NewRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	name := ThumbnailName(filename)
	out, err := os.Create(s.Path(name))
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		os.Remove(s.Path(name))
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	return name, nil
}
