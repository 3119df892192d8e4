// Package images downloads remote part images and attaches them to
// local part records.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/mrlokans/brickstock/internal/entities"
)

const (
	defaultTimeout = 30 * time.Second

	// fallbackFormat is used when the downloaded bytes cannot be
	// identified as a known raster format.
	fallbackFormat = "png"
)

// PartImageStore is the persistence surface the enricher needs.
// *parts.Repository implements it.
type PartImageStore interface {
	GetPartByID(id uint) (*entities.Part, error)
	AttachPartImage(partID uint, filename string, data []byte) error
}

// Enricher fetches part images and persists them as attached blobs.
// It is only ever invoked from the task queue, so a failed download
// surfaces through task redelivery rather than to any caller.
type Enricher struct {
	store      PartImageStore
	httpClient *http.Client
}

// NewEnricher creates a new image enricher.
func NewEnricher(store PartImageStore) *Enricher {
	return &Enricher{
		store: store,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// EnrichPartImage downloads url and attaches the image to the part.
// It reports whether anything changed. Skipped silently (false, nil)
// when the part already has an image, when url is empty, or when the
// download yields no usable image data.
func (e *Enricher) EnrichPartImage(ctx context.Context, partID uint, url string) (bool, error) {
	if url == "" {
		return false, nil
	}

	part, err := e.store.GetPartByID(partID)
	if err != nil {
		return false, fmt.Errorf("get part %d: %w", partID, err)
	}

	if part.HasImage() {
		return false, nil
	}

	data, err := e.download(ctx, url)
	if err != nil {
		return false, fmt.Errorf("download image for part %d: %w", partID, err)
	}
	if len(data) == 0 {
		return false, nil
	}

	encoded, format := reencode(data)
	if encoded == nil {
		return false, nil
	}

	filename := fmt.Sprintf("part_%d_image.%s", part.ID, format)
	if err := e.store.AttachPartImage(part.ID, filename, encoded); err != nil {
		return false, fmt.Errorf("attach image to part %d: %w", partID, err)
	}

	return true, nil
}

func (e *Enricher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Brickstock/1.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// reencode decodes the downloaded bytes and re-encodes them in their
// detected format, falling back to PNG for undetectable input. Returns
// (nil, "") when the bytes are not a decodable image at all.
func reencode(data []byte) ([]byte, string) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ""
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	default:
		format = fallbackFormat
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, ""
	}

	return buf.Bytes(), format
}
