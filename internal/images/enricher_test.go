package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/brickstock/internal/entities"
)

type fakeStore struct {
	parts    map[uint]*entities.Part
	attached map[uint]string
}

func newFakeStore(parts ...*entities.Part) *fakeStore {
	s := &fakeStore{
		parts:    make(map[uint]*entities.Part),
		attached: make(map[uint]string),
	}
	for _, p := range parts {
		s.parts[p.ID] = p
	}
	return s
}

func (s *fakeStore) GetPartByID(id uint) (*entities.Part, error) {
	part, ok := s.parts[id]
	if !ok {
		return nil, fmt.Errorf("part %d not found", id)
	}
	return part, nil
}

func (s *fakeStore) AttachPartImage(partID uint, filename string, data []byte) error {
	part := s.parts[partID]
	part.Image = data
	part.ImageName = filename
	s.attached[partID] = filename
	return nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageServer(t *testing.T, body []byte, requests *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			*requests++
		}
		w.Write(body)
	}))
}

func TestEnricher_AttachesDownloadedImage(t *testing.T) {
	requests := 0
	server := imageServer(t, testPNG(t), &requests)
	defer server.Close()

	store := newFakeStore(&entities.Part{ID: 7, Name: "Plate 1x2 Red"})
	enricher := NewEnricher(store)

	changed, err := enricher.EnrichPartImage(context.Background(), 7, server.URL)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, requests)
	assert.Equal(t, "part_7_image.png", store.attached[7])
	assert.True(t, store.parts[7].HasImage())
}

func TestEnricher_EmptyURLIsNoop(t *testing.T) {
	requests := 0
	server := imageServer(t, testPNG(t), &requests)
	defer server.Close()

	store := newFakeStore(&entities.Part{ID: 7})
	enricher := NewEnricher(store)

	changed, err := enricher.EnrichPartImage(context.Background(), 7, "")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, requests)
}

func TestEnricher_ExistingImageIsKept(t *testing.T) {
	requests := 0
	server := imageServer(t, testPNG(t), &requests)
	defer server.Close()

	store := newFakeStore(&entities.Part{
		ID:        7,
		Image:     []byte{0x01},
		ImageName: "part_7_image.png",
	})
	enricher := NewEnricher(store)

	changed, err := enricher.EnrichPartImage(context.Background(), 7, server.URL)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, requests)
	assert.Equal(t, []byte{0x01}, store.parts[7].Image)
}

func TestEnricher_EmptyBodyIsNoop(t *testing.T) {
	server := imageServer(t, nil, nil)
	defer server.Close()

	store := newFakeStore(&entities.Part{ID: 7})
	enricher := NewEnricher(store)

	changed, err := enricher.EnrichPartImage(context.Background(), 7, server.URL)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, store.attached)
}

func TestEnricher_UndecodableBodyIsNoop(t *testing.T) {
	server := imageServer(t, []byte("definitely not an image"), nil)
	defer server.Close()

	store := newFakeStore(&entities.Part{ID: 7})
	enricher := NewEnricher(store)

	changed, err := enricher.EnrichPartImage(context.Background(), 7, server.URL)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, store.attached)
}

func TestEnricher_DownloadFailureIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := newFakeStore(&entities.Part{ID: 7})
	enricher := NewEnricher(store)

	_, err := enricher.EnrichPartImage(context.Background(), 7, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Empty(t, store.attached)
}

func TestReencode_KeepsDetectedFormat(t *testing.T) {
	encoded, format := reencode(testPNG(t))
	assert.Equal(t, "png", format)
	assert.NotEmpty(t, encoded)

	_, decodedFormat, err := image.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, "png", decodedFormat)
}
