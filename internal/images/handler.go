// Package images downloads inspection photos and normalizes them to a
// bounded size on local disk so report tooling can reference them without
// re-fetching.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// DefaultMaxBytes caps a single photo download at 20MB.
	DefaultMaxBytes = 20 * 1024 * 1024

	// DefaultMaxDimension bounds the longest edge of a cached photo.
	DefaultMaxDimension = 1600

	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// Handler fetches remote photos, scales them down and stores them under a
// cache directory. The zero value is not usable; construct with NewHandler.
type Handler struct {
	client       *http.Client
	cacheDir     string
	maxBytes     int64
	maxDimension int
}

// NewHandler creates an image handler writing into cacheDir. A zero timeout
// or maxBytes falls back to sensible defaults.
func NewHandler(cacheDir string, timeout time.Duration, maxBytes int64) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Handler{
		client:       &http.Client{Timeout: timeout},
		cacheDir:     cacheDir,
		maxBytes:     maxBytes,
		maxDimension: DefaultMaxDimension,
	}
}

// Fetch downloads the photo at url, scales it to fit the handler's bound
// and writes it to the cache as PNG. It returns the cached file's path.
func (h *Handler) Fetch(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("empty image URL")
	}

	data, err := h.download(ctx, url)
	if err != nil {
		return "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image from %s: %w", url, err)
	}
	log.Printf("Fetched %s image (%d bytes) from %s", format, len(data), url)

	img = Scale(img, h.maxDimension)

	if err := os.MkdirAll(h.cacheDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	path := filepath.Join(h.cacheDir, uuid.New().String()+".png")

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to encode cached image: %w", err)
	}
	return path, nil
}

// download retrieves the raw image bytes, retrying transient failures.
func (h *Handler) download(ctx context.Context, url string) ([]byte, error) {
	var data []byte

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := h.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				err := fmt.Errorf("unexpected status %d", resp.StatusCode)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}
			if resp.ContentLength > h.maxBytes {
				return retry.Unrecoverable(fmt.Errorf("image exceeds size limit: %d bytes", resp.ContentLength))
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
			if err != nil {
				return err
			}
			if int64(len(body)) > h.maxBytes {
				return retry.Unrecoverable(fmt.Errorf("image exceeds size limit of %d bytes", h.maxBytes))
			}
			data = body
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(defaultAttempts),
		retry.Delay(defaultRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	return data, nil
}

// Scale shrinks img so its longest edge fits maxDimension, preserving the
// aspect ratio. Images already within the bound are returned unchanged.
func Scale(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxDimension <= 0 || (w <= maxDimension && h <= maxDimension) {
		return img
	}

	scale := float64(maxDimension) / float64(w)
	if h > w {
		scale = float64(maxDimension) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// EncodeJPEG writes img to path as JPEG at the given quality. Used when a
// caller prefers smaller artifacts over lossless caching.
func EncodeJPEG(img image.Image, path string, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return nil
}
