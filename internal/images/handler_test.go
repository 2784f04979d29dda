package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestScale(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		max        int
		wantW      int
		wantH      int
		wantSameAs bool
	}{
		{name: "wide image scaled", w: 3200, h: 1600, max: 1600, wantW: 1600, wantH: 800},
		{name: "tall image scaled", w: 800, h: 2400, max: 1200, wantW: 400, wantH: 1200},
		{name: "within bound unchanged", w: 640, h: 480, max: 1600, wantSameAs: true},
		{name: "zero bound unchanged", w: 3200, h: 1600, max: 0, wantSameAs: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testImage(tt.w, tt.h)
			got := Scale(src, tt.max)

			if tt.wantSameAs {
				if got != src {
					t.Error("Expected the original image back")
				}
				return
			}

			bounds := got.Bounds()
			if bounds.Dx() != tt.wantW || bounds.Dy() != tt.wantH {
				t.Errorf("Scaled to %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFetchCachesScaledPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(2000, 1000)); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	h := NewHandler(cacheDir, 5*time.Second, 0)

	path, err := h.Fetch(context.Background(), srv.URL+"/photo.png")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if filepath.Dir(path) != cacheDir {
		t.Errorf("Cached outside cache dir: %s", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("Expected .png cache file, got %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open cached file: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Cached file is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != DefaultMaxDimension {
		t.Errorf("Expected longest edge %d, got %d", DefaultMaxDimension, img.Bounds().Dx())
	}
}

func TestFetchEmptyURL(t *testing.T) {
	h := NewHandler(t.TempDir(), time.Second, 0)
	if _, err := h.Fetch(context.Background(), "  "); err == nil {
		t.Error("Expected error for empty URL")
	}
}

func TestFetchNotFoundDoesNotRetry(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	h := NewHandler(t.TempDir(), time.Second, 0)
	if _, err := h.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("Expected error for 404 response")
	}
	if hits != 1 {
		t.Errorf("Expected a single request for client error, got %d", hits)
	}
}

func TestFetchRetriesServerError(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(10, 10)); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 2 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	h := NewHandler(t.TempDir(), 5*time.Second, 0)
	if _, err := h.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if hits != 2 {
		t.Errorf("Expected 2 requests, got %d", hits)
	}
}

func TestFetchSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{0xFF}, 4096))
	}))
	defer srv.Close()

	h := NewHandler(t.TempDir(), time.Second, 1024)
	if _, err := h.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Expected error for oversized image")
	}
}
