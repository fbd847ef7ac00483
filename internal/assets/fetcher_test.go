package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func logoPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{0, 80, 160, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestFetch_NoSources(t *testing.T) {
	f := NewFetcher(time.Second)

	bundle, err := f.Fetch(context.Background(), Sources{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if bundle.Logo != nil || bundle.FontRegular != nil || bundle.FontBold != nil {
		t.Error("Expected empty bundle for empty sources")
	}
}

func TestFetch_Logo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(logoPNG(t, 100, 40))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	bundle, err := f.Fetch(context.Background(), Sources{LogoURL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if bundle.Logo == nil {
		t.Fatal("Expected decoded logo")
	}
	if bundle.Logo.Bounds().Dx() != 100 {
		t.Errorf("Expected 100px logo, got %d", bundle.Logo.Bounds().Dx())
	}
}

func TestFetch_OversizedLogoDownscaled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(logoPNG(t, 1200, 300))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	bundle, err := f.Fetch(context.Background(), Sources{LogoURL: srv.URL})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got := bundle.Logo.Bounds().Dx(); got != maxLogoEdge {
		t.Errorf("Expected logo downscaled to %d, got %d", maxLogoEdge, got)
	}
}

func TestFetch_LogoFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	bundle, err := f.Fetch(context.Background(), Sources{LogoURL: srv.URL})
	if err != nil {
		t.Fatalf("Expected logo failure to degrade, got error: %v", err)
	}
	if bundle.Logo != nil {
		t.Error("Expected nil logo after failed fetch")
	}
}

func TestFetch_UnreachableLogoIsNonFatal(t *testing.T) {
	f := NewFetcher(200 * time.Millisecond)

	bundle, err := f.Fetch(context.Background(), Sources{LogoURL: "http://127.0.0.1:1/logo.png"})
	if err != nil {
		t.Fatalf("Expected unreachable logo to degrade, got error: %v", err)
	}
	if bundle.Logo != nil {
		t.Error("Expected nil logo")
	}
}

func TestFetch_FontFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(time.Second)
	_, err := f.Fetch(context.Background(), Sources{FontRegular: srv.URL + "/font.ttf"})
	if err == nil {
		t.Fatal("Expected fatal error for failed font fetch")
	}

	var assetErr *Error
	if !errors.As(err, &assetErr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if assetErr.Asset != "font-regular" {
		t.Errorf("Expected font-regular asset in error, got %q", assetErr.Asset)
	}
}

func TestFetch_FontFromDisk(t *testing.T) {
	path := t.TempDir() + "/font.ttf"
	if err := os.WriteFile(path, []byte("not a real font, but bytes travel"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f := NewFetcher(time.Second)
	bundle, err := f.Fetch(context.Background(), Sources{FontBold: path})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(bundle.FontBold) == 0 {
		t.Error("Expected font bytes from disk")
	}
}

func TestFetch_OversizedFontFromDiskRejected(t *testing.T) {
	path := t.TempDir() + "/huge.ttf"
	if err := os.WriteFile(path, make([]byte, maxAssetBytes+1), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f := NewFetcher(time.Second)
	_, err := f.Fetch(context.Background(), Sources{FontRegular: path})
	if err == nil {
		t.Fatal("Expected fatal error for oversized local font")
	}

	var assetErr *Error
	if !errors.As(err, &assetErr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if assetErr.Asset != "font-regular" {
		t.Errorf("Expected font-regular asset in error, got %q", assetErr.Asset)
	}
}

func TestFetch_ConcurrentSources(t *testing.T) {
	logoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write(logoPNG(t, 50, 50))
	}))
	defer logoSrv.Close()
	fontSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte("font bytes"))
	}))
	defer fontSrv.Close()

	f := NewFetcher(time.Second)
	start := time.Now()
	bundle, err := f.Fetch(context.Background(), Sources{
		LogoURL:     logoSrv.URL,
		FontRegular: fontSrv.URL,
		FontBold:    fontSrv.URL,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if bundle.Logo == nil || len(bundle.FontRegular) == 0 || len(bundle.FontBold) == 0 {
		t.Error("Expected all three assets fetched")
	}
	// three 50ms fetches joined concurrently should not take 150ms
	if elapsed > 140*time.Millisecond {
		t.Errorf("Expected concurrent fan-out, took %v", elapsed)
	}
}
