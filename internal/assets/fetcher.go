// Package assets fetches the optional external inputs of a render: the
// issuer's logo raster and non-builtin font bytes. Fetches fan out
// concurrently before layout begins and are bounded by one timeout; a failed
// logo degrades to "no logo" while a failed font aborts the render.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// DefaultTimeout bounds every asset fetch
	DefaultTimeout = 5 * time.Second

	// maxAssetBytes caps a single fetched asset
	maxAssetBytes = 8 << 20

	// maxLogoEdge is the pixel edge logos are downscaled to before embedding
	maxLogoEdge = 600
)

// Error wraps a fetch failure with the asset that caused it
type Error struct {
	Asset string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("asset %s: %v", e.Asset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Sources names where each optional asset comes from. Empty fields are
// skipped. Font sources are either file paths or http(s) URLs.
type Sources struct {
	LogoURL     string
	FontRegular string
	FontBold    string
}

// Bundle is the join result of one fan-out fetch
type Bundle struct {
	Logo        image.Image // nil when absent or failed
	FontRegular []byte
	FontBold    []byte
}

// Fetcher retrieves render assets. Safe for concurrent use; one Fetcher
// serves all renders.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher whose requests are bounded by timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch retrieves all named assets concurrently and joins the results.
// A logo failure is logged and leaves Bundle.Logo nil; a font failure is
// fatal and returns an *Error naming the font.
func (f *Fetcher) Fetch(ctx context.Context, src Sources) (*Bundle, error) {
	bundle := &Bundle{}
	var wg sync.WaitGroup
	var logoErr, regularErr, boldErr error

	if src.LogoURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bundle.Logo, logoErr = f.fetchLogo(ctx, src.LogoURL)
		}()
	}
	if src.FontRegular != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bundle.FontRegular, regularErr = f.fetchBytes(ctx, src.FontRegular)
		}()
	}
	if src.FontBold != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bundle.FontBold, boldErr = f.fetchBytes(ctx, src.FontBold)
		}()
	}
	wg.Wait()

	if regularErr != nil {
		return nil, &Error{Asset: "font-regular", Err: regularErr}
	}
	if boldErr != nil {
		return nil, &Error{Asset: "font-bold", Err: boldErr}
	}
	if logoErr != nil {
		log.Printf("Warning: logo fetch failed, rendering without logo: %v", logoErr)
		bundle.Logo = nil
	}

	return bundle, nil
}

// fetchLogo downloads and decodes the logo, downscaling oversized rasters so
// the embedded page stream stays small.
func (f *Fetcher) fetchLogo(ctx context.Context, url string) (image.Image, error) {
	data, err := f.fetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxLogoEdge {
		img = imaging.Resize(img, maxLogoEdge, 0, imaging.Lanczos)
	}
	return img, nil
}

func (f *Fetcher) fetchBytes(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		file, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return readCapped(file)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return readCapped(resp.Body)
}

// readCapped reads r up to the asset size cap, rejecting anything larger
func readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxAssetBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("asset exceeds %d bytes", maxAssetBytes)
	}
	return data, nil
}
