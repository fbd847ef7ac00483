package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fakturly/billing-engine/internal/assemble"
	"github.com/fakturly/billing-engine/internal/assets"
	"github.com/fakturly/billing-engine/internal/symbol"
	"github.com/fakturly/billing-engine/pkg/docmodel"
)

func main() {
	var (
		inPath   string
		outPath  string
		locale   string
		logoURL  string
		fontPath string
		boldPath string
		level    string
		timeout  time.Duration
	)

	flag.StringVar(&inPath, "in", "", "Path to the document JSON file (required)")
	flag.StringVar(&outPath, "out", "", "Output PDF path (defaults to the suggested filename)")
	flag.StringVar(&locale, "locale", "en", "Label locale: en, de or fr")
	flag.StringVar(&logoURL, "logo", "", "Issuer logo URL or path (best effort)")
	flag.StringVar(&fontPath, "font", "", "TTF font path or URL for the regular face")
	flag.StringVar(&boldPath, "font-bold", "", "TTF font path or URL for the bold face")
	flag.StringVar(&level, "level", "M", "Symbol error-correction level: L, M, Q or H")
	flag.DurationVar(&timeout, "timeout", assets.DefaultTimeout, "Asset fetch timeout")
	flag.Parse()

	if inPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	model, err := docmodel.ParseFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	assembler := assemble.New(assets.NewFetcher(timeout))
	res, err := assembler.Render(context.Background(), model, assemble.Options{
		Locale: locale,
		Level:  symbol.Level(level),
		Assets: assets.Sources{
			LogoURL:     logoURL,
			FontRegular: fontPath,
			FontBold:    boldPath,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: render failed: %v\n", err)
		os.Exit(1)
	}

	if outPath == "" {
		outPath = res.Filename
	}
	if err := os.WriteFile(outPath, res.PDF, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d page(s), %d bytes)\n", outPath, res.Pages, len(res.PDF))
}
