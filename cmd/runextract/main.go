package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/docuflow/delivery-notes/constants"
	"github.com/docuflow/delivery-notes/internal/common"
	"github.com/docuflow/delivery-notes/internal/extract"
	"github.com/docuflow/delivery-notes/internal/llm/openai"
	"github.com/docuflow/delivery-notes/internal/ocr"
)

// runextract extracts a single delivery note and prints the structured
// result as JSON. Useful for debugging one document without the catalog.
func main() {
	heuristicsOnly := flag.Bool("heuristics-only", false, "skip the model tier")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: runextract [-heuristics-only] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		fmt.Fprintf(os.Stderr, "unsupported file type: %s\n", path)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := common.LoadConfig()
	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)

	var model extract.StructuredExtractor
	if !*heuristicsOnly && cfg.LLM.APIKey != "" {
		model = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, ocrx, logger)
	}

	extractor := extract.New(model, extract.NewOCRAcquirer(ocrx), model != nil, logger)
	res, err := extractor.Extract(ctx, extract.DocumentInput{Path: path, Format: format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}
