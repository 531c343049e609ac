package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/docuflow/delivery-notes/internal/common"
	"github.com/docuflow/delivery-notes/internal/extract"
	"github.com/docuflow/delivery-notes/internal/llm/openai"
	"github.com/docuflow/delivery-notes/internal/normalize"
	"github.com/docuflow/delivery-notes/internal/ocr"
	"github.com/docuflow/delivery-notes/internal/repository"
	"github.com/docuflow/delivery-notes/internal/sink"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir            = flag.String("dir", "", "directory of delivery notes to process")
		useGmail       = flag.Bool("gmail", false, "pull delivery notes from the configured Gmail mailbox")
		query          = flag.String("query", "", "Gmail search query (defaults to GMAIL_QUERY)")
		heuristicsOnly = flag.Bool("heuristics-only", false, "skip the model tier entirely")
		out            = flag.String("out", "", "output CSV path (defaults to OUTPUT_CSV)")
		xlsxOut        = flag.String("xlsx", "", "optional XLSX output path")
		inmem          = flag.Bool("inmem", false, "use an in-memory catalog")
	)
	flag.Parse()

	if *dir == "" && !*useGmail {
		printError("Error: either --dir or --gmail is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	if *out == "" {
		*out = cfg.Output.CSVPath
	}
	if *xlsxOut == "" {
		*xlsxOut = cfg.Output.XLSXPath
	}
	if *query == "" {
		*query = cfg.Gmail.Query
	}

	dsn := cfg.Database.DSN
	if *inmem {
		dsn = ":memory:"
	}
	db, err := repository.Open(ctx, dsn)
	if err != nil {
		logger.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	docs := repository.NewDocumentRepository(db)
	jobs := repository.NewJobRepository(db)

	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	acquirer := extract.NewOCRAcquirer(ocrx)

	var model extract.StructuredExtractor
	if !*heuristicsOnly && cfg.LLM.APIKey != "" {
		model = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, ocrx, logger)
		logger.Info("model tier enabled", "model", cfg.LLM.Model)
	} else {
		logger.Warn("model tier disabled, running heuristics only")
	}

	extractor := extract.New(model, acquirer, model != nil, logger)
	// the bounded retry path: one heuristic-only attempt per failed document
	fallback := extract.New(nil, acquirer, false, logger)

	inputs, err := collectInputs(ctx, cfg, docs, *dir, *useGmail, *query, logger)
	if err != nil {
		logger.Error("failed to collect inputs", "error", err)
		os.Exit(1)
	}
	logger.Info("inputs collected", "documents", len(inputs))

	csvFile, err := os.Create(*out)
	if err != nil {
		logger.Error("failed to create output file", "path", *out, "error", err)
		os.Exit(1)
	}
	defer func() { _ = csvFile.Close() }()

	writers := []sink.RowWriter{sink.NewCSVWriter(csvFile)}
	var xlsxFile *os.File
	if *xlsxOut != "" {
		xlsxFile, err = os.Create(*xlsxOut)
		if err != nil {
			logger.Error("failed to create xlsx file", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
		defer func() { _ = xlsxFile.Close() }()
		xw, err := sink.NewXLSXWriter(xlsxFile, logger)
		if err != nil {
			logger.Error("failed to build xlsx writer", "error", err)
			os.Exit(1)
		}
		writers = append(writers, xw)
	}

	processed, failures, totalRows := 0, 0, 0
	for _, in := range inputs {
		job, err := jobs.Start(ctx, in.docID)
		if err != nil {
			logger.Error("failed to start job", "path", in.doc.Path, "error", err)
			failures++
			continue
		}

		res, err := extractor.Extract(ctx, in.doc)
		if err != nil && model != nil {
			logger.Warn("extraction failed, retrying without model", "path", in.doc.Path, "error", err)
			res, err = fallback.Extract(ctx, in.doc)
		}
		if err != nil {
			logger.Error("extraction failed", "path", in.doc.Path, "error", err)
			_ = jobs.Finish(ctx, job.ID, res.Tier, 0, err)
			failures++
			continue
		}

		rows := normalize.Flatten(res)
		writeErr := writeRows(writers, rows)
		if writeErr != nil {
			logger.Error("failed to write rows", "path", in.doc.Path, "error", writeErr)
			_ = jobs.Finish(ctx, job.ID, res.Tier, 0, writeErr)
			failures++
			continue
		}

		_ = jobs.Finish(ctx, job.ID, res.Tier, len(rows), nil)
		processed++
		totalRows += len(rows)
	}

	for _, w := range writers {
		if err := w.Flush(); err != nil {
			logger.Error("failed to flush output", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch complete",
		"documents", len(inputs),
		"processed", processed,
		"failures", failures,
		"rows", totalRows,
		"output", *out,
	)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents: %d\n", len(inputs))
	fmt.Printf("- Processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Rows written: %d\n", totalRows)
	fmt.Printf("- Output: %s\n", *out)
}
