package sink

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docuflow/delivery-notes/internal/normalize"
)

const xlsxSheet = "DeliveryNotes"

// XLSXWriter accumulates rows into an excelize workbook and writes the
// workbook on Flush.
type XLSXWriter struct {
	f      *excelize.File
	out    io.Writer
	row    int
	logger *slog.Logger
}

func NewXLSXWriter(out io.Writer, logger *slog.Logger) (*XLSXWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(xlsxSheet); index == -1 {
		if _, err := f.NewSheet(xlsxSheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(xlsxSheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range normalize.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(xlsxSheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(normalize.Header), 1)
		_ = f.SetCellStyle(xlsxSheet, "A1", last, style)
	}

	// Widen a few columns
	_ = f.SetColWidth(xlsxSheet, "A", "A", 28) // sender
	_ = f.SetColWidth(xlsxSheet, "B", "B", 48) // address
	_ = f.SetColWidth(xlsxSheet, "C", "C", 16) // date
	_ = f.SetColWidth(xlsxSheet, "D", "D", 40) // description
	_ = f.SetColWidth(xlsxSheet, "E", "G", 12) // quantity, price, total

	return &XLSXWriter{f: f, out: out, row: 2, logger: logger}, nil
}

func (x *XLSXWriter) WriteRows(rows []normalize.Row) error {
	for _, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, x.row)
			_ = x.f.SetCellValue(xlsxSheet, cell, v)
		}
		write(1, r.Sender)
		write(2, r.ShippingAddress)
		write(3, r.Date)
		write(4, r.ProductDescription)
		write(5, r.Quantity)
		write(6, r.Price)
		write(7, r.RowTotal)
		x.row++
	}
	return nil
}

func (x *XLSXWriter) Flush() error {
	start := time.Now()
	buf, err := x.f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	if _, err := x.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("xlsx flush: %w", err)
	}
	x.logger.Info("sink.xlsx.ok",
		"rows", x.row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
