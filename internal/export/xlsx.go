package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/paper-extractor/constants"
	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/entity"
)

const (
	SheetName = "Summaries"
	// excelize rejects longer cell strings
	maxCellChars = 32767
)

// Writer serializes a batch into a workbook.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteXLSX writes one row per record, in batch order, to outputPath.
// Every failure is a WriteError.
func (w *Writer) WriteXLSX(batch entity.Batch, outputPath string) error {
	start := time.Now()

	dir := filepath.Dir(outputPath)
	info, err := os.Stat(dir)
	if err != nil {
		return common.WriteError(outputPath, fmt.Errorf("output directory: %w", err))
	}
	if !info.IsDir() {
		return common.WriteError(outputPath, fmt.Errorf("output directory %s is not a directory", dir))
	}

	f, err := Build(batch)
	if err != nil {
		return common.WriteError(outputPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(outputPath); err != nil {
		return common.WriteError(outputPath, fmt.Errorf("xlsx save: %w", err))
	}

	w.logger.Info("export.xlsx.ok",
		"path", outputPath,
		"rows", len(batch.Records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Columns returns the header row: file name, the field set in declared order, summary and
// status, then any other keys the records carry in sorted order.
func Columns(records []entity.Record) []string {
	cols := constants.Columns()
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		seen[c] = struct{}{}
	}
	var extra []string
	for _, r := range records {
		for _, k := range r.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

// Build renders the batch into an in-memory workbook.
func Build(batch entity.Batch) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	cols := Columns(batch.Records)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	var errs []error
	for i, rec := range batch.Records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = clip(rec.Column(c))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			errs = append(errs, fmt.Errorf("row %d (%s): %w", i+2, rec.FileName, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		_ = f.Close()
		return nil, err
	}

	_ = f.SetColWidth(SheetName, "A", "A", 32)
	last, _ := excelize.ColumnNumberToName(len(cols))
	_ = f.SetColWidth(SheetName, "B", last, 40)
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight"})
	return f, nil
}

func clip(s string) string {
	if utf8.RuneCountInString(s) <= maxCellChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxCellChars-1]) + "…"
}
