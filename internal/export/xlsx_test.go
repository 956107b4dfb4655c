package export

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/paper-extractor/constants"
	"github.com/joseph-ayodele/paper-extractor/internal/common"
	"github.com/joseph-ayodele/paper-extractor/internal/entity"
)

func testBatch() entity.Batch {
	ok := entity.NewRecord("**Title**\nA Study")
	ok.FileName = "a.pdf"
	ok.Values[string(constants.Title)] = "A Study"

	failed := entity.NewRecord(constants.ExtractionErrorMarker + ": broken")
	failed.FileName = "b.pdf"
	failed.Status = constants.RecordStatusExtractFailed

	return entity.Batch{Records: []entity.Record{ok, failed}}
}

func newWriter() *Writer {
	return NewWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "summaries.xlsx")
	if err := newWriter().WriteXLSX(testBatch(), out); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}

	want := constants.Columns()
	if strings.Join(rows[0], "|") != strings.Join(want, "|") {
		t.Fatalf("header = %v, want %v", rows[0], want)
	}
	if rows[0][0] != constants.ColumnFileName || rows[0][1] != string(constants.Title) {
		t.Fatalf("unexpected leading columns %v", rows[0][:2])
	}

	col := func(name string) int {
		for i, c := range rows[0] {
			if c == name {
				return i
			}
		}
		t.Fatalf("missing column %q", name)
		return -1
	}
	if rows[1][col(constants.ColumnFileName)] != "a.pdf" || rows[2][col(constants.ColumnFileName)] != "b.pdf" {
		t.Fatal("rows are not in batch order")
	}
	if rows[1][col(string(constants.Title))] != "A Study" {
		t.Fatalf("title = %q", rows[1][col(string(constants.Title))])
	}
	if rows[2][col(string(constants.Abstract))] != constants.NotAvailable {
		t.Fatalf("abstract = %q", rows[2][col(string(constants.Abstract))])
	}
	if rows[1][col(constants.ColumnSummary)] != "**Title**\nA Study" {
		t.Fatalf("summary = %q", rows[1][col(constants.ColumnSummary)])
	}
	if rows[2][col(constants.ColumnStatus)] != string(constants.RecordStatusExtractFailed) {
		t.Fatalf("status = %q", rows[2][col(constants.ColumnStatus)])
	}
}

func TestWriteXLSX_EmptyBatch(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := newWriter().WriteXLSX(entity.Batch{}, out); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestWriteXLSX_BadParent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "missing parent", path: filepath.Join(dir, "missing", "out.xlsx")},
		{name: "parent is a file", path: filepath.Join(file, "out.xlsx")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := newWriter().WriteXLSX(testBatch(), tt.path)
			if !errors.Is(err, common.ErrWrite) {
				t.Fatalf("expected write error, got %v", err)
			}
		})
	}
}

func TestColumns_ExtraKeysAfterKnown(t *testing.T) {
	rec := entity.NewRecord("")
	rec.Values["Funding"] = "NSF"
	cols := Columns([]entity.Record{rec})
	if cols[len(cols)-1] != "Funding" {
		t.Fatalf("extra column not appended last: %v", cols)
	}
	if len(cols) != len(constants.Columns())+1 {
		t.Fatalf("got %d columns", len(cols))
	}
}

func TestClip(t *testing.T) {
	long := strings.Repeat("é", maxCellChars+10)
	if got := []rune(clip(long)); len(got) != maxCellChars {
		t.Fatalf("clipped to %d characters", len(got))
	}
	if clip("short") != "short" {
		t.Fatal("short value changed")
	}
}
