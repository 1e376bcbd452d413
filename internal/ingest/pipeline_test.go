package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"statwizard/adapters/excel"
	"statwizard/domain/tabular"
	"statwizard/internal/errors"
	"statwizard/internal/telemetry"
)

func newTestPipeline() *Pipeline {
	dispatcher := telemetry.NewDispatcher(nil)
	return NewPipeline(excel.NewParser(), NewValidator(dispatcher), dispatcher)
}

func csvFile(name string, rows int, cols int) *tabular.BytesFile {
	var sb strings.Builder
	for c := 0; c < cols; c++ {
		if c > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "col%d", c+1)
	}
	sb.WriteByte('\n')
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "v%d_%d", r, c)
		}
		sb.WriteByte('\n')
	}
	return tabular.NewBytesFile(name, []byte(sb.String()))
}

func TestProcessFile_ValidCSV(t *testing.T) {
	pipeline := newTestPipeline()
	file := csvFile("data.csv", 3, 4)

	result := pipeline.ProcessFile(context.Background(), file, tabular.TierGeneral)

	if result.Error != nil {
		t.Fatalf("unexpected error: %+v", result.Error)
	}
	if len(result.Data) != 3 {
		t.Errorf("expected 3 rows, got %d", len(result.Data))
	}
	info := result.FileInfo
	if info == nil {
		t.Fatal("expected file info on success")
	}
	if info.Rows != 3 || info.Columns != 4 {
		t.Errorf("expected 3x4, got %dx%d", info.Rows, info.Columns)
	}
	if info.Name != "data.csv" || info.Size != file.Size() {
		t.Errorf("file metadata mismatch: %+v", info)
	}
	if info.HasMultipleSheets {
		t.Error("CSV can never have multiple sheets")
	}

	// Every normalized row carries the full key set
	for i, row := range result.Data {
		if len(row) != 4 {
			t.Errorf("row %d has %d keys after normalization, want 4", i, len(row))
		}
	}
}

func TestProcessFile_RowLimitExceeded(t *testing.T) {
	pipeline := newTestPipeline()
	file := csvFile("big.csv", 51000, 2)

	result := pipeline.ProcessFile(context.Background(), file, tabular.TierGeneral)

	if result.Error == nil {
		t.Fatal("expected row-limit rejection")
	}
	if result.Error.Code != errors.CodeFileSizeExceeded {
		t.Errorf("expected %s, got %s", errors.CodeFileSizeExceeded, result.Error.Code)
	}
	if !strings.Contains(result.Error.Message, "資料列數") {
		t.Errorf("message should mention the row count, got %q", result.Error.Message)
	}
	if !strings.Contains(result.Error.Message, "51,000") || !strings.Contains(result.Error.Message, "50,000") {
		t.Errorf("message should include actual and limit with separators, got %q", result.Error.Message)
	}
	if len(result.Data) != 0 {
		t.Errorf("failed result must carry no data, got %d rows", len(result.Data))
	}
}

func TestProcessFile_ColumnLimitExceeded(t *testing.T) {
	pipeline := newTestPipeline()
	file := csvFile("wide.csv", 1, 101)

	result := pipeline.ProcessFile(context.Background(), file, tabular.TierGeneral)

	if result.Error == nil {
		t.Fatal("expected column-limit rejection")
	}
	if result.Error.Code != errors.CodeFileSizeExceeded {
		t.Errorf("expected %s, got %s", errors.CodeFileSizeExceeded, result.Error.Code)
	}
	if !strings.Contains(result.Error.Message, "欄位數") {
		t.Errorf("message should mention the column count, got %q", result.Error.Message)
	}
}

func TestProcessFile_HeaderOnlyIsEmpty(t *testing.T) {
	pipeline := newTestPipeline()
	file := tabular.NewBytesFile("headers.csv", []byte("a,b,c\n"))

	result := pipeline.ProcessFile(context.Background(), file, tabular.TierGeneral)

	if result.Error == nil || result.Error.Code != errors.CodeFileEmpty {
		t.Fatalf("expected %s, got %+v", errors.CodeFileEmpty, result.Error)
	}
}

// Column count is measured from the first data row before normalization.
// A first row with empty trailing cells under-counts; this pins the known
// quirk so a change to it is deliberate, not accidental.
func TestProcessFile_ColumnCountQuirkFromFirstRow(t *testing.T) {
	pipeline := newTestPipeline()
	file := tabular.NewBytesFile("ragged.csv", []byte("a,b,c\n1,2,\n4,5,6\n"))

	result := pipeline.ProcessFile(context.Background(), file, tabular.TierGeneral)

	if result.Error != nil {
		t.Fatalf("unexpected error: %+v", result.Error)
	}
	if result.FileInfo.Columns != 2 {
		t.Errorf("first-row column count should be 2 (sparse first row), got %d", result.FileInfo.Columns)
	}
	// Normalization still produces the full key union
	for i, row := range result.Data {
		if len(row) != 3 {
			t.Errorf("row %d has %d keys, want 3 after normalization", i, len(row))
		}
	}
}

func TestProcessFile_MultiSheetExcel(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"name", "value"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]any{"x", "1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("Sheet2"); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	pipeline := newTestPipeline()
	file := tabular.NewBytesFile("book.xlsx", buf.Bytes())

	result := pipeline.ProcessFile(context.Background(), file, tabular.TierGeneral)

	if result.Error != nil {
		t.Fatalf("unexpected error: %+v", result.Error)
	}
	if !result.FileInfo.HasMultipleSheets {
		t.Error("expected multi-sheet flag for two-sheet workbook")
	}
	if result.FileInfo.Rows != 1 {
		t.Errorf("only the first sheet should be read, got %d rows", result.FileInfo.Rows)
	}
}

func TestValidateAndProcess_ShortCircuitsOnValidation(t *testing.T) {
	pipeline := newTestPipeline()
	file := tabular.NewBytesFile("notes.txt", []byte(strings.Repeat("x", 100)))

	result := pipeline.ValidateAndProcess(context.Background(), file, tabular.TierGeneral)

	if result.Error == nil || result.Error.Code != errors.CodeFileFormatUnsupported {
		t.Fatalf("expected validation short-circuit, got %+v", result.Error)
	}
	if len(result.Data) != 0 {
		t.Errorf("short-circuited result must carry no data")
	}
}

func TestValidateAndProcess_MergesWarnings(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]any{"1", "2"}); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	pipeline := newTestPipeline()
	file := tabular.NewBytesFile("book.xlsx", buf.Bytes())

	result := pipeline.ValidateAndProcess(context.Background(), file, tabular.TierGeneral)

	if result.Error != nil {
		t.Fatalf("unexpected error: %+v", result.Error)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "工作表") {
		t.Errorf("validator warnings should carry into the final result, got %v", result.Warnings)
	}
}

func TestProcessFile_CorruptExcel(t *testing.T) {
	pipeline := newTestPipeline()
	file := tabular.NewBytesFile("broken.xlsx", []byte("this is definitely not a zip archive, padded to size"))

	result := pipeline.ProcessFile(context.Background(), file, tabular.TierGeneral)

	if result.Error == nil {
		t.Fatal("expected decode failure")
	}
	if result.Error.Code != errors.CodeFileCorrupted && result.Error.Code != errors.CodeServerError {
		t.Errorf("expected corrupted/server classification, got %s", result.Error.Code)
	}
}

func TestProcessFile_ProfessionalTierAcceptsMoreRows(t *testing.T) {
	pipeline := newTestPipeline()
	file := csvFile("big.csv", 51000, 2)

	result := pipeline.ProcessFile(context.Background(), file, tabular.TierProfessional)

	if result.Error != nil {
		t.Fatalf("professional tier should accept 51,000 rows, got %+v", result.Error)
	}
	if result.FileInfo.Rows != 51000 {
		t.Errorf("expected 51000 rows, got %d", result.FileInfo.Rows)
	}
}
