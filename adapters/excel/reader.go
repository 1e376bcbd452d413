package excel

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"statwizard/domain/tabular"
	"statwizard/internal/errors"
)

// Parser decodes uploaded spreadsheet and CSV files into row-oriented data
type Parser struct{}

// NewParser creates a new spreadsheet parser
func NewParser() *Parser {
	return &Parser{}
}

// ReadWorkbook reads the full contents of a file: header row, every data row
// of the first sheet, and whether further sheets exist.
func (p *Parser) ReadWorkbook(file tabular.SourceFile) (*Workbook, error) {
	data, err := readAll(file)
	if err != nil {
		return nil, err
	}

	switch extensionOf(file.Name()) {
	case "csv":
		return p.parseCSV(data, false)
	default:
		return p.parseExcel(data, false)
	}
}

// ReadHeaders is the header-only fast path: it decodes just enough of the
// file to return column names and the multi-sheet flag.
func (p *Parser) ReadHeaders(file tabular.SourceFile) (*Workbook, error) {
	data, err := readAll(file)
	if err != nil {
		return nil, err
	}

	switch extensionOf(file.Name()) {
	case "csv":
		return p.parseCSV(data, true)
	default:
		return p.parseExcel(data, true)
	}
}

// parseExcel decodes an xls/xlsx workbook. The first sheet by declared order
// is used; the rest only contribute to HasMultipleSheets.
func (p *Parser) parseExcel(data []byte, headersOnly bool) (*Workbook, error) {
	start := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, classifyDecodeError(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.FileEmpty("檔案中沒有任何工作表")
	}
	multiSheet := len(sheets) > 1

	if headersOnly {
		headers, err := p.readFirstRow(f, sheets[0])
		if err != nil {
			return nil, errors.ServerError("無法讀取檔案標題列", err)
		}
		return &Workbook{Headers: headers, HasMultipleSheets: multiSheet}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ServerError("無法讀取工作表內容", err)
	}
	log.Printf("[Parser] sheet %q read in %.2fms (%d raw rows, %d sheets)",
		sheets[0], float64(time.Since(start).Nanoseconds())/1e6, len(rows), len(sheets))

	return buildWorkbook(rows, multiSheet), nil
}

// parseCSV decodes CSV bytes. CSV files never have multiple sheets.
func (p *Parser) parseCSV(data []byte, headersOnly bool) (*Workbook, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // ragged rows are handled downstream

	if headersOnly {
		header, err := reader.Read()
		if err == io.EOF {
			return nil, errors.FileEmpty("檔案中沒有任何資料")
		}
		if err != nil {
			return nil, classifyDecodeError(err)
		}
		return buildWorkbook([][]string{header}, false), nil
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, classifyDecodeError(err)
	}
	if len(rows) == 0 {
		return nil, errors.FileEmpty("檔案中沒有任何資料")
	}
	return buildWorkbook(rows, false), nil
}

// readFirstRow streams just the first row of a sheet
func (p *Parser) readFirstRow(f *excelize.File, sheet string) ([]string, error) {
	iter, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	if !iter.Next() {
		return nil, nil
	}
	return iter.Columns()
}

// buildWorkbook converts raw string rows into header-keyed row maps.
// Empty cells are omitted from the row map, so rows from sparse sources
// carry different key sets until normalized.
func buildWorkbook(raw [][]string, multiSheet bool) *Workbook {
	if len(raw) == 0 {
		return &Workbook{HasMultipleSheets: multiSheet}
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []tabular.Row
	for i := 1; i < len(raw); i++ {
		row := make(tabular.Row)
		for j, cell := range raw[i] {
			if j >= len(headers) {
				break
			}
			value := strings.TrimSpace(cell)
			if value != "" {
				row[headers[j]] = value
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return &Workbook{Headers: headers, Rows: rows, HasMultipleSheets: multiSheet}
}

// readAll pulls the file's full contents into memory. A failure here is a
// read-level error, distinct from parse or content errors.
func readAll(file tabular.SourceFile) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, errors.FileReadFailed("無法讀取檔案，請重新選擇檔案", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.FileReadFailed("無法讀取檔案，請重新選擇檔案", err)
	}
	return data, nil
}

// classifyDecodeError maps a decoder failure onto the error taxonomy: hints
// of a broken or unrecognized container mean a corrupted upload, anything
// else is an unexpected processing failure. The raw error never reaches the
// caller's result directly.
func classifyDecodeError(err error) error {
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"unsupported", "invalid", "corrupt", "not a valid", "zip", "parse error"} {
		if strings.Contains(msg, hint) {
			return errors.FileCorrupted("檔案已損壞或格式不正確，請確認檔案可正常開啟後重新上傳")
		}
	}
	return errors.ServerError("檔案處理失敗，請稍後再試", err)
}

// extensionOf returns the lowercase extension without the dot
func extensionOf(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
