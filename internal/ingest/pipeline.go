package ingest

import (
	"context"
	"fmt"

	"statwizard/adapters/excel"
	"statwizard/domain/tabular"
	"statwizard/internal"
	"statwizard/internal/errors"
	"statwizard/internal/telemetry"
)

// Pipeline orchestrates the full ingestion flow: parse the workbook, enforce
// the tier's row and column limits, then normalize rows into a rectangular
// set. Validation (extension, byte size) is a separate step composed by
// ValidateAndProcess.
type Pipeline struct {
	parser     *excel.Parser
	validator  *Validator
	dispatcher *telemetry.Dispatcher
	logger     *internal.Logger
}

// NewPipeline creates a pipeline with the given collaborators
func NewPipeline(parser *excel.Parser, validator *Validator, dispatcher *telemetry.Dispatcher) *Pipeline {
	return &Pipeline{
		parser:     parser,
		validator:  validator,
		dispatcher: dispatcher,
		logger:     internal.DefaultLogger,
	}
}

// ProcessFile reads, parses, limit-checks and normalizes one file. The
// result always satisfies: data non-empty with file info, or data empty
// with a structured error. Internal failures never escape as panics or raw
// errors.
func (p *Pipeline) ProcessFile(ctx context.Context, file tabular.SourceFile, tier tabular.Tier) (result tabular.ProcessedFileResult) {
	limits := tabular.LimitsFor(tier)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("[Pipeline] unexpected panic processing %s: %v", file.Name(), r)
			result = p.fail(file, tier, errors.ServerError("檔案處理失敗，請稍後再試", fmt.Errorf("panic: %v", r)))
		}
	}()

	if err := ctx.Err(); err != nil {
		return p.fail(file, tier, errors.FileReadFailed("檔案讀取已中斷", err))
	}

	workbook, err := p.parser.ReadWorkbook(file)
	if err != nil {
		return p.fail(file, tier, err)
	}

	if len(workbook.Rows) == 0 {
		return p.fail(file, tier, errors.FileEmpty("檔案中沒有可分析的資料"))
	}

	if len(workbook.Rows) > limits.MaxRows {
		return p.fail(file, tier, errors.FileSizeExceeded(fmt.Sprintf(
			"資料列數 %s 超過上限 %s 列，請減少資料量後重新上傳",
			formatCount(len(workbook.Rows)), formatCount(limits.MaxRows))))
	}

	// Column count is measured from the first row before normalization. A
	// ragged file whose first row is sparse under-counts here; known quirk,
	// kept until product says otherwise.
	columnCount := len(workbook.Rows[0])
	if columnCount > limits.MaxColumns {
		return p.fail(file, tier, errors.FileSizeExceeded(fmt.Sprintf(
			"欄位數 %s 超過上限 %s 欄，請減少欄位後重新上傳",
			formatCount(columnCount), formatCount(limits.MaxColumns))))
	}

	normalized := Normalize(workbook.Rows)
	p.logger.Info("[Pipeline] processed %s: %d rows, %d columns, multiSheet=%v",
		file.Name(), len(normalized), columnCount, workbook.HasMultipleSheets)

	return tabular.ProcessedFileResult{
		Data: normalized,
		FileInfo: &tabular.FileInfo{
			Name:              file.Name(),
			Size:              file.Size(),
			Rows:              len(normalized),
			Columns:           columnCount,
			HasMultipleSheets: workbook.HasMultipleSheets,
		},
	}
}

// ValidateAndProcess composes pre-parse validation with the full pipeline.
// Validation failures short-circuit without touching the file contents;
// validator warnings carry over into the final result.
func (p *Pipeline) ValidateAndProcess(ctx context.Context, file tabular.SourceFile, tier tabular.Tier) tabular.ProcessedFileResult {
	validation := p.validator.ValidateFile(file, tier)
	if !validation.IsValid {
		return tabular.ProcessedFileResult{Data: []tabular.Row{}, Error: validation.Error}
	}

	result := p.ProcessFile(ctx, file, tier)
	if len(validation.Warnings) > 0 {
		result.Warnings = append(validation.Warnings, result.Warnings...)
	}
	return result
}

// GetFileBasicInfo is the header-only probe: column names and the
// multi-sheet flag, without committing to a full parse.
func (p *Pipeline) GetFileBasicInfo(file tabular.SourceFile) (info tabular.FileBasicInfo) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("[Pipeline] unexpected panic probing %s: %v", file.Name(), r)
			info = tabular.FileBasicInfo{
				Error: errors.ToProcessError(errors.ServerError("檔案處理失敗，請稍後再試", fmt.Errorf("panic: %v", r))),
			}
		}
	}()

	workbook, err := p.parser.ReadHeaders(file)
	if err != nil {
		return tabular.FileBasicInfo{Error: errors.ToProcessError(err)}
	}

	columns := make([]string, 0, len(workbook.Headers))
	for _, header := range workbook.Headers {
		if header != "" {
			columns = append(columns, header)
		}
	}
	return tabular.FileBasicInfo{Columns: columns, HasMultipleSheets: workbook.HasMultipleSheets}
}

// fail reports the violation to telemetry and returns the terminal result
func (p *Pipeline) fail(file tabular.SourceFile, tier tabular.Tier, err error) tabular.ProcessedFileResult {
	processErr := errors.ToProcessError(err)
	p.logger.Info("[Pipeline] failed %s (tier %s): %s %s", file.Name(), tier, processErr.Code, processErr.Message)

	limits := tabular.LimitsFor(tier)
	event := telemetry.NewEvent("file_process_failed")
	event.FileName = file.Name()
	event.FileSize = file.Size()
	event.Tier = string(tier)
	event.Code = processErr.Code
	event.Message = processErr.Message
	event.Metadata = map[string]any{
		"max_rows":    limits.MaxRows,
		"max_columns": limits.MaxColumns,
	}
	p.dispatcher.Dispatch(event)

	return tabular.ProcessedFileResult{Data: []tabular.Row{}, Error: processErr}
}
