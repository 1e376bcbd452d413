package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"statwizard/domain/tabular"
	"statwizard/internal"
	"statwizard/internal/errors"
	"statwizard/internal/telemetry"
)

// MultiSheetWarning is the advisory attached when an Excel file is accepted;
// only the first worksheet will be read.
const MultiSheetWarning = "建議 Excel 檔案僅包含一個工作表，系統將只讀取第一個工作表的資料"

// Validator checks a candidate file against the tier's resource limits
// before any parsing happens.
type Validator struct {
	dispatcher *telemetry.Dispatcher
	logger     *internal.Logger
}

// NewValidator creates a validator reporting failures through the dispatcher
func NewValidator(dispatcher *telemetry.Dispatcher) *Validator {
	return &Validator{
		dispatcher: dispatcher,
		logger:     internal.DefaultLogger,
	}
}

// ValidateFile runs the fixed-order pre-parse checks: extension, size upper
// bound, emptiness. The first failing check wins and later checks never run.
// The boundary is exception-safe: an unexpected panic becomes a generic
// validation failure instead of propagating.
func (v *Validator) ValidateFile(file tabular.SourceFile, tier tabular.Tier) (result tabular.ValidationResult) {
	limits := tabular.LimitsFor(tier)

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("[Validator] unexpected panic validating %s: %v", file.Name(), r)
			result = tabular.ValidationResult{
				IsValid: false,
				Error:   errors.ToProcessError(errors.ValidationError("檔案驗證失敗，請重新選擇檔案")),
			}
			v.reportFailure(file, tier, result.Error)
		}
	}()

	ext := extensionOf(file.Name())
	if !limits.AllowsExtension(ext) {
		result = v.fail(file, tier, errors.FileFormatUnsupported(fmt.Sprintf(
			"不支援的檔案格式「.%s」，僅支援 %s 檔案", ext, strings.Join(limits.AllowedExtensions, "、"))))
		return result
	}

	if file.Size() > limits.MaxSizeBytes {
		result = v.fail(file, tier, errors.FileSizeExceeded(fmt.Sprintf(
			"檔案大小 %s 超過上限 %s", FormatFileSize(file.Size()), FormatFileSize(limits.MaxSizeBytes))))
		return result
	}

	// Anything under 10 bytes cannot be a real spreadsheet
	if file.Size() < 10 {
		result = v.fail(file, tier, errors.FileEmpty("檔案內容為空，無法進行分析"))
		return result
	}

	if ext == "xls" || ext == "xlsx" {
		return tabular.ValidationResult{IsValid: true, Warnings: []string{MultiSheetWarning}}
	}

	return tabular.ValidationResult{IsValid: true}
}

// fail converts the violation into a result and reports the rejection
func (v *Validator) fail(file tabular.SourceFile, tier tabular.Tier, appErr *errors.AppError) tabular.ValidationResult {
	v.logger.Info("[Validator] rejected %s (%d bytes, tier %s): %s", file.Name(), file.Size(), tier, appErr.Message)
	processErr := errors.ToProcessError(appErr)
	v.reportFailure(file, tier, processErr)
	return tabular.ValidationResult{IsValid: false, Error: processErr}
}

// reportFailure sends the rejection to telemetry without ever blocking or
// failing validation itself.
func (v *Validator) reportFailure(file tabular.SourceFile, tier tabular.Tier, processErr *tabular.ProcessError) {
	limits := tabular.LimitsFor(tier)
	event := telemetry.NewEvent("file_validation_failed")
	event.FileName = file.Name()
	event.FileSize = file.Size()
	event.Tier = string(tier)
	event.Code = processErr.Code
	event.Message = processErr.Message
	event.Metadata = map[string]any{
		"max_size_bytes":     limits.MaxSizeBytes,
		"allowed_extensions": limits.AllowedExtensions,
	}
	v.dispatcher.Dispatch(event)
}

// extensionOf returns the lowercase extension without the dot
func extensionOf(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
