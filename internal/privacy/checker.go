package privacy

import (
	"context"

	"statwizard/domain/tabular"
	"statwizard/internal"
	"statwizard/internal/errors"
	"statwizard/internal/telemetry"
)

// HeaderProber is the header-only probe the checker runs before detection;
// the ingestion pipeline implements it.
type HeaderProber interface {
	GetFileBasicInfo(file tabular.SourceFile) tabular.FileBasicInfo
}

// FileCheckResult is a sensitive-data check bound to one file: the
// detection outcome plus any probe-level error that preempted detection.
type FileCheckResult struct {
	tabular.SensitiveCheckResult
	Error *tabular.ProcessError `json:"error,omitempty"`
}

// Checker runs the privacy screen against a file before the full parse
type Checker struct {
	prober     HeaderProber
	detector   *Detector
	dispatcher *telemetry.Dispatcher
	logger     *internal.Logger
}

// NewChecker creates a file-level privacy checker
func NewChecker(prober HeaderProber, detector *Detector, dispatcher *telemetry.Dispatcher) *Checker {
	return &Checker{
		prober:     prober,
		detector:   detector,
		dispatcher: dispatcher,
		logger:     internal.DefaultLogger,
	}
}

// CheckFile probes the file's header row and screens the column names.
// A missing file or a file with no usable columns is a validation error; a
// probe-level read error propagates without attempting detection. Any
// unexpected panic fails safe with the sentinel column, same as the
// detector itself.
func (c *Checker) CheckFile(ctx context.Context, file tabular.SourceFile) (result FileCheckResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("[PrivacyChecker] check panicked, failing safe: %v", r)
			result = FileCheckResult{SensitiveCheckResult: failSafeResult()}
			event := telemetry.NewEvent("privacy_check_failed")
			event.Code = errors.CodePrivacyError
			c.dispatcher.Dispatch(event)
		}
	}()

	if file == nil {
		return FileCheckResult{
			SensitiveCheckResult: tabular.SensitiveCheckResult{SensitiveColumns: []string{}, Suggestions: []string{}},
			Error:                errors.ToProcessError(errors.ValidationError("未選擇檔案，請先選擇要檢查的檔案")),
		}
	}

	if err := ctx.Err(); err != nil {
		return FileCheckResult{
			SensitiveCheckResult: tabular.SensitiveCheckResult{SensitiveColumns: []string{}, Suggestions: []string{}},
			Error:                errors.ToProcessError(errors.FileReadFailed("檔案讀取已中斷", err)),
		}
	}

	info := c.prober.GetFileBasicInfo(file)
	if info.Error != nil {
		return FileCheckResult{
			SensitiveCheckResult: tabular.SensitiveCheckResult{SensitiveColumns: []string{}, Suggestions: []string{}},
			Error:                info.Error,
		}
	}

	if len(info.Columns) == 0 {
		return FileCheckResult{
			SensitiveCheckResult: tabular.SensitiveCheckResult{SensitiveColumns: []string{}, Suggestions: []string{}},
			Error:                errors.ToProcessError(errors.ValidationError("檔案中沒有有效的欄位名稱")),
		}
	}

	return FileCheckResult{SensitiveCheckResult: c.detector.DetectSensitiveColumns(info.Columns)}
}
