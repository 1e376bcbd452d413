package tabular

// Row represents one record of parsed tabular data as column name → cell value.
// Cell values are scalars: string, float64, bool, time.Time or nil. Rows from
// a ragged source may carry different key sets until normalized.
type Row map[string]any

// FileInfo summarizes a successfully processed file
type FileInfo struct {
	Name              string `json:"name"`
	Size              int64  `json:"size"`
	Rows              int    `json:"rows"`
	Columns           int    `json:"columns"`
	HasMultipleSheets bool   `json:"has_multiple_sheets"`
}

// ValidationResult is the outcome of pre-parse file validation.
// IsValid=false implies Error is set; IsValid=true implies Error is nil.
type ValidationResult struct {
	IsValid  bool          `json:"is_valid"`
	Error    *ProcessError `json:"error,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ProcessedFileResult is the terminal result of the ingestion pipeline.
// Either Data is non-empty and FileInfo is set, or Data is empty and Error
// is set, never both.
type ProcessedFileResult struct {
	Data     []Row         `json:"data"`
	Error    *ProcessError `json:"error,omitempty"`
	FileInfo *FileInfo     `json:"file_info,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// FileBasicInfo is the header-only probe result used before committing to a
// full parse.
type FileBasicInfo struct {
	Columns           []string      `json:"columns"`
	HasMultipleSheets bool          `json:"has_multiple_sheets"`
	Error             *ProcessError `json:"error,omitempty"`
}

// SensitiveCheckResult reports which columns look personally identifiable.
// HasSensitiveData is true exactly when SensitiveColumns is non-empty;
// column names are copied verbatim from the input.
type SensitiveCheckResult struct {
	HasSensitiveData bool     `json:"has_sensitive_data"`
	SensitiveColumns []string `json:"sensitive_columns"`
	Suggestions      []string `json:"suggestions"`
}

// ProcessError is the JSON-serializable error shape surfaced to the UI layer
type ProcessError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProcessError) Error() string {
	return e.Message
}
