package excel

import "statwizard/domain/tabular"

// Workbook is the parsed contents of one uploaded spreadsheet or CSV file.
// Only the first sheet of a multi-sheet workbook is represented.
type Workbook struct {
	Headers           []string      // Column headers from the first row
	Rows              []tabular.Row // Data rows keyed by header
	HasMultipleSheets bool          // More than one sheet was present in the source
}
