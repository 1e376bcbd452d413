package profile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"statwizard/domain/tabular"
)

// ColumnType is the inferred data type of one column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeBoolean     ColumnType = "boolean"
	TypeDatetime    ColumnType = "datetime"
	TypeText        ColumnType = "text"
)

// NumericSummary holds descriptive statistics for a numeric column
type NumericSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// ColumnProfile describes one classified column
type ColumnProfile struct {
	Name     string          `json:"name"`
	Type     ColumnType      `json:"type"`
	NonEmpty int             `json:"non_empty"`
	Missing  int             `json:"missing"`
	Unique   int             `json:"unique"`
	Summary  *NumericSummary `json:"summary,omitempty"`
}

// Config defines the classification thresholds
type Config struct {
	NumericThreshold       float64 // share of values that must parse as numbers
	BooleanThreshold       float64 // share of values that must parse as booleans
	DatetimeThreshold      float64 // share of values that must parse as timestamps
	CategoricalUniqueRatio float64 // unique/total below this suggests categories
	MaxCategories          int     // unique count above this is never categorical
	SampleSize             int     // rows sampled per column
}

// DefaultConfig returns the thresholds used by the upload wizard
func DefaultConfig() Config {
	return Config{
		NumericThreshold:       0.8,
		BooleanThreshold:       0.9,
		DatetimeThreshold:      0.8,
		CategoricalUniqueRatio: 0.1,
		MaxCategories:          20,
		SampleSize:             500,
	}
}

// Classifier infers per-column data types from normalized rows. It is the
// local, advisory stand-in for the remote column classifier: the wizard can
// show its output immediately, and nothing downstream gates on it.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with the given config
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// ClassifyColumns profiles every named column across the row set
func (c *Classifier) ClassifyColumns(rows []tabular.Row, columns []string) map[string]ColumnProfile {
	profiles := make(map[string]ColumnProfile, len(columns))
	sampled := c.sampleIndices(len(rows))

	for _, column := range columns {
		profiles[column] = c.classifyColumn(rows, sampled, column)
	}
	return profiles
}

func (c *Classifier) classifyColumn(rows []tabular.Row, sampled []int, column string) ColumnProfile {
	profile := ColumnProfile{Name: column, Type: TypeText}

	var numericVals []float64
	numericCount := 0
	booleanCount := 0
	datetimeCount := 0
	unique := make(map[string]bool)

	for _, idx := range sampled {
		raw, ok := rows[idx][column]
		str := strings.TrimSpace(toString(raw))
		if !ok || str == "" {
			profile.Missing++
			continue
		}
		profile.NonEmpty++
		unique[str] = true

		if n, ok := tryParseNumeric(str); ok {
			numericCount++
			numericVals = append(numericVals, n)
		}
		if tryParseBoolean(str) {
			booleanCount++
		}
		if tryParseDatetime(str) {
			datetimeCount++
		}
	}

	profile.Unique = len(unique)
	if profile.NonEmpty == 0 {
		return profile
	}

	total := float64(profile.NonEmpty)
	uniqueRatio := float64(profile.Unique) / total

	switch {
	case float64(booleanCount)/total >= c.config.BooleanThreshold:
		profile.Type = TypeBoolean
	case float64(numericCount)/total >= c.config.NumericThreshold:
		// Low-cardinality integer codes read as categories, not measurements
		if uniqueRatio < c.config.CategoricalUniqueRatio && profile.Unique <= c.config.MaxCategories && allIntegers(numericVals) {
			profile.Type = TypeCategorical
		} else {
			profile.Type = TypeNumeric
			profile.Summary = summarize(numericVals)
		}
	case float64(datetimeCount)/total >= c.config.DatetimeThreshold:
		profile.Type = TypeDatetime
	case uniqueRatio < c.config.CategoricalUniqueRatio && profile.Unique <= c.config.MaxCategories:
		profile.Type = TypeCategorical
	}

	return profile
}

// sampleIndices returns up to SampleSize evenly spread row indices
func (c *Classifier) sampleIndices(totalRows int) []int {
	if totalRows <= c.config.SampleSize {
		indices := make([]int, totalRows)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	indices := make([]int, 0, c.config.SampleSize)
	step := float64(totalRows) / float64(c.config.SampleSize)
	for i := 0; i < c.config.SampleSize; i++ {
		idx := int(float64(i) * step)
		if idx < totalRows {
			indices = append(indices, idx)
		}
	}
	return indices
}

// summarize computes descriptive statistics for the numeric values. Every
// field must stay JSON-serializable, so a single-value column gets StdDev 0
// rather than the NaN a zero-degrees-of-freedom estimate would produce, and
// a failed quartile computation drops the summary instead of emitting zeros.
func summarize(values []float64) *NumericSummary {
	if len(values) == 0 {
		return nil
	}
	median, medianErr := stats.Median(values)
	q25, q25Err := stats.Percentile(values, 25)
	q75, q75Err := stats.Percentile(values, 75)
	min, minErr := stats.Min(values)
	max, maxErr := stats.Max(values)
	if medianErr != nil || q25Err != nil || q75Err != nil || minErr != nil || maxErr != nil {
		return nil
	}

	summary := &NumericSummary{
		Mean:   stat.Mean(values, nil),
		Min:    min,
		Max:    max,
		Median: median,
		Q25:    q25,
		Q75:    q75,
	}
	if len(values) > 1 {
		summary.StdDev = stat.StdDev(values, nil)
	}
	return summary
}

func allIntegers(values []float64) bool {
	for _, v := range values {
		if v != float64(int64(v)) {
			return false
		}
	}
	return true
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// tryParseNumeric accepts plain numbers plus currency/percent/grouped forms
func tryParseNumeric(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	return n, err == nil
}

func tryParseBoolean(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no", "y", "n", "是", "否":
		return true
	}
	return false
}

var datetimeLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

func tryParseDatetime(s string) bool {
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
