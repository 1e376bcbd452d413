package privacy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statwizard/internal/telemetry"
)

func newTestDetector() *Detector {
	return NewDetector(telemetry.NewDispatcher(nil))
}

func TestDetectSensitiveColumns_MixedClinicalColumns(t *testing.T) {
	detector := newTestDetector()

	result := detector.DetectSensitiveColumns([]string{"姓名", "age", "血壓", "身分證", "glucose", "電話號碼"})

	require.True(t, result.HasSensitiveData)
	assert.Equal(t, []string{"姓名", "身分證", "電話號碼"}, result.SensitiveColumns)
}

func TestDetectSensitiveColumns_CleanColumns(t *testing.T) {
	detector := newTestDetector()

	result := detector.DetectSensitiveColumns([]string{"age", "glucose", "cholesterol", "visit_count"})

	assert.False(t, result.HasSensitiveData)
	assert.Empty(t, result.SensitiveColumns)
	assert.Empty(t, result.Suggestions)
}

// A clean scan must serialize its columns and suggestions as empty JSON
// arrays, matching the shape of every other result path.
func TestDetectSensitiveColumns_CleanScanSerializesAsArrays(t *testing.T) {
	detector := newTestDetector()

	result := detector.DetectSensitiveColumns([]string{"age", "glucose"})

	require.NotNil(t, result.SensitiveColumns)
	require.NotNil(t, result.Suggestions)
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sensitive_columns":[]`)
	assert.Contains(t, string(data), `"suggestions":[]`)
}

// A column containing both a whitelist term and a sensitive keyword must
// never be flagged: the whitelist wins over every category.
func TestDetectSensitiveColumns_WhitelistPrecedence(t *testing.T) {
	detector := newTestDetector()

	result := detector.DetectSensitiveColumns([]string{
		"patient_glucose",
		"patient_bmi",
		"name_of_cholesterol_test",
	})

	assert.False(t, result.HasSensitiveData, "whitelisted columns were flagged: %v", result.SensitiveColumns)
}

func TestDetectSensitiveColumns_VerbatimColumnNames(t *testing.T) {
	detector := newTestDetector()

	result := detector.DetectSensitiveColumns([]string{"  Patient_Name  "})

	require.True(t, result.HasSensitiveData)
	// Original casing and spacing preserved, never the normalized form
	assert.Equal(t, []string{"  Patient_Name  "}, result.SensitiveColumns)
}

func TestDetectSensitiveColumns_DeduplicatesSuggestions(t *testing.T) {
	detector := newTestDetector()

	result := detector.DetectSensitiveColumns([]string{"姓名", "patient_name", "full_name"})

	require.Len(t, result.SensitiveColumns, 3)
	assert.Len(t, result.Suggestions, 1, "identical suggestions must collapse to one")
}

// Forcing an internal panic must yield the sentinel result, never a silent
// "no sensitive data" answer.
func TestDetectSensitiveColumns_FailSafe(t *testing.T) {
	rules := []CategoryRule{
		{
			Category:   "broken",
			Patterns:   []Pattern{{Text: "(", Exact: true}}, // invalid regex fragment
			Suggestion: "n/a",
		},
	}
	detector := NewDetectorWithRules(rules, nil, telemetry.NewDispatcher(nil))

	result := detector.DetectSensitiveColumns([]string{"anything"})

	require.True(t, result.HasSensitiveData)
	assert.Equal(t, []string{SentinelColumn}, result.SensitiveColumns)
	assert.Equal(t, []string{SentinelSuggestion}, result.Suggestions)
}

func TestDetectSensitiveColumns_InvariantHolds(t *testing.T) {
	detector := newTestDetector()

	for _, columns := range [][]string{
		{},
		{"age"},
		{"姓名"},
		{"phone", "email", "address"},
	} {
		result := detector.DetectSensitiveColumns(columns)
		assert.Equal(t, len(result.SensitiveColumns) > 0, result.HasSensitiveData,
			"hasSensitiveData must mirror sensitiveColumns for %v", columns)
	}
}

func TestMatchesCategory(t *testing.T) {
	tests := []struct {
		name       string
		normalized string
		pattern    string
		exact      bool
		want       bool
	}{
		{"exact token matches alone", "name", "name", true, true},
		{"exact token matches with underscore separator", "patient_name", "name", true, true},
		{"exact token matches with dash separator", "full-name", "name", true, true},
		{"exact token rejects embedded match", "username", "name", true, false},
		{"exact phone rejects phonetics", "phonetics", "phone", true, false},
		{"exact tel rejects hotel", "hotel", "tel", true, false},
		{"exact multiword token", "hosp_patient_id", "patient_id", true, true},
		{"exact rejects suffixed token", "patient_id2", "patient_id", true, false},
		{"substring matches anywhere", "血壓與電話紀錄", "電話", false, true},
		{"substring misses absent keyword", "age", "電話", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesCategory(tt.normalized, tt.pattern, tt.exact)
			assert.Equal(t, tt.want, got)
		})
	}
}
