package privacy

import (
	"regexp"
	"strings"

	"statwizard/domain/tabular"
	"statwizard/internal"
	"statwizard/internal/telemetry"
)

// SentinelColumn is reported when detection itself breaks: the system then
// behaves as if sensitive data was found, never as if none was.
const SentinelColumn = "檢測失敗，請手動確認所有欄位"

// SentinelSuggestion accompanies the sentinel column
const SentinelSuggestion = "自動檢測發生錯誤，請人工逐欄確認是否含有個人資料後再繼續"

// Detector screens column names for personally identifiable information
// using category keyword rules with a medical-term whitelist override.
type Detector struct {
	rules      []CategoryRule
	whitelist  []string
	dispatcher *telemetry.Dispatcher
	logger     *internal.Logger
}

// NewDetector creates a detector with the built-in rules and whitelist
func NewDetector(dispatcher *telemetry.Dispatcher) *Detector {
	return NewDetectorWithRules(DefaultRules(), DefaultWhitelist(), dispatcher)
}

// NewDetectorWithRules creates a detector with custom rules, used by tests
// and by deployments that extend the built-in categories.
func NewDetectorWithRules(rules []CategoryRule, whitelist []string, dispatcher *telemetry.Dispatcher) *Detector {
	return &Detector{
		rules:      rules,
		whitelist:  whitelist,
		dispatcher: dispatcher,
		logger:     internal.DefaultLogger,
	}
}

// DetectSensitiveColumns scans the given column names and reports every
// flagged column verbatim plus deduplicated remediation suggestions. The
// scan fails safe: any internal panic yields hasSensitiveData=true with the
// sentinel column instead of silently reporting a clean file.
func (d *Detector) DetectSensitiveColumns(columns []string) (result tabular.SensitiveCheckResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("[PrivacyDetector] detection panicked, failing safe: %v", r)
			result = failSafeResult()
			d.report("sensitive_detection_failed", result)
		}
	}()

	// Empty slices, not nil: the wire shape is always an array
	flagged := []string{}
	suggestions := []string{}
	suggested := make(map[string]bool)

	for _, column := range columns {
		normalized := strings.ToLower(strings.TrimSpace(column))
		if d.isWhitelisted(normalized) {
			continue
		}

		for _, rule := range d.rules {
			if !matchesRule(normalized, rule) {
				continue
			}
			flagged = append(flagged, column)
			if !suggested[rule.Suggestion] {
				suggested[rule.Suggestion] = true
				suggestions = append(suggestions, rule.Suggestion)
			}
			break // first matching category wins
		}
	}

	result = tabular.SensitiveCheckResult{
		HasSensitiveData: len(flagged) > 0,
		SensitiveColumns: flagged,
		Suggestions:      suggestions,
	}
	if result.HasSensitiveData {
		d.report("sensitive_columns_detected", result)
	}
	return result
}

// isWhitelisted reports whether the normalized name contains a medical term
func (d *Detector) isWhitelisted(normalized string) bool {
	for _, term := range d.whitelist {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	return false
}

// matchesRule checks every pattern of a category against the normalized name
func matchesRule(normalized string, rule CategoryRule) bool {
	for _, pattern := range rule.Patterns {
		if matchesCategory(normalized, pattern.Text, pattern.Exact) {
			return true
		}
	}
	return false
}

// matchesCategory is the single matching primitive. Exact patterns must be
// standalone tokens with underscore, dash and whitespace as separators, so
// "patient_glucose" never trips on "patient" alone via a bare substring;
// non-exact patterns use plain containment.
func matchesCategory(normalized, pattern string, exact bool) bool {
	if !exact {
		return strings.Contains(normalized, pattern)
	}
	re := regexp.MustCompile(`(^|[^a-z0-9])` + pattern + `([^a-z0-9]|$)`)
	return re.MatchString(normalized)
}

// report sends detection outcomes to telemetry, fire-and-forget
func (d *Detector) report(action string, result tabular.SensitiveCheckResult) {
	event := telemetry.NewEvent(action)
	event.Code = "PRIVACY_ERROR"
	event.Metadata = map[string]any{
		"sensitive_columns": result.SensitiveColumns,
		"column_count":      len(result.SensitiveColumns),
	}
	d.dispatcher.Dispatch(event)
}

// failSafeResult is the over-blocking fallback used whenever scanning breaks
func failSafeResult() tabular.SensitiveCheckResult {
	return tabular.SensitiveCheckResult{
		HasSensitiveData: true,
		SensitiveColumns: []string{SentinelColumn},
		Suggestions:      []string{SentinelSuggestion},
	}
}
