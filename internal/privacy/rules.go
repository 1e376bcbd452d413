package privacy

// Pattern is one keyword checked against a normalized column name. Exact
// patterns must match a standalone token (word-boundary, with underscore
// and dash treated as separators); the rest use substring containment.
// Exact pattern text is compiled into a regular expression verbatim, so it
// is trusted configuration, not user input.
type Pattern struct {
	Text  string
	Exact bool
}

// CategoryRule groups the patterns of one sensitive-data category with the
// remediation suggestion shown when the category matches.
type CategoryRule struct {
	Category   string
	Patterns   []Pattern
	Suggestion string
}

// DefaultRules are the built-in sensitive-column categories. Order matters:
// the first matching category determines the suggestion for a column.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{
			Category: "name",
			Patterns: []Pattern{
				{Text: "姓名"},
				{Text: "name", Exact: true},
				{Text: "patient_name"},
				{Text: "full_name"},
				{Text: "first_name"},
				{Text: "last_name"},
			},
			Suggestion: "偵測到姓名欄位，建議移除或以匿名代號（如 P001、P002）取代",
		},
		{
			Category: "medical_id",
			Patterns: []Pattern{
				{Text: "病歷號"},
				{Text: "病歷號碼"},
				{Text: "chart_no"},
				{Text: "medical_record"},
				{Text: "patient_id", Exact: true},
				{Text: "hospital_no"},
				{Text: "registration_no"},
			},
			Suggestion: "偵測到病歷號欄位，建議移除或重新編碼後再上傳",
		},
		{
			Category: "national_id",
			Patterns: []Pattern{
				{Text: "身分證"},
				{Text: "身份證"},
				{Text: "id_number"},
				{Text: "national_id"},
				{Text: "id_card"},
				{Text: "citizen_id"},
			},
			Suggestion: "偵測到身分證字號欄位，請務必移除後再上傳",
		},
		{
			Category: "contact",
			Patterns: []Pattern{
				{Text: "phone", Exact: true},
				{Text: "tel", Exact: true},
				{Text: "mobile"},
				{Text: "address"},
				{Text: "email", Exact: true},
				{Text: "電話"},
				{Text: "手機"},
				{Text: "地址"},
				{Text: "信箱"},
			},
			Suggestion: "偵測到聯絡方式欄位，建議移除電話、地址、信箱等資訊",
		},
		{
			Category: "birth",
			Patterns: []Pattern{
				{Text: "出生日期"},
				{Text: "birth_date"},
				{Text: "date_of_birth"},
				{Text: "dob", Exact: true},
				{Text: "birthday"},
				{Text: "生日"},
			},
			Suggestion: "偵測到出生日期欄位，建議改為年齡或年齡區間",
		},
	}
}

// DefaultWhitelist lists medical test and vital-sign terms. A column whose
// normalized name contains any of these is never flagged, regardless of
// what else it matches: the whitelist wins over every category.
func DefaultWhitelist() []string {
	return []string{
		"platelets",
		"glucose",
		"cholesterol",
		"creatinine",
		"bmi",
		"systolic",
		"diastolic",
		"temperature",
		"hemoglobin",
		"hematocrit",
		"triglyceride",
		"albumin",
		"bilirubin",
		"sodium",
		"potassium",
		"heart_rate",
		"pulse",
		"respiration",
		"spo2",
		"urea",
		"uric_acid",
		"wbc",
		"rbc",
		"hba1c",
		"血壓",
		"血糖",
		"血紅素",
		"體溫",
		"心跳",
		"膽固醇",
	}
}
