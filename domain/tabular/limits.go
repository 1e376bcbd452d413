package tabular

// Tier represents a user's subscription level
type Tier string

const (
	TierGeneral      Tier = "GENERAL"
	TierProfessional Tier = "PROFESSIONAL"
)

// FileLimits holds the per-tier resource ceilings applied during ingestion
type FileLimits struct {
	MaxSizeBytes      int64    `json:"max_size_bytes"`
	MaxRows           int      `json:"max_rows"`
	MaxColumns        int      `json:"max_columns"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

// Per-tier limit tables. PROFESSIONAL dominates GENERAL on every dimension.
var tierLimits = map[Tier]FileLimits{
	TierGeneral: {
		MaxSizeBytes:      10 * 1024 * 1024,
		MaxRows:           50000,
		MaxColumns:        100,
		AllowedExtensions: []string{"csv", "xls", "xlsx"},
	},
	TierProfessional: {
		MaxSizeBytes:      50 * 1024 * 1024,
		MaxRows:           200000,
		MaxColumns:        500,
		AllowedExtensions: []string{"csv", "xls", "xlsx"},
	},
}

// LimitsFor returns the limit table for a tier. Unknown tiers fall back to
// GENERAL so a missing entitlement can never unlock larger uploads.
func LimitsFor(tier Tier) FileLimits {
	if limits, ok := tierLimits[tier]; ok {
		return limits
	}
	return tierLimits[TierGeneral]
}

// AllowsExtension reports whether ext (lowercase, without dot) is accepted
func (l FileLimits) AllowsExtension(ext string) bool {
	for _, allowed := range l.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}
