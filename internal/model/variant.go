package model

import "strings"

// variantUnknownStr is the string representation for unknown variant values.
const variantUnknownStr = "unknown"

// Variant represents a competition edition.
// The value is the canonical tag used in the wiki page path.
type Variant string

// Competition variant constants.
const (
	// VariantUnknown represents an unknown variant.
	VariantUnknown Variant = ""
	// VariantAMC8 represents the AMC 8 contest.
	VariantAMC8 Variant = "AMC_8"
	// VariantAMC10A represents the AMC 10A contest.
	VariantAMC10A Variant = "AMC_10A"
	// VariantAMC10B represents the AMC 10B contest.
	VariantAMC10B Variant = "AMC_10B"
)

// Variants returns all known variants in their canonical order.
func Variants() []Variant {
	return []Variant{VariantAMC8, VariantAMC10A, VariantAMC10B}
}

// String returns the canonical tag of the Variant.
func (v Variant) String() string {
	if v == VariantUnknown {
		return variantUnknownStr
	}
	return string(v)
}

// IsValid returns true if this is a known variant.
func (v Variant) IsValid() bool {
	switch v {
	case VariantAMC8, VariantAMC10A, VariantAMC10B:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable contest name (e.g., "AMC 8").
func (v Variant) DisplayName() string {
	if !v.IsValid() {
		return variantUnknownStr
	}
	return strings.ReplaceAll(string(v), "_", " ")
}

// ParseVariant converts a string to Variant.
// It accepts the canonical tag ("AMC_8") as well as the shorter spellings
// people type on the command line ("amc8", "8", "10a").
func ParseVariant(s string) Variant {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)
	normalized = strings.TrimPrefix(normalized, "amc")

	switch normalized {
	case "8":
		return VariantAMC8
	case "10a":
		return VariantAMC10A
	case "10b":
		return VariantAMC10B
	default:
		return VariantUnknown
	}
}
