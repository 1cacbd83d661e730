package enums

import (
	"fmt"
	"strings"
)

// SauceType is the closed set of sauce categories a product can consume.
type SauceType string

const (
	SauceTypeNone    SauceType = "NONE"
	SauceTypeMild    SauceType = "MILD"
	SauceTypeMedium  SauceType = "MEDIUM"
	SauceTypeHot     SauceType = "HOT"
	SauceTypePadThai SauceType = "PADTHAI"
)

var validSauceTypes = []SauceType{
	SauceTypeNone,
	SauceTypeMild,
	SauceTypeMedium,
	SauceTypeHot,
	SauceTypePadThai,
}

var sauceLabels = map[SauceType]string{
	SauceTypeNone:    "ไม่มีซอส",
	SauceTypeMild:    "ซอสเผ็ดน้อย",
	SauceTypeMedium:  "ซอสเผ็ดกลาง",
	SauceTypeHot:     "ซอสเผ็ดมาก",
	SauceTypePadThai: "ซอสผัดไทย",
}

// String implements fmt.Stringer.
func (s SauceType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SauceType.
func (s SauceType) IsValid() bool {
	for _, candidate := range validSauceTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsSauce reports whether the value names a real sauce, i.e. anything but NONE.
func (s SauceType) IsSauce() bool {
	return s != SauceTypeNone && s.IsValid()
}

// Label returns the localized display name shown to staff.
func (s SauceType) Label() string {
	if label, ok := sauceLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseSauceType converts raw input into a SauceType. Empty input maps to NONE.
func ParseSauceType(value string) (SauceType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return SauceTypeNone, nil
	}
	for _, candidate := range validSauceTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sauce type %q", value)
}

// SauceTypes returns every sauce category that has a stock row, in display order.
func SauceTypes() []SauceType {
	return []SauceType{SauceTypeMild, SauceTypeMedium, SauceTypeHot, SauceTypePadThai}
}
