package calc

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultLifetimeLicenseKeywords name positions whose professional license never lapses for allowance purposes.
var DefaultLifetimeLicenseKeywords = []string{"แพทย์", "ทันตแพทย์", "เภสัชกร"}

type LicenseChecker struct {
	keywords []string
}

func NewLicenseChecker(keywords []string) *LicenseChecker {
	c := &LicenseChecker{}
	for _, k := range keywords {
		if n := normalizeText(k); n != "" {
			c.keywords = append(c.keywords, n)
		}
	}
	return c
}

func normalizeText(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// IsLifetime reports whether text contains one of the lifetime keywords,
// ignoring case and Unicode composition differences.
func (c *LicenseChecker) IsLifetime(text string) bool {
	if text == "" {
		return false
	}
	n := normalizeText(text)
	for _, k := range c.keywords {
		if strings.Contains(n, k) {
			return true
		}
	}
	return false
}

// HasValidLicense reports whether the citizen holds a usable license on day.
func (c *LicenseChecker) HasValidLicense(licenses []License, day time.Time, positionName string) bool {
	if c.IsLifetime(positionName) {
		return true
	}
	day = DateOnly(day)
	for _, l := range licenses {
		if !strings.EqualFold(l.Status, LicenseStatusActive) {
			continue
		}
		if c.IsLifetime(l.LicenseName) || c.IsLifetime(l.LicenseType) || c.IsLifetime(l.OccupationName) {
			return true
		}
		if !day.Before(DateOnly(l.ValidFrom)) && !day.After(DateOnly(l.ValidUntil)) {
			return true
		}
	}
	return false
}

// ActiveRateForDay returns the first eligibility, in the given order, whose interval contains day.
// Callers pass eligibilities sorted by effective date ascending.
func ActiveRateForDay(eligibilities []Eligibility, day time.Time) (Eligibility, bool) {
	day = DateOnly(day)
	for _, e := range eligibilities {
		if day.Before(DateOnly(e.EffectiveDate)) {
			continue
		}
		if e.ExpiryDate != nil && day.After(DateOnly(*e.ExpiryDate)) {
			continue
		}
		return e, true
	}
	return Eligibility{}, false
}
