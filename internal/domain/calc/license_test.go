package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestHasValidLicense(t *testing.T) {
	checker := NewLicenseChecker([]string{"แพทย์", "Pharmacist"})
	licenses := []License{
		{LicenseName: "nursing", ValidFrom: day("2024-01-01"), ValidUntil: day("2024-06-15"), Status: LicenseStatusActive},
		{LicenseName: "nursing", ValidFrom: day("2024-06-20"), ValidUntil: day("2024-12-31"), Status: "SUSPENDED"},
	}

	assert.True(t, checker.HasValidLicense(licenses, day("2024-06-15"), "พยาบาล"))
	assert.False(t, checker.HasValidLicense(licenses, day("2024-06-16"), "พยาบาล"))
	assert.False(t, checker.HasValidLicense(licenses, day("2024-06-25"), "พยาบาล"))
	assert.True(t, checker.HasValidLicense(nil, day("2024-06-25"), "นายแพทย์ชำนาญการ"))
	assert.True(t, checker.HasValidLicense(nil, day("2024-06-25"), "Senior PHARMACIST"))
	assert.False(t, checker.HasValidLicense(nil, day("2024-06-25"), ""))
}

func TestLifetimeKeywordOnLicenseRecord(t *testing.T) {
	checker := NewLicenseChecker(DefaultLifetimeLicenseKeywords)
	licenses := []License{
		{OccupationName: "เภสัชกรรม", ValidFrom: day("2000-01-01"), ValidUntil: day("2001-01-01"), Status: "active"},
	}
	assert.True(t, checker.HasValidLicense(licenses, day("2024-06-01"), ""))
}

func TestIsLifetimeNormalizesComposition(t *testing.T) {
	checker := NewLicenseChecker([]string{"Café"})
	decomposed := norm.NFD.String("CAFÉ staff")
	assert.True(t, checker.IsLifetime(decomposed))
}

func TestActiveRateForDay(t *testing.T) {
	eligibilities := []Eligibility{
		{ID: 1, MasterRateID: 1, Amount: dec("1000"), EffectiveDate: day("2024-01-01"), ExpiryDate: datePtr("2024-06-15")},
		{ID: 2, MasterRateID: 2, Amount: dec("1500"), EffectiveDate: day("2024-06-16")},
		{ID: 3, MasterRateID: 3, Amount: dec("9999"), EffectiveDate: day("2024-06-20")},
	}

	_, ok := ActiveRateForDay(eligibilities, day("2023-12-31"))
	assert.False(t, ok)

	e, ok := ActiveRateForDay(eligibilities, day("2024-06-15"))
	assert.True(t, ok)
	assert.Equal(t, int64(1), e.ID)

	e, ok = ActiveRateForDay(eligibilities, day("2024-06-25"))
	assert.True(t, ok)
	assert.Equal(t, int64(2), e.ID, "first match in effective order wins")
}
