package calc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateDeductions(t *testing.T) {
	juneStart, juneEnd := MonthBounds(2024, 6)

	tests := []struct {
		name     string
		leaves   []Leave
		quota    string
		holidays []time.Time
		want     map[string]string
	}{
		{
			name: "sick leave within allowance does not deduct",
			leaves: []Leave{
				{ID: 1, LeaveType: LeaveSick, StartDate: day("2024-06-03"), EndDate: day("2024-06-05"), DurationDays: dec("3")},
			},
			quota: "10",
			want:  map[string]string{},
		},
		{
			name: "vacation beyond quota deducts the excess day",
			leaves: []Leave{
				{ID: 1, LeaveType: LeaveVacation, StartDate: day("2024-06-03"), EndDate: day("2024-06-05"), DurationDays: dec("3")},
			},
			quota: "2",
			want:  map[string]string{"2024-06-05": "1"},
		},
		{
			name: "half day leave weighs half",
			leaves: []Leave{
				{ID: 1, LeaveType: LeaveVacation, StartDate: day("2024-06-03"), EndDate: day("2024-06-03"), DurationDays: dec("0.5")},
			},
			quota: "0",
			want:  map[string]string{"2024-06-03": "0.5"},
		},
		{
			name: "working day leave skips weekend",
			leaves: []Leave{
				{ID: 1, LeaveType: LeaveVacation, StartDate: day("2024-06-07"), EndDate: day("2024-06-10"), DurationDays: dec("2")},
			},
			quota: "0",
			want:  map[string]string{"2024-06-07": "1", "2024-06-10": "1"},
		},
		{
			name: "working day leave skips holidays",
			leaves: []Leave{
				{ID: 1, LeaveType: LeavePersonal, StartDate: day("2024-06-03"), EndDate: day("2024-06-04"), DurationDays: dec("1")},
			},
			holidays: []time.Time{day("2024-06-03")},
			quota:    "10",
			want:     map[string]string{},
		},
		{
			name: "study leave deducts calendar days",
			leaves: []Leave{
				{ID: 1, LeaveType: LeaveStudy, StartDate: day("2024-06-08"), EndDate: day("2024-06-09"), DurationDays: dec("2")},
			},
			quota: "10",
			want:  map[string]string{"2024-06-08": "1", "2024-06-09": "1"},
		},
		{
			name: "cancelled and military leave never deduct",
			leaves: []Leave{
				{ID: 1, LeaveType: LeaveStudy, StartDate: day("2024-06-03"), EndDate: day("2024-06-03"), DurationDays: dec("1"), Status: "CANCELLED"},
				{ID: 2, LeaveType: LeaveMilitary, StartDate: day("2024-06-04"), EndDate: day("2024-06-20"), DurationDays: dec("17")},
				{ID: 3, LeaveType: "UNKNOWN", StartDate: day("2024-06-21"), EndDate: day("2024-06-21"), DurationDays: dec("1")},
			},
			quota: "0",
			want:  map[string]string{},
		},
		{
			name: "earlier months consume the allowance",
			leaves: []Leave{
				{ID: 2, LeaveType: LeaveVacation, StartDate: day("2024-06-03"), EndDate: day("2024-06-03"), DurationDays: dec("1")},
				{ID: 1, LeaveType: LeaveVacation, StartDate: day("2024-05-06"), EndDate: day("2024-05-06"), DurationDays: dec("1")},
			},
			quota: "1",
			want:  map[string]string{"2024-06-03": "1"},
		},
		{
			name: "overlapping leaves clamp to one",
			leaves: []Leave{
				{ID: 1, LeaveType: LeaveStudy, StartDate: day("2024-06-12"), EndDate: day("2024-06-12"), DurationDays: dec("1")},
				{ID: 2, LeaveType: LeaveStudy, StartDate: day("2024-06-12"), EndDate: day("2024-06-12"), DurationDays: dec("1")},
			},
			quota: "0",
			want:  map[string]string{"2024-06-12": "1"},
		},
		{
			name: "leave starting after month end is ignored",
			leaves: []Leave{
				{ID: 1, LeaveType: LeaveStudy, StartDate: day("2024-07-01"), EndDate: day("2024-07-03"), DurationDays: dec("3")},
			},
			quota: "0",
			want:  map[string]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateDeductions(tc.leaves, dec(tc.quota), tc.holidays, juneStart, juneEnd)
			assert.Len(t, got, len(tc.want))
			for key, want := range tc.want {
				w, ok := got[key]
				if assert.True(t, ok, "missing %s", key) {
					assert.True(t, dec(want).Equal(w), "%s: want %s got %s", key, want, w)
				}
			}
			for _, w := range got {
				assert.True(t, w.GreaterThanOrEqual(decimal.Zero) && w.LessThanOrEqual(decimal.NewFromInt(1)))
			}
		})
	}
}

func TestCalculateDeductionsIgnoresUsageBeforeFiscalYear(t *testing.T) {
	octStart, octEnd := MonthBounds(2024, 10)

	// 22 working days in August and 21 in September do not count against the new year's 45.
	personal := []Leave{
		{ID: 1, LeaveType: LeavePersonal, StartDate: day("2024-08-01"), EndDate: day("2024-10-04"), FiscalYear: 2567},
	}
	assert.Empty(t, CalculateDeductions(personal, dec("10"), nil, octStart, octEnd))

	study := []Leave{
		{ID: 2, LeaveType: LeaveStudy, StartDate: day("2024-09-16"), EndDate: day("2024-10-15"), FiscalYear: 2567},
	}
	got := CalculateDeductions(study, dec("10"), nil, octStart, octEnd)
	assert.Len(t, got, 15)
	assert.True(t, got["2024-10-01"].Equal(decimal.NewFromInt(1)))
	assert.NotContains(t, got, "2024-09-30")
}
