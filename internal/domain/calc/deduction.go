package calc

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	LeaveSick       = "SICK"
	LeavePersonal   = "PERSONAL"
	LeaveVacation   = "VACATION"
	LeaveMaternity  = "MATERNITY"
	LeaveOrdination = "ORDINATION"
	LeaveStudy      = "STUDY"
	LeaveMilitary   = "MILITARY"
)

type leavePolicy struct {
	allowance   decimal.Decimal
	unlimited   bool
	workingDays bool
	fromQuota   bool
}

// leavePolicies holds the non-deducted allowance per fiscal year for each leave type.
var leavePolicies = map[string]leavePolicy{
	LeaveSick:       {allowance: decimal.NewFromInt(60), workingDays: true},
	LeavePersonal:   {allowance: decimal.NewFromInt(45), workingDays: true},
	LeaveVacation:   {workingDays: true, fromQuota: true},
	LeaveMaternity:  {allowance: decimal.NewFromInt(90)},
	LeaveOrdination: {allowance: decimal.NewFromInt(60)},
	LeaveStudy:      {allowance: decimal.Zero},
	LeaveMilitary:   {unlimited: true},
}

var ignoredLeaveStatuses = map[string]bool{
	"CANCELLED": true,
	"CANCELED":  true,
	"REJECTED":  true,
}

// CalculateDeductions returns the deduction weight of every day of [monthStart, monthEnd] that carries one,
// keyed by DayKey. leaves must cover the whole fiscal year so earlier usage counts against the allowance.
// Days of a leave that fall before the fiscal year of monthStart neither consume the allowance nor deduct.
func CalculateDeductions(leaves []Leave, vacationQuota decimal.Decimal, holidays []time.Time, monthStart, monthEnd time.Time) map[string]decimal.Decimal {
	monthStart, monthEnd = DateOnly(monthStart), DateOnly(monthEnd)
	fiscalStart := FiscalYearStart(monthStart)
	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[DayKey(h)] = true
	}

	ordered := make([]Leave, 0, len(leaves))
	for _, l := range leaves {
		if ignoredLeaveStatuses[strings.ToUpper(l.Status)] {
			continue
		}
		ordered = append(ordered, l)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].StartDate.Equal(ordered[j].StartDate) {
			return ordered[i].StartDate.Before(ordered[j].StartDate)
		}
		return ordered[i].ID < ordered[j].ID
	})

	used := map[string]decimal.Decimal{}
	weights := map[string]decimal.Decimal{}
	one := decimal.NewFromInt(1)

	for _, l := range ordered {
		leaveType := strings.ToUpper(strings.TrimSpace(l.LeaveType))
		policy, known := leavePolicies[leaveType]
		if !known || policy.unlimited {
			continue
		}
		start, end := DateOnly(l.StartDate), DateOnly(l.EndDate)
		if start.After(monthEnd) {
			continue
		}
		allowance := policy.allowance
		if policy.fromQuota {
			allowance = vacationQuota
		}

		days := countedDays(start, end, policy.workingDays, holidaySet)
		if len(days) == 0 {
			continue
		}
		unit := one
		if l.DurationDays.IsPositive() {
			unit = decimal.Min(one, l.DurationDays.Div(decimal.NewFromInt(int64(len(days)))))
		}

		for _, day := range days {
			if day.Before(fiscalStart) {
				continue
			}
			before := used[leaveType]
			after := before.Add(unit)
			used[leaveType] = after

			excess := decimal.Min(unit, decimal.Max(decimal.Zero, after.Sub(allowance)))
			if !excess.IsPositive() || day.Before(monthStart) || day.After(monthEnd) {
				continue
			}
			key := DayKey(day)
			weights[key] = weights[key].Add(excess)
		}
	}

	for key, w := range weights {
		weights[key] = clampWeight(w)
	}
	return weights
}

func countedDays(start, end time.Time, workingDaysOnly bool, holidays map[string]bool) []time.Time {
	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if workingDaysOnly && !isWorkingDay(day, holidays) {
			continue
		}
		days = append(days, day)
	}
	return days
}

func isWorkingDay(day time.Time, holidays map[string]bool) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays[DayKey(day)]
}

func clampWeight(w decimal.Decimal) decimal.Decimal {
	if w.IsNegative() {
		return decimal.Zero
	}
	if w.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return w
}
