package calc

import (
	"sort"
	"time"
)

func isExit(t MovementType) bool {
	switch t {
	case MovementResign, MovementRetire, MovementDeath, MovementTransferOut, MovementStudy:
		return true
	}
	return false
}

// ResolvePeriods derives the ranges of [monthStart, monthEnd] the citizen was in active service.
// Movements are replayed in effective date order; same-day events keep their input order.
func ResolvePeriods(movements []Movement, monthStart, monthEnd time.Time) WorkPeriods {
	monthStart, monthEnd = DateOnly(monthStart), DateOnly(monthEnd)
	if len(movements) == 0 {
		return WorkPeriods{Periods: []Period{{Start: monthStart, End: monthEnd}}}
	}

	ordered := append([]Movement(nil), movements...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return DateOnly(ordered[i].EffectiveDate).Before(DateOnly(ordered[j].EffectiveDate))
	})

	// Without history before the month, a citizen whose first event is an exit was already serving.
	active := ordered[0].Type != MovementEntry
	remark := ""
	idx := 0
	for ; idx < len(ordered) && DateOnly(ordered[idx].EffectiveDate).Before(monthStart); idx++ {
		switch m := ordered[idx]; {
		case m.Type == MovementEntry:
			active = true
			remark = ""
		case m.Type == MovementStudy:
			active = false
			remark = RemarkStudyLeave
		case isExit(m.Type):
			active = false
		}
	}

	var periods []Period
	var openStart *time.Time
	if active {
		s := monthStart
		openStart = &s
	}
	closeAt := func(end time.Time) {
		if openStart == nil {
			return
		}
		end = minDate(end, monthEnd)
		if !end.Before(*openStart) {
			periods = append(periods, Period{Start: *openStart, End: end})
		}
		openStart = nil
	}

	for ; idx < len(ordered); idx++ {
		m := ordered[idx]
		date := DateOnly(m.EffectiveDate)
		if date.After(monthEnd) {
			break
		}
		switch {
		case m.Type == MovementEntry:
			if openStart == nil {
				s := maxDate(date, monthStart)
				openStart = &s
			}
			remark = ""
		case m.Type == MovementStudy:
			closeAt(date.AddDate(0, 0, -1))
			return WorkPeriods{Periods: periods, Remark: RemarkStudyLeave}
		case isExit(m.Type):
			closeAt(date.AddDate(0, 0, -1))
		}
	}
	closeAt(monthEnd)

	return WorkPeriods{Periods: periods, Remark: remark}
}
