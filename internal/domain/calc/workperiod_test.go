package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mv(id int64, t MovementType, date string) Movement {
	return Movement{ID: id, CitizenID: "c1", Type: t, EffectiveDate: day(date)}
}

func TestResolvePeriods(t *testing.T) {
	start, end := MonthBounds(2024, 6)

	tests := []struct {
		name       string
		movements  []Movement
		want       []Period
		wantRemark string
	}{
		{
			name: "no movements covers the whole month",
			want: []Period{{Start: start, End: end}},
		},
		{
			name:      "entry before the month",
			movements: []Movement{mv(1, MovementEntry, "2020-01-01")},
			want:      []Period{{Start: start, End: end}},
		},
		{
			name:      "entry inside the month",
			movements: []Movement{mv(1, MovementEntry, "2024-06-10")},
			want:      []Period{{Start: day("2024-06-10"), End: end}},
		},
		{
			name:      "resignation closes the day before",
			movements: []Movement{mv(1, MovementEntry, "2020-01-01"), mv(2, MovementResign, "2024-06-16")},
			want:      []Period{{Start: start, End: day("2024-06-15")}},
		},
		{
			name: "resign and return within the month",
			movements: []Movement{
				mv(1, MovementEntry, "2020-01-01"),
				mv(2, MovementResign, "2024-06-10"),
				mv(3, MovementEntry, "2024-06-20"),
			},
			want: []Period{{Start: start, End: day("2024-06-09")}, {Start: day("2024-06-20"), End: end}},
		},
		{
			name: "study leave stops the month",
			movements: []Movement{
				mv(1, MovementEntry, "2020-01-01"),
				mv(2, MovementStudy, "2024-06-10"),
				mv(3, MovementEntry, "2024-06-20"),
			},
			want:       []Period{{Start: start, End: day("2024-06-09")}},
			wantRemark: RemarkStudyLeave,
		},
		{
			name:       "study leave before the month",
			movements:  []Movement{mv(1, MovementEntry, "2020-01-01"), mv(2, MovementStudy, "2023-05-01")},
			wantRemark: RemarkStudyLeave,
		},
		{
			name:      "retired before the month",
			movements: []Movement{mv(1, MovementEntry, "2000-01-01"), mv(2, MovementRetire, "2023-10-01")},
		},
		{
			name:      "first event is an exit without history",
			movements: []Movement{mv(1, MovementTransferOut, "2024-06-21")},
			want:      []Period{{Start: start, End: day("2024-06-20")}},
		},
		{
			name:      "same day entry and resign",
			movements: []Movement{mv(1, MovementEntry, "2024-06-12"), mv(2, MovementResign, "2024-06-12")},
		},
		{
			name:      "exit on the first day",
			movements: []Movement{mv(1, MovementEntry, "2020-01-01"), mv(2, MovementDeath, "2024-06-01")},
		},
		{
			name:      "future entry only",
			movements: []Movement{mv(1, MovementEntry, "2024-07-01")},
		},
		{
			name:      "duplicate entry while active is ignored",
			movements: []Movement{mv(1, MovementEntry, "2020-01-01"), mv(2, MovementEntry, "2024-06-15")},
			want:      []Period{{Start: start, End: end}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolvePeriods(tc.movements, start, end)
			assert.Equal(t, tc.want, got.Periods)
			assert.Equal(t, tc.wantRemark, got.Remark)
		})
	}
}

func TestResolvePeriodsSortedWithinMonth(t *testing.T) {
	start, end := MonthBounds(2024, 2)
	movements := []Movement{
		mv(4, MovementEntry, "2024-02-25"),
		mv(1, MovementEntry, "2023-01-01"),
		mv(3, MovementEntry, "2024-02-12"),
		mv(2, MovementResign, "2024-02-05"),
		mv(5, MovementRetire, "2024-02-18"),
	}

	got := ResolvePeriods(movements, start, end)
	assert.NotEmpty(t, got.Periods)
	for i, p := range got.Periods {
		assert.False(t, p.Start.Before(start))
		assert.False(t, p.End.After(end))
		assert.False(t, p.End.Before(p.Start))
		if i > 0 {
			assert.True(t, p.Start.After(got.Periods[i-1].End))
		}
	}
	assert.Equal(t, []Period{
		{Start: start, End: day("2024-02-04")},
		{Start: day("2024-02-12"), End: day("2024-02-17")},
		{Start: day("2024-02-25"), End: end},
	}, got.Periods)
}
