package store

import "time"

// FilterByDay keeps the records whose timestamp falls on the same calendar
// day as day, in day's location.
func FilterByDay(records []TimeBlockRecord, day time.Time) []TimeBlockRecord {
	loc := day.Location()
	y, m, d := day.Date()

	var out []TimeBlockRecord
	for _, r := range records {
		ry, rm, rd := r.Timestamp.In(loc).Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate sums durations overall and per category key. Breakdown rows
// keep the order in which each category was first seen.
func Aggregate(records []TimeBlockRecord) Summary {
	var sum Summary
	index := make(map[string]int)

	for _, r := range records {
		sum.TotalMinutes += r.Duration

		key := r.Key()
		i, ok := index[key]
		if !ok {
			i = len(sum.Breakdown)
			index[key] = i
			sum.Breakdown = append(sum.Breakdown, CategoryTotal{Key: key, Label: r.CategoryLabel})
		}
		sum.Breakdown[i].Minutes += r.Duration
		sum.Breakdown[i].Count++
	}
	return sum
}

// DailyTotals aggregates the days days ending on (and including) end,
// oldest first.
func DailyTotals(records []TimeBlockRecord, end time.Time, days int) []Summary {
	out := make([]Summary, days)
	for i := 0; i < days; i++ {
		day := end.AddDate(0, 0, i-days+1)
		out[i] = Aggregate(FilterByDay(records, day))
	}
	return out
}
