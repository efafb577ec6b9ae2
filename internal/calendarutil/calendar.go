package calendarutil

import "time"

// WeekKey identifies an ISO (year, week) bucket. Weeks straddling a month
// boundary are real; callers intersect a bucket's days with the days
// actually inside the month being scheduled (§4.1, §9 "ISO-week partitioning").
type WeekKey struct {
	Year int
	Week int
}

const isoDateLayout = "2006-01-02"

// DaysInMonth returns every calendar day of year/month, in order.
func DaysInMonth(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ISODate formats d the way Rules.Holidays and Assignment.Date are keyed.
func ISODate(d time.Time) string {
	return d.Format(isoDateLayout)
}

// ParseISODate is the inverse of ISODate.
func ParseISODate(s string) (time.Time, error) {
	return time.ParseInLocation(isoDateLayout, s, time.UTC)
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWeekendOrHoliday is the disjunction of IsWeekend and membership in holidays,
// where holidays is keyed by ISODate.
func IsWeekendOrHoliday(d time.Time, holidays map[string]bool) bool {
	return IsWeekend(d) || holidays[ISODate(d)]
}

// Key buckets d into its ISO (year, week), using the standard library's own
// ISO-week function rather than a hand-rolled one (§9).
func Key(d time.Time) WeekKey {
	y, w := d.ISOWeek()
	return WeekKey{Year: y, Week: w}
}

// BucketByWeek partitions days into ISO-week buckets. A bucket may include
// days that belong to the prior or next month in the caller's own
// bookkeeping, but BucketByWeek only ever sees the days it's given, so
// passing DaysInMonth's output here already restricts each bucket to the
// in-month days that share a week (§9).
func BucketByWeek(days []time.Time) map[WeekKey][]time.Time {
	buckets := make(map[WeekKey][]time.Time)
	for _, d := range days {
		k := Key(d)
		buckets[k] = append(buckets[k], d)
	}
	return buckets
}

// WeekdayAbbrev returns the three-letter English weekday name used in
// analyzer summaries (§6 "Weekday names in summaries are three-letter
// English abbreviations").
func WeekdayAbbrev(d time.Time) string {
	return d.Weekday().String()[:3]
}
