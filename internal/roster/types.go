package roster

import "encoding/json"

// Nurse is a single staff member and their fixed capability attributes.
//
// DayOk, LateOk and NightOk are tri-valued: nil means "unspecified",
// which the rest of the core treats as true. A non-nil false is a hard
// capability gate enforced by the model builder and the re-checker alike.
type Nurse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Team         Team   `json:"team"`
	DayOk        *bool  `json:"day_ok,omitempty"`
	LateOk       *bool  `json:"late_ok,omitempty"`
	NightOk      *bool  `json:"night_ok,omitempty"`
	LeaderOk     bool   `json:"leader_ok,omitempty"`
	WeekMaxDays  *int   `json:"week_max_days,omitempty"`
	WeekendCap   *int   `json:"weekend_cap,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// DayOkBool resolves the tri-valued DayOk flag, defaulting unspecified to true.
func (n Nurse) DayOkBool() bool { return boolOrTrue(n.DayOk) }

// LateOkBool resolves the tri-valued LateOk flag, defaulting unspecified to true.
func (n Nurse) LateOkBool() bool { return boolOrTrue(n.LateOk) }

// NightOkBool resolves the tri-valued NightOk flag, defaulting unspecified to true.
func (n Nurse) NightOkBool() bool { return boolOrTrue(n.NightOk) }

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

// BoolPtr is a small helper for constructing tri-valued flags in tests and
// in the ingester, where the zero value (nil) must be distinguishable from
// an explicit false.
func BoolPtr(v bool) *bool { return &v }

// IntPtr mirrors BoolPtr for optional integer fields.
func IntPtr(v int) *int { return &v }

// PersonRule carries the optional, nurse-specific overrides layered on top
// of a Nurse's base attributes by the rule merger. Every field is optional;
// a nil/zero field defers to the nurse's base attribute or to "unconstrained".
type PersonRule struct {
	NightMin              *int   `json:"night_min,omitempty"`
	NightMax              *int   `json:"night_max,omitempty"`
	WeekMaxDays           *int   `json:"week_max_days,omitempty"`
	WeekendCapPerMonth    *int   `json:"weekend_cap_per_month,omitempty"`
	WeekendOff            bool   `json:"weekend_off,omitempty"`
	HolidayOff            bool   `json:"holiday_off,omitempty"`
	OnlyNight             bool   `json:"only_night,omitempty"`
	OnlyDay               bool   `json:"only_day,omitempty"`
	ExtraHolidays         int    `json:"extra_holidays,omitempty"`
	MonthQuotaDays        *int   `json:"month_quota_days,omitempty"`
	WeekendDayOnly        bool   `json:"weekend_day_only,omitempty"`
	WeekendOnlyNight      bool   `json:"weekend_only_night,omitempty"`
	CannotLeadNight       bool   `json:"cannot_lead_night,omitempty"`
	ExcludeDayOnWeekend   bool   `json:"exclude_day_on_weekend,omitempty"`
	// ExtraStaff and FixedHours are informational-only, carried through from
	// the text-rule ingester (see SPEC_FULL.md C.3); neither constrains the model.
	ExtraStaff bool   `json:"extra_staff,omitempty"`
	FixedHours string `json:"fixed_hours,omitempty"`
}

// DemandVector is the required/permitted staffing for one day.
type DemandVector struct {
	DayMin int `json:"day_min"`
	DayMax int `json:"day_max"`
	Late   int `json:"late"`
	Night  int `json:"night"`
}

// DefaultDemand is what an unresolved date falls back to (§4.3): a
// DemandDefaults category, or a key within one, that the rules JSON leaves
// out takes its value from here. Rules JSON with no demand_defaults object
// at all, and Rules built directly in Go, keep zero-valued categories.
var DefaultDemand = DemandVector{DayMin: 0, DayMax: 9999, Late: 0, Night: 0}

// DemandDefaults groups the three demand categories the resolver falls back to.
type DemandDefaults struct {
	Weekday         DemandVector `json:"weekday"`
	SaturdayHoliday DemandVector `json:"saturday_holiday"`
	Sunday          DemandVector `json:"sunday"`
}

// UnmarshalJSON starts every category from DefaultDemand, so only the keys
// present in data override it.
func (d *DemandDefaults) UnmarshalJSON(data []byte) error {
	type plain DemandDefaults
	p := plain{Weekday: DefaultDemand, SaturdayHoliday: DefaultDemand, Sunday: DefaultDemand}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = DemandDefaults(p)
	return nil
}

// LeaderRequirement names the nurses qualified to lead weekend/holiday DAY coverage.
type LeaderRequirement struct {
	WeekendHoliday []string `json:"weekend_holiday"`
}

// ForbiddenPairs lists nurse pairs that must never share a NIGHT shift.
type ForbiddenPairs struct {
	Night [][2]string `json:"night"`
}

// Rules is the per-month configuration the model builder and analyzer compile against.
type Rules struct {
	Year              int                     `json:"year"`
	Month             int                     `json:"month"`
	Holidays          []string                `json:"holidays"`
	DemandDefaults    DemandDefaults          `json:"demand_defaults"`
	Demand            map[string]DemandVector `json:"demand,omitempty"`
	LeaderRequirement LeaderRequirement       `json:"leader_requirement"`
	ForbiddenPairs    ForbiddenPairs          `json:"forbidden_pairs"`
	PersonRules       map[string]PersonRule   `json:"person_rules,omitempty"`
	// AutoHolidays opts into calendarutil.AutoFillHolidays (SPEC_FULL.md F.1)
	// when the caller did not supply a complete holiday set. It never
	// overrides an explicitly listed holiday.
	AutoHolidays bool `json:"auto_holidays,omitempty"`
	// HolidayLocale selects the calendarutil.NewHolidayCalendar table
	// AutoHolidays consults. Empty defaults to "us", the only locale wired
	// today (SPEC_FULL.md F.1, DESIGN.md Open Question 4).
	HolidayLocale string `json:"holiday_locale,omitempty"`
}

// HolidaySet returns Holidays as a lookup set keyed by ISO date string.
func (r Rules) HolidaySet() map[string]bool {
	set := make(map[string]bool, len(r.Holidays))
	for _, h := range r.Holidays {
		set[h] = true
	}
	return set
}

// Assignment is one (nurse, date, shift) tuple. A valid month-long
// assignment list has exactly one entry per (nurse, date) pair.
type Assignment struct {
	NurseID string `json:"nurse_id"`
	Date    string `json:"date"`
	Shift   Shift  `json:"shift"`
}

// MergedRule is the effective, per-nurse view the model builder and the
// analyzer both read from. It is produced once by rulemerge.Merge and is
// never mutated afterwards.
type MergedRule struct {
	NightMin            *int
	NightMax            *int
	WeekMaxDays         *int
	WeekendCap          *int
	WeekendOff          bool
	HolidayOff          bool
	OnlyNight           bool
	OnlyDay             bool
	ExtraHolidays       int
	MonthQuotaDays      *int
	WeekendDayOnly      bool
	WeekendOnlyNight    bool
	CannotLeadNight     bool
	ExcludeDayOnWeekend bool
	ExtraStaff          bool
	FixedHours          string
}
