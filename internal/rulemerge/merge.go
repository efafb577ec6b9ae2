// Package rulemerge combines each nurse's base attributes with their
// optional per-month PersonRule override into the single MergedRule view
// the model builder and analyzer both read from.
package rulemerge

import (
	"dario.cat/mergo"

	"github.com/ty819/nurse-shift/internal/roster"
)

// EffectiveNurse is a derived, read-only view of a Nurse with its
// capability flags forced by OnlyDay/OnlyNight (Open Question 1 in
// DESIGN.md: the merger never mutates the caller's Nurse).
type EffectiveNurse struct {
	roster.Nurse
}

// numericFallback is the subset of fields that exist on both PersonRule
// and Nurse, used as a scratch struct so mergo can backfill nils without
// touching the non-overlapping fields of either source type.
type numericFallback struct {
	WeekMaxDays *int
	WeekendCap  *int
}

// Merge produces, for every nurse in nurses, the MergedRule the model
// builder and analyzer consume and the EffectiveNurse view with
// capability flags forced by OnlyDay/OnlyNight. personRules may omit
// entries for nurses with no override; those nurses still get a
// MergedRule built entirely from fallback values.
func Merge(nurses []roster.Nurse, personRules map[string]roster.PersonRule) (map[string]roster.MergedRule, map[string]EffectiveNurse, error) {
	merged := make(map[string]roster.MergedRule, len(nurses))
	effective := make(map[string]EffectiveNurse, len(nurses))

	for _, n := range nurses {
		pr := personRules[n.ID]

		dst := numericFallback{WeekMaxDays: pr.WeekMaxDays, WeekendCap: pr.WeekendCapPerMonth}
		src := numericFallback{WeekMaxDays: n.WeekMaxDays, WeekendCap: n.WeekendCap}
		if err := mergo.Merge(&dst, src); err != nil {
			return nil, nil, err
		}

		mr := roster.MergedRule{
			NightMin:            pr.NightMin,
			NightMax:            pr.NightMax,
			WeekMaxDays:         dst.WeekMaxDays,
			WeekendCap:          dst.WeekendCap,
			WeekendOff:          pr.WeekendOff,
			HolidayOff:          pr.HolidayOff,
			OnlyNight:           pr.OnlyNight,
			OnlyDay:             pr.OnlyDay,
			ExtraHolidays:       pr.ExtraHolidays,
			MonthQuotaDays:      pr.MonthQuotaDays,
			WeekendDayOnly:      pr.WeekendDayOnly,
			WeekendOnlyNight:    pr.WeekendOnlyNight,
			CannotLeadNight:     pr.CannotLeadNight,
			ExcludeDayOnWeekend: pr.ExcludeDayOnWeekend,
			ExtraStaff:          pr.ExtraStaff,
			FixedHours:          pr.FixedHours,
		}
		merged[n.ID] = mr
		effective[n.ID] = EffectiveNurse{Nurse: propagateCapabilities(n, mr)}
	}

	return merged, effective, nil
}

// propagateCapabilities forces DayOk/LateOk/NightOk from OnlyDay/OnlyNight,
// without ever turning a hard-gated false back into true: an explicit
// capability gate on the base Nurse always wins.
func propagateCapabilities(n roster.Nurse, mr roster.MergedRule) roster.Nurse {
	out := n
	if mr.OnlyNight {
		out.DayOk = forceFalse(out.DayOk)
		out.LateOk = forceFalse(out.LateOk)
	}
	if mr.OnlyDay {
		out.LateOk = forceFalse(out.LateOk)
		out.NightOk = forceFalse(out.NightOk)
	}
	return out
}

// forceFalse returns a pointer to false unless b is already an explicit
// false, in which case it's left untouched.
func forceFalse(b *bool) *bool {
	if b != nil && !*b {
		return b
	}
	return roster.BoolPtr(false)
}
