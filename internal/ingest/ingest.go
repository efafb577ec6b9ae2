// Package ingest parses the free-text "shift markdown" roster sheet
// nurse-shift is seeded from into a []roster.Nurse and a roster.Rules,
// mirroring original_source's shiftmd_parser.py line for line: team
// headers switch the active team, then "<id>[.<id>]:description" lines
// derive capability flags and PersonRule fields from Japanese substring
// markers in the description.
package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ty819/nurse-shift/internal/roster"
)

var teamHeaders = map[string]roster.Team{
	"Aチーム":  roster.TeamA,
	"Bチーム":  roster.TeamB,
	"救急チーム": roster.TeamER,
}

// These three tables are hardcoded constants in shiftmd_parser.py, not
// data the markdown sheet carries itself; they stay as named Go tables
// for the same reason.
var (
	leaderWeekendIDs    = []string{"2", "3", "4", "5", "6", "7", "15", "16", "17", "18"}
	nightForbiddenPairs = [][2]string{{"7", "26"}}
	cannotLeadNight     = []string{"9", "11", "19", "20", "27", "29", "30"}
)

var idLine = regexp.MustCompile(`^([0-9.]+)[:：](.+)$`)

// ParseShiftMD parses md for year/month into the nurse roster and the
// Rules that go with it.
func ParseShiftMD(md string, year, month int) ([]roster.Nurse, roster.Rules) {
	var team *roster.Team
	var order []string
	nurses := make(map[string]*roster.Nurse)
	personRules := make(map[string]*roster.PersonRule)

	ensureNurse := func(id string, t roster.Team) {
		if _, ok := nurses[id]; !ok {
			nurses[id] = &roster.Nurse{ID: id, Name: "Nurse_" + id, Team: t}
			order = append(order, id)
		}
		if _, ok := personRules[id]; !ok {
			personRules[id] = &roster.PersonRule{}
		}
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if t, ok := teamHeaders[line]; ok {
			tt := t
			team = &tt
			continue
		}
		if line == "その他" {
			team = nil
			continue
		}
		if team == nil {
			continue
		}

		m := idLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ids := splitIDs(m[1])
		desc := m[2]
		for _, nid := range ids {
			ensureNurse(nid, *team)
			n := nurses[nid]
			pr := personRules[nid]
			applyDescription(n, pr, desc)
		}
	}

	for _, nid := range leaderWeekendIDs {
		if n, ok := nurses[nid]; ok {
			n.LeaderOk = true
		}
	}
	for _, nid := range cannotLeadNight {
		if _, ok := personRules[nid]; !ok {
			personRules[nid] = &roster.PersonRule{}
		}
		personRules[nid].CannotLeadNight = true
	}

	out := make([]roster.Nurse, 0, len(order))
	for _, nid := range order {
		out = append(out, *nurses[nid])
	}

	finalPersonRules := make(map[string]roster.PersonRule, len(personRules))
	for nid, pr := range personRules {
		finalPersonRules[nid] = *pr
	}

	rules := roster.Rules{
		Year:  year,
		Month: month,
		LeaderRequirement: roster.LeaderRequirement{
			WeekendHoliday: append([]string(nil), leaderWeekendIDs...),
		},
		ForbiddenPairs: roster.ForbiddenPairs{Night: append([][2]string(nil), nightForbiddenPairs...)},
		DemandDefaults: roster.DemandDefaults{
			Weekday:         roster.DemandVector{DayMin: 11, DayMax: 14, Late: 1, Night: 3},
			SaturdayHoliday: roster.DemandVector{DayMin: 8, DayMax: 8, Late: 0, Night: 3},
			Sunday:          roster.DemandVector{DayMin: 7, DayMax: 7, Late: 0, Night: 3},
		},
		PersonRules: finalPersonRules,
	}

	return out, rules
}

func splitIDs(token string) []string {
	var ids []string
	for _, s := range strings.Split(token, ".") {
		if strings.TrimSpace(s) != "" {
			ids = append(ids, s)
		}
	}
	return ids
}

var nightMonthlyRange = regexp.MustCompile(`(\d+)[-～–](\d+)回/月`)
var nightMonthlyExact = regexp.MustCompile(`(\d+)回/月`)

// applyDescription derives capability flags and PersonRule fields from
// one nurse's description text, following shiftmd_parser.py's chain of
// independent substring checks. desc may trigger more than one rule.
func applyDescription(n *roster.Nurse, pr *roster.PersonRule, desc string) {
	has := func(marker string) bool { return strings.Contains(desc, marker) }

	if has("管理者") {
		n.LeaderOk = true
	}
	if has("日勤のみ") {
		n.NightOk = roster.BoolPtr(false)
		n.LateOk = roster.BoolPtr(false)
		pr.OnlyDay = true
	}
	if has("平日日勤") {
		pr.OnlyDay = true
		pr.WeekendOff = true
		n.NightOk = roster.BoolPtr(false)
		n.LateOk = roster.BoolPtr(false)
	}
	if has("日勤4回/週") {
		pr.OnlyDay = true
		pr.WeekMaxDays = roster.IntPtr(4)
		n.NightOk = roster.BoolPtr(false)
		n.LateOk = roster.BoolPtr(false)
	}
	if has("夜勤専従") {
		n.DayOk = roster.BoolPtr(false)
		n.LateOk = roster.BoolPtr(false)
		pr.OnlyNight = true
	}
	if has("夜勤") && has("回/月") {
		if rng := nightMonthlyRange.FindStringSubmatch(desc); rng != nil {
			pr.NightMin = roster.IntPtr(atoi(rng[1]))
			pr.NightMax = roster.IntPtr(atoi(rng[2]))
		} else if eq := nightMonthlyExact.FindStringSubmatch(desc); eq != nil {
			v := atoi(eq[1])
			pr.NightMin = roster.IntPtr(v)
			pr.NightMax = roster.IntPtr(v)
		}
	}
	if has("新人") && has("夜勤2回/月") {
		pr.NightMin = roster.IntPtr(2)
		pr.NightMax = roster.IntPtr(2)
		pr.ExtraStaff = true
	}
	if has("2回/週") {
		pr.WeekMaxDays = roster.IntPtr(2)
	}
	if has("土日祝日3回/月まで") || has("土日祝3回/月") {
		pr.WeekendCapPerMonth = roster.IntPtr(3)
	}
	if has("土日祝日NG") || has("土日祝NG") {
		pr.WeekendOff = true
	}
	if has("9:00-17:00") {
		pr.FixedHours = "09:00-17:00"
	}
	if has("9:00-16:30") {
		pr.FixedHours = "09:00-16:30"
	}
	if has("9:00-13:00") {
		pr.FixedHours = "09:00-13:00"
	}
	if has("日勤なし") {
		n.DayOk = roster.BoolPtr(false)
		pr.OnlyNight = true
	}
	if has("土日夜勤2回/月") {
		pr.OnlyNight = true
		pr.WeekendOnlyNight = true
		if pr.NightMin == nil {
			pr.NightMin = roster.IntPtr(2)
		}
		if pr.NightMax == nil {
			pr.NightMax = roster.IntPtr(2)
		}
	}
	if has("バイト") && has("土日勤") {
		pr.OnlyDay = true
		pr.WeekendDayOnly = true
		pr.MonthQuotaDays = roster.IntPtr(2)
	}
	if has("日勤バイト") {
		pr.OnlyDay = true
		pr.MonthQuotaDays = roster.IntPtr(2)
	}
	if has("公休10日") {
		pr.ExtraHolidays = 1
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
