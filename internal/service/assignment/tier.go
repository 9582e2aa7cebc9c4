package assignment

import (
	"time"

	"github.com/rosterly/rostering-backend-go/internal/domain/employee"
	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
)

// Tiering constants. A preferred-template miss must outrank any realistic
// preference weight, and the preferred-day-off penalty must stay the weakest
// non-zero signal, so the weight scale sits strictly between the two.
const (
	tierPreferredTemplateMiss = 100000
	tierWeightScale           = 10
	tierPreferredDayOff       = 1
)

// Tier scores an (employee, shift, date) triple; lower is more desirable.
// The value is only a sort key, and ties are broken by the caller on
// employee id.
func Tier(emp employee.Employee, instance roster.ShiftInstance, date time.Time) int {
	tier := 0
	if !emp.PrefersTemplate(instance.TemplateID) {
		tier += tierPreferredTemplateMiss
	}
	tier -= emp.PreferenceWeight * tierWeightScale
	if emp.PreferredDayOff != nil && *emp.PreferredDayOff == date.Weekday() {
		// Working one's preferred day off never blocks, it only
		// deprioritizes and later surfaces as a warning.
		tier += tierPreferredDayOff
	}
	return tier
}

// Warnings returns the non-blocking advisory notes for placing the employee
// on the shift, derived from the same signals Tier uses.
func Warnings(emp employee.Employee, tpl roster.ShiftTemplate, instance roster.ShiftInstance, date time.Time) []string {
	var warnings []string
	if emp.PreferredDayOff != nil && *emp.PreferredDayOff == date.Weekday() {
		warnings = append(warnings, "assignment falls on the employee's preferred day off")
	}
	if len(tpl.LanguageRequirements) > 0 {
		speaksAny := false
		for _, lr := range tpl.LanguageRequirements {
			if emp.Speaks(lr.Language) {
				speaksAny = true
				break
			}
		}
		if !speaksAny {
			warnings = append(warnings, "employee speaks none of the shift's required languages")
		}
	}
	return warnings
}
