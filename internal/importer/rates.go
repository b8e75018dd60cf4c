package importer

import "strings"

// rateRule assigns a monthly rate to departments whose name contains any of
// the keywords. Rules are checked in order; the first match wins.
type rateRule struct {
	keywords []string
	rate     float64
}

var rateRules = []rateRule{
	{[]string{"Sup", "Director", "Lead"}, 12000},
	{[]string{"Technical", "Developer"}, 10000},
	{[]string{"Animator", "Animation"}, 7000},
	{[]string{"Lighter", "Lighting"}, 7500},
	{[]string{"VFX", "Effect"}, 8000},
	{[]string{"Composite", "Comp"}, 7800},
	{[]string{"Modeller", "Modeling"}, 7500},
	{[]string{"Rigger", "Rigging"}, 8500},
	{[]string{"Surfacing", "Surface"}, 7500},
}

// FallbackRate applies to departments that match no rule.
const FallbackRate = 8000

// DefaultRate guesses a department's monthly rate from its name. It is used
// when an imported table has no rate column.
func DefaultRate(name string) float64 {
	for _, r := range rateRules {
		for _, kw := range r.keywords {
			if strings.Contains(name, kw) {
				return r.rate
			}
		}
	}
	return FallbackRate
}
