package position

import "strings"

// Category is the coarse position group used across the dashboard. Values
// are the Spanish labels carried by the source datasets.
type Category string

const (
	CategoryGoalkeeper Category = "Portero"
	CategoryDefender   Category = "Defensa"
	CategoryMidfielder Category = "Mediocampo"
	CategoryForward    Category = "Delantero"
	CategoryUnknown    Category = "Desconocido"
)

// CategoryOrder is the display order for charts and tables.
var CategoryOrder = []Category{
	CategoryGoalkeeper,
	CategoryDefender,
	CategoryMidfielder,
	CategoryForward,
	CategoryUnknown,
}

var AllCategories = map[Category]struct{}{
	CategoryGoalkeeper: {},
	CategoryDefender:   {},
	CategoryMidfielder: {},
	CategoryForward:    {},
	CategoryUnknown:    {},
}

// Classification tables. Full Spanish words are tested before the coded
// abbreviations: "MEDIOCAMPISTA" contains the code "ST", so the word pass
// must win. Within each pass categories are tested goalkeeper first, and
// the first family that matches decides, which is how overlapping codes
// (wing-back "RWB" vs winger "RW") resolve.
var (
	goalkeeperWords = []string{"PORTERO"}
	defenderWords   = []string{"DEFENSA"}
	midfielderWords = []string{"MEDIOCAMPISTA"}
	forwardWords    = []string{"DELANTERO"}

	goalkeeperCodes = []string{"GK"}
	defenderCodes   = []string{"CB", "LB", "RB", "LCB", "RCB", "WB", "LWB", "RWB"}
	midfielderCodes = []string{"MF", "DMF", "CMF", "AMF", "LCMF", "RCMF", "LDMF", "RDMF"}
	forwardCodes    = []string{"CF", "ST", "LW", "RW", "LAMF", "RAMF"}
)

// Classify maps a raw position string to its category. Comma-separated
// multi-position strings classify by their first entry only. Unknown or
// empty input yields CategoryUnknown; the function never fails.
func Classify(raw string) Category {
	token := strings.TrimSpace(raw)
	if token == "" {
		return CategoryUnknown
	}

	if idx := strings.IndexByte(token, ','); idx >= 0 {
		return Classify(token[:idx])
	}

	token = strings.ToUpper(token)
	switch {
	case matchesAny(token, goalkeeperWords):
		return CategoryGoalkeeper
	case matchesAny(token, defenderWords):
		return CategoryDefender
	case matchesAny(token, midfielderWords):
		return CategoryMidfielder
	case matchesAny(token, forwardWords):
		return CategoryForward
	case matchesAny(token, goalkeeperCodes):
		return CategoryGoalkeeper
	case matchesAny(token, defenderCodes):
		return CategoryDefender
	case matchesAny(token, midfielderCodes):
		return CategoryMidfielder
	case matchesAny(token, forwardCodes):
		return CategoryForward
	default:
		return CategoryUnknown
	}
}

func matchesAny(token string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(token, term) {
			return true
		}
	}
	return false
}
