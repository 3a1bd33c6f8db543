package research

import (
	"fmt"

	"github.com/warp/research-engine/gamedate"
)

// =============================================================================
// GAME TYPE
// =============================================================================

// GameType selects the base progress formula and the game-specific rules.
type GameType string

const (
	GameHoI2 GameType = "hoi2" // Hearts of Iron 2
	GameAoD  GameType = "aod"  // Arsenal of Democracy: configurable pre-historical floor
	GameDH   GameType = "dh"   // Darkest Hour: speed modifier, bonus delayed one year
)

// ParseGameType accepts the short keys above.
func ParseGameType(s string) (GameType, error) {
	switch g := GameType(s); g {
	case GameHoI2, GameAoD, GameDH:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGameType, s)
	}
}

// DateMode selects where research is assumed to start.
type DateMode string

const (
	DateHistorical DateMode = "historical" // January 1st of the technology's year
	DateSpecified  DateMode = "specified"  // Ruleset.SpecifiedDate
)

// =============================================================================
// RULESET
// =============================================================================

const (
	// DefaultPreHistoricalFloor is the lowest penalty factor outside AoD.
	DefaultPreHistoricalFloor = 0.1

	// BonusDelayDays is how long DH withholds the post-historical bonus.
	BonusDelayDays = gamedate.DaysPerYear
)

// Ruleset holds every global setting the engine reads.
//
// Modifiers are plain factors (1.0 = neutral). Slopes are factor change per
// day: PreHistoricalPenalty is negative, PostHistoricalBonus positive.
type Ruleset struct {
	Game GameType

	// Blueprint bonus
	Blueprint      bool
	BlueprintBonus float64

	// ResearchSpeed applies to every game type; SpeedModifier only to DH.
	ResearchSpeed float64
	SpeedModifier float64

	// Historical date corrections
	PreHistoricalPenalty float64
	PreHistoricalLimit   float64 // floor factor, AoD only
	PostHistoricalBonus  float64
	PostHistoricalLimit  float64 // ceiling factor

	// Facility levels
	RocketTestSites int
	NuclearReactors int

	// Ranking filter
	ConsiderLifetime bool

	// Start date
	DateMode      DateMode
	SpecifiedDate gamedate.GameDate
}

// StartDate returns the date research on tech is assumed to begin.
func (r Ruleset) StartDate(tech *TechItem) gamedate.GameDate {
	if r.DateMode == DateSpecified {
		return r.SpecifiedDate
	}
	return gamedate.StartOfYear(tech.Year)
}

// ReferenceYear is the year organization lifetimes are compared against.
func (r Ruleset) ReferenceYear(tech *TechItem) int {
	return r.StartDate(tech).Year
}

// preHistoricalFloor is the lowest factor the pre-historical penalty reaches.
func (r Ruleset) preHistoricalFloor() float64 {
	if r.Game == GameAoD && r.PreHistoricalLimit > 0 {
		return r.PreHistoricalLimit
	}
	return DefaultPreHistoricalFloor
}

// bonusDelay is the number of post-historical days without any bonus.
func (r Ruleset) bonusDelay() float64 {
	if r.Game == GameDH {
		return BonusDelayDays
	}
	return 0
}

// bonusApplies reports whether components of speciality sp get the
// post-historical bonus at all.
func (r Ruleset) bonusApplies(sp Speciality) bool {
	if r.PostHistoricalBonus <= 0 || r.PostHistoricalLimit <= 1 {
		return false
	}
	if r.Game == GameDH && (sp.usesRocketSites() || sp.usesReactors()) {
		return false
	}
	return true
}
