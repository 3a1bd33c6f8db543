package research

import "math"

// =============================================================================
// BASE PROGRESS - daily progress rate before historical corrections
// =============================================================================

// SpecialityBonus is added on top of the doubled skill when a team masters
// the component's speciality.
const SpecialityBonus = 6

// CompletionProgress is the progress a component needs to complete.
const CompletionProgress = 100.0

// BaseProgress returns the progress units per day team makes on component
// before pre/post-historical corrections.
func BaseProgress(component TechComponent, team *Team, rules Ruleset) (float64, error) {
	if component.Difficulty == -2 {
		return 0, ErrInvalidDifficulty
	}

	skill := team.Skill
	if team.HasSpeciality(component.Speciality) {
		skill += team.Skill + SpecialityBonus
	}

	level := 0
	switch {
	case component.Speciality.usesRocketSites():
		level = rules.RocketTestSites
	case component.Speciality.usesReactors():
		level = rules.NuclearReactors
	}

	progress := formula(rules.Game, float64(skill), float64(level)) / float64(component.Difficulty+2)

	if component.DoubleTime {
		progress /= 2
	}
	if rules.Blueprint {
		progress *= rules.BlueprintBonus
	}
	if rules.Game == GameDH {
		progress *= rules.SpeedModifier
	}
	progress *= rules.ResearchSpeed

	if progress <= 0 || math.IsNaN(progress) || math.IsInf(progress, 0) {
		return 0, ErrInvalidProgress
	}
	return progress, nil
}

// formula is the game-specific numerator of the progress rate.
func formula(game GameType, skill, level float64) float64 {
	switch game {
	case GameAoD:
		return 9.3 + 1.5*skill + 2*level
	case GameDH:
		return 9.3 + 3*math.Sqrt(skill) + 1.5*math.Sqrt(level)
	default:
		return 9.3 + 1.5*skill + level
	}
}
