/*
Package research computes how long a research team needs to finish a
technology, and ranks teams by completion speed.

PURPOSE:
  A technology is an ordered list of components. Each component accrues
  progress at a rate derived from the team's skill and specialities; it is
  complete once 100 progress units have accumulated. The rate is further
  scaled by how far the research runs ahead of (penalty) or behind (bonus)
  the technology's historical year. Completion days are solved in closed
  form, never by stepping day by day.

KEY CONCEPTS IN THIS FILE (types.go):
  - Speciality: research field a component needs and a team may master
  - TechComponent / TechItem: what is researched
  - Team: who researches it

PIPELINE:
  BaseProgress (progress.go) -> stage pipeline (stages.go, quadratic.go)
  -> Research (research.go) -> Researches ranking (researches.go)

SEE ALSO:
  - ruleset.go: game type selection and modifiers
  - presets.go: default constants per game type
  - errors.go: configuration errors
*/
package research

import (
	"fmt"
	"slices"
)

// =============================================================================
// SPECIALITY
// =============================================================================

// Speciality is a research field, keyed the way game data files name it.
type Speciality string

const (
	SpecialityNone                   Speciality = ""
	SpecialityArtillery              Speciality = "artillery"
	SpecialityMechanics              Speciality = "mechanics"
	SpecialityElectronics            Speciality = "electronics"
	SpecialityChemistry              Speciality = "chemistry"
	SpecialityTraining               Speciality = "training"
	SpecialityGeneralEquipment       Speciality = "general_equipment"
	SpecialityRocketry               Speciality = "rocketry"
	SpecialityNavalEngineering       Speciality = "naval_engineering"
	SpecialityAeronautics            Speciality = "aeronautics"
	SpecialityColdWeatherEquipment   Speciality = "coldweather_equipment"
	SpecialityAvionics               Speciality = "avionics"
	SpecialityNuclearPhysics         Speciality = "nuclear_physics"
	SpecialityNuclearEngineering     Speciality = "nuclear_engineering"
	SpecialityManagement             Speciality = "management"
	SpecialityIndustrialEngineering  Speciality = "industrial_engineering"
	SpecialityMathematics            Speciality = "mathematics"
	SpecialitySmallUnitTactics       Speciality = "small_unit_tactics"
	SpecialityLargeUnitTactics       Speciality = "large_unit_tactics"
	SpecialityCentralizedExecution   Speciality = "centralized_execution"
	SpecialityDecentralizedExecution Speciality = "decentralized_execution"
	SpecialityTechnicalEfficiency    Speciality = "technical_efficiency"
	SpecialityIndividualCourage      Speciality = "individual_courage"
	SpecialityInfantryFocus          Speciality = "infantry_focus"
	SpecialityCombinedArms           Speciality = "combined_arms"
	SpecialityLargeNavy              Speciality = "large_navy"
	SpecialitySubmarineFocus         Speciality = "submarine_focus"
	SpecialityAirForce               Speciality = "airforce"
	SpecialityMilitaryHistory        Speciality = "military_history"
)

var specialities = []Speciality{
	SpecialityArtillery, SpecialityMechanics, SpecialityElectronics, SpecialityChemistry,
	SpecialityTraining, SpecialityGeneralEquipment, SpecialityRocketry, SpecialityNavalEngineering,
	SpecialityAeronautics, SpecialityColdWeatherEquipment, SpecialityAvionics, SpecialityNuclearPhysics,
	SpecialityNuclearEngineering, SpecialityManagement, SpecialityIndustrialEngineering,
	SpecialityMathematics, SpecialitySmallUnitTactics, SpecialityLargeUnitTactics,
	SpecialityCentralizedExecution, SpecialityDecentralizedExecution, SpecialityTechnicalEfficiency,
	SpecialityIndividualCourage, SpecialityInfantryFocus, SpecialityCombinedArms, SpecialityLargeNavy,
	SpecialitySubmarineFocus, SpecialityAirForce, SpecialityMilitaryHistory,
}

// Specialities returns every known speciality in declaration order.
func Specialities() []Speciality {
	return slices.Clone(specialities)
}

// ParseSpeciality looks up a speciality by its data-file key.
func ParseSpeciality(s string) (Speciality, error) {
	sp := Speciality(s)
	if slices.Contains(specialities, sp) {
		return sp, nil
	}
	return SpecialityNone, fmt.Errorf("%w: %q", ErrUnknownSpeciality, s)
}

// usesRocketSites reports whether the rocket test site level feeds the formula.
func (s Speciality) usesRocketSites() bool { return s == SpecialityRocketry }

// usesReactors reports whether the nuclear reactor level feeds the formula.
func (s Speciality) usesReactors() bool {
	return s == SpecialityNuclearPhysics || s == SpecialityNuclearEngineering
}

// =============================================================================
// TECHNOLOGY
// =============================================================================

// TechComponent is one sequentially researched segment of a technology.
type TechComponent struct {
	Name       string
	Speciality Speciality
	Difficulty int
	DoubleTime bool
}

// TechItem is a technology definition.
type TechItem struct {
	ID         string
	Name       string
	Year       int // historical year
	Components []TechComponent
}

func (t *TechItem) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// =============================================================================
// TEAM
// =============================================================================

// Team is a research organization.
type Team struct {
	ID           string
	Name         string
	Country      string
	Skill        int
	Specialities []Speciality
	StartYear    int
	EndYear      int
}

// HasSpeciality reports whether the team masters sp.
func (t *Team) HasSpeciality(sp Speciality) bool {
	if sp == SpecialityNone {
		return false
	}
	return slices.Contains(t.Specialities, sp)
}

// ActiveIn reports whether the organization still exists in year.
func (t *Team) ActiveIn(year int) bool {
	return t.EndYear > year
}

func (t *Team) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}
