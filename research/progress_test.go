package research_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/research-engine/research"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func component(sp research.Speciality, difficulty int) research.TechComponent {
	return research.TechComponent{Speciality: sp, Difficulty: difficulty}
}

func team(skill int, specialities ...research.Speciality) *research.Team {
	return &research.Team{
		ID:           "team",
		Skill:        skill,
		Specialities: specialities,
		StartYear:    1930,
		EndYear:      1950,
	}
}

// =============================================================================
// BASE PROGRESS
// =============================================================================

func TestBaseProgress_HoI2_UnskilledTeam(t *testing.T) {
	// GIVEN: Difficulty 0 (divisor 2), skill 0, no speciality, no modifiers
	// THEN: 9.3 / 2
	p, err := research.BaseProgress(component(research.SpecialityArtillery, 0), team(0), research.NeutralRules(research.GameHoI2))

	require.NoError(t, err)
	assert.InDelta(t, 4.65, p, 1e-9)
}

func TestBaseProgress_SpecialityMatchAddsSkillPlusSix(t *testing.T) {
	rules := research.NeutralRules(research.GameHoI2)
	c := component(research.SpecialityArtillery, 0)

	match, err := research.BaseProgress(c, team(2, research.SpecialityArtillery), rules)
	require.NoError(t, err)
	other, err := research.BaseProgress(c, team(2, research.SpecialityChemistry), rules)
	require.NoError(t, err)

	// effective skill 2+2+6 = 10 vs 2
	assert.InDelta(t, (9.3+15)/2, match, 1e-9)
	assert.InDelta(t, (9.3+3)/2, other, 1e-9)
}

func TestBaseProgress_FacilityLevels(t *testing.T) {
	rules := research.NeutralRules(research.GameHoI2)
	rules.RocketTestSites = 3
	rules.NuclearReactors = 5

	rocket, err := research.BaseProgress(component(research.SpecialityRocketry, 0), team(0), rules)
	require.NoError(t, err)
	assert.InDelta(t, (9.3+3)/2, rocket, 1e-9)

	nuclear, err := research.BaseProgress(component(research.SpecialityNuclearEngineering, 0), team(0), rules)
	require.NoError(t, err)
	assert.InDelta(t, (9.3+5)/2, nuclear, 1e-9)

	// other specialities ignore facilities
	art, err := research.BaseProgress(component(research.SpecialityArtillery, 0), team(0), rules)
	require.NoError(t, err)
	assert.InDelta(t, 4.65, art, 1e-9)
}

func TestBaseProgress_GameFormulas(t *testing.T) {
	aod := research.NeutralRules(research.GameAoD)
	aod.NuclearReactors = 2
	p, err := research.BaseProgress(component(research.SpecialityNuclearPhysics, 1), team(2), aod)
	require.NoError(t, err)
	assert.InDelta(t, (9.3+3+4)/3, p, 1e-9)

	dh := research.NeutralRules(research.GameDH)
	p, err = research.BaseProgress(component(research.SpecialityArtillery, 0), team(4), dh)
	require.NoError(t, err)
	assert.InDelta(t, (9.3+6)/2, p, 1e-9)

	unknown := research.NeutralRules("ftm")
	p, err = research.BaseProgress(component(research.SpecialityArtillery, 0), team(0), unknown)
	require.NoError(t, err)
	assert.InDelta(t, 4.65, p, 1e-9, "unknown game falls back to the HoI2 formula")
}

func TestBaseProgress_Modifiers(t *testing.T) {
	c := component(research.SpecialityArtillery, 0)

	rules := research.NeutralRules(research.GameHoI2)
	c.DoubleTime = true
	p, err := research.BaseProgress(c, team(0), rules)
	require.NoError(t, err)
	assert.InDelta(t, 4.65/2, p, 1e-9)

	c.DoubleTime = false
	rules.Blueprint = true
	rules.BlueprintBonus = 2
	rules.ResearchSpeed = 1.5
	p, err = research.BaseProgress(c, team(0), rules)
	require.NoError(t, err)
	assert.InDelta(t, 4.65*2*1.5, p, 1e-9)

	// the speed modifier only counts in DH
	rules.SpeedModifier = 3
	p, err = research.BaseProgress(c, team(0), rules)
	require.NoError(t, err)
	assert.InDelta(t, 4.65*2*1.5, p, 1e-9)

	dh := research.NeutralRules(research.GameDH)
	dh.SpeedModifier = 2
	p, err = research.BaseProgress(c, team(0), dh)
	require.NoError(t, err)
	assert.InDelta(t, 9.3, p, 1e-9)
}

func TestBaseProgress_ConfigErrors(t *testing.T) {
	_, err := research.BaseProgress(component(research.SpecialityArtillery, -2), team(3), research.HoI2Rules())
	assert.ErrorIs(t, err, research.ErrInvalidDifficulty)
	assert.True(t, research.IsConfigError(err))

	rules := research.HoI2Rules()
	rules.ResearchSpeed = 0
	_, err = research.BaseProgress(component(research.SpecialityArtillery, 0), team(3), rules)
	assert.ErrorIs(t, err, research.ErrInvalidProgress)
}

func TestParseSpeciality(t *testing.T) {
	sp, err := research.ParseSpeciality("rocketry")
	require.NoError(t, err)
	assert.Equal(t, research.SpecialityRocketry, sp)

	_, err = research.ParseSpeciality("alchemy")
	assert.ErrorIs(t, err, research.ErrUnknownSpeciality)
	assert.True(t, research.IsParseError(err))
}

// =============================================================================
// QUADRATIC SOLVER
// =============================================================================

func TestSolveQuadratic(t *testing.T) {
	x, err := research.SolveQuadratic(1, 0, -4)
	require.NoError(t, err)
	assert.InDelta(t, 2, x, 1e-12)

	x, err = research.SolveQuadratic(2, 4, -6)
	require.NoError(t, err)
	assert.InDelta(t, 1, x, 1e-12)
}

func TestSolveQuadratic_NoRealRoot(t *testing.T) {
	_, err := research.SolveQuadratic(1, 2, 1)
	assert.ErrorIs(t, err, research.ErrNoRealRoot)

	_, err = research.SolveQuadratic(1, 0, 4)
	var solverErr *research.SolverError
	require.ErrorAs(t, err, &solverErr)
	assert.Equal(t, 4.0, solverErr.C)

	_, err = research.SolveQuadratic(0, 1, -1)
	assert.ErrorIs(t, err, research.ErrNoRealRoot)
}
