package research_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/research-engine/gamedate"
	"github.com/warp/research-engine/research"
)

func tech(year int, components ...research.TechComponent) *research.TechItem {
	return &research.TechItem{ID: "tech", Name: "Test Tech", Year: year, Components: components}
}

func namedTeam(id string, skill int, endYear int, specialities ...research.Speciality) *research.Team {
	return &research.Team{
		ID:           id,
		Name:         id,
		Skill:        skill,
		Specialities: specialities,
		StartYear:    1920,
		EndYear:      endYear,
	}
}

// =============================================================================
// RESEARCH
// =============================================================================

func TestNewResearch_SingleComponentOnHistoricalDate(t *testing.T) {
	tk := tech(1936, component(research.SpecialityArtillery, 0))

	r, err := research.NewResearch(tk, team(0), research.NeutralRules(research.GameHoI2))
	require.NoError(t, err)

	assert.Equal(t, 22, r.Days)
	assert.Equal(t, gamedate.New(1936, 1, 1), r.StartDate)
	assert.Equal(t, gamedate.New(1936, 1, 23), r.EndDate)
	require.Len(t, r.Components, 1)
	assert.InDelta(t, 4.65, r.Components[0].Progress, 1e-9)
}

func TestNewResearch_ComponentsChainOffsets(t *testing.T) {
	// GIVEN: Two identical components
	// THEN: The second starts where the first ended
	tk := tech(1936,
		component(research.SpecialityArtillery, 0),
		component(research.SpecialityArtillery, 0),
	)

	r, err := research.NewResearch(tk, team(0), research.NeutralRules(research.GameHoI2))
	require.NoError(t, err)

	require.Len(t, r.Components, 2)
	assert.Equal(t, 0, r.Components[0].StartOffset)
	assert.Equal(t, 22, r.Components[1].StartOffset)
	assert.Equal(t, 44, r.Days)
	assert.Equal(t, gamedate.New(1936, 2, 15), r.EndDate)
}

func TestNewResearch_SpecifiedDateSetsOffset(t *testing.T) {
	// GIVEN: Research starts a year before the historical year
	rules := research.HoI2Rules()
	rules.DateMode = research.DateSpecified
	rules.SpecifiedDate = gamedate.New(1935, 1, 1)

	tk := tech(1936, component(research.SpecialityArtillery, 0))
	early, err := research.NewResearch(tk, team(0), rules)
	require.NoError(t, err)

	rules.DateMode = research.DateHistorical
	onTime, err := research.NewResearch(tk, team(0), rules)
	require.NoError(t, err)

	// THEN: The first component starts 360 days early and is penalized
	assert.Equal(t, -360, early.Components[0].StartOffset)
	assert.Equal(t, gamedate.New(1935, 1, 1), early.StartDate)
	assert.Greater(t, early.Days, onTime.Days)
	assert.Equal(t, early.StartDate.Plus(early.Days), early.EndDate)
}

func TestNewResearch_LaterComponentsFeelThePenaltyLess(t *testing.T) {
	rules := research.HoI2Rules()
	rules.DateMode = research.DateSpecified
	rules.SpecifiedDate = gamedate.New(1934, 1, 1)

	tk := tech(1936,
		component(research.SpecialityArtillery, 2),
		component(research.SpecialityArtillery, 2),
	)
	r, err := research.NewResearch(tk, team(3), rules)
	require.NoError(t, err)

	assert.Less(t, r.Components[1].Days, r.Components[0].Days)
}

func TestNewResearch_WrapsComponentErrors(t *testing.T) {
	tk := tech(1936,
		component(research.SpecialityArtillery, 0),
		component(research.SpecialityArtillery, -2),
	)

	_, err := research.NewResearch(tk, team(1), research.HoI2Rules())

	var compErr *research.ComponentError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, 1, compErr.Index)
	assert.Equal(t, "tech", compErr.TechID)
	assert.ErrorIs(t, err, research.ErrInvalidDifficulty)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func propertyRulesets() []research.Ruleset {
	early := research.AoDRules()
	early.DateMode = research.DateSpecified
	early.SpecifiedDate = gamedate.New(1933, 6, 1)

	late := research.DHRules()
	late.DateMode = research.DateSpecified
	late.SpecifiedDate = gamedate.New(1939, 3, 15)

	return []research.Ruleset{research.HoI2Rules(), research.AoDRules(), research.DHRules(), early, late}
}

func propertyTech() *research.TechItem {
	return tech(1936,
		component(research.SpecialityArtillery, 4),
		component(research.SpecialityRocketry, 6),
		research.TechComponent{Speciality: research.SpecialityMechanics, Difficulty: 3, DoubleTime: true},
	)
}

func TestProperty_MoreSkillNeverSlower(t *testing.T) {
	tk := propertyTech()
	for _, rules := range propertyRulesets() {
		prev := -1
		for skill := 0; skill <= 12; skill++ {
			r, err := research.NewResearch(tk, team(skill), rules)
			require.NoError(t, err)
			if prev >= 0 {
				assert.LessOrEqual(t, r.Days, prev, "game %s skill %d", rules.Game, skill)
			}
			prev = r.Days
		}
	}
}

func TestProperty_SpecialityMatchNeverSlower(t *testing.T) {
	tk := propertyTech()
	for _, rules := range propertyRulesets() {
		for skill := 0; skill <= 10; skill++ {
			match, err := research.NewResearch(tk, team(skill, research.SpecialityRocketry), rules)
			require.NoError(t, err)
			other, err := research.NewResearch(tk, team(skill, research.SpecialityChemistry), rules)
			require.NoError(t, err)
			assert.LessOrEqual(t, match.Days, other.Days, "game %s skill %d", rules.Game, skill)
		}
	}
}

// =============================================================================
// RANKING
// =============================================================================

func teamIDs(items []*research.Research) []string {
	ids := make([]string, len(items))
	for i, r := range items {
		ids[i] = r.Team.ID
	}
	return ids
}

func TestResearches_SortedAscendingAndStable(t *testing.T) {
	// GIVEN: Two teams with identical skill (equal days)
	teams := []*research.Team{
		namedTeam("a", 1, 1950),
		namedTeam("b", 5, 1950),
		namedTeam("c", 1, 1950),
		namedTeam("d", 3, 1950),
	}
	rs := research.NewResearches(research.HoI2Rules())

	require.NoError(t, rs.UpdateList(tech(1936, component(research.SpecialityArtillery, 3)), teams))

	// THEN: Fastest first, a stays before c
	items := rs.Items()
	assert.Equal(t, []string{"b", "d", "a", "c"}, teamIDs(items))
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Days, items[i].Days)
	}
	assert.Equal(t, items[2].Days, items[3].Days)
}

func TestResearches_LifetimeFilter(t *testing.T) {
	teams := []*research.Team{
		namedTeam("ended-before", 9, 1935),
		namedTeam("ends-that-year", 9, 1936),
		namedTeam("active", 1, 1937),
	}
	tk := tech(1936, component(research.SpecialityArtillery, 2))

	rules := research.HoI2Rules()
	rs := research.NewResearches(rules)
	require.NoError(t, rs.UpdateList(tk, teams))
	assert.Equal(t, 3, rs.Len(), "filter is off by default")

	rules.ConsiderLifetime = true
	rs.SetRules(rules)
	require.NoError(t, rs.UpdateList(tk, teams))
	assert.Equal(t, []string{"active"}, teamIDs(rs.Items()))
	for _, r := range rs.Items() {
		assert.Greater(t, r.Team.EndYear, 1936)
	}
}

func TestResearches_LifetimeFilterUsesSpecifiedDate(t *testing.T) {
	teams := []*research.Team{
		namedTeam("old", 9, 1936),
		namedTeam("young", 1, 1945),
	}
	rules := research.HoI2Rules()
	rules.ConsiderLifetime = true
	rules.DateMode = research.DateSpecified
	rules.SpecifiedDate = gamedate.New(1940, 6, 1)

	rs := research.NewResearches(rules)
	require.NoError(t, rs.UpdateList(tech(1936, component(research.SpecialityArtillery, 2)), teams))

	assert.Equal(t, []string{"young"}, teamIDs(rs.Items()))
}

func TestResearches_RebuildsFromScratch(t *testing.T) {
	rs := research.NewResearches(research.HoI2Rules())
	tk := tech(1936, component(research.SpecialityArtillery, 2))

	require.NoError(t, rs.UpdateList(tk, []*research.Team{namedTeam("a", 1, 1950), namedTeam("b", 2, 1950)}))
	require.NoError(t, rs.UpdateList(tk, []*research.Team{namedTeam("c", 1, 1950)}))

	assert.Equal(t, []string{"c"}, teamIDs(rs.Items()))
	assert.Same(t, tk, rs.Tech())

	rs.Reset()
	assert.Equal(t, 0, rs.Len())
	assert.Nil(t, rs.Tech())
}

func TestResearches_ErrorClearsList(t *testing.T) {
	rs := research.NewResearches(research.HoI2Rules())
	good := tech(1936, component(research.SpecialityArtillery, 2))
	require.NoError(t, rs.UpdateList(good, []*research.Team{namedTeam("a", 1, 1950)}))

	bad := tech(1936, component(research.SpecialityArtillery, -2))
	err := rs.UpdateList(bad, []*research.Team{namedTeam("a", 1, 1950)})

	assert.True(t, research.IsConfigError(err))
	assert.True(t, errors.Is(err, research.ErrInvalidDifficulty))
	assert.Equal(t, 0, rs.Len())
}
