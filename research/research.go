package research

import (
	"github.com/warp/research-engine/gamedate"
)

// =============================================================================
// RESEARCH - completion time of one technology by one team
// =============================================================================

// ComponentResult is the breakdown for one component.
type ComponentResult struct {
	Component   TechComponent
	Progress    float64 // base progress per day
	StartOffset int     // days after the historical date the component starts
	Days        int
}

// Research is the immutable result for a (technology, team, start date) triple.
type Research struct {
	Tech       *TechItem
	Team       *Team
	StartDate  gamedate.GameDate
	Days       int
	EndDate    gamedate.GameDate
	Components []ComponentResult
}

// NewResearch computes how many days team needs to finish tech under rules.
// Components are researched in order; each starts where the previous ended.
func NewResearch(tech *TechItem, team *Team, rules Ruleset) (*Research, error) {
	start := rules.StartDate(tech)
	offset := start.DifferenceFromYear(tech.Year)

	r := &Research{
		Tech:       tech,
		Team:       team,
		StartDate:  start,
		Components: make([]ComponentResult, 0, len(tech.Components)),
	}

	for i, component := range tech.Components {
		base, err := BaseProgress(component, team, rules)
		if err != nil {
			return nil, &ComponentError{TechID: tech.ID, Index: i, Err: err}
		}

		days, next, err := AccumulateDays(base, component.Speciality, offset, rules)
		if err != nil {
			return nil, &ComponentError{TechID: tech.ID, Index: i, Err: err}
		}

		r.Components = append(r.Components, ComponentResult{
			Component:   component,
			Progress:    base,
			StartOffset: offset,
			Days:        days,
		})
		r.Days += days
		offset = next
	}

	r.EndDate = start.Plus(r.Days)
	return r, nil
}
