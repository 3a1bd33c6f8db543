package research

import (
	"slices"
	"sync"
)

// =============================================================================
// RESEARCHES - ranking of teams for one technology
// =============================================================================

// Researches holds the ranked results for the technology last passed to
// UpdateList. The list is rebuilt from scratch on every update.
type Researches struct {
	mu    sync.RWMutex
	rules Ruleset
	tech  *TechItem
	items []*Research
}

// NewResearches creates an empty ranking computed under rules.
func NewResearches(rules Ruleset) *Researches {
	return &Researches{rules: rules}
}

// Rules returns the ruleset used by UpdateList.
func (rs *Researches) Rules() Ruleset {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.rules
}

// SetRules replaces the ruleset; the current list is kept until the next update.
func (rs *Researches) SetRules(rules Ruleset) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.rules = rules
}

// UpdateList ranks teams on tech, fastest first. Teams with equal days keep
// their input order. When the ruleset considers organization lifetime,
// teams that ended on or before the reference year are left out.
//
// On error the previous list is cleared and nothing is kept.
func (rs *Researches) UpdateList(tech *TechItem, teams []*Team) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.tech = tech
	rs.items = nil

	year := rs.rules.ReferenceYear(tech)
	items := make([]*Research, 0, len(teams))
	for _, team := range teams {
		if rs.rules.ConsiderLifetime && !team.ActiveIn(year) {
			continue
		}
		r, err := NewResearch(tech, team, rs.rules)
		if err != nil {
			return err
		}
		items = append(items, r)
	}

	slices.SortStableFunc(items, func(a, b *Research) int {
		return a.Days - b.Days
	})
	rs.items = items
	return nil
}

// Items returns a copy of the ranked list.
func (rs *Researches) Items() []*Research {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return slices.Clone(rs.items)
}

// Tech returns the technology of the current list, or nil.
func (rs *Researches) Tech() *TechItem {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.tech
}

func (rs *Researches) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.items)
}

// Reset clears the list.
func (rs *Researches) Reset() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.tech = nil
	rs.items = nil
}
