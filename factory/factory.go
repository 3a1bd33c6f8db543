/*
Package factory provides JSON to Go conversion for research definitions.

PURPOSE:
  Converts JSON technology, team and ruleset definitions into the values the
  research engine consumes. Editors, the HTTP API, the SQLite catalog and the
  CLI all exchange definitions in this format.

JSON SCHEMA:
  {
    "ruleset": {
      "game": "dh",
      "blueprint": true,
      "blueprint_bonus": "2.0",
      "post_historical_bonus": "0.0005",
      "post_historical_limit": "1.5",
      "date_mode": "specified",
      "specified_date": "1938.1.1"
    },
    "technologies": [
      {
        "id": "5010",
        "name": "Basic Rocket Test Site",
        "year": 1940,
        "components": [
          {"name": "Liquid Fuel", "speciality": "rocketry", "difficulty": 6},
          {"name": "Guidance", "speciality": "electronics", "difficulty": 5, "double_time": true}
        ]
      }
    ],
    "teams": [
      {"id": "1001", "name": "Peenemunde", "country": "GER", "skill": 8,
       "specialities": ["rocketry", "electronics"], "start_year": 1936, "end_year": 1960}
    ]
  }

DEFAULTS:
  Ruleset fields left out keep the value of the game's preset. Modifiers are
  decimals so configured constants round-trip exactly.

SEE ALSO:
  - research/ruleset.go: Ruleset definition
  - research/presets.go: per-game defaults
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/warp/research-engine/gamedate"
	"github.com/warp/research-engine/research"
)

// ErrInvalidDefinition is returned for malformed JSON or inconsistent fields.
var ErrInvalidDefinition = errors.New("invalid definition")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ComponentJSON is the JSON representation of a technology component.
type ComponentJSON struct {
	Name       string `json:"name,omitempty"`
	Speciality string `json:"speciality"`
	Difficulty int    `json:"difficulty"`
	DoubleTime bool   `json:"double_time,omitempty"`
}

// TechJSON is the JSON representation of a technology.
type TechJSON struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Year       int             `json:"year"`
	Components []ComponentJSON `json:"components"`
}

// TeamJSON is the JSON representation of a research team.
type TeamJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Country      string   `json:"country,omitempty"`
	Skill        int      `json:"skill"`
	Specialities []string `json:"specialities"`
	StartYear    int      `json:"start_year"`
	EndYear      int      `json:"end_year"`
}

// RulesetJSON is the JSON representation of a ruleset. Nil fields keep the
// game preset's value.
type RulesetJSON struct {
	Game                 string           `json:"game"`
	Blueprint            bool             `json:"blueprint,omitempty"`
	BlueprintBonus       *decimal.Decimal `json:"blueprint_bonus,omitempty"`
	ResearchSpeed        *decimal.Decimal `json:"research_speed,omitempty"`
	SpeedModifier        *decimal.Decimal `json:"speed_modifier,omitempty"`
	PreHistoricalPenalty *decimal.Decimal `json:"pre_historical_penalty,omitempty"`
	PreHistoricalLimit   *decimal.Decimal `json:"pre_historical_limit,omitempty"`
	PostHistoricalBonus  *decimal.Decimal `json:"post_historical_bonus,omitempty"`
	PostHistoricalLimit  *decimal.Decimal `json:"post_historical_limit,omitempty"`
	RocketTestSites      int              `json:"rocket_test_sites,omitempty"`
	NuclearReactors      int              `json:"nuclear_reactors,omitempty"`
	ConsiderLifetime     bool             `json:"consider_lifetime,omitempty"`
	DateMode             string           `json:"date_mode,omitempty"`
	SpecifiedDate        string           `json:"specified_date,omitempty"`
}

// DatasetJSON bundles a ruleset with technologies and teams.
type DatasetJSON struct {
	Ruleset      *RulesetJSON `json:"ruleset,omitempty"`
	Technologies []TechJSON   `json:"technologies"`
	Teams        []TeamJSON   `json:"teams"`
}

// Dataset is a parsed DatasetJSON.
type Dataset struct {
	Rules research.Ruleset
	Techs []*research.TechItem
	Teams []*research.Team
}

// Tech finds a technology by ID or name.
func (d *Dataset) Tech(key string) *research.TechItem {
	for _, t := range d.Techs {
		if t.ID == key || t.Name == key {
			return t
		}
	}
	return nil
}

// =============================================================================
// FACTORY
// =============================================================================

// Factory converts JSON definitions to research values.
type Factory struct {
	// DefaultGame is used when a ruleset omits "game".
	DefaultGame research.GameType
}

// NewFactory creates a factory defaulting to HoI2 rules.
func NewFactory() *Factory {
	return &Factory{DefaultGame: research.GameHoI2}
}

// LoadDataset reads and parses a dataset file.
func (f *Factory) LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return f.ParseDataset(data)
}

// ParseDataset parses a JSON dataset.
func (f *Factory) ParseDataset(data []byte) (*Dataset, error) {
	var dj DatasetJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return nil, fmt.Errorf("%w: dataset JSON: %v", ErrInvalidDefinition, err)
	}

	ds := &Dataset{}
	var err error
	if dj.Ruleset != nil {
		ds.Rules, err = f.RulesetFromJSON(*dj.Ruleset)
	} else {
		ds.Rules, err = research.Preset(f.DefaultGame)
	}
	if err != nil {
		return nil, err
	}

	for _, tj := range dj.Technologies {
		tech, err := f.TechFromJSON(tj)
		if err != nil {
			return nil, err
		}
		ds.Techs = append(ds.Techs, tech)
	}
	for _, tj := range dj.Teams {
		team, err := f.TeamFromJSON(tj)
		if err != nil {
			return nil, err
		}
		ds.Teams = append(ds.Teams, team)
	}
	return ds, nil
}

// ParseTech parses a single technology JSON document.
func (f *Factory) ParseTech(jsonStr string) (*research.TechItem, error) {
	var tj TechJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return nil, fmt.Errorf("%w: technology JSON: %v", ErrInvalidDefinition, err)
	}
	return f.TechFromJSON(tj)
}

// ParseTeam parses a single team JSON document.
func (f *Factory) ParseTeam(jsonStr string) (*research.Team, error) {
	var tj TeamJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return nil, fmt.Errorf("%w: team JSON: %v", ErrInvalidDefinition, err)
	}
	return f.TeamFromJSON(tj)
}

// ParseRuleset parses a single ruleset JSON document.
func (f *Factory) ParseRuleset(jsonStr string) (research.Ruleset, error) {
	var rj RulesetJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return research.Ruleset{}, fmt.Errorf("%w: ruleset JSON: %v", ErrInvalidDefinition, err)
	}
	return f.RulesetFromJSON(rj)
}

// =============================================================================
// FROM JSON
// =============================================================================

// TechFromJSON converts TechJSON to a TechItem.
func (f *Factory) TechFromJSON(tj TechJSON) (*research.TechItem, error) {
	tech := &research.TechItem{
		ID:         tj.ID,
		Name:       tj.Name,
		Year:       tj.Year,
		Components: make([]research.TechComponent, 0, len(tj.Components)),
	}
	for i, cj := range tj.Components {
		sp, err := research.ParseSpeciality(cj.Speciality)
		if err != nil {
			return nil, fmt.Errorf("technology %s component %d: %w", tj.ID, i, err)
		}
		tech.Components = append(tech.Components, research.TechComponent{
			Name:       cj.Name,
			Speciality: sp,
			Difficulty: cj.Difficulty,
			DoubleTime: cj.DoubleTime,
		})
	}
	return tech, nil
}

// TeamFromJSON converts TeamJSON to a Team.
func (f *Factory) TeamFromJSON(tj TeamJSON) (*research.Team, error) {
	team := &research.Team{
		ID:        tj.ID,
		Name:      tj.Name,
		Country:   tj.Country,
		Skill:     tj.Skill,
		StartYear: tj.StartYear,
		EndYear:   tj.EndYear,
	}
	for _, s := range tj.Specialities {
		sp, err := research.ParseSpeciality(s)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", tj.ID, err)
		}
		team.Specialities = append(team.Specialities, sp)
	}
	return team, nil
}

// RulesetFromJSON converts RulesetJSON to a Ruleset, starting from the
// game's preset.
func (f *Factory) RulesetFromJSON(rj RulesetJSON) (research.Ruleset, error) {
	game := f.DefaultGame
	if rj.Game != "" {
		game = research.GameType(rj.Game)
	}
	rules, err := research.Preset(game)
	if err != nil {
		return research.Ruleset{}, err
	}

	rules.Blueprint = rj.Blueprint
	rules.RocketTestSites = rj.RocketTestSites
	rules.NuclearReactors = rj.NuclearReactors
	rules.ConsiderLifetime = rj.ConsiderLifetime

	setFloat(&rules.BlueprintBonus, rj.BlueprintBonus)
	setFloat(&rules.ResearchSpeed, rj.ResearchSpeed)
	setFloat(&rules.SpeedModifier, rj.SpeedModifier)
	setFloat(&rules.PreHistoricalPenalty, rj.PreHistoricalPenalty)
	setFloat(&rules.PreHistoricalLimit, rj.PreHistoricalLimit)
	setFloat(&rules.PostHistoricalBonus, rj.PostHistoricalBonus)
	setFloat(&rules.PostHistoricalLimit, rj.PostHistoricalLimit)

	switch rj.DateMode {
	case "", string(research.DateHistorical):
		rules.DateMode = research.DateHistorical
	case string(research.DateSpecified):
		if rj.SpecifiedDate == "" {
			return research.Ruleset{}, fmt.Errorf("%w: date_mode %q requires specified_date", ErrInvalidDefinition, rj.DateMode)
		}
		rules.DateMode = research.DateSpecified
	default:
		return research.Ruleset{}, fmt.Errorf("%w: unknown date_mode %q", ErrInvalidDefinition, rj.DateMode)
	}
	if rj.SpecifiedDate != "" {
		d, err := gamedate.Parse(rj.SpecifiedDate)
		if err != nil {
			return research.Ruleset{}, err
		}
		rules.SpecifiedDate = d
	}

	return rules, nil
}

func setFloat(dst *float64, v *decimal.Decimal) {
	if v != nil {
		*dst = v.InexactFloat64()
	}
}

// =============================================================================
// TO JSON
// =============================================================================

// TechToJSON converts a TechItem to TechJSON.
func (f *Factory) TechToJSON(tech *research.TechItem) TechJSON {
	tj := TechJSON{
		ID:         tech.ID,
		Name:       tech.Name,
		Year:       tech.Year,
		Components: make([]ComponentJSON, len(tech.Components)),
	}
	for i, c := range tech.Components {
		tj.Components[i] = ComponentJSON{
			Name:       c.Name,
			Speciality: string(c.Speciality),
			Difficulty: c.Difficulty,
			DoubleTime: c.DoubleTime,
		}
	}
	return tj
}

// TeamToJSON converts a Team to TeamJSON.
func (f *Factory) TeamToJSON(team *research.Team) TeamJSON {
	tj := TeamJSON{
		ID:           team.ID,
		Name:         team.Name,
		Country:      team.Country,
		Skill:        team.Skill,
		Specialities: make([]string, len(team.Specialities)),
		StartYear:    team.StartYear,
		EndYear:      team.EndYear,
	}
	for i, sp := range team.Specialities {
		tj.Specialities[i] = string(sp)
	}
	return tj
}

// RulesetToJSON converts a Ruleset to RulesetJSON with every field set.
func (f *Factory) RulesetToJSON(rules research.Ruleset) RulesetJSON {
	rj := RulesetJSON{
		Game:                 string(rules.Game),
		Blueprint:            rules.Blueprint,
		BlueprintBonus:       decimalPtr(rules.BlueprintBonus),
		ResearchSpeed:        decimalPtr(rules.ResearchSpeed),
		SpeedModifier:        decimalPtr(rules.SpeedModifier),
		PreHistoricalPenalty: decimalPtr(rules.PreHistoricalPenalty),
		PreHistoricalLimit:   decimalPtr(rules.PreHistoricalLimit),
		PostHistoricalBonus:  decimalPtr(rules.PostHistoricalBonus),
		PostHistoricalLimit:  decimalPtr(rules.PostHistoricalLimit),
		RocketTestSites:      rules.RocketTestSites,
		NuclearReactors:      rules.NuclearReactors,
		ConsiderLifetime:     rules.ConsiderLifetime,
		DateMode:             string(rules.DateMode),
	}
	if !rules.SpecifiedDate.IsZero() {
		rj.SpecifiedDate = rules.SpecifiedDate.String()
	}
	return rj
}

func decimalPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
