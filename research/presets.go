/*
presets.go - Default rulesets per game type

PURPOSE:
  Ready-to-use constants for each supported game. They mirror the stock
  misc settings of each game; editors and callers start from a preset and
  override individual fields.

AVAILABLE PRESETS:
  HoI2Rules: pre-historical penalty only, no post-historical bonus
  AoDRules:  configurable pre-historical floor, capped post-historical bonus
  DHRules:   speed modifier, post-historical bonus delayed by one year

EXAMPLE:
  rules := research.DHRules()
  rules.Blueprint = true
  rules.DateMode = research.DateSpecified
  rules.SpecifiedDate = gamedate.New(1938, 1, 1)
*/
package research

// HoI2Rules returns the Hearts of Iron 2 defaults.
func HoI2Rules() Ruleset {
	return Ruleset{
		Game:                 GameHoI2,
		BlueprintBonus:       2.0,
		ResearchSpeed:        1.0,
		SpeedModifier:        1.0,
		PreHistoricalPenalty: -0.001,
		DateMode:             DateHistorical,
	}
}

// AoDRules returns the Arsenal of Democracy defaults.
func AoDRules() Ruleset {
	return Ruleset{
		Game:                 GameAoD,
		BlueprintBonus:       2.0,
		ResearchSpeed:        1.0,
		SpeedModifier:        1.0,
		PreHistoricalPenalty: -0.001,
		PreHistoricalLimit:   0.2,
		PostHistoricalBonus:  0.0005,
		PostHistoricalLimit:  1.5,
		DateMode:             DateHistorical,
	}
}

// DHRules returns the Darkest Hour defaults.
func DHRules() Ruleset {
	return Ruleset{
		Game:                 GameDH,
		BlueprintBonus:       2.0,
		ResearchSpeed:        1.0,
		SpeedModifier:        1.0,
		PreHistoricalPenalty: -0.001,
		PostHistoricalBonus:  0.0005,
		PostHistoricalLimit:  1.5,
		DateMode:             DateHistorical,
	}
}

// NeutralRules returns a ruleset of the given game with every correction off.
func NeutralRules(game GameType) Ruleset {
	return Ruleset{
		Game:           game,
		BlueprintBonus: 1.0,
		ResearchSpeed:  1.0,
		SpeedModifier:  1.0,
		DateMode:       DateHistorical,
	}
}

// Preset returns the default ruleset for game.
func Preset(game GameType) (Ruleset, error) {
	switch game {
	case GameHoI2:
		return HoI2Rules(), nil
	case GameAoD:
		return AoDRules(), nil
	case GameDH:
		return DHRules(), nil
	default:
		_, err := ParseGameType(string(game))
		return Ruleset{}, err
	}
}
