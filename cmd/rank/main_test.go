package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/research-engine/gamedate"
	"github.com/warp/research-engine/research"
)

func init() {
	color.NoColor = true
}

func boolPtr(b bool) *bool { return &b }

func TestRun_ScenarioRanking(t *testing.T) {
	var out bytes.Buffer

	err := run(&out, options{scenario: "hoi2-rocketry", tech: "rocket-engine", breakdown: true})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Rocket Engine (1940)")
	assert.Contains(t, text, "Peenemunde")
	assert.Contains(t, text, "Breakdown for Heeresversuchsanstalt Peenemunde")
	assert.Contains(t, text, "Liquid Fuel")
}

func TestRun_ListsTechsWithoutTech(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, options{scenario: "aod-early-start"}))
	assert.Contains(t, out.String(), "semi-auto-rifle")
	assert.Contains(t, out.String(), "assault-rifle")
}

func TestRun_DataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"technologies": [{"id": "t1", "name": "Radar", "year": 1939,
			"components": [{"speciality": "electronics", "difficulty": 4}]}],
		"teams": [
			{"id": "a", "name": "Telefunken", "skill": 7, "specialities": ["electronics"], "end_year": 1950},
			{"id": "b", "name": "Siemens", "skill": 5, "end_year": 1938}
		]
	}`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(&out, options{dataFile: path, tech: "Radar", lifetime: boolPtr(true)}))
	assert.Contains(t, out.String(), "Telefunken")
	assert.NotContains(t, out.String(), "Siemens")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(&out, options{}))
	assert.Error(t, run(&out, options{dataFile: "x.json", scenario: "dh-nuclear"}))
	assert.Error(t, run(&out, options{scenario: "nope"}))
	assert.Error(t, run(&out, options{scenario: "dh-nuclear", tech: "missing"}))
	assert.ErrorIs(t, run(&out, options{scenario: "dh-nuclear", date: "June 1944"}), gamedate.ErrInvalidDate)
}

func TestApplyOverrides(t *testing.T) {
	rules, err := applyOverrides(research.HoI2Rules(), options{
		game:      "aod",
		date:      "1937.7.7",
		lifetime:  boolPtr(true),
		blueprint: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, research.GameAoD, rules.Game)
	assert.Equal(t, research.AoDRules().PreHistoricalLimit, rules.PreHistoricalLimit)
	assert.Equal(t, research.DateSpecified, rules.DateMode)
	assert.Equal(t, gamedate.New(1937, 7, 7), rules.SpecifiedDate)
	assert.True(t, rules.ConsiderLifetime)
	assert.True(t, rules.Blueprint)

	// same game keeps dataset settings
	custom := research.DHRules()
	custom.NuclearReactors = 4
	rules, err = applyOverrides(custom, options{game: "dh"})
	require.NoError(t, err)
	assert.Equal(t, 4, rules.NuclearReactors)

	_, err = applyOverrides(custom, options{game: "ftm"})
	assert.ErrorIs(t, err, research.ErrUnknownGameType)
}
