/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the catalog with a ruleset,
	technologies and teams that show specific features of the engine.

AVAILABLE SCENARIOS:

	hoi2-rocketry:   German rocket programme, HoI2 rules, facility levels
	aod-early-start: Researching ahead of time with the AoD floor
	dh-nuclear:      Darkest Hour nuclear programme, lifetime filter on

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Parse the scenario dataset via factory
 3. Save the ruleset as the active one
 4. Save technologies and teams

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "dh-nuclear"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its dataset JSON to 'scenarioData'

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ranking handlers
  - factory/factory.go: Dataset JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/warp/research-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "hoi2-rocketry",
		Name:        "Rocket Programme",
		Description: "HoI2 rules with rocket test sites feeding the rocketry formula",
		Category:    "hoi2",
	},
	{
		ID:          "aod-early-start",
		Name:        "Early Start",
		Description: "AoD rules, research started years before the historical date",
		Category:    "aod",
	},
	{
		ID:          "dh-nuclear",
		Name:        "Nuclear Programme",
		Description: "DH rules with reactors, delayed bonus and organization lifetime",
		Category:    "dh",
	},
}

var scenarioData = map[string]string{
	"hoi2-rocketry": `{
  "ruleset": {"game": "hoi2", "rocket_test_sites": 3},
  "technologies": [
    {"id": "rocket-engine", "name": "Rocket Engine", "year": 1940, "components": [
      {"name": "Liquid Fuel", "speciality": "rocketry", "difficulty": 6},
      {"name": "Combustion Chamber", "speciality": "chemistry", "difficulty": 5},
      {"name": "Turbopumps", "speciality": "mechanics", "difficulty": 5},
      {"name": "Guidance", "speciality": "electronics", "difficulty": 6, "double_time": true},
      {"name": "Static Tests", "speciality": "rocketry", "difficulty": 4}
    ]},
    {"id": "rocket-interceptor", "name": "Rocket Interceptor", "year": 1943, "components": [
      {"name": "Airframe", "speciality": "aeronautics", "difficulty": 6},
      {"name": "Rocket Motor", "speciality": "rocketry", "difficulty": 7},
      {"name": "Fuel Handling", "speciality": "chemistry", "difficulty": 6},
      {"name": "Flight Tests", "speciality": "aeronautics", "difficulty": 5}
    ]}
  ],
  "teams": [
    {"id": "peenemunde", "name": "Heeresversuchsanstalt Peenemunde", "country": "GER", "skill": 9,
     "specialities": ["rocketry", "electronics", "mechanics"], "start_year": 1936, "end_year": 1946},
    {"id": "walter", "name": "Walter", "country": "GER", "skill": 6,
     "specialities": ["rocketry", "chemistry"], "start_year": 1935, "end_year": 1950},
    {"id": "messerschmitt", "name": "Messerschmitt", "country": "GER", "skill": 8,
     "specialities": ["aeronautics", "mechanics"], "start_year": 1930, "end_year": 1960},
    {"id": "ig-farben", "name": "IG Farben", "country": "GER", "skill": 7,
     "specialities": ["chemistry", "industrial_engineering"], "start_year": 1925, "end_year": 1952}
  ]
}`,

	"aod-early-start": `{
  "ruleset": {"game": "aod", "date_mode": "specified", "specified_date": "1936.1.1", "pre_historical_limit": "0.2"},
  "technologies": [
    {"id": "semi-auto-rifle", "name": "Semi-Automatic Rifle", "year": 1938, "components": [
      {"name": "Gas Operation", "speciality": "mechanics", "difficulty": 4},
      {"name": "Magazine", "speciality": "general_equipment", "difficulty": 3},
      {"name": "Field Trials", "speciality": "training", "difficulty": 3}
    ]},
    {"id": "assault-rifle", "name": "Assault Rifle", "year": 1944, "components": [
      {"name": "Intermediate Cartridge", "speciality": "artillery", "difficulty": 5},
      {"name": "Selective Fire", "speciality": "mechanics", "difficulty": 5},
      {"name": "Stamped Receiver", "speciality": "industrial_engineering", "difficulty": 4}
    ]}
  ],
  "teams": [
    {"id": "springfield", "name": "Springfield Armory", "country": "USA", "skill": 7,
     "specialities": ["mechanics", "general_equipment"], "start_year": 1920, "end_year": 1968},
    {"id": "winchester", "name": "Winchester", "country": "USA", "skill": 5,
     "specialities": ["artillery", "mechanics"], "start_year": 1920, "end_year": 1970},
    {"id": "fort-benning", "name": "Infantry School", "country": "USA", "skill": 4,
     "specialities": ["training", "small_unit_tactics"], "start_year": 1920, "end_year": 1970}
  ]
}`,

	"dh-nuclear": `{
  "ruleset": {"game": "dh", "nuclear_reactors": 2, "consider_lifetime": true,
              "date_mode": "specified", "specified_date": "1944.6.1"},
  "technologies": [
    {"id": "atomic-research", "name": "Atomic Research", "year": 1942, "components": [
      {"name": "Fission Theory", "speciality": "nuclear_physics", "difficulty": 8},
      {"name": "Mathematical Models", "speciality": "mathematics", "difficulty": 6},
      {"name": "Pile Construction", "speciality": "nuclear_engineering", "difficulty": 8, "double_time": true},
      {"name": "Criticality", "speciality": "nuclear_physics", "difficulty": 9}
    ]}
  ],
  "teams": [
    {"id": "met-lab", "name": "Metallurgical Laboratory", "country": "USA", "skill": 9,
     "specialities": ["nuclear_physics", "nuclear_engineering"], "start_year": 1942, "end_year": 1960},
    {"id": "columbia", "name": "Columbia University", "country": "USA", "skill": 7,
     "specialities": ["nuclear_physics", "mathematics"], "start_year": 1930, "end_year": 1970},
    {"id": "uranium-committee", "name": "Uranium Committee", "country": "USA", "skill": 6,
     "specialities": ["nuclear_physics"], "start_year": 1939, "end_year": 1943}
  ]
}`,
}

// ScenarioDataset returns the dataset JSON of a scenario.
func ScenarioDataset(id string) (string, bool) {
	data, ok := scenarioData[id]
	return data, ok
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.scenarioMu.RLock()
	current := h.currentScenario
	h.scenarioMu.RUnlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, ok := scenarioData[req.ScenarioID]; !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	if err := h.ApplyScenario(r.Context(), req.ScenarioID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"scenario": req.ScenarioID,
	})
}

// ApplyScenario resets the catalog and seeds it with a scenario.
func (h *Handler) ApplyScenario(ctx context.Context, id string) error {
	data, ok := scenarioData[id]
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}
	ds, err := h.Factory.ParseDataset([]byte(data))
	if err != nil {
		return fmt.Errorf("scenario %s: %w", id, err)
	}

	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	h.Rankings.Reset()

	rec := sqlite.RulesetRecord{ID: id, Name: scenarioName(id), Rules: ds.Rules, Active: true}
	if err := h.Store.SaveRuleset(ctx, rec); err != nil {
		return err
	}
	for _, tech := range ds.Techs {
		if err := h.Store.SaveTech(ctx, tech); err != nil {
			return err
		}
	}
	for _, team := range ds.Teams {
		if err := h.Store.SaveTeam(ctx, team); err != nil {
			return err
		}
	}

	h.setCurrentScenario(id)
	log.Printf("[Scenarios] loaded %s: %d technologies, %d teams", id, len(ds.Techs), len(ds.Teams))
	return nil
}

func (h *Handler) setCurrentScenario(id string) {
	h.scenarioMu.Lock()
	defer h.scenarioMu.Unlock()
	h.currentScenario = id
}

func scenarioName(id string) string {
	for _, s := range scenarios {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}
