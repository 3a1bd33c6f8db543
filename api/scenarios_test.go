/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario correctly sets up the expected state:
	- The scenario ruleset is stored and active
	- Technologies keep their component order
	- Teams are created
	- Rankings can be computed on every scenario technology

These tests ensure scenarios work correctly and can be used as integration tests.
*/
package api

import (
	"context"
	"testing"

	"github.com/warp/research-engine/research"
	"github.com/warp/research-engine/store/sqlite"
)

func setupTestHandler(t *testing.T) *Handler {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewHandler(store, research.GameHoI2)
}

func TestScenario_AllScenariosLoad(t *testing.T) {
	// GIVEN: Every listed scenario
	// WHEN: Loading it
	// THEN: Its ruleset is active and every technology ranks without error
	for _, s := range scenarios {
		t.Run(s.ID, func(t *testing.T) {
			handler := setupTestHandler(t)
			ctx := context.Background()

			if err := handler.ApplyScenario(ctx, s.ID); err != nil {
				t.Fatalf("Failed to load %s: %v", s.ID, err)
			}

			active, err := handler.Store.GetActiveRuleset(ctx)
			if err != nil {
				t.Fatalf("Failed to get active ruleset: %v", err)
			}
			if active.ID != s.ID {
				t.Errorf("Expected active ruleset '%s', got '%s'", s.ID, active.ID)
			}
			if string(active.Rules.Game) != s.Category {
				t.Errorf("Expected game '%s', got '%s'", s.Category, active.Rules.Game)
			}

			techs, err := handler.Store.ListTechs(ctx)
			if err != nil {
				t.Fatalf("Failed to list technologies: %v", err)
			}
			teams, err := handler.Store.ListTeams(ctx)
			if err != nil {
				t.Fatalf("Failed to list teams: %v", err)
			}
			if len(techs) == 0 || len(teams) == 0 {
				t.Fatalf("Expected technologies and teams, got %d and %d", len(techs), len(teams))
			}

			rankings := research.NewResearches(active.Rules)
			for _, tech := range techs {
				if err := rankings.UpdateList(tech, teams); err != nil {
					t.Errorf("Failed to rank %s: %v", tech.ID, err)
				}
			}
		})
	}
}

func TestScenario_RocketryKeepsComponentOrder(t *testing.T) {
	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.ApplyScenario(ctx, "hoi2-rocketry"); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	tech, err := handler.Store.GetTech(ctx, "rocket-engine")
	if err != nil {
		t.Fatalf("Failed to get technology: %v", err)
	}
	want := []string{"Liquid Fuel", "Combustion Chamber", "Turbopumps", "Guidance", "Static Tests"}
	if len(tech.Components) != len(want) {
		t.Fatalf("Expected %d components, got %d", len(want), len(tech.Components))
	}
	for i, name := range want {
		if tech.Components[i].Name != name {
			t.Errorf("Component %d: expected '%s', got '%s'", i, name, tech.Components[i].Name)
		}
	}

	active, err := handler.Store.GetActiveRuleset(ctx)
	if err != nil {
		t.Fatalf("Failed to get active ruleset: %v", err)
	}
	if active.Rules.RocketTestSites != 3 {
		t.Errorf("Expected 3 rocket test sites, got %d", active.Rules.RocketTestSites)
	}
}

func TestScenario_LoadingReplacesPreviousScenario(t *testing.T) {
	// GIVEN: One scenario loaded
	// WHEN: Loading another
	// THEN: Only the second scenario's data remains
	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.ApplyScenario(ctx, "hoi2-rocketry"); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}
	if err := handler.ApplyScenario(ctx, "dh-nuclear"); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	if _, err := handler.Store.GetTech(ctx, "rocket-engine"); !sqlite.IsNotFound(err) {
		t.Errorf("Expected rocket-engine to be gone, got %v", err)
	}
	rulesets, err := handler.Store.ListRulesets(ctx)
	if err != nil {
		t.Fatalf("Failed to list rulesets: %v", err)
	}
	if len(rulesets) != 1 {
		t.Errorf("Expected 1 ruleset, got %d", len(rulesets))
	}
	if handler.currentScenario != "dh-nuclear" {
		t.Errorf("Expected current scenario 'dh-nuclear', got '%s'", handler.currentScenario)
	}
}

func TestScenarioDataset(t *testing.T) {
	if _, ok := ScenarioDataset("dh-nuclear"); !ok {
		t.Error("Expected dh-nuclear dataset")
	}
	if _, ok := ScenarioDataset("missing"); ok {
		t.Error("Expected no dataset for unknown scenario")
	}
}
