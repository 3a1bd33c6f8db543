/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Technologies and teams
  travel in the same shape as dataset files (factory.TechJSON,
  factory.TeamJSON), so a file can be posted item by item.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Catalog:
    factory.TechJSON, factory.TeamJSON (used directly)

  Rulesets:
    RulesetDTO, CreateRulesetRequest

  Ranking:
    ResearchDTO, ComponentResultDTO, RankingResponse

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and the factory, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/factory.go: JSON schema types
*/
package api

import (
	"time"

	"github.com/warp/research-engine/factory"
	"github.com/warp/research-engine/research"
	"github.com/warp/research-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// RulesetDTO represents a stored ruleset in API responses.
type RulesetDTO struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Active    bool                `json:"active"`
	Version   int                 `json:"version,omitempty"`
	Config    factory.RulesetJSON `json:"config"`
	CreatedAt string              `json:"created_at,omitempty"`
	UpdatedAt string              `json:"updated_at,omitempty"`
}

// CreateRulesetRequest is the request to create or replace a ruleset.
type CreateRulesetRequest struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Active bool                `json:"active"`
	Config factory.RulesetJSON `json:"config"`
}

// ComponentResultDTO is one component of a research breakdown.
type ComponentResultDTO struct {
	Name        string  `json:"name,omitempty"`
	Speciality  string  `json:"speciality"`
	Progress    float64 `json:"progress"`
	StartOffset int     `json:"start_offset"`
	Days        int     `json:"days"`
}

// ResearchDTO is one team's result for a technology.
type ResearchDTO struct {
	Rank       int                  `json:"rank,omitempty"`
	TeamID     string               `json:"team_id"`
	TeamName   string               `json:"team_name"`
	Country    string               `json:"country,omitempty"`
	Skill      int                  `json:"skill"`
	Days       int                  `json:"days"`
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
	Components []ComponentResultDTO `json:"components"`
}

// RankingResponse is the ranked list of teams for one technology.
type RankingResponse struct {
	Tech     factory.TechJSON    `json:"technology"`
	Ruleset  factory.RulesetJSON `json:"ruleset"`
	Rankings []ResearchDTO       `json:"rankings"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toResearchDTO(r *research.Research, rank int) ResearchDTO {
	dto := ResearchDTO{
		Rank:       rank,
		TeamID:     r.Team.ID,
		TeamName:   r.Team.Name,
		Country:    r.Team.Country,
		Skill:      r.Team.Skill,
		Days:       r.Days,
		StartDate:  r.StartDate.String(),
		EndDate:    r.EndDate.String(),
		Components: make([]ComponentResultDTO, len(r.Components)),
	}
	for i, c := range r.Components {
		dto.Components[i] = ComponentResultDTO{
			Name:        c.Component.Name,
			Speciality:  string(c.Component.Speciality),
			Progress:    c.Progress,
			StartOffset: c.StartOffset,
			Days:        c.Days,
		}
	}
	return dto
}

func (h *Handler) toRulesetDTO(rec *sqlite.RulesetRecord) RulesetDTO {
	return RulesetDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		Active:    rec.Active,
		Version:   rec.Version,
		Config:    h.Factory.RulesetToJSON(rec.Rules),
		CreatedAt: formatTime(rec.CreatedAt),
		UpdatedAt: formatTime(rec.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
