/*
handlers.go - HTTP API handlers for the research engine

PURPOSE:
  Exposes the research catalog and the ranking computation via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  store and the research package.

ENDPOINTS:
  Technologies:
    GET    /api/technologies                     List technologies
    POST   /api/technologies                     Create technology
    GET    /api/technologies/{id}                Get technology
    PUT    /api/technologies/{id}                Replace technology
    DELETE /api/technologies/{id}                Delete technology
    GET    /api/technologies/{id}/ranking        Rank all teams on it
    GET    /api/technologies/{id}/teams/{teamID} One team's breakdown

  Teams:
    GET    /api/teams                  List teams
    POST   /api/teams                  Create team
    GET    /api/teams/{id}             Get team
    PUT    /api/teams/{id}             Replace team
    DELETE /api/teams/{id}             Delete team

  Rulesets:
    GET    /api/rulesets               List rulesets
    POST   /api/rulesets               Create or replace ruleset
    GET    /api/rulesets/active        Active ruleset (preset if none)
    GET    /api/rulesets/{id}          Get ruleset
    POST   /api/rulesets/{id}/activate Make ruleset active
    DELETE /api/rulesets/{id}          Delete ruleset
    GET    /api/presets/{game}         Built-in ruleset of a game

RANKING OVERRIDES:
  The ranking endpoints accept query parameters applied on top of the
  active ruleset:
    game=dh            use that game's preset instead
    date=1938.6.1      start research on that date
    lifetime=true      skip organizations that no longer exist
    blueprint=true     apply the blueprint bonus

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Catalog access
  - Factory: JSON to domain conversion
  - Rankings: the ranking registry, rebuilt per request

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (bad JSON, unknown speciality, bad date)
  - 404: Resource not found
  - 422: Definitions that cannot be computed (difficulty -2, zero rate)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/research-engine/factory"
	"github.com/warp/research-engine/gamedate"
	"github.com/warp/research-engine/research"
	"github.com/warp/research-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.Factory

	// DefaultGame selects the preset used while no ruleset is active.
	DefaultGame research.GameType

	// Rankings is rebuilt under rankMu for every ranking request.
	Rankings *research.Researches
	rankMu   sync.Mutex

	// Track currently loaded scenario
	currentScenario string
	scenarioMu      sync.RWMutex
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, game research.GameType) *Handler {
	f := factory.NewFactory()
	f.DefaultGame = game
	rules, err := research.Preset(game)
	if err != nil {
		rules = research.HoI2Rules()
	}
	return &Handler{
		Store:       store,
		Factory:     f,
		DefaultGame: rules.Game,
		Rankings:    research.NewResearches(rules),
	}
}

// =============================================================================
// TECHNOLOGY HANDLERS
// =============================================================================

// ListTechs returns all technologies.
func (h *Handler) ListTechs(w http.ResponseWriter, r *http.Request) {
	techs, err := h.Store.ListTechs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list technologies", err)
		return
	}

	dtos := make([]factory.TechJSON, len(techs))
	for i, t := range techs {
		dtos[i] = h.Factory.TechToJSON(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTech returns a single technology.
func (h *Handler) GetTech(w http.ResponseWriter, r *http.Request) {
	tech, err := h.Store.GetTech(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get technology", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.TechToJSON(tech))
}

// CreateTech creates a technology. A missing ID is generated.
func (h *Handler) CreateTech(w http.ResponseWriter, r *http.Request) {
	var req factory.TechJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	h.saveTech(w, r, req, http.StatusCreated)
}

// UpdateTech replaces a technology; the URL ID wins over the body.
func (h *Handler) UpdateTech(w http.ResponseWriter, r *http.Request) {
	var req factory.TechJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = chi.URLParam(r, "id")
	h.saveTech(w, r, req, http.StatusOK)
}

func (h *Handler) saveTech(w http.ResponseWriter, r *http.Request, req factory.TechJSON, status int) {
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if len(req.Components) == 0 {
		writeError(w, http.StatusBadRequest, "at least one component is required", nil)
		return
	}

	tech, err := h.Factory.TechFromJSON(req)
	if err != nil {
		writeDomainError(w, "Invalid technology", err)
		return
	}
	if err := h.Store.SaveTech(r.Context(), tech); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save technology", err)
		return
	}
	writeJSON(w, status, h.Factory.TechToJSON(tech))
}

// DeleteTech removes a technology.
func (h *Handler) DeleteTech(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTech(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete technology", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TEAM HANDLERS
// =============================================================================

// ListTeams returns all teams.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Store.ListTeams(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list teams", err)
		return
	}

	dtos := make([]factory.TeamJSON, len(teams))
	for i, t := range teams {
		dtos[i] = h.Factory.TeamToJSON(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTeam returns a single team.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.Store.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get team", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.TeamToJSON(team))
}

// CreateTeam creates a team. A missing ID is generated.
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req factory.TeamJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	h.saveTeam(w, r, req, http.StatusCreated)
}

// UpdateTeam replaces a team; the URL ID wins over the body.
func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req factory.TeamJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = chi.URLParam(r, "id")
	h.saveTeam(w, r, req, http.StatusOK)
}

func (h *Handler) saveTeam(w http.ResponseWriter, r *http.Request, req factory.TeamJSON, status int) {
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.EndYear != 0 && req.EndYear < req.StartYear {
		writeError(w, http.StatusBadRequest, "end_year must not precede start_year", nil)
		return
	}

	team, err := h.Factory.TeamFromJSON(req)
	if err != nil {
		writeDomainError(w, "Invalid team", err)
		return
	}
	if err := h.Store.SaveTeam(r.Context(), team); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save team", err)
		return
	}
	writeJSON(w, status, h.Factory.TeamToJSON(team))
}

// DeleteTeam removes a team.
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTeam(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete team", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RULESET HANDLERS
// =============================================================================

// ListRulesets returns all stored rulesets.
func (h *Handler) ListRulesets(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRulesets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rulesets", err)
		return
	}

	dtos := make([]RulesetDTO, len(records))
	for i := range records {
		dtos[i] = h.toRulesetDTO(&records[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRuleset returns a stored ruleset.
func (h *Handler) GetRuleset(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRuleset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get ruleset", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toRulesetDTO(rec))
}

// GetActiveRuleset returns the active ruleset, or the default game's preset
// when none is stored.
func (h *Handler) GetActiveRuleset(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetActiveRuleset(r.Context())
	if errors.Is(err, sqlite.ErrRulesetNotFound) {
		rules, _ := research.Preset(h.DefaultGame)
		writeJSON(w, http.StatusOK, RulesetDTO{
			ID:     "preset-" + string(rules.Game),
			Name:   "Built-in " + string(rules.Game) + " preset",
			Active: true,
			Config: h.Factory.RulesetToJSON(rules),
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get active ruleset", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toRulesetDTO(rec))
}

// CreateRuleset creates or replaces a ruleset.
func (h *Handler) CreateRuleset(w http.ResponseWriter, r *http.Request) {
	var req CreateRulesetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Name == "" {
		req.Name = req.ID
	}

	rules, err := h.Factory.RulesetFromJSON(req.Config)
	if err != nil {
		writeDomainError(w, "Invalid ruleset", err)
		return
	}

	rec := sqlite.RulesetRecord{ID: req.ID, Name: req.Name, Rules: rules, Active: req.Active}
	if err := h.Store.SaveRuleset(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save ruleset", err)
		return
	}

	saved, err := h.Store.GetRuleset(r.Context(), req.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload ruleset", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toRulesetDTO(saved))
}

// ActivateRuleset makes a stored ruleset the active one.
func (h *Handler) ActivateRuleset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.ActivateRuleset(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to activate ruleset", err)
		return
	}
	log.Printf("[Rulesets] activated %s", id)

	rec, err := h.Store.GetRuleset(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get ruleset", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toRulesetDTO(rec))
}

// DeleteRuleset removes a stored ruleset.
func (h *Handler) DeleteRuleset(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRuleset(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete ruleset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPreset returns a built-in ruleset.
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	rules, err := research.Preset(research.GameType(chi.URLParam(r, "game")))
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown game", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.RulesetToJSON(rules))
}

// =============================================================================
// RANKING HANDLERS
// =============================================================================

// GetRanking ranks every stored team on a technology, fastest first.
func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tech, err := h.Store.GetTech(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get technology", err)
		return
	}
	rules, err := h.rulesFor(r)
	if err != nil {
		writeDomainError(w, "Invalid ranking parameters", err)
		return
	}
	teams, err := h.Store.ListTeams(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list teams", err)
		return
	}

	h.rankMu.Lock()
	h.Rankings.SetRules(rules)
	err = h.Rankings.UpdateList(tech, teams)
	items := h.Rankings.Items()
	h.rankMu.Unlock()

	if err != nil {
		log.Printf("[Ranking] %s: %v", tech.ID, err)
		writeDomainError(w, "Failed to rank teams", err)
		return
	}

	resp := RankingResponse{
		Tech:     h.Factory.TechToJSON(tech),
		Ruleset:  h.Factory.RulesetToJSON(rules),
		Rankings: make([]ResearchDTO, len(items)),
	}
	for i, item := range items {
		resp.Rankings[i] = toResearchDTO(item, i+1)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetResearch returns one team's breakdown for a technology. The lifetime
// filter does not apply to a single explicit team.
func (h *Handler) GetResearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tech, err := h.Store.GetTech(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get technology", err)
		return
	}
	team, err := h.Store.GetTeam(ctx, chi.URLParam(r, "teamID"))
	if err != nil {
		writeDomainError(w, "Failed to get team", err)
		return
	}
	rules, err := h.rulesFor(r)
	if err != nil {
		writeDomainError(w, "Invalid ranking parameters", err)
		return
	}

	res, err := research.NewResearch(tech, team, rules)
	if err != nil {
		writeDomainError(w, "Failed to compute research", err)
		return
	}
	writeJSON(w, http.StatusOK, toResearchDTO(res, 0))
}

// activeRules returns the stored active ruleset or the default preset.
func (h *Handler) activeRules(ctx context.Context) (research.Ruleset, error) {
	rec, err := h.Store.GetActiveRuleset(ctx)
	if errors.Is(err, sqlite.ErrRulesetNotFound) {
		return research.Preset(h.DefaultGame)
	}
	if err != nil {
		return research.Ruleset{}, err
	}
	return rec.Rules, nil
}

// rulesFor applies the query overrides to the active ruleset.
func (h *Handler) rulesFor(r *http.Request) (research.Ruleset, error) {
	q := r.URL.Query()

	rules, err := h.activeRules(r.Context())
	if err != nil {
		return research.Ruleset{}, err
	}

	if v := q.Get("game"); v != "" {
		game, err := research.ParseGameType(v)
		if err != nil {
			return research.Ruleset{}, err
		}
		if game != rules.Game {
			if rules, err = research.Preset(game); err != nil {
				return research.Ruleset{}, err
			}
		}
	}
	if v := q.Get("date"); v != "" {
		d, err := gamedate.Parse(v)
		if err != nil {
			return research.Ruleset{}, err
		}
		rules.DateMode = research.DateSpecified
		rules.SpecifiedDate = d
	}
	if v := q.Get("lifetime"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return research.Ruleset{}, fmt.Errorf("%w: lifetime=%q", errBadQuery, v)
		}
		rules.ConsiderLifetime = b
	}
	if v := q.Get("blueprint"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return research.Ruleset{}, fmt.Errorf("%w: blueprint=%q", errBadQuery, v)
		}
		rules.Blueprint = b
	}
	return rules, nil
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.Rankings.Reset()
	h.setCurrentScenario("")

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

var errBadQuery = errors.New("invalid query parameter")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: codeFor(status)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the error chain.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case sqlite.IsNotFound(err):
		return http.StatusNotFound
	case research.IsParseError(err),
		errors.Is(err, gamedate.ErrInvalidDate),
		errors.Is(err, factory.ErrInvalidDefinition),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	case research.IsConfigError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "invalid_config"
	default:
		return "internal"
	}
}
