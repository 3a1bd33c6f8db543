/*
Package sqlite provides a SQLite-backed catalog of research definitions.

PURPOSE:
  Persists technologies, teams and rulesets so the API can rank teams without
  reloading data files. The engine itself never touches the database; the
  store hands back research.TechItem, research.Team and research.Ruleset
  values.

KEY TABLES:
  technologies:      Technology header (id, name, historical year)
  tech_components:   Ordered components of a technology
  teams:             Research teams
  team_specialities: Ordered specialities of a team
  rulesets:          Named rulesets (JSON config, one marked active)

ORDERING:
  Component order matters: each component starts where the previous one
  ended. Components and specialities are stored with an explicit position
  and always read back ordered by it.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Writes that touch several tables run
  inside one database transaction.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging) and foreign keys
  on, so deleting a technology or team cascades to its child rows.

USAGE:
  store, err := sqlite.New("./data/research.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  tech, err := store.GetTech(ctx, "5010")
  teams, err := store.ListTeams(ctx)
  rules, err := store.GetActiveRuleset(ctx)

SEE ALSO:
  - factory/factory.go: JSON encoding of stored rulesets
  - api/handlers.go: HTTP handlers over this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/research-engine/factory"
	"github.com/warp/research-engine/research"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrTechNotFound    = errors.New("technology not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrRulesetNotFound = errors.New("ruleset not found")
)

// IsNotFound returns true for any of the store's not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTechNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrRulesetNotFound)
}

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite catalog.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.Factory
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if dbPath == ":memory:" {
		dsn = dbPath + "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, factory: factory.NewFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("[Store] opened %s", dbPath)
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Technologies
	CREATE TABLE IF NOT EXISTS technologies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		year INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_technologies_year
		ON technologies(year);

	-- Components, ordered by position
	CREATE TABLE IF NOT EXISTS tech_components (
		tech_id TEXT NOT NULL REFERENCES technologies(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		speciality TEXT NOT NULL,
		difficulty INTEGER NOT NULL,
		double_time BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (tech_id, position)
	);

	-- Teams
	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		skill INTEGER NOT NULL,
		start_year INTEGER NOT NULL,
		end_year INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_teams_country
		ON teams(country);

	CREATE TABLE IF NOT EXISTS team_specialities (
		team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		speciality TEXT NOT NULL,
		PRIMARY KEY (team_id, position)
	);

	-- Rulesets (versioned, at most one active)
	CREATE TABLE IF NOT EXISTS rulesets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		game TEXT NOT NULL,
		config_json TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_rulesets_active
		ON rulesets(active) WHERE active;
	`

	_, err := s.db.Exec(schema)
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn inside a database transaction. Callers hold s.mu.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// =============================================================================
// TECHNOLOGY STORE
// =============================================================================

// SaveTech inserts or replaces a technology and its components.
func (s *Store) SaveTech(ctx context.Context, tech *research.TechItem) error {
	if tech.ID == "" {
		return fmt.Errorf("technology id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC().Format(time.RFC3339)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO technologies (id, name, year, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				year = excluded.year,
				updated_at = excluded.updated_at
		`, tech.ID, tech.Name, tech.Year, now, now)
		if err != nil {
			return err
		}
		return saveComponents(ctx, tx, tech)
	})
}

func saveComponents(ctx context.Context, db execer, tech *research.TechItem) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM tech_components WHERE tech_id = ?", tech.ID); err != nil {
		return err
	}
	for i, c := range tech.Components {
		_, err := db.ExecContext(ctx, `
			INSERT INTO tech_components (tech_id, position, name, speciality, difficulty, double_time)
			VALUES (?, ?, ?, ?, ?, ?)
		`, tech.ID, i, c.Name, string(c.Speciality), c.Difficulty, c.DoubleTime)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetTech retrieves a technology with its components.
func (s *Store) GetTech(ctx context.Context, id string) (*research.TechItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tech research.TechItem
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, year FROM technologies WHERE id = ?", id,
	).Scan(&tech.ID, &tech.Name, &tech.Year)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrTechNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if tech.Components, err = s.loadComponents(ctx, tech.ID); err != nil {
		return nil, err
	}
	return &tech, nil
}

// ListTechs returns all technologies ordered by year, then name.
func (s *Store) ListTechs(ctx context.Context) ([]*research.TechItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, year FROM technologies ORDER BY year, name",
	)
	if err != nil {
		return nil, err
	}

	var techs []*research.TechItem
	for rows.Next() {
		var tech research.TechItem
		if err := rows.Scan(&tech.ID, &tech.Name, &tech.Year); err != nil {
			rows.Close()
			return nil, err
		}
		techs = append(techs, &tech)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, tech := range techs {
		if tech.Components, err = s.loadComponents(ctx, tech.ID); err != nil {
			return nil, err
		}
	}
	return techs, nil
}

func (s *Store) loadComponents(ctx context.Context, techID string) ([]research.TechComponent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, speciality, difficulty, double_time
		FROM tech_components WHERE tech_id = ? ORDER BY position
	`, techID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	components := []research.TechComponent{}
	for rows.Next() {
		var c research.TechComponent
		var sp string
		if err := rows.Scan(&c.Name, &sp, &c.Difficulty, &c.DoubleTime); err != nil {
			return nil, err
		}
		c.Speciality = research.Speciality(sp)
		components = append(components, c)
	}
	return components, rows.Err()
}

// DeleteTech removes a technology and its components.
func (s *Store) DeleteTech(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deleteByID(ctx, s.db, "technologies", id, ErrTechNotFound)
}

// =============================================================================
// TEAM STORE
// =============================================================================

// SaveTeam inserts or replaces a team and its specialities.
func (s *Store) SaveTeam(ctx context.Context, team *research.Team) error {
	if team.ID == "" {
		return fmt.Errorf("team id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO teams (id, name, country, skill, start_year, end_year, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				country = excluded.country,
				skill = excluded.skill,
				start_year = excluded.start_year,
				end_year = excluded.end_year
		`, team.ID, team.Name, team.Country, team.Skill, team.StartYear, team.EndYear,
			time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM team_specialities WHERE team_id = ?", team.ID); err != nil {
			return err
		}
		for i, sp := range team.Specialities {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO team_specialities (team_id, position, speciality) VALUES (?, ?, ?)",
				team.ID, i, string(sp))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTeam retrieves a team with its specialities.
func (s *Store) GetTeam(ctx context.Context, id string) (*research.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var team research.Team
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, country, skill, start_year, end_year FROM teams WHERE id = ?", id,
	).Scan(&team.ID, &team.Name, &team.Country, &team.Skill, &team.StartYear, &team.EndYear)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if team.Specialities, err = s.loadSpecialities(ctx, team.ID); err != nil {
		return nil, err
	}
	return &team, nil
}

// ListTeams returns all teams ordered by country, then name. Ranking ties
// keep this order.
func (s *Store) ListTeams(ctx context.Context) ([]*research.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, country, skill, start_year, end_year FROM teams ORDER BY country, name, id",
	)
	if err != nil {
		return nil, err
	}

	var teams []*research.Team
	for rows.Next() {
		var team research.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Country, &team.Skill, &team.StartYear, &team.EndYear); err != nil {
			rows.Close()
			return nil, err
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, team := range teams {
		if team.Specialities, err = s.loadSpecialities(ctx, team.ID); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (s *Store) loadSpecialities(ctx context.Context, teamID string) ([]research.Speciality, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT speciality FROM team_specialities WHERE team_id = ? ORDER BY position", teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specialities []research.Speciality
	for rows.Next() {
		var sp string
		if err := rows.Scan(&sp); err != nil {
			return nil, err
		}
		specialities = append(specialities, research.Speciality(sp))
	}
	return specialities, rows.Err()
}

// DeleteTeam removes a team and its specialities.
func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deleteByID(ctx, s.db, "teams", id, ErrTeamNotFound)
}

// =============================================================================
// RULESET STORE
// =============================================================================

// RulesetRecord is a stored, named ruleset.
type RulesetRecord struct {
	ID        string
	Name      string
	Rules     research.Ruleset
	Active    bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveRuleset inserts or updates a ruleset. Saving an active record
// deactivates every other one.
func (s *Store) SaveRuleset(ctx context.Context, rec RulesetRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("ruleset id is required")
	}
	configJSON, err := json.Marshal(s.factory.RulesetToJSON(rec.Rules))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if rec.Active {
			if _, err := tx.ExecContext(ctx, "UPDATE rulesets SET active = FALSE WHERE id != ?", rec.ID); err != nil {
				return err
			}
		}

		now := time.Now().UTC().Format(time.RFC3339)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rulesets (id, name, game, config_json, active, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				game = excluded.game,
				config_json = excluded.config_json,
				active = excluded.active,
				version = rulesets.version + 1,
				updated_at = excluded.updated_at
		`, rec.ID, rec.Name, string(rec.Rules.Game), string(configJSON), rec.Active, now, now)
		return err
	})
}

// ActivateRuleset marks a stored ruleset as the active one.
func (s *Store) ActivateRuleset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE rulesets SET active = FALSE WHERE active"); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "UPDATE rulesets SET active = TRUE WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrRulesetNotFound, id)
		}
		return nil
	})
}

const rulesetColumns = "id, name, config_json, active, version, created_at, updated_at"

// GetRuleset retrieves a ruleset by ID.
func (s *Store) GetRuleset(ctx context.Context, id string) (*RulesetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.scanRuleset(s.db.QueryRowContext(ctx,
		"SELECT "+rulesetColumns+" FROM rulesets WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRulesetNotFound, id)
	}
	return rec, err
}

// GetActiveRuleset returns the active ruleset.
func (s *Store) GetActiveRuleset(ctx context.Context) (*RulesetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.scanRuleset(s.db.QueryRowContext(ctx,
		"SELECT "+rulesetColumns+" FROM rulesets WHERE active"))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no active ruleset", ErrRulesetNotFound)
	}
	return rec, err
}

// ListRulesets returns all rulesets ordered by name.
func (s *Store) ListRulesets(ctx context.Context) ([]RulesetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+rulesetColumns+" FROM rulesets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RulesetRecord
	for rows.Next() {
		rec, err := s.scanRuleset(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// DeleteRuleset removes a ruleset.
func (s *Store) DeleteRuleset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deleteByID(ctx, s.db, "rulesets", id, ErrRulesetNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanRuleset(row scanner) (*RulesetRecord, error) {
	var rec RulesetRecord
	var configJSON, createdAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.Name, &configJSON, &rec.Active, &rec.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var rj factory.RulesetJSON
	if err := json.Unmarshal([]byte(configJSON), &rj); err != nil {
		return nil, fmt.Errorf("ruleset %s: corrupt config: %w", rec.ID, err)
	}
	rules, err := s.factory.RulesetFromJSON(rj)
	if err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", rec.ID, err)
	}
	rec.Rules = rules

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"tech_components", "technologies", "team_specialities", "teams", "rulesets"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	log.Printf("[Store] reset catalog")
	return nil
}

func deleteByID(ctx context.Context, db execer, table, id string, notFound error) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
