// Package persistence provides SQLite-based world state storage. Saves
// capture every company mid-plan — planner state, sub-step, scratch
// cursors and the random stream — together with the company-built map
// elements, stations and vehicles, so a reloaded session resumes the
// exact same construction sequence against the same world assets.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/engine"
	"github.com/talgya/tycoon-world/internal/gamerand"
	"github.com/talgya/tycoon-world/internal/world"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id INTEGER PRIMARY KEY,
		external_id TEXT NOT NULL,
		name TEXT NOT NULL,
		is_player INTEGER NOT NULL,
		funds INTEGER NOT NULL,
		loan INTEGER NOT NULL,
		flags INTEGER NOT NULL,
		intelligence INTEGER NOT NULL,
		aggressiveness INTEGER NOT NULL,
		competitiveness INTEGER NOT NULL,
		playstyle INTEGER NOT NULL,
		home_town INTEGER NOT NULL,
		started_day INTEGER NOT NULL,
		hq_x INTEGER NOT NULL,
		hq_y INTEGER NOT NULL,
		hq_z INTEGER NOT NULL,
		has_hq INTEGER NOT NULL,
		state INTEGER NOT NULL,
		sub_step INTEGER NOT NULL,
		active_thought INTEGER NOT NULL,
		idle_counter INTEGER NOT NULL,
		placement_attempts INTEGER NOT NULL,
		bridge_choices TEXT NOT NULL,
		repeat_archetype INTEGER NOT NULL,
		revenue_estimate INTEGER NOT NULL,
		scratch_json TEXT NOT NULL,
		thoughts_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS map_elements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stations (
		id INTEGER PRIMARY KEY,
		owner INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		base_z INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY,
		owner INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// companyRow is the flat scan target for company records.
type companyRow struct {
	ID                int64  `db:"id"`
	ExternalID        string `db:"external_id"`
	Name              string `db:"name"`
	IsPlayer          int    `db:"is_player"`
	Funds             int64  `db:"funds"`
	Loan              int64  `db:"loan"`
	Flags             uint16 `db:"flags"`
	Intelligence      uint8  `db:"intelligence"`
	Aggressiveness    uint8  `db:"aggressiveness"`
	Competitiveness   uint8  `db:"competitiveness"`
	Playstyle         uint16 `db:"playstyle"`
	HomeTown          int64  `db:"home_town"`
	StartedDay        uint32 `db:"started_day"`
	HQX               int32  `db:"hq_x"`
	HQY               int32  `db:"hq_y"`
	HQZ               int32  `db:"hq_z"`
	HasHQ             int    `db:"has_hq"`
	State             uint8  `db:"state"`
	SubStep           uint8  `db:"sub_step"`
	ActiveThought     uint8  `db:"active_thought"`
	IdleCounter       uint16 `db:"idle_counter"`
	PlacementAttempts uint16 `db:"placement_attempts"`
	BridgeChoices     string `db:"bridge_choices"`
	RepeatArchetype   uint8  `db:"repeat_archetype"`
	RevenueEstimate   int64  `db:"revenue_estimate"`
	ScratchJSON       string `db:"scratch_json"`
	ThoughtsJSON      string `db:"thoughts_json"`
}

// SaveCompanies writes all companies to the database (full replace).
func (db *DB) SaveCompanies(companies []*company.Company) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM companies"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO companies
		(id, external_id, name, is_player, funds, loan, flags,
		 intelligence, aggressiveness, competitiveness, playstyle, home_town,
		 started_day, hq_x, hq_y, hq_z, has_hq,
		 state, sub_step, active_thought, idle_counter, placement_attempts,
		 bridge_choices, repeat_archetype, revenue_estimate,
		 scratch_json, thoughts_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range companies {
		scratchJSON, _ := json.Marshal(c.Scratch)
		thoughtsJSON, _ := json.Marshal(c.Thoughts)
		bridgeJSON, _ := json.Marshal(c.BridgeChoices)

		isPlayer := 0
		if c.IsPlayer {
			isPlayer = 1
		}
		hasHQ := 0
		if c.HasHeadquarters {
			hasHQ = 1
		}

		_, err := stmt.Exec(
			c.ID, c.ExternalID.String(), c.Name, isPlayer, c.Funds, c.Loan, c.Flags,
			c.Intelligence, c.Aggressiveness, c.Competitiveness, c.Playstyle, c.HomeTown,
			c.StartedDay, c.HeadquartersPos.X, c.HeadquartersPos.Y, c.HeadquartersPos.Z, hasHQ,
			c.State, c.SubStep, c.ActiveThought, c.IdleCounter, c.PlacementAttempts,
			string(bridgeJSON), c.RepeatArchetype, c.RevenueEstimate,
			string(scratchJSON), string(thoughtsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert company %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// LoadCompanies reads every saved company in id order.
func (db *DB) LoadCompanies() ([]*company.Company, error) {
	var rows []companyRow
	if err := db.conn.Select(&rows, "SELECT * FROM companies ORDER BY id"); err != nil {
		return nil, fmt.Errorf("select companies: %w", err)
	}

	companies := make([]*company.Company, 0, len(rows))
	for _, r := range rows {
		c := company.New(world.CompanyID(r.ID), r.Name)
		if ext, err := uuid.Parse(r.ExternalID); err == nil {
			c.ExternalID = ext
		}
		c.IsPlayer = r.IsPlayer != 0
		c.Funds = r.Funds
		c.Loan = r.Loan
		c.Flags = company.StatusFlags(r.Flags)
		c.Intelligence = r.Intelligence
		c.Aggressiveness = r.Aggressiveness
		c.Competitiveness = r.Competitiveness
		c.Playstyle = company.PlaystyleFlags(r.Playstyle)
		c.HomeTown = world.TownID(r.HomeTown)
		c.StartedDay = r.StartedDay
		c.HeadquartersPos = world.Pos3{X: r.HQX, Y: r.HQY, Z: r.HQZ}
		c.HasHeadquarters = r.HasHQ != 0
		c.State = company.ThinkState(r.State)
		c.SubStep = r.SubStep
		c.ActiveThought = r.ActiveThought
		c.IdleCounter = r.IdleCounter
		c.PlacementAttempts = r.PlacementAttempts
		c.RepeatArchetype = r.RepeatArchetype
		c.RevenueEstimate = r.RevenueEstimate

		if err := json.Unmarshal([]byte(r.BridgeChoices), &c.BridgeChoices); err != nil {
			return nil, fmt.Errorf("company %d bridge choices: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.ScratchJSON), &c.Scratch); err != nil {
			return nil, fmt.Errorf("company %d scratch: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.ThoughtsJSON), &c.Thoughts); err != nil {
			return nil, fmt.Errorf("company %d thoughts: %w", r.ID, err)
		}

		companies = append(companies, c)
	}
	return companies, nil
}

type elementRow struct {
	ID   int64  `db:"id"`
	X    int32  `db:"x"`
	Y    int32  `db:"y"`
	Data string `db:"data"`
}

type stationRow struct {
	ID    int64 `db:"id"`
	Owner int64 `db:"owner"`
	X     int32 `db:"x"`
	Y     int32 `db:"y"`
	BaseZ uint8 `db:"base_z"`
}

type vehicleRow struct {
	ID    int64  `db:"id"`
	Owner int64  `db:"owner"`
	Data  string `db:"data"`
}

// SaveWorldAssets writes the company-built map elements, the station
// table and the vehicle table (full replace). Terrain, towns, buildings
// and industries regenerate from the seed and are not stored.
func (db *DB) SaveWorldAssets(m *world.Map) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"map_elements", "stations", "vehicles"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	elStmt, err := tx.Preparex("INSERT INTO map_elements (x, y, data) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer elStmt.Close()

	var insertErr error
	m.EachTileInBox(world.TilePos{}, world.TilePos{X: m.Cols - 1, Y: m.Rows - 1},
		func(tp world.TilePos, tile *world.Tile) {
			if insertErr != nil {
				return
			}
			for _, el := range tile.Elements {
				if el.Owner == world.NullCompanyID {
					continue
				}
				data, _ := json.Marshal(el)
				p := world.ToWorld(tp)
				if _, err := elStmt.Exec(p.X, p.Y, string(data)); err != nil {
					insertErr = fmt.Errorf("insert element at %v: %w", tp, err)
					return
				}
			}
		})
	if insertErr != nil {
		return insertErr
	}

	for _, s := range m.Stations.All() {
		_, err := tx.Exec("INSERT INTO stations (id, owner, x, y, base_z) VALUES (?, ?, ?, ?, ?)",
			s.ID, s.Owner, s.Pos.X, s.Pos.Y, s.BaseZ)
		if err != nil {
			return fmt.Errorf("insert station %d: %w", s.ID, err)
		}
	}

	for _, v := range m.Vehicles.All() {
		data, _ := json.Marshal(v)
		if _, err := tx.Exec("INSERT INTO vehicles (id, owner, data) VALUES (?, ?, ?)",
			v.ID, v.Owner, string(data)); err != nil {
			return fmt.Errorf("insert vehicle %d: %w", v.ID, err)
		}
	}

	return tx.Commit()
}

// LoadWorldAssets restores saved elements, stations and vehicles into a
// freshly regenerated map.
func (db *DB) LoadWorldAssets(m *world.Map) error {
	var elRows []elementRow
	if err := db.conn.Select(&elRows, "SELECT * FROM map_elements ORDER BY id"); err != nil {
		return fmt.Errorf("select map elements: %w", err)
	}
	for _, r := range elRows {
		el := &world.Element{}
		if err := json.Unmarshal([]byte(r.Data), el); err != nil {
			return fmt.Errorf("element %d: %w", r.ID, err)
		}
		m.InsertElement(world.Pos2{X: r.X, Y: r.Y}, el)
	}

	var stRows []stationRow
	if err := db.conn.Select(&stRows, "SELECT * FROM stations ORDER BY id"); err != nil {
		return fmt.Errorf("select stations: %w", err)
	}
	for _, r := range stRows {
		m.Stations.Restore(&world.Station{
			ID:    world.StationID(r.ID),
			Owner: world.CompanyID(r.Owner),
			Pos:   world.Pos2{X: r.X, Y: r.Y},
			BaseZ: r.BaseZ,
		})
	}

	var vRows []vehicleRow
	if err := db.conn.Select(&vRows, "SELECT * FROM vehicles ORDER BY id"); err != nil {
		return fmt.Errorf("select vehicles: %w", err)
	}
	for _, r := range vRows {
		v := &world.Vehicle{}
		if err := json.Unmarshal([]byte(r.Data), v); err != nil {
			return fmt.Errorf("vehicle %d: %w", r.ID, err)
		}
		m.Vehicles.Restore(v)
	}

	return nil
}

// HasWorldState reports whether the database holds a saved game.
func (db *DB) HasWorldState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM companies"); err != nil {
		return false
	}
	return count > 0
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// SaveRandState stores the generator words so a reload continues the
// same draw sequence.
func (db *DB) SaveRandState(s *gamerand.Stream) error {
	if err := db.SaveMeta("rand_s0", fmt.Sprintf("%d", s.S0)); err != nil {
		return err
	}
	return db.SaveMeta("rand_s1", fmt.Sprintf("%d", s.S1))
}

// LoadRandState restores the generator words into an existing stream.
func (db *DB) LoadRandState(s *gamerand.Stream) error {
	v0, err := db.GetMeta("rand_s0")
	if err != nil {
		return err
	}
	v1, err := db.GetMeta("rand_s1")
	if err != nil {
		return err
	}
	if _, err := fmt.Sscanf(v0, "%d", &s.S0); err != nil {
		return fmt.Errorf("rand_s0: %w", err)
	}
	if _, err := fmt.Sscanf(v1, "%d", &s.S1); err != nil {
		return fmt.Errorf("rand_s1: %w", err)
	}
	return nil
}

// SaveWorldState performs a full save of all mutable simulation state.
func (db *DB) SaveWorldState(sim *engine.Simulation) error {
	companies := sim.Companies.All()
	slog.Info("saving world state", "companies", len(companies), "tick", sim.CurrentTick())

	if err := db.SaveCompanies(companies); err != nil {
		return fmt.Errorf("save companies: %w", err)
	}
	if err := db.SaveWorldAssets(sim.WorldMap); err != nil {
		return fmt.Errorf("save world assets: %w", err)
	}
	if err := db.SaveEvents(sim.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveRandState(sim.AI.Rand); err != nil {
		return fmt.Errorf("save rand state: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", sim.CurrentTick())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("world state saved")
	return nil
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
