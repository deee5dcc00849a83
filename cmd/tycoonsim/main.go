// Command tycoonsim runs the transport company simulation: competitor
// companies plan, trial-build and operate routes on a generated world.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tycoon-world/internal/ai"
	"github.com/talgya/tycoon-world/internal/catalog"
	"github.com/talgya/tycoon-world/internal/commands"
	"github.com/talgya/tycoon-world/internal/company"
	"github.com/talgya/tycoon-world/internal/engine"
	"github.com/talgya/tycoon-world/internal/gamerand"
	"github.com/talgya/tycoon-world/internal/persistence"
	"github.com/talgya/tycoon-world/internal/world"
)

var competitorNames = []string{
	"Northern Star Transport",
	"Redhill Freight Co.",
	"Coastal & Inland Railways",
	"Skyline Carriers",
	"Greenvale Haulage",
	"Ironbridge Transit",
	"Harborline Shipping",
	"Summit Express",
	"Valley Junction Lines",
	"Crosswind Aviation",
	"Millbrook Cartage",
	"Two Rivers Transport",
	"Granite Peak Railways",
	"Lakeside Motorways",
	"Meridian Freight",
}

func main() {
	seed := flag.Int64("seed", 42, "world generation and AI seed")
	dbPath := flag.String("db", "data/tycoon.db", "world state database path")
	numCompanies := flag.Int("companies", 8, "number of AI companies")
	startFunds := flag.Int64("funds", 100000, "starting funds per company")
	maxLoan := flag.Int64("max-loan", 200000, "loan limit per company")
	speed := flag.Float64("speed", 1, "tick speed multiplier (0 = paused)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Tycoon World — Transport Company Simulation", "seed", *seed)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(*dbPath), 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	// ── World Map (terrain regenerated from seed; built assets load
	// from the save below) ────────────────────────────────────────────
	slog.Info("generating world map...")
	cfg := world.DefaultGenConfig()
	cfg.Seed = *seed
	worldMap := world.Generate(cfg)
	slog.Info("world ready",
		"tiles", cfg.Cols*cfg.Rows,
		"towns", len(worldMap.Towns),
		"industries", len(worldMap.Industries),
	)

	cat := catalog.Default()
	eco := catalog.NewEconomy()
	rand := gamerand.NewStream(uint64(*seed))
	mgr := company.NewManager(*maxLoan)
	exec := commands.NewExecutor(worldMap, cat, eco, mgr)

	ctx := &ai.Context{
		Map:       worldMap,
		Catalog:   cat,
		Economy:   eco,
		Exec:      exec,
		Companies: mgr,
		Rand:      rand,
		Log:       logger,
		Year:      engine.StartYear,
	}

	// ── Load or Generate Companies ────────────────────────────────────
	var startTick uint64

	if db.HasWorldState() {
		slog.Info("found saved world state, loading...")

		loaded, loadErr := db.LoadCompanies()
		if loadErr != nil {
			slog.Error("failed to load companies", "error", loadErr)
			os.Exit(1)
		}
		for _, c := range loaded {
			mgr.Add(c)
		}

		if err := db.LoadRandState(rand); err != nil {
			slog.Error("failed to load random stream", "error", err)
			os.Exit(1)
		}
		if err := db.LoadWorldAssets(worldMap); err != nil {
			slog.Error("failed to load world assets", "error", err)
			os.Exit(1)
		}
		if tickStr, err := db.GetMeta("last_tick"); err == nil {
			if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
				startTick = t
			}
		}

		slog.Info("world state restored",
			"companies", len(loaded),
			"tick", startTick,
			"sim_time", engine.SimTime(startTick),
		)
	} else {
		slog.Info("no saved state found, founding companies...")
		foundCompanies(mgr, rand, worldMap, *numCompanies, *startFunds)
	}

	ctx.Day = engine.Day(startTick)
	ctx.Year = engine.Year(startTick)

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(worldMap, cat, eco, mgr, ctx)
	sim.LastTick = startTick

	// Save on fresh generation only (loaded worlds are already saved).
	if startTick == 0 {
		if err := db.SaveWorldState(sim); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	eng := engine.NewEngine()
	eng.Tick = startTick
	eng.Speed = *speed

	// Wire tick callbacks — auto-save every sim-day.
	eng.OnTick = sim.TickStep
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		if err := db.SaveWorldState(sim); err != nil {
			slog.Error("daily save failed", "error", err)
		}
	}
	eng.OnMonth = sim.TickMonth
	eng.OnYear = sim.TickYear

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\n%d companies founded with %s apiece across %d towns.\n",
		len(mgr.All()), humanize.Comma(*startFunds), len(worldMap.Towns))
	if startTick > 0 {
		fmt.Printf("Resuming from tick %d (%s)\n", startTick, engine.SimTime(startTick))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveWorldState(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. World state saved.")
}

// foundCompanies creates the AI competitors with ratings, playstyles and
// home towns drawn from the deterministic stream.
func foundCompanies(mgr *company.Manager, rand *gamerand.Stream, m *world.Map, count int, funds int64) {
	if count > len(competitorNames) {
		count = len(competitorNames)
	}
	for i := 0; i < count; i++ {
		c := company.New(world.CompanyID(i+1), competitorNames[i])
		c.Funds = funds

		draw := rand.Next()
		c.Intelligence = uint8(1 + gamerand.ScaledPick(draw, 0xFF, 9))
		c.Aggressiveness = uint8(1 + gamerand.ScaledPick(gamerand.Rotr(draw, 8), 0xFF, 9))
		c.Competitiveness = uint8(1 + gamerand.ScaledPick(gamerand.Rotr(draw, 16), 0xFF, 9))

		// Everyone may run trains and road freight; the other permissions
		// are coin flips so the field diverges.
		style := company.PlayLongTrainRoutes | company.PlayCargoRoad | company.PlayLoadAtOrigin
		bits := rand.Next()
		if bits&1 != 0 {
			style |= company.PlayPassengerRoad
		}
		if bits&2 != 0 {
			style |= company.PlayTownTrams
		}
		if bits&4 != 0 {
			style |= company.PlayAir
		}
		if bits&8 != 0 {
			style |= company.PlayWater
		}
		if bits&16 != 0 {
			style |= company.PlayHomeTownBound
		}
		c.Playstyle = style

		if len(m.Towns) > 0 {
			pick := gamerand.ScaledPick(rand.Next(), 0x7F, len(m.Towns))
			c.HomeTown = m.Towns[pick].ID
		}

		mgr.Add(c)
		slog.Info("company founded",
			"name", c.Name,
			"intelligence", c.Intelligence,
			"aggressiveness", c.Aggressiveness,
			"competitiveness", c.Competitiveness,
			"home_town", c.HomeTown,
		)
	}
}
