package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	persistlog "arklift/internal/persistence/log"
	"arklift/internal/persistence/runindex"
	"arklift/internal/sim/players"
	"arklift/internal/sim/scenario"
	"arklift/internal/sim/tuning"
	"arklift/internal/sim/world"
)

func main() {
	var (
		configDir    = flag.String("configs", "./configs", "config directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		scenarioPath = flag.String("scenario", "", "path to scenario json (default: <configs>/scenario.json)")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		seed         = flag.Int64("seed", 0, "override the scenario seed (0 keeps the scenario's)")
		turns        = flag.Int("turns", 0, "override the scenario turn count (0 keeps the scenario's)")
		disableDB    = flag.Bool("disable_db", false, "disable the run index db")
		disableLog   = flag.Bool("disable_log", false, "disable the per-turn telemetry log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[arklift] ", log.LstdFlags|log.Lmicroseconds)
	os.Exit(run(logger, *configDir, *tuningPath, *scenarioPath, *dataDir, *seed, *turns, *disableDB, *disableLog))
}

// run is main minus os.Exit so closes happen before the process dies.
func run(logger *log.Logger, configDir, tuningPath, scenarioPath, dataDir string,
	seed int64, turns int, disableDB, disableLog bool) int {

	tp := strings.TrimSpace(tuningPath)
	if tp == "" {
		tp = filepath.Join(configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("load tuning: %v", err)
			return 1
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	sp := strings.TrimSpace(scenarioPath)
	if sp == "" {
		sp = filepath.Join(configDir, "scenario.json")
	}
	sc, err := scenario.Load(sp)
	if err != nil {
		logger.Printf("load scenario: %v", err)
		return 1
	}
	if seed != 0 {
		sc.Seed = seed
	}
	if turns != 0 {
		sc.TotalTurns = turns
	}
	pops, err := sc.Populations()
	if err != nil {
		logger.Printf("scenario populations: %v", err)
		return 1
	}

	cfg := world.Config{
		GridWidth:             tune.GridWidth,
		GridHeight:            tune.GridHeight,
		ArkX:                  sc.Ark[0],
		ArkY:                  sc.Ark[1],
		TotalTurns:            sc.TotalTurns,
		Seed:                  sc.Seed,
		SightRadiusKM:         tune.SightRadiusKM,
		MaxMoveKM:             tune.MaxMoveKM,
		MaxFlockSize:          tune.MaxFlockSize,
		RainLeadTurns:         tune.RainLeadTurns,
		AnimalMoveProbability: tune.AnimalMoveProbability,
	}

	specs := make([]world.HelperSpec, 0, len(sc.Helpers))
	for i, h := range sc.Helpers {
		strat, err := players.New(h.Strategy, players.Config{
			ID:           i,
			Kind:         h.Kind,
			ArkX:         cfg.ArkX,
			ArkY:         cfg.ArkY,
			GridWidth:    cfg.GridWidth,
			GridHeight:   cfg.GridHeight,
			NumHelpers:   len(sc.Helpers),
			TotalTurns:   cfg.TotalTurns,
			MaxMoveKM:    cfg.MaxMoveKM,
			MaxFlockSize: cfg.MaxFlockSize,
			Populations:  pops,
		})
		if err != nil {
			logger.Printf("helper %d: %v", i, err)
			return 1
		}
		specs = append(specs, world.HelperSpec{Kind: h.Kind, Strategy: strat})
	}

	eng, err := world.New(cfg, specs)
	if err != nil {
		logger.Printf("engine: %v", err)
		return 1
	}
	if err := eng.ScatterAnimals(pops); err != nil {
		logger.Printf("scatter animals: %v", err)
		return 1
	}

	runID := uuid.NewString()
	logger.Printf("run %s: scenario=%s seed=%d turns=%d helpers=%d species=%d",
		runID, sc.Name, sc.Seed, sc.TotalTurns, len(sc.Helpers), len(pops))

	var turnLog *persistlog.TurnLogger
	if !disableLog {
		turnLog, err = persistlog.NewTurnLogger(dataDir, runID)
		if err != nil {
			logger.Printf("open turn log: %v", err)
			return 1
		}
		eng.SetTurnLogger(turnLog)
	}

	started := time.Now()
	runErr := eng.RunSimulation()
	finished := time.Now()

	if turnLog != nil {
		if err := turnLog.Close(); err != nil {
			logger.Printf("close turn log: %v", err)
		}
	}

	ark := eng.Ark()
	stats := eng.Stats()
	score := ark.CompletePairs()
	digest := eng.StateDigest(stats.Turns)

	fatal := ""
	if runErr != nil {
		fatal = runErr.Error()
		var fe *world.FatalError
		if errors.As(runErr, &fe) {
			logger.Printf("run aborted at turn %d: %s: %s", stats.Turns, fe.Code, fe.Detail)
		} else {
			logger.Printf("run aborted at turn %d: %v", stats.Turns, runErr)
		}
	}

	if !disableDB {
		idx, err := runindex.Open(filepath.Join(dataDir, "index", "runs.db"))
		if err != nil {
			logger.Printf("open run index: %v", err)
		} else {
			rec := runindex.Run{
				ID:         runID,
				Scenario:   sc.Name,
				StartedAt:  started,
				FinishedAt: finished,
				Seed:       sc.Seed,
				Turns:      stats.Turns,
				Helpers:    len(sc.Helpers),
				Species:    len(pops),
				Delivered:  ark.DeliveredCount(),
				Pairs:      ark.CompletePairs(),
				Score:      score,
				Digest:     digest,
				Fatal:      fatal,
			}
			if err := idx.RecordRun(rec); err != nil {
				logger.Printf("record run: %v", err)
			}
			if err := idx.Close(); err != nil {
				logger.Printf("close run index: %v", err)
			}
		}
	}

	logger.Printf("turns=%d messages=%d obtains=%d releases=%d moves=%d migrations=%d",
		stats.Turns, stats.MessagesRouted, stats.Obtains, stats.Releases, stats.Moves, stats.Migrations)
	logger.Printf("delivered=%d pairs=%d digest=%s", ark.DeliveredCount(), ark.CompletePairs(), digest)
	fmt.Printf("SCORE=%d\n", score)

	if runErr != nil {
		return 1
	}
	return 0
}
