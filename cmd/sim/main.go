package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/cbodonnell/sus/pkg/bots"
	"github.com/cbodonnell/sus/pkg/collisions"
	"github.com/cbodonnell/sus/pkg/config"
	"github.com/cbodonnell/sus/pkg/game"
	"github.com/cbodonnell/sus/pkg/kinematic"
	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/queue"
	"github.com/cbodonnell/sus/pkg/repositories"
	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/cbodonnell/sus/pkg/roster"
	"github.com/cbodonnell/sus/pkg/state"
	"github.com/cbodonnell/sus/pkg/version"
	"github.com/cbodonnell/sus/pkg/workers"
)

type tally struct {
	crew      int
	impostors int
	undecided int
}

func main() {
	envFile := flag.String("env-file", ".env", "Optional file of SUS_ environment variables")
	games := flag.Int("games", 10, "Number of games to simulate")
	players := flag.Int("players", 0, "Players per game, overrides SUS_PLAYERS")
	seed := flag.Int64("seed", 0, "Seed of the first game, overrides SUS_SEED")
	maxTicks := flag.Uint64("max-ticks", 20000, "Tick limit per game")
	tickInterval := flag.Duration("tick-interval", 100*time.Microsecond, "Game loop interval")
	save := flag.Bool("save", false, "Save results to SUS_DATABASE_URL")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	logger := log.New(os.Stderr, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Starting simulator version %s", version.Get())

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *players != 0 {
		cfg.Players = *players
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	gameMap := collisions.NewDefaultMap()
	if cfg.MapFile != "" {
		layout, err := collisions.LoadLayout(cfg.MapFile)
		if err != nil {
			panic(fmt.Sprintf("Failed to load map: %v", err))
		}
		if gameMap, err = collisions.NewMap(layout); err != nil {
			panic(fmt.Sprintf("Failed to load map: %v", err))
		}
	}

	ctx := context.Background()
	var repository repositories.Repository
	if *save {
		repository, err = repositories.NewRepositoryFromURL(ctx, cfg.DatabaseURL, cfg.MigrationsDir)
		if err != nil {
			panic(fmt.Sprintf("Failed to create repository: %v", err))
		}
		defer repository.Close(ctx)
	}

	var total tally
	for i := 0; i < *games; i++ {
		gameSeed := cfg.Seed + int64(i)
		result, err := simulate(ctx, cfg, gameMap, gameSeed, *maxTicks, *tickInterval)
		if err != nil {
			panic(fmt.Sprintf("Failed to simulate game %d: %v", i, err))
		}
		if result == nil {
			total.undecided++
			fmt.Printf("game=%d seed=%d undecided after %d ticks\n", i, gameSeed, *maxTicks)
			continue
		}

		switch result.Winner {
		case "crewmate":
			total.crew++
		case "impostor":
			total.impostors++
		}
		fmt.Printf("game=%d seed=%d winner=%s reason=%q rounds=%d\n", i, gameSeed, result.Winner, result.WinReason, result.Rounds)

		if repository != nil {
			if err := repository.SaveMatchResult(ctx, result); err != nil {
				log.Error("Failed to save match result %s: %v", result.ID, err)
			}
		}
	}

	fmt.Printf("games=%d crew=%d impostors=%d undecided=%d\n", *games, total.crew, total.impostors, total.undecided)
}

// simulate plays one game with scripted drivers. It returns nil when the tick limit is hit first.
func simulate(ctx context.Context, cfg *config.Config, gameMap *collisions.Map, seed int64, maxTicks uint64, tickInterval time.Duration) (*models.MatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	actionQueue := queue.NewInMemoryQueue(queue.QueueBufferSize)
	matchResultChan := make(chan *models.MatchResult, 1)
	observationChan := make(chan workers.ObservationBatch, 1)

	driver := bots.NewDriver(bots.NewDriverOptions{
		ActionQueue: actionQueue,
		Rand:        rand.New(rand.NewSource(seed + 1)),
		Options:     bots.DefaultOptions(),
		Waypoints:   roomCentres(gameMap),
	})
	observationWorker := workers.NewObservationWorker(workers.NewObservationWorkerOptions{
		Sinks:           []workers.ObservationSink{driver},
		ObservationChan: observationChan,
	})
	go observationWorker.Start(ctx)

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		ActionQueue:      actionQueue,
		Roster:           roster.New(cfg.Players, cfg.Providers, gameMap.SpawnPoint(), roster.Options{}),
		Oracle:           gameMap,
		StateManager:     state.NewInMemoryStateManager(),
		MatchResultChan:  matchResultChan,
		ObservationChan:  observationChan,
		GameLoopInterval: tickInterval,
		PhaseTimers: game.PhaseTimers{
			Discussion: cfg.DiscussionTime,
			Voting:     cfg.VotingTime,
		},
		MaxTicks:      maxTicks,
		ImpostorCount: cfg.Impostors,
		Seed:          seed,
	})
	if err := gameManager.Start(ctx); err != nil {
		return nil, err
	}

	select {
	case result := <-matchResultChan:
		return result, nil
	default:
		return nil, nil
	}
}

func roomCentres(m *collisions.Map) []kinematic.Vector {
	var centres []kinematic.Vector
	for _, room := range m.Layout().Rooms {
		if centre, ok := m.RoomCentre(room.Name); ok {
			centres = append(centres, centre)
		}
	}
	return centres
}
