package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/sus/pkg/api"
	"github.com/cbodonnell/sus/pkg/bots"
	"github.com/cbodonnell/sus/pkg/collisions"
	"github.com/cbodonnell/sus/pkg/config"
	"github.com/cbodonnell/sus/pkg/game"
	"github.com/cbodonnell/sus/pkg/kinematic"
	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/messages"
	"github.com/cbodonnell/sus/pkg/queue"
	"github.com/cbodonnell/sus/pkg/repositories"
	"github.com/cbodonnell/sus/pkg/repositories/models"
	"github.com/cbodonnell/sus/pkg/roster"
	"github.com/cbodonnell/sus/pkg/state"
	"github.com/cbodonnell/sus/pkg/version"
	"github.com/cbodonnell/sus/pkg/workers"
)

func main() {
	envFile := flag.String("env-file", ".env", "Optional file of SUS_ environment variables")
	port := flag.Int("port", 0, "API port to listen on, overrides SUS_API_PORT")
	logLevel := flag.String("log-level", "", "Log level, overrides SUS_LOG_LEVEL")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *port != 0 {
		cfg.APIPort = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameMap, err := loadMap(cfg.MapFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load map: %v", err))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	players := roster.New(cfg.Players, cfg.Providers, gameMap.SpawnPoint(), roster.Options{})

	repository, err := repositories.NewRepositoryFromURL(ctx, cfg.DatabaseURL, cfg.MigrationsDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(context.Background())

	actionQueue := queue.NewInMemoryQueue(queue.QueueBufferSize)
	stateManager := state.NewInMemoryStateManager()

	matchResultChannelSize := 1
	matchResultChan := make(chan *models.MatchResult, matchResultChannelSize)
	matchResultWorker := workers.NewMatchResultWorker(workers.NewMatchResultWorkerOptions{
		Repository:      repository,
		MatchResultChan: matchResultChan,
	})
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go matchResultWorker.Start(workerCtx)

	actionMessageChannelSize := 100
	actionMessageChan := make(chan *messages.Message, actionMessageChannelSize)
	actionMessageWorker := workers.NewActionMessageWorker(workers.NewActionMessageWorkerOptions{
		ActionMessageChan: actionMessageChan,
		ActionQueue:       actionQueue,
	})
	go actionMessageWorker.Start(ctx)

	sinks := []workers.ObservationSink{
		&workers.LogSink{Logger: log.With("component", "observations")},
	}
	if cfg.Bots {
		sinks = append(sinks, bots.NewDriver(bots.NewDriverOptions{
			ActionQueue: actionQueue,
			Rand:        rand.New(rand.NewSource(seed + 1)),
			Options:     bots.DefaultOptions(),
			Waypoints:   roomCentres(gameMap),
		}))
	}
	observationChannelSize := 1
	observationChan := make(chan workers.ObservationBatch, observationChannelSize)
	observationWorker := workers.NewObservationWorker(workers.NewObservationWorkerOptions{
		Sinks:           sinks,
		ObservationChan: observationChan,
	})
	go observationWorker.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:              cfg.APIPort,
		StateManager:      stateManager,
		Repository:        repository,
		ActionMessageChan: actionMessageChan,
		DriverToken:       cfg.DriverToken,
	})
	go apiServer.Start()

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		ActionQueue:      actionQueue,
		Roster:           players,
		Oracle:           gameMap,
		StateManager:     stateManager,
		MatchResultChan:  matchResultChan,
		ObservationChan:  observationChan,
		GameLoopInterval: cfg.TickInterval,
		PhaseTimers: game.PhaseTimers{
			Discussion: cfg.DiscussionTime,
			Voting:     cfg.VotingTime,
		},
		MaxTicks:      cfg.MaxTicks,
		ImpostorCount: cfg.Impostors,
		Seed:          seed,
	})

	// Gracefully handle Ctrl+C to stop the game
	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopSignal
		log.Info("Received stop signal, stopping game")
		cancel()
	}()

	log.Info("Starting game manager for match %s", gameManager.MatchID())
	if err := gameManager.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start game manager: %v", err))
	}

	// the API stays up after the game ends until the process is stopped
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}

	stopWorkers()
	<-matchResultWorker.Done()
	log.Info("Server stopped")
}

func loadMap(path string) (*collisions.Map, error) {
	if path == "" {
		return collisions.NewDefaultMap(), nil
	}
	layout, err := collisions.LoadLayout(path)
	if err != nil {
		return nil, err
	}
	return collisions.NewMap(layout)
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
