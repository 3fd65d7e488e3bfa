package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cbodonnell/keygrid/client/sim"
	"github.com/cbodonnell/keygrid/pkg/config"
	"github.com/cbodonnell/keygrid/pkg/games"
	"github.com/cbodonnell/keygrid/pkg/host"
	"github.com/cbodonnell/keygrid/pkg/log"
	"github.com/cbodonnell/keygrid/pkg/scores"
	"github.com/cbodonnell/keygrid/pkg/sound"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	scoreBackend := flag.String("score-backend", cfg.ScoreBackend, "High score backend (file, sqlite, postgres)")
	scoresFile := flag.String("scores-file", cfg.ScoresFile, "Path to the high score file")
	sqlitePath := flag.String("sqlite-path", cfg.SQLitePath, "Path to the sqlite database")
	volume := flag.Int("volume", cfg.Volume, "Initial volume (0-5)")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newScoreStore(ctx, *scoreBackend, *scoresFile, *sqlitePath, cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to create score store: %v", err))
	}
	defer store.Close(ctx)

	simulator := sim.NewSimulator()
	speaker := sim.NewSpeaker()

	h := host.NewHost(host.NewHostOptions{
		Input: simulator,
		Devices: games.Devices{
			Lights:  simulator,
			Display: simulator,
			Sound:   sound.NewManager(speaker, *volume),
		},
		Store: store,
	})
	go func() {
		if err := h.Start(ctx); err != nil && err != context.Canceled {
			log.Error("host stopped: %v", err)
		}
	}()

	ebiten.SetWindowSize(sim.ScreenWidth*2, sim.ScreenHeight*2)
	ebiten.SetWindowTitle("KeyGrid Games")
	if err := ebiten.RunGame(simulator); err != nil {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}

func newScoreStore(ctx context.Context, backend, filePath, sqlitePath, databaseURL string) (scores.Store, error) {
	switch backend {
	case "file":
		return scores.NewFileStore(filePath), nil
	case "sqlite":
		return scores.NewSQLiteStore(ctx, sqlitePath)
	case "postgres":
		if databaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable must be set")
		}
		return scores.NewPostgresStore(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("unknown score backend %q", backend)
	}
}
