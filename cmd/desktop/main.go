package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/velocityridge/internal/audio"
	"github.com/tomz197/velocityridge/internal/audio/speaker"
	"github.com/tomz197/velocityridge/internal/config"
	"github.com/tomz197/velocityridge/internal/desktop"
	"github.com/tomz197/velocityridge/internal/game"
	"github.com/tomz197/velocityridge/internal/score"
)

const defaultScoreFile = "velocityridge.scores"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "desktop"})
	if err := config.Load(); err != nil {
		logger.Fatal("loading config", "err", err)
	}

	cfg := game.DefaultConfig()
	cfg.BaseTime = config.GetEnvFloat("VR_BASE_TIME", cfg.BaseTime)

	var cues audio.Player = audio.Nop{}
	if config.GetEnv("VR_AUDIO", "on") != "off" {
		if spk, err := speaker.New(); err != nil {
			logger.Warn("audio unavailable", "err", err)
		} else {
			defer spk.Close()
			cues = spk
		}
	}

	db := score.OpenFile(config.GetEnv("VR_SCORE_FILE", defaultScoreFile))
	g := desktop.New(game.Options{
		Config: &cfg,
		Audio:  cues,
		Store:  db.Store(score.DefaultKey),
		Logger: logger,
	})

	ebiten.SetWindowSize(desktop.InitialWidth, desktop.InitialHeight)
	ebiten.SetWindowTitle("Velocity Ridge")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}
