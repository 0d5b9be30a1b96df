package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/velocityridge/internal/audio"
	"github.com/tomz197/velocityridge/internal/audio/speaker"
	"github.com/tomz197/velocityridge/internal/config"
	"github.com/tomz197/velocityridge/internal/game"
	"github.com/tomz197/velocityridge/internal/loop"
	"github.com/tomz197/velocityridge/internal/score"
)

const defaultScoreFile = "velocityridge.scores"

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The terminal is the display, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("VR_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{ReportTimestamp: true, Prefix: "game"})

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

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := loop.NewClient(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Logger: logger,
		Game: game.Options{
			Config: &cfg,
			Audio:  cues,
			Store:  db.Store(score.DefaultKey),
		},
	})
	if err := c.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
